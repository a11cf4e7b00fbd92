// Package main provides the entry point for sitectl, a command-line client
// for the restaurant site API. It drives the authenticated session lifecycle
// (login, logout, who-am-i) and a handful of read commands useful for
// smoke-testing a deployment.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/izumi-house/siteclient/internal/buildinfo"
	"github.com/izumi-house/siteclient/internal/config"
	"github.com/izumi-house/siteclient/internal/logging"
	"github.com/izumi-house/siteclient/internal/util"
	"github.com/izumi-house/siteclient/internal/watcher"
	"github.com/izumi-house/siteclient/sdk/session"
	"github.com/izumi-house/siteclient/sdk/site"
)

var (
	Version           = "dev"
	Commit            = "none"
	BuildDate         = "unknown"
	DefaultConfigPath = ""
)

// init initializes the shared logger setup.
func init() {
	logging.SetupBaseLogger()
	buildinfo.Version = Version
	buildinfo.Commit = Commit
	buildinfo.BuildDate = BuildDate
}

func main() {
	var (
		configPath string
		doLogin    bool
		doLogout   bool
		doMe       bool
		doMenu     bool
		doDrinks   bool
		doEvents   bool
		day        int
		email      string
		password   string
		remember   bool
		showVer    bool
	)

	flag.StringVar(&configPath, "config", DefaultConfigPath, "Configure File Path")
	flag.BoolVar(&doLogin, "login", false, "Login with -email/-password")
	flag.BoolVar(&doLogout, "logout", false, "Logout and clear stored credentials")
	flag.BoolVar(&doMe, "me", false, "Show the authenticated user")
	flag.BoolVar(&doMenu, "menu", false, "Print the normalized public menu")
	flag.BoolVar(&doDrinks, "drinks", false, "Print the drinks menu")
	flag.BoolVar(&doEvents, "events", false, "Print currently active events")
	flag.IntVar(&day, "daily", -1, "Print the daily menu for weekday 0..6")
	flag.StringVar(&email, "email", "", "Login email")
	flag.StringVar(&password, "password", "", "Login password")
	flag.BoolVar(&remember, "remember", true, "Persist the session across restarts")
	flag.BoolVar(&showVer, "version", false, "Print version and exit")
	flag.Parse()

	if showVer {
		fmt.Printf("sitectl Version: %s, Commit: %s, BuiltAt: %s\n", buildinfo.Version, buildinfo.Commit, buildinfo.BuildDate)
		return
	}

	wd, err := os.Getwd()
	if err != nil {
		log.Errorf("failed to get working directory: %v", err)
		return
	}

	// Load environment variables from .env if present.
	if errLoad := godotenv.Load(filepath.Join(wd, ".env")); errLoad != nil {
		if !errors.Is(errLoad, os.ErrNotExist) {
			log.WithError(errLoad).Warn("failed to load .env file")
		}
	}

	if configPath == "" {
		configPath = filepath.Join(wd, "config.yaml")
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err = logging.ConfigureLogOutput(cfg); err != nil {
		log.Fatalf("failed to configure logging: %v", err)
	}
	if cfg.BaseURL == "" {
		log.Fatal("base-url is not configured (config file or SITE_API_BASE_URL)")
	}

	ctx := context.Background()

	store := session.NewTokenStore(cfg.DurableTokenPath(), cfg.SessionTokenPath())
	jar, err := session.NewFileJar(cfg.CookieJarPath())
	if err != nil {
		log.Fatalf("failed to create cookie jar: %v", err)
	}
	httpClient := util.SetProxy(cfg, &http.Client{Jar: jar})

	bus := session.NewBus()
	bus.Subscribe(func(kind session.EventKind) {
		log.Warnf("session expired; run sitectl -login to re-authenticate")
	})

	api := session.New(session.Options{
		BaseURL:    cfg.BaseURL,
		HTTPClient: httpClient,
		Timeout:    cfg.RequestTimeout(),
		Store:      store,
		Bus:        bus,
	})
	client := site.New(api)

	if cfg.WatchToken {
		w, errWatch := watcher.NewWatcher(store)
		if errWatch != nil {
			log.Warnf("token watcher unavailable: %v", errWatch)
		} else if errWatch = w.Start(ctx); errWatch != nil {
			log.Warnf("token watcher failed to start: %v", errWatch)
		} else {
			defer func() { _ = w.Stop() }()
		}
	}

	switch {
	case doLogin:
		if email == "" || password == "" {
			log.Fatal("-login requires -email and -password")
		}
		user, errLogin := api.Login(ctx, email, password, remember)
		if errLogin != nil {
			log.Fatalf("login failed: %v", errLogin)
		}
		fmt.Printf("logged in as %s\n", user.Email)
	case doLogout:
		api.Logout(ctx)
		fmt.Println("logged out")
	case doMe:
		user, errBoot := api.Bootstrap(ctx)
		if errBoot != nil {
			log.Fatalf("session verification failed: %v", errBoot)
		}
		if user == nil {
			fmt.Println("not logged in")
			return
		}
		printJSON(user)
	case doMenu:
		restoreSession(ctx, api)
		menu, errMenu := client.GetMenu(ctx, true)
		if errMenu != nil {
			log.Fatalf("fetch menu failed: %v", errMenu)
		}
		printJSON(menu)
	case doDrinks:
		restoreSession(ctx, api)
		sections, errDrinks := client.GetDrinksMenu(ctx)
		if errDrinks != nil {
			log.Fatalf("fetch drinks failed: %v", errDrinks)
		}
		printJSON(sections)
	case doEvents:
		restoreSession(ctx, api)
		events, errEvents := client.GetActiveEvents(ctx)
		if errEvents != nil {
			log.Fatalf("fetch events failed: %v", errEvents)
		}
		printJSON(events)
	case day >= 0:
		restoreSession(ctx, api)
		items, errDaily := client.GetDailyMenu(ctx, day)
		if errDaily != nil {
			log.Fatalf("fetch daily menu failed: %v", errDaily)
		}
		printJSON(items)
	default:
		flag.Usage()
	}
}

// restoreSession loads a stored token for commands that work either way:
// public endpoints succeed anonymously, admin ones need the session.
func restoreSession(ctx context.Context, api *session.Client) {
	if _, err := api.Bootstrap(ctx); err != nil {
		log.Debugf("no verified session: %v", err)
	}
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("encode output failed: %v", err)
	}
	fmt.Println(string(data))
}
