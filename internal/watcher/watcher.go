// Package watcher hot-reloads the in-memory access token when another process
// rewrites the durable token file, so concurrent tools sharing an auth
// directory observe each other's logins and logouts.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"

	"github.com/izumi-house/siteclient/sdk/session"
)

const (
	// replaceCheckDelay is a short delay to allow atomic replace (rename) to
	// settle before deciding whether a Remove event indicates a real deletion.
	replaceCheckDelay = 50 * time.Millisecond
	reloadDebounce    = 150 * time.Millisecond
)

// Watcher observes the durable token file and mirrors external changes into
// the token store.
type Watcher struct {
	store   *session.TokenStore
	watcher *fsnotify.Watcher

	mu          sync.Mutex
	reloadTimer *time.Timer
	lastToken   string
}

// NewWatcher creates a watcher bound to the store's durable token file.
func NewWatcher(store *session.TokenStore) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{store: store, watcher: fsw}, nil
}

// Start begins watching. The enclosing directory is watched rather than the
// file itself because editors and other processes replace the file by rename.
func (w *Watcher) Start(ctx context.Context) error {
	path := w.store.DurablePath()
	if path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	if err := w.watcher.Add(dir); err != nil {
		return err
	}
	w.lastToken, _ = w.store.StoredToken()
	go w.loop(ctx, path)
	log.Debugf("watching durable token file %s", path)
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.reloadTimer != nil {
		w.reloadTimer.Stop()
		w.reloadTimer = nil
	}
	w.mu.Unlock()
	return w.watcher.Close()
}

func (w *Watcher) loop(ctx context.Context, path string) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				w.scheduleReload()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Debugf("token watcher error: %v", err)
		}
	}
}

// scheduleReload debounces bursts of events from an atomic replace into a
// single reload.
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.reloadTimer != nil {
		w.reloadTimer.Stop()
	}
	w.reloadTimer = time.AfterFunc(reloadDebounce, w.reload)
}

func (w *Watcher) reload() {
	time.Sleep(replaceCheckDelay)
	token, remember := w.store.StoredToken()

	w.mu.Lock()
	changed := token != w.lastToken
	w.lastToken = token
	w.mu.Unlock()

	if !changed {
		return
	}
	if token == "" {
		log.Info("durable token removed externally; clearing in-memory token")
		w.store.SetToken("", false, false)
		return
	}
	log.WithField("remember", remember).Info("durable token changed externally; reloading")
	w.store.SetToken(token, remember, false)
}
