package session

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// FileJar wraps the standard cookiejar.Jar, persisting cookies to a JSON file
// on every update and rehydrating them on startup. The server's refresh
// credential lives in an HttpOnly cookie, so keeping the jar on disk is what
// lets a remembered session survive process restarts.
type FileJar struct {
	mu    sync.RWMutex
	inner *cookiejar.Jar
	path  string
	index map[string]persistedCookie
}

type persistedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Domain   string    `json:"domain"`
	Path     string    `json:"path"`
	Expires  time.Time `json:"expires"`
	Secure   bool      `json:"secure"`
	HttpOnly bool      `json:"httpOnly"`
}

type cookieSnapshot struct {
	Cookies []persistedCookie `json:"cookies"`
}

// NewFileJar creates a cookie jar persisted at path. An empty path yields a
// purely in-memory jar.
func NewFileJar(path string) (*FileJar, error) {
	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	j := &FileJar{inner: inner, path: path, index: make(map[string]persistedCookie)}
	j.load()
	return j, nil
}

// Cookies implements http.CookieJar.
func (j *FileJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.inner.Cookies(u)
}

// SetCookies implements http.CookieJar and flushes the updated index to disk.
func (j *FileJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.inner.SetCookies(u, cookies)
	now := time.Now()
	for _, c := range cookies {
		domain := strings.TrimPrefix(strings.TrimSpace(c.Domain), ".")
		if domain == "" {
			host := u.Host
			if h, _, err := net.SplitHostPort(host); err == nil && h != "" {
				host = h
			}
			domain = host
		}
		path := c.Path
		if strings.TrimSpace(path) == "" {
			path = "/"
		}
		key := domain + "|" + path + "|" + c.Name
		expired := c.MaxAge < 0 || (!c.Expires.IsZero() && c.Expires.Before(now))
		if expired || c.Value == "" {
			delete(j.index, key)
			continue
		}
		j.index[key] = persistedCookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   domain,
			Path:     path,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		}
	}
	j.save()
}

func (j *FileJar) save() {
	if j.path == "" {
		return
	}
	snap := cookieSnapshot{Cookies: make([]persistedCookie, 0, len(j.index))}
	now := time.Now()
	for _, pc := range j.index {
		if !pc.Expires.IsZero() && pc.Expires.Before(now) {
			continue
		}
		snap.Cookies = append(snap.Cookies, pc)
	}
	data, err := json.MarshalIndent(&snap, "", "  ")
	if err != nil {
		return
	}
	if err = os.MkdirAll(filepath.Dir(j.path), 0o700); err != nil {
		return
	}
	_ = os.WriteFile(j.path, data, 0o600)
}

func (j *FileJar) load() {
	if j.path == "" {
		return
	}
	data, err := os.ReadFile(j.path)
	if err != nil {
		return
	}
	var snap cookieSnapshot
	if err = json.Unmarshal(data, &snap); err != nil {
		return
	}
	now := time.Now()
	for _, pc := range snap.Cookies {
		if !pc.Expires.IsZero() && pc.Expires.Before(now) {
			continue
		}
		key := pc.Domain + "|" + pc.Path + "|" + pc.Name
		j.index[key] = pc
		// Rehydrate into the inner jar via a synthetic request URL per domain.
		scheme := "http"
		if pc.Secure {
			scheme = "https"
		}
		u := &url.URL{Scheme: scheme, Host: pc.Domain, Path: pc.Path}
		j.inner.SetCookies(u, []*http.Cookie{{
			Name:     pc.Name,
			Value:    pc.Value,
			Path:     pc.Path,
			Expires:  pc.Expires,
			Secure:   pc.Secure,
			HttpOnly: pc.HttpOnly,
		}})
	}
}
