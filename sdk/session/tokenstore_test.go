package session

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) (*TokenStore, string, string) {
	t.Helper()
	dir := t.TempDir()
	durable := filepath.Join(dir, "durable", "auth_token")
	scoped := filepath.Join(dir, "session", "auth_token")
	return NewTokenStore(durable, scoped), durable, scoped
}

func fileContent(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ""
		}
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestStoredTokenEmpty(t *testing.T) {
	t.Parallel()
	store, _, _ := newTestStore(t)

	token, remember := store.StoredToken()
	if token != "" || remember {
		t.Fatalf("StoredToken() = (%q, %v), want (\"\", false)", token, remember)
	}
}

func TestSetTokenRemembered(t *testing.T) {
	t.Parallel()
	store, durable, scoped := newTestStore(t)

	store.SetToken("abc", true, true)

	if got := store.Token(); got != "abc" {
		t.Fatalf("Token() = %q, want %q", got, "abc")
	}
	token, remember := store.StoredToken()
	if token != "abc" || !remember {
		t.Fatalf("StoredToken() = (%q, %v), want (%q, true)", token, remember, "abc")
	}
	if got := fileContent(t, durable); got != "abc" {
		t.Fatalf("durable tier holds %q, want %q", got, "abc")
	}
	if got := fileContent(t, scoped); got != "" {
		t.Fatalf("session tier holds %q, want empty", got)
	}
}

func TestSetTokenSessionScoped(t *testing.T) {
	t.Parallel()
	store, durable, scoped := newTestStore(t)

	store.SetToken("old", true, true)
	store.SetToken("new", false, true)

	token, remember := store.StoredToken()
	if token != "new" || remember {
		t.Fatalf("StoredToken() = (%q, %v), want (%q, false)", token, remember, "new")
	}
	if got := fileContent(t, durable); got != "" {
		t.Fatalf("durable tier holds %q after session-scoped write, want empty", got)
	}
	if got := fileContent(t, scoped); got != "new" {
		t.Fatalf("session tier holds %q, want %q", got, "new")
	}
}

func TestDurableTierWinsWhenBothPresent(t *testing.T) {
	t.Parallel()
	store, durable, scoped := newTestStore(t)

	// Force both tiers to hold a value, which normal writes never produce.
	for _, p := range []string{durable, scoped} {
		if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(durable, []byte("from-durable"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(scoped, []byte("from-session"), 0o600); err != nil {
		t.Fatal(err)
	}

	token, remember := store.StoredToken()
	if token != "from-durable" || !remember {
		t.Fatalf("StoredToken() = (%q, %v), want (%q, true)", token, remember, "from-durable")
	}
}

func TestClearRemovesBothTiersAndMemory(t *testing.T) {
	t.Parallel()
	store, durable, scoped := newTestStore(t)

	store.SetToken("abc", true, true)
	store.SetToken("def", false, false) // memory only
	store.SetToken("", false, true)

	if got := store.Token(); got != "" {
		t.Fatalf("Token() = %q after clear, want empty", got)
	}
	if got := fileContent(t, durable); got != "" {
		t.Fatalf("durable tier holds %q after clear, want empty", got)
	}
	if got := fileContent(t, scoped); got != "" {
		t.Fatalf("session tier holds %q after clear, want empty", got)
	}
}

func TestSetTokenWithoutPersist(t *testing.T) {
	t.Parallel()
	store, durable, _ := newTestStore(t)

	store.SetToken("durable-token", true, true)
	store.SetToken("transient", true, false)

	if got := store.Token(); got != "transient" {
		t.Fatalf("Token() = %q, want %q", got, "transient")
	}
	if got := fileContent(t, durable); got != "durable-token" {
		t.Fatalf("durable tier changed to %q, want untouched %q", got, "durable-token")
	}
}

func TestStorageFailuresAreSwallowed(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	// A regular file where the tier's parent directory should be makes every
	// MkdirAll and write fail.
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	store := NewTokenStore(filepath.Join(blocker, "durable", "auth_token"), filepath.Join(blocker, "session", "auth_token"))

	store.SetToken("abc", true, true) // must not panic or error
	if got := store.Token(); got != "abc" {
		t.Fatalf("Token() = %q, want %q despite storage failure", got, "abc")
	}
	token, remember := store.StoredToken()
	if token != "" || remember {
		t.Fatalf("StoredToken() = (%q, %v), want (\"\", false) when storage unreadable", token, remember)
	}
}
