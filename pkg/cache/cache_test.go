package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var errPermanent = errors.New("permanent")

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Errorf("Get(missing) = %v, %v", hit, err)
	}

	if err := c.Set(ctx, "k", []byte("<svg/>"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "<svg/>" {
		t.Errorf("Get(k) = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if err := c.Set(ctx, "old", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "old"); hit {
		t.Error("expired entry should miss")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	path := c.path("bad")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("Clear left %d entries", len(entries))
	}
	if c.Dir() != dir {
		t.Errorf("Dir() = %s", c.Dir())
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// SHA-256 produces 64 hex chars
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if pk := k.PlateKey("abc"); pk != "plate:abc" {
		t.Errorf("PlateKey unexpected: %s", pk)
	}

	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg", Scale: 1})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "png", Scale: 1})
	ak3 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg", Scale: 2})
	ak4 := k.ArtifactKey("hash456", ArtifactKeyOpts{Format: "svg", Scale: 1})
	if ak1 == ak2 || ak1 == ak3 || ak1 == ak4 {
		t.Error("Different plates or options should produce different keys")
	}
	if again := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg", Scale: 1}); again != ak1 {
		t.Error("ArtifactKey should be deterministic")
	}
	if !strings.HasPrefix(ak1, "artifact:hash123:svg:") {
		t.Errorf("ArtifactKey should embed plate and format: %s", ak1)
	}
}

func TestParseKey(t *testing.T) {
	plate := Hash([]byte("plate"))
	k := NewDefaultKeyer()
	scoped := NewScopedKeyer(k, "platemap:")
	opts := ArtifactKeyOpts{Format: "neato", Scale: 2}

	tests := []struct {
		name string
		key  string
		want Key
		ok   bool
	}{
		{"plate", k.PlateKey(plate), Key{Kind: KindPlate, Plate: plate}, true},
		{"scoped plate", scoped.PlateKey(plate), Key{Kind: KindPlate, Plate: plate}, true},
		{"artifact", k.ArtifactKey(plate, opts), Key{Kind: KindArtifact, Plate: plate, Format: "neato", Digest: opts.digest()}, true},
		{"scoped artifact", scoped.ArtifactKey(plate, opts), Key{Kind: KindArtifact, Plate: plate, Format: "neato", Digest: opts.digest()}, true},
		{"short hash", k.PlateKey("abc"), Key{}, false},
		{"path in hash", "plate:../../etc/passwd", Key{}, false},
		{"path in format", "artifact:" + plate + ":../x:00ff", Key{}, false},
		{"plain", "k", Key{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseKey(tt.key)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseKey(%q) = %+v, %v; want %+v, %v", tt.key, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestFileCachePlateLayout(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	k := NewDefaultKeyer()
	plate, other := Hash([]byte("a")), Hash([]byte("b"))

	set := func(key, data string) {
		t.Helper()
		if err := c.Set(ctx, key, []byte(data), time.Hour); err != nil {
			t.Fatalf("Set(%s): %v", key, err)
		}
	}
	set(k.ArtifactKey(plate, ArtifactKeyOpts{Format: "svg"}), "<svg/>")
	set(k.ArtifactKey(plate, ArtifactKeyOpts{Format: "dot"}), "graph {}")
	set(k.PlateKey(plate), `{"rows":1}`)
	set(k.PlateKey(other), `{"rows":2}`)
	set("unrelated", "x")

	if _, err := os.Stat(filepath.Join(c.PlateDir(plate), "plate.json")); err != nil {
		t.Errorf("plate export not in its plate directory: %v", err)
	}

	entries, err := c.Entries(ctx)
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	var got []string
	for _, e := range entries {
		got = append(got, e.Plate[:4]+"/"+e.Kind+"/"+e.Format)
	}
	want := []string{
		plate[:4] + "/plate/",
		plate[:4] + "/artifact/dot",
		plate[:4] + "/artifact/svg",
		other[:4] + "/plate/",
	}
	if plate > other {
		want = append(want[3:], want[:3]...)
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Entries() = %v, want %v", got, want)
	}

	n, err := c.DeletePlate(ctx, plate)
	if err != nil || n != 3 {
		t.Errorf("DeletePlate = %d, %v; want 3", n, err)
	}
	if _, hit, _ := c.Get(ctx, k.PlateKey(plate)); hit {
		t.Error("plate export survived DeletePlate")
	}
	if _, hit, _ := c.Get(ctx, k.PlateKey(other)); !hit {
		t.Error("DeletePlate removed another plate")
	}
	if _, hit, _ := c.Get(ctx, "unrelated"); !hit {
		t.Error("DeletePlate removed an unrelated key")
	}
}

func TestFileCacheEntriesSkipExpired(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	plate := Hash([]byte("a"))
	if err := c.Set(ctx, NewDefaultKeyer().PlateKey(plate), []byte("{}"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)

	entries, err := c.Entries(ctx)
	if err != nil || len(entries) != 0 {
		t.Errorf("Entries() = %+v, %v; want none", entries, err)
	}
}

func TestFileCacheKeyCollision(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	plate := Hash([]byte("a"))
	plain := NewDefaultKeyer().PlateKey(plate)
	scoped := NewScopedKeyer(nil, "x:").PlateKey(plate)

	if err := c.Set(ctx, plain, []byte("{}"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, scoped); hit {
		t.Error("a scoped key must not read an unscoped entry")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "platemap:")

	if pk := scoped.PlateKey("abc"); pk != "platemap:plate:abc" {
		t.Errorf("ScopedKeyer PlateKey unexpected: %s", pk)
	}

	ak := scoped.ArtifactKey("abc", ArtifactKeyOpts{Format: "svg"})
	if len(ak) < 20 || ak[:9] != "platemap:" {
		t.Errorf("ScopedKeyer ArtifactKey should be prefixed: %s", ak)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	if key := scoped.PlateKey("h"); key != "prefix:plate:h" {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(ErrNetwork)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if !errors.Is(err, ErrNetwork) {
		t.Error("Retryable should unwrap to the cause")
	}

	if IsRetryable(errPermanent) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()
	retryDelay = time.Millisecond
	t.Cleanup(func() { retryDelay = 200 * time.Millisecond })

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	// Non-retryable error stops immediately
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return errPermanent
	})
	if err != errPermanent {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("Should retry once: %d", calls)
	}

	// Gives up after three attempts
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return Retryable(ErrNetwork)
	})
	if !errors.Is(err, ErrNetwork) || calls != 3 {
		t.Errorf("exhausted retries: err=%v calls=%d", err, calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
