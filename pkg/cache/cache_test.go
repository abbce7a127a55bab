package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

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

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestHashJSON(t *testing.T) {
	type input struct {
		Name  string
		Walls int
	}

	h1, err := HashJSON(input{Name: "house", Walls: 4})
	if err != nil {
		t.Fatalf("HashJSON error: %v", err)
	}
	h2, _ := HashJSON(input{Name: "house", Walls: 4})
	if h1 != h2 {
		t.Error("HashJSON should be deterministic for equal values")
	}
	h3, _ := HashJSON(input{Name: "house", Walls: 5})
	if h1 == h3 {
		t.Error("Different values should produce different hashes")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// ModelKey depends on the project hash
	mk1 := k.ModelKey("hash-a", ModelKeyOpts{Version: "1.0.0"})
	mk2 := k.ModelKey("hash-b", ModelKeyOpts{Version: "1.0.0"})
	if mk1 == mk2 {
		t.Error("Different project hashes should produce different keys")
	}

	// ... and on the options
	mk3 := k.ModelKey("hash-a", ModelKeyOpts{Version: "1.1.0"})
	if mk1 == mk3 {
		t.Error("Different ModelKeyOpts should produce different keys")
	}

	// ShapeKey depends on parameter values
	sk1 := k.ShapeKey(map[string]string{"kind": "box", "x": "100"})
	sk2 := k.ShapeKey(map[string]string{"kind": "box", "x": "200"})
	if sk1 == sk2 {
		t.Error("Different shape params should produce different keys")
	}
}

func TestShapeKeyOrderIndependent(t *testing.T) {
	k := NewDefaultKeyer()

	// Build the same logical params in different insertion orders; the
	// key must not depend on map iteration order.
	a := map[string]string{"kind": "prism", "depth": "40", "plane": "wall", "area": "123.5"}
	b := map[string]string{}
	for _, key := range []string{"area", "plane", "depth", "kind"} {
		b[key] = a[key]
	}

	for i := 0; i < 20; i++ {
		if k.ShapeKey(a) != k.ShapeKey(b) {
			t.Fatal("ShapeKey depends on parameter order")
		}
	}
}

func TestCanonicalParams(t *testing.T) {
	got := CanonicalParams(map[string]string{"z": "1", "a": "2", "m": "3"})
	want := "a=2;m=3;z=1"
	if got != want {
		t.Errorf("CanonicalParams() = %q, want %q", got, want)
	}
	if got := CanonicalParams(nil); got != "" {
		t.Errorf("CanonicalParams(nil) = %q, want empty", got)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "tenant:123:")

	mk := scoped.ModelKey("hash-a", ModelKeyOpts{})
	if mk[:11] != "tenant:123:" {
		t.Errorf("ScopedKeyer ModelKey should be prefixed: %s", mk)
	}
	if mk[11:] != inner.ModelKey("hash-a", ModelKeyOpts{}) {
		t.Error("ScopedKeyer should delegate to the inner keyer")
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.ShapeKey(map[string]string{"kind": "box"})
	if key[:7] != "prefix:" {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	defer c.Close()

	// Miss before Set
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("Get before Set should miss")
	}

	// Round trip
	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || !hit {
		t.Fatalf("Get after Set: hit=%v err=%v", hit, err)
	}
	if string(data) != "value" {
		t.Errorf("Get returned %q, want %q", data, "value")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}

	// Delete
	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("Get after Delete should miss")
	}
}

func TestMemoryCacheTTL(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Millisecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("Get should miss after TTL expiry")
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	// Round trip
	if err := c.Set(ctx, "model:abc", []byte(`{"elements":3}`), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "model:abc")
	if err != nil || !hit {
		t.Fatalf("Get after Set: hit=%v err=%v", hit, err)
	}
	if string(data) != `{"elements":3}` {
		t.Errorf("Get returned %q", data)
	}

	// Unknown key is a clean miss
	if _, hit, err := c.Get(ctx, "model:unknown"); hit || err != nil {
		t.Errorf("Get unknown: hit=%v err=%v", hit, err)
	}

	// Delete
	if err := c.Delete(ctx, "model:abc"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "model:abc"); hit {
		t.Error("Get after Delete should miss")
	}
	// Deleting again is not an error
	if err := c.Delete(ctx, "model:abc"); err != nil {
		t.Errorf("second Delete error: %v", err)
	}
}

func TestFileCacheTTL(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Millisecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("Get should miss after TTL expiry")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}

	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	// Corrupt the entry on disk; the next Get must treat it as a miss.
	var corrupted bool
	filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			corrupted = os.WriteFile(path, []byte("not json"), 0644) == nil
		}
		return nil
	})
	if !corrupted {
		t.Fatal("failed to corrupt cache entry")
	}

	if _, hit, err := c.Get(ctx, "key"); hit || err != nil {
		t.Errorf("Get on corrupt entry: hit=%v err=%v", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}

	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("Get after Clear should miss")
	}

	// The cache stays usable after Clear.
	if err := c.Set(ctx, "c", []byte("3"), 0); err != nil {
		t.Errorf("Set after Clear error: %v", err)
	}
}
