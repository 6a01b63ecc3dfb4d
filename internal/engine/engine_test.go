package engine

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ignite-kv/barrelcask/internal/codec"
	"github.com/ignite-kv/barrelcask/pkg/bcerrors"
	"github.com/ignite-kv/barrelcask/pkg/options"
)

func openTestEngine(t *testing.T, opts options.Options) *Engine {
	t.Helper()
	opts.DirPath = t.TempDir()
	e, err := Open(Config{Options: opts})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func TestPutAndRead(t *testing.T) {
	e := openTestEngine(t, options.Options{FileThreshold: 5000})

	if err := e.Put("k1", []byte("v1")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := e.Read("k1")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(got, []byte("v1")) {
		t.Errorf("Read = %q, want %q", got, "v1")
	}
}

func TestReadMissingKey(t *testing.T) {
	e := openTestEngine(t, options.Options{FileThreshold: 5000})

	if _, err := e.Read("missing"); err == nil {
		t.Error("Read of missing key: want error, got nil")
	} else if !errors.Is(err, bcerrors.ErrKeyNotExist) {
		t.Errorf("Read of missing key: want ErrKeyNotExist, got %v", err)
	}
}

func TestPutOverwriteIsLastWriteWins(t *testing.T) {
	e := openTestEngine(t, options.Options{FileThreshold: 5000})

	if err := e.Put("k", []byte("first")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := e.Put("k", []byte("second")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := e.Read("k")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(got, []byte("second")) {
		t.Errorf("Read = %q, want %q", got, "second")
	}
}

func TestDeleteRemovesKeyAndReturnsOldValue(t *testing.T) {
	e := openTestEngine(t, options.Options{FileThreshold: 5000})

	if err := e.Put("k", []byte("v")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	old, err := e.Delete("k")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !bytes.Equal(old, []byte("v")) {
		t.Errorf("Delete returned %q, want %q", old, "v")
	}

	if _, err := e.Read("k"); err == nil {
		t.Error("Read after Delete: want error, got nil")
	}
}

func TestDeleteMissingKeyFails(t *testing.T) {
	e := openTestEngine(t, options.Options{FileThreshold: 5000})

	if _, err := e.Delete("missing"); err == nil {
		t.Error("Delete of missing key: want error, got nil")
	}
}

func TestUpdateReturnsOldValueAndRewrites(t *testing.T) {
	e := openTestEngine(t, options.Options{FileThreshold: 5000})

	if err := e.Put("k", []byte("v1")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	old, err := e.Update("k", []byte("v2"))
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !bytes.Equal(old, []byte("v1")) {
		t.Errorf("Update returned %q, want %q", old, "v1")
	}

	got, err := e.Read("k")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(got, []byte("v2")) {
		t.Errorf("Read after Update = %q, want %q", got, "v2")
	}
}

func TestUpdateAppendsTombstoneThenNewEntry(t *testing.T) {
	e := openTestEngine(t, options.Options{FileThreshold: 5000})

	if err := e.Put("k", []byte("v1")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	sizeAfterPut := e.active.Size()

	if _, err := e.Update("k", []byte("v2")); err != nil {
		t.Fatalf("Update: %v", err)
	}
	sizeAfterUpdate := e.active.Size()

	tombstoneSize := int64(codec.HeaderSize + len("k"))
	newEntrySize := int64(codec.HeaderSize + len("k") + len("v2"))
	wantGrowth := tombstoneSize + newEntrySize

	if got := sizeAfterUpdate - sizeAfterPut; got != wantGrowth {
		t.Errorf("segment grew by %d bytes across Update, want %d (tombstone + new entry, two log records)", got, wantGrowth)
	}
}

func TestRotationAcrossThreshold(t *testing.T) {
	e := openTestEngine(t, options.Options{FileThreshold: 100})

	value := bytes.Repeat([]byte("x"), 60)
	for i := 0; i < 10; i++ {
		key := string(rune('a' + i))
		if err := e.Put(key, value); err != nil {
			t.Fatalf("Put(%s): %v", key, err)
		}
	}

	if len(e.segments) < 2 {
		t.Fatalf("segments = %d, want >= 2 after exceeding threshold repeatedly", len(e.segments))
	}

	for i := 0; i < 10; i++ {
		key := string(rune('a' + i))
		got, err := e.Read(key)
		if err != nil {
			t.Fatalf("Read(%s): %v", key, err)
		}
		if !bytes.Equal(got, value) {
			t.Errorf("Read(%s) mismatch", key)
		}
	}
}

func TestRecoveryRebuildsIndexAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	opts := options.Options{DirPath: dir, FileThreshold: 5000}

	e, err := Open(Config{Options: opts})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := e.Put("k1", []byte("v1")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := e.Put("k2", []byte("v2")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := e.Delete("k1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(Config{Options: opts})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	if _, err := reopened.Read("k1"); err == nil {
		t.Error("Read(k1) after recovery: want error (deleted), got nil")
	}
	got, err := reopened.Read("k2")
	if err != nil {
		t.Fatalf("Read(k2) after recovery: %v", err)
	}
	if !bytes.Equal(got, []byte("v2")) {
		t.Errorf("Read(k2) after recovery = %q, want %q", got, "v2")
	}
}

func TestOpenRejectsEmptyDirPath(t *testing.T) {
	if _, err := Open(Config{Options: options.Options{}}); err == nil {
		t.Error("Open with empty DirPath: want error, got nil")
	}
}

func TestOpenFailsWhenAlreadyLocked(t *testing.T) {
	dir := t.TempDir()
	opts := options.Options{DirPath: dir, FileThreshold: 5000}

	first, err := Open(Config{Options: opts})
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	defer first.Close()

	if _, err := Open(Config{Options: opts}); err == nil {
		t.Error("second Open of locked dir: want error, got nil")
	}
}

func TestPutRejectsEmptyKey(t *testing.T) {
	e := openTestEngine(t, options.Options{FileThreshold: 5000})
	if err := e.Put("", []byte("v")); err == nil {
		t.Error("Put with empty key: want error, got nil")
	}
}
