package index

import (
	"testing"

	"github.com/ignite-kv/barrelcask/pkg/options"
)

func testIndexPutGetDelete(t *testing.T, idx Index) {
	t.Helper()

	if _, ok := idx.Get("missing"); ok {
		t.Error("Get on empty index: want ok=false")
	}

	idx.Put("a", Location{FileID: 1, Offset: 0, EntrySize: 10})
	idx.Put("b", Location{FileID: 1, Offset: 10, EntrySize: 20})

	if idx.Len() != 2 {
		t.Fatalf("Len = %d, want 2", idx.Len())
	}

	loc, ok := idx.Get("a")
	if !ok || loc.Offset != 0 {
		t.Errorf("Get(a) = (%+v, %v), want offset 0", loc, ok)
	}

	idx.Put("a", Location{FileID: 2, Offset: 99, EntrySize: 5})
	loc, ok = idx.Get("a")
	if !ok || loc.FileID != 2 || loc.Offset != 99 {
		t.Errorf("Get(a) after overwrite = %+v, want FileID=2 Offset=99", loc)
	}

	deleted, ok := idx.Delete("b")
	if !ok || deleted.Offset != 10 {
		t.Errorf("Delete(b) = (%+v, %v), want offset 10", deleted, ok)
	}
	if _, ok := idx.Get("b"); ok {
		t.Error("Get after Delete: want ok=false")
	}
	if idx.Len() != 1 {
		t.Fatalf("Len after delete = %d, want 1", idx.Len())
	}
}

func TestHashIndex(t *testing.T) {
	idx, err := New(options.Hash)
	if err != nil {
		t.Fatalf("New(Hash): %v", err)
	}
	defer idx.Close()
	testIndexPutGetDelete(t, idx)
}

func TestBTreeIndex(t *testing.T) {
	idx, err := New(options.BTree)
	if err != nil {
		t.Fatalf("New(BTree): %v", err)
	}
	defer idx.Close()
	testIndexPutGetDelete(t, idx)
}

func TestBTreeIndexOrdering(t *testing.T) {
	idx, err := New(options.BTree)
	if err != nil {
		t.Fatalf("New(BTree): %v", err)
	}
	defer idx.Close()

	for _, k := range []string{"c", "a", "b"} {
		idx.Put(k, Location{})
	}

	var seen []string
	idx.ForEach(func(key string, _ Location) bool {
		seen = append(seen, key)
		return true
	})

	want := []string{"a", "b", "c"}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("ForEach order = %v, want %v", seen, want)
		}
	}
}

func TestSkipListUnsupported(t *testing.T) {
	if _, err := New(options.SkipList); err == nil {
		t.Error("New(SkipList): want error, got nil")
	}
}
