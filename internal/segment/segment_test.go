package segment

import (
	"path/filepath"
	"testing"
)

func TestAppendAndReadAt(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, 1, Active)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	off, err := s.Append([]byte("hello"))
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if off != 0 {
		t.Errorf("first append offset = %d, want 0", off)
	}

	off2, err := s.Append([]byte("world!"))
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if off2 != 5 {
		t.Errorf("second append offset = %d, want 5", off2)
	}

	buf := make([]byte, 5)
	if _, err := s.ReadAt(buf, 0); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if string(buf) != "hello" {
		t.Errorf("ReadAt(0) = %q, want %q", buf, "hello")
	}
}

func TestAppendToSealedSegmentFails(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, 1, Sealed)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if _, err := s.Append([]byte("nope")); err == nil {
		t.Error("Append to sealed segment: want error, got nil")
	}
}

func TestPathAndParseFileID(t *testing.T) {
	dir := "/data"
	p := Path(dir, 7)
	if p != filepath.Join(dir, "7.bck") {
		t.Errorf("Path = %q, want %q", p, filepath.Join(dir, "7.bck"))
	}

	id, ok := ParseFileID("7.bck")
	if !ok || id != 7 {
		t.Errorf("ParseFileID(7.bck) = (%d, %v), want (7, true)", id, ok)
	}

	if _, ok := ParseFileID("not-a-segment.txt"); ok {
		t.Error("ParseFileID on non-segment name: want ok=false")
	}
	if _, ok := ParseFileID("abc.bck"); ok {
		t.Error("ParseFileID on non-numeric stem: want ok=false")
	}
}

func TestSortFileIDs(t *testing.T) {
	ids := []uint32{5, 1, 3}
	SortFileIDs(ids)
	want := []uint32{1, 3, 5}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("SortFileIDs = %v, want %v", ids, want)
		}
	}
}
