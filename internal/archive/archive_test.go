package archive

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// writeTestZip creates a ZIP file at path with the given entries, in order.
func writeTestZip(t *testing.T, path string, entries map[string][]byte) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for name, data := range entries {
		ew, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := ew.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
}

func entryByName(entries []Entry, name string) *Entry {
	for i := range entries {
		if entries[i].Name == name {
			return &entries[i]
		}
	}
	return nil
}

func TestRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pack.zip")
	binary := []byte{0x89, 0x50, 0x4e, 0x47, 0x00, 0xff}
	writeTestZip(t, path, map[string][]byte{
		"assets/models/item/sword.json": []byte(`{"particle": "#missing"}`),
		"assets/textures/sword.png":     binary,
	})

	entries, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Read() returned %d entries, want 2", len(entries))
	}

	png := entryByName(entries, "assets/textures/sword.png")
	if png == nil {
		t.Fatal("binary entry missing")
	}
	if !bytes.Equal(png.Data, binary) {
		t.Error("binary entry content differs")
	}
}

func TestRead_NotAZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.zip")
	if err := os.WriteFile(path, []byte("this is not a zip archive"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Read(path); err == nil {
		t.Error("Read() should fail for a non-ZIP file")
	}
}

func TestWrite_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "pack.zip")
	binary := []byte{0x00, 0x01, 0x02, 0xff, 0xfe}
	writeTestZip(t, src, map[string][]byte{
		"model.json":  []byte(`{"particle": "#missing"}`),
		"texture.bin": binary,
	})

	entries, err := Read(src)
	if err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(dir, "copy.zip")
	writeTestZip(t, dst, map[string][]byte{"placeholder": []byte("x")})
	if err := Write(dst, entries); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := Read(dst)
	if err != nil {
		t.Fatalf("Read() after Write() error = %v", err)
	}
	if len(got) != len(entries) {
		t.Fatalf("round trip entry count = %d, want %d", len(got), len(entries))
	}
	for _, want := range entries {
		e := entryByName(got, want.Name)
		if e == nil {
			t.Fatalf("entry %s missing after round trip", want.Name)
		}
		if !bytes.Equal(e.Data, want.Data) {
			t.Errorf("entry %s content differs after round trip", want.Name)
		}
	}
}

func TestWrite_ReplacesWithoutTempLeftover(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pack.zip")
	writeTestZip(t, path, map[string][]byte{
		"model.json": []byte(`{"particle": "#missing"}`),
	})

	entries, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	entries[0].Data = []byte(`{"particle": "#0"}`)

	if err := Write(path, entries); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should not remain after a successful write")
	}

	got, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got[0].Data) != `{"particle": "#0"}` {
		t.Errorf("rewritten entry = %q", got[0].Data)
	}
}

func TestWrite_PreservesDirectoryEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pack.zip")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w := zip.NewWriter(f)
	if _, err := w.Create("assets/"); err != nil {
		t.Fatal(err)
	}
	ew, err := w.Create("assets/file.txt")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ew.Write([]byte("hello")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	entries, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := Write(path, entries); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	dirEntry := entryByName(got, "assets/")
	if dirEntry == nil {
		t.Fatal("directory entry missing after rewrite")
	}
	if !dirEntry.IsDir() {
		t.Error("directory entry lost its marker")
	}
}
