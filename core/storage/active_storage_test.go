package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"intranet/core/database"
)

type doc struct{ id uint }

func (d doc) GetId() uint          { return d.id }
func (d doc) GetModelName() string { return "doc" }

func newLocalStorage(t *testing.T) (*ActiveStorage, string) {
	t.Helper()
	db, err := database.OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	dir := t.TempDir()
	provider, err := NewLocalProvider(LocalConfig{BasePath: dir, BaseURL: "/storage/"})
	if err != nil {
		t.Fatal(err)
	}
	as, err := NewActiveStorageWithProvider(db.DB, provider)
	if err != nil {
		t.Fatal(err)
	}
	as.RegisterAttachment("doc", AttachmentConfig{
		Field:             "file",
		Path:              "docs",
		AllowedExtensions: []string{".txt"},
		MaxFileSize:       16,
	})
	return as, dir
}

func TestAttachReplacesSingleAttachment(t *testing.T) {
	as, dir := newLocalStorage(t)
	ctx := context.Background()
	owner := doc{id: 3}

	first, err := as.AttachBytes(ctx, owner, "file", "notes v1.txt", []byte("one"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(first.URL, "/storage/docs/doc/file/notes-v1-") {
		t.Errorf("url = %s", first.URL)
	}

	second, err := as.AttachBytes(ctx, owner, "file", "notes.txt", []byte("two"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(first.Path))); !os.IsNotExist(err) {
		t.Errorf("replaced file still on disk: %v", err)
	}

	loaded, err := as.LoadAttachment(owner, "file")
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Id != second.Id || loaded.Size != 3 {
		t.Fatalf("loaded = %+v", loaded)
	}

	if err := as.Delete(ctx, loaded); err != nil {
		t.Fatal(err)
	}
	if _, err := as.LoadAttachment(owner, "file"); err == nil {
		t.Fatal("attachment still loadable after delete")
	}
}

func TestAttachValidation(t *testing.T) {
	as, _ := newLocalStorage(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		field    string
		filename string
		data     string
	}{
		{"extension", "file", "script.sh", "echo"},
		{"size", "file", "big.txt", strings.Repeat("x", 17)},
		{"unknown field", "cover", "a.txt", "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := as.AttachBytes(ctx, doc{id: 1}, tt.field, tt.filename, []byte(tt.data)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
