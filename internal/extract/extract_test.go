package extract

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFromFileTxt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	content := "BGP peering notes\n\nsecond paragraph"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := FromFile(path)
	if err != nil {
		t.Fatalf("FromFile failed: %v", err)
	}
	if got != content {
		t.Errorf("got %q, want %q", got, content)
	}
}

func TestFromFileUnsupportedExtension(t *testing.T) {
	for _, name := range []string{"image.png", "doc.docx", "noext"} {
		if _, err := FromFile(name); err == nil {
			t.Errorf("expected error for %q", name)
		}
	}
}

func TestFromFileMissingTxt(t *testing.T) {
	if _, err := FromFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
