package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("  s3cret\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := Load(Source{Name: "gemini api key", File: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "s3cret" {
		t.Fatalf("expected trimmed secret, got %q", got)
	}
}

func TestLoadFilePrecedesValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("from-file"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := Load(Source{File: path, Value: "inline"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "from-file" {
		t.Fatalf("expected file value, got %q", got)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("   \n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(Source{Name: "token", File: path}); err == nil {
		t.Fatalf("expected error for empty file")
	}
}

func TestLoadUnconfigured(t *testing.T) {
	_, err := Load(Source{Name: "token"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "token") {
		t.Fatalf("expected secret name in error, got %v", err)
	}
}
