package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStaging_CreateIsSibling(t *testing.T) {
	out := filepath.Join(t.TempDir(), "site")
	s := NewStaging(out)

	if err := s.Create(); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	dir := s.Path()
	if filepath.Dir(dir) != filepath.Dir(out) {
		t.Errorf("staging %s is not a sibling of %s", dir, out)
	}
	if !strings.HasPrefix(filepath.Base(dir), "site.staging-") {
		t.Errorf("unexpected staging name: %s", dir)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("staging directory does not exist: %v", err)
	}
}

func TestStaging_PromoteReplacesOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "site")
	if err := os.MkdirAll(out, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(out, "stale.html"), []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewStaging(out)
	if err := s.Create(); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(s.Path(), "index.html"), []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.Promote(); err != nil {
		t.Fatalf("Promote() failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(out, "stale.html")); !os.IsNotExist(err) {
		t.Errorf("stale file survived promotion")
	}
	b, err := os.ReadFile(filepath.Join(out, "index.html"))
	if err != nil || string(b) != "new" {
		t.Errorf("expected promoted index.html, got %q (%v)", b, err)
	}
	if _, err := os.Stat(out + ".prev"); !os.IsNotExist(err) {
		t.Errorf("backup directory left behind")
	}
	if s.Path() != "" {
		t.Errorf("Path() should be empty after Promote")
	}
	assertNoStaging(t, out)
}

func TestStaging_PromoteWithoutExistingOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "site")
	s := NewStaging(out)
	if err := s.Create(); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if err := s.Promote(); err != nil {
		t.Fatalf("Promote() failed: %v", err)
	}
	if info, err := os.Stat(out); err != nil || !info.IsDir() {
		t.Fatalf("output directory not created: %v", err)
	}
}

func TestStaging_AbortKeepsOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "site")
	if err := os.MkdirAll(out, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(out, "index.html"), []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewStaging(out)
	if err := s.Create(); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	s.Abort()
	s.Abort() // second call is a no-op

	b, err := os.ReadFile(filepath.Join(out, "index.html"))
	if err != nil || string(b) != "old" {
		t.Errorf("output changed after abort: %q (%v)", b, err)
	}
	assertNoStaging(t, out)
}

func TestStaging_PromoteWithoutCreate(t *testing.T) {
	if err := NewStaging(t.TempDir()).Promote(); err == nil {
		t.Fatal("expected error when promoting without Create")
	}
}

func assertNoStaging(t *testing.T, out string) {
	t.Helper()
	entries, err := os.ReadDir(filepath.Dir(out))
	if err != nil {
		t.Fatalf("readdir parent: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), filepath.Base(out)+".staging-") {
			t.Fatalf("found leftover staging directory: %s", e.Name())
		}
	}
}
