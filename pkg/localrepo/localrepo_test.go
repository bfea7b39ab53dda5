package localrepo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/depscope/depscope/pkg/resolve"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestOpenFlatMapFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "repo.json", `{
		"express": {"name": "express", "dependencies": ["accepts", "body-parser"]},
		"accepts": {"name": "accepts", "dependencies": []}
	}`)

	repo, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	deps, err := repo.Dependencies(context.Background(), "express")
	if err != nil {
		t.Fatalf("Dependencies: %v", err)
	}
	want := map[string]string{"accepts": "*", "body-parser": "*"}
	if !reflect.DeepEqual(deps, want) {
		t.Errorf("deps = %v, want %v", deps, want)
	}
}

func TestOpenPackagesListFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "repo.json", `{
		"packages": [
			{"name": "web", "version": "2.0.0", "dependencies": {"router": "^1.0", "json": "~3.2"}},
			{"name": "router", "dependencies": []},
			{"name": "json", "dependencies": []}
		]
	}`)

	repo, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	deps, err := repo.Dependencies(context.Background(), "web")
	if err != nil {
		t.Fatalf("Dependencies: %v", err)
	}
	want := map[string]string{"router": "^1.0", "json": "~3.2"}
	if !reflect.DeepEqual(deps, want) {
		t.Errorf("deps = %v, want %v", deps, want)
	}
}

func TestOpenDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.json", `{"name": "app", "dependencies": {"lib": "^1.0"}}`)
	writeFile(t, dir, "lib.json", `{"name": "lib", "dependencies": []}`)

	repo, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	deps, err := repo.Dependencies(context.Background(), "app")
	if err != nil {
		t.Fatalf("Dependencies: %v", err)
	}
	if !reflect.DeepEqual(deps, map[string]string{"lib": "^1.0"}) {
		t.Errorf("deps = %v", deps)
	}

	if _, err := repo.Dependencies(context.Background(), "missing"); !errors.Is(err, resolve.ErrNotFound) {
		t.Errorf("err = %v, want resolve.ErrNotFound", err)
	}
}

func TestDependenciesNotFound(t *testing.T) {
	path := writeFile(t, t.TempDir(), "repo.json", `{"a": {"name": "a", "dependencies": []}}`)

	repo, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := repo.Dependencies(context.Background(), "b"); !errors.Is(err, resolve.ErrNotFound) {
		t.Errorf("err = %v, want resolve.ErrNotFound", err)
	}
}

func TestOpenMissingPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, resolve.ErrUnavailable) {
		t.Errorf("err = %v, want resolve.ErrUnavailable", err)
	}
}

func TestOpenMalformedFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "repo.json", `{not json`)

	_, err := Open(path)
	if !errors.Is(err, resolve.ErrMalformed) {
		t.Errorf("err = %v, want resolve.ErrMalformed", err)
	}
}

func TestPackagesEntryWithoutName(t *testing.T) {
	path := writeFile(t, t.TempDir(), "repo.json", `{"packages": [{"dependencies": []}]}`)

	_, err := Open(path)
	if !errors.Is(err, resolve.ErrMalformed) {
		t.Errorf("err = %v, want resolve.ErrMalformed", err)
	}
}

func TestNoDependenciesField(t *testing.T) {
	path := writeFile(t, t.TempDir(), "repo.json", `{"bare": {"name": "bare"}}`)

	repo, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	deps, err := repo.Dependencies(context.Background(), "bare")
	if err != nil {
		t.Fatalf("Dependencies: %v", err)
	}
	if len(deps) != 0 || deps == nil {
		t.Errorf("deps = %#v, want empty non-nil map", deps)
	}
}
