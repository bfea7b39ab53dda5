// Package localrepo reads package metadata from a local JSON repository,
// used for offline analysis and test fixtures instead of a live registry.
//
// The repository is either a directory containing one <package>.json file
// per package, or a single JSON file in one of two shapes:
//
//	{"express": {"name": "express", "dependencies": ["accepts"]}, ...}
//	{"packages": [{"name": "express", "dependencies": {"accepts": "^1.3"}}, ...]}
//
// A package's dependencies may be a list of names (versions default to "*")
// or a name → version map.
package localrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/depscope/depscope/pkg/resolve"
)

// Repo is a file-backed metadata provider. It implements resolve.Provider.
type Repo struct {
	path  string
	isDir bool

	// index holds the decoded single-file database; nil in directory mode.
	index map[string]packageRecord
}

// Open validates path and, for single-file repositories, decodes the whole
// database up front so per-package lookups never re-read the file.
func Open(path string) (*Repo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: repository %s", resolve.ErrUnavailable, path)
	}

	r := &Repo{path: path, isDir: info.IsDir()}
	if r.isDir {
		return r, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", resolve.ErrUnavailable, path, err)
	}
	index, err := decodeIndex(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", resolve.ErrMalformed, path, err)
	}
	r.index = index
	return r, nil
}

// Dependencies returns the declared dependencies of name.
func (r *Repo) Dependencies(_ context.Context, name string) (map[string]string, error) {
	if r.isDir {
		return r.fromFile(name)
	}
	rec, ok := r.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s in local repository", resolve.ErrNotFound, name)
	}
	return rec.Dependencies.toMap(), nil
}

func (r *Repo) fromFile(name string) (map[string]string, error) {
	raw, err := os.ReadFile(filepath.Join(r.path, name+".json"))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s in local repository", resolve.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", resolve.ErrUnavailable, name, err)
	}
	var rec packageRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("%w: package %s: %v", resolve.ErrMalformed, name, err)
	}
	return rec.Dependencies.toMap(), nil
}

func decodeIndex(raw []byte) (map[string]packageRecord, error) {
	// Try the {"packages": [...]} shape first; fall back to the flat map.
	var wrapped struct {
		Packages []packageRecord `json:"packages"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.Packages) > 0 {
		index := make(map[string]packageRecord, len(wrapped.Packages))
		for _, rec := range wrapped.Packages {
			if rec.Name == "" {
				return nil, fmt.Errorf("package entry without a name")
			}
			index[rec.Name] = rec
		}
		return index, nil
	}

	var flat map[string]packageRecord
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, err
	}
	return flat, nil
}

type packageRecord struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Dependencies depsList `json:"dependencies"`
}

// depsList accepts dependencies declared either as a JSON array of names or
// as a name → version object.
type depsList map[string]string

func (d *depsList) UnmarshalJSON(raw []byte) error {
	var asMap map[string]string
	if err := json.Unmarshal(raw, &asMap); err == nil {
		*d = asMap
		return nil
	}
	var asList []string
	if err := json.Unmarshal(raw, &asList); err != nil {
		return fmt.Errorf("dependencies must be a list of names or a name→version map")
	}
	m := make(map[string]string, len(asList))
	for _, name := range asList {
		m[name] = "*"
	}
	*d = m
	return nil
}

func (d depsList) toMap() map[string]string {
	if d == nil {
		return map[string]string{}
	}
	return d
}

var _ resolve.Provider = (*Repo)(nil)
