package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/depscope/depscope/pkg/cache"
	"github.com/depscope/depscope/pkg/resolve"
)

// DefaultURL is the public npm registry endpoint.
const DefaultURL = "https://registry.npmjs.org"

// memEntries bounds the in-process LRU; graphs past a few thousand packages
// are cut off by the resolver's depth limit long before this fills up.
const memEntries = 4096

// NPM fetches package dependency metadata from an npm-compatible registry.
// Responses are memoized in an in-process LRU and persisted in the provided
// byte cache with a TTL, so packages reached through multiple paths (or
// repeated runs) cost one request. NPM implements resolve.Provider.
type NPM struct {
	baseURL string
	http    *http.Client
	cache   cache.Cache
	ttl     time.Duration
	refresh bool
	mem     *lru.Cache[string, map[string]string]
}

// NPMOptions configures the npm provider.
type NPMOptions struct {
	URL     string        // registry endpoint (DefaultURL if empty)
	Cache   cache.Cache   // persistent response cache (NullCache if nil)
	TTL     time.Duration // persistent cache entry lifetime
	Refresh bool          // bypass the persistent cache once, then rewrite it
}

// NewNPM creates an npm registry provider.
func NewNPM(opts NPMOptions) (*NPM, error) {
	if opts.URL == "" {
		opts.URL = DefaultURL
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewNullCache()
	}
	mem, err := lru.New[string, map[string]string](memEntries)
	if err != nil {
		return nil, err
	}
	return &NPM{
		baseURL: strings.TrimSuffix(opts.URL, "/"),
		http:    &http.Client{Timeout: httpTimeout},
		cache:   opts.Cache,
		ttl:     opts.TTL,
		refresh: opts.Refresh,
		mem:     mem,
	}, nil
}

// Dependencies returns the dependency map of the latest published version
// of name. npm package names are case-insensitive and lowercase on the
// registry, so the name is normalized before the lookup.
func (c *NPM) Dependencies(ctx context.Context, name string) (map[string]string, error) {
	pkg := strings.ToLower(strings.TrimSpace(name))
	if deps, ok := c.mem.Get(pkg); ok {
		return deps, nil
	}

	key := cache.Key("npm", pkg)
	if !c.refresh {
		if raw, ok, _ := c.cache.Get(ctx, key); ok {
			var deps map[string]string
			if err := json.Unmarshal(raw, &deps); err == nil {
				c.mem.Add(pkg, deps)
				return deps, nil
			}
		}
	}

	deps, err := c.fetch(ctx, pkg)
	if err != nil {
		return nil, err
	}

	c.mem.Add(pkg, deps)
	if raw, err := json.Marshal(deps); err == nil {
		_ = c.cache.Set(ctx, key, raw, c.ttl)
	}
	return deps, nil
}

func (c *NPM) fetch(ctx context.Context, pkg string) (map[string]string, error) {
	var data packumentResponse
	if err := getJSON(ctx, c.http, c.baseURL+"/"+pkg, &data); err != nil {
		return nil, fmt.Errorf("npm package %s: %w", pkg, err)
	}

	latest := data.DistTags.Latest
	version, ok := data.Versions[latest]
	if !ok {
		return nil, fmt.Errorf("%w: npm package %s has no published version %q",
			resolve.ErrMalformed, pkg, latest)
	}
	if version.Dependencies == nil {
		return map[string]string{}, nil
	}
	return version.Dependencies, nil
}

// packumentResponse is the subset of the npm packument the provider reads:
// the latest dist-tag and each version's dependency map. Version
// descriptors stay opaque strings.
type packumentResponse struct {
	Name     string                    `json:"name"`
	DistTags distTags                  `json:"dist-tags"`
	Versions map[string]versionDetails `json:"versions"`
}

type distTags struct {
	Latest string `json:"latest"`
}

type versionDetails struct {
	Dependencies map[string]string `json:"dependencies"`
}

var _ resolve.Provider = (*NPM)(nil)
