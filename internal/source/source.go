// Package source provides the byte sources sfx.Manager fetches sound files
// from: local directories, HTTP servers and HDX-SFX banks, plus decorators
// for sealed payloads and caching.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"hdxsfx/internal/container"
	"hdxsfx/internal/security"
	"hdxsfx/pkg/sfx"
	"hdxsfx/pkg/spec"

	"github.com/patrickmn/go-cache"
)

// ErrNotFound is wrapped by every source when the path does not exist.
var ErrNotFound = errors.New("source: not found")

// ======================================================
// Dir
// ======================================================

// Dir reads files from disk. Root, when set, is joined in front of the path.
type Dir struct {
	Root string
}

func (d Dir) Fetch(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full := filepath.FromSlash(path)
	if d.Root != "" {
		full = filepath.Join(d.Root, full)
	}
	data, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, full)
	}
	return data, err
}

// ======================================================
// HTTP
// ======================================================

// HTTP GETs the path as a URL. The manager base path is the URL prefix.
type HTTP struct {
	Client *http.Client
}

func (h HTTP) Fetch(ctx context.Context, url string) ([]byte, error) {
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("source: GET %s: %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// ======================================================
// Bank
// ======================================================

// Bank serves the entries of a loaded sound bank. Prefix is stripped from
// the requested path before lookup, so it should match the manager base path.
// Sealed banks need Passphrase.
type Bank struct {
	bank   *container.Bank
	prefix string
	key    []byte
}

// NewBank wraps b. passphrase is ignored for unsealed banks.
func NewBank(b *container.Bank, prefix, passphrase string) (*Bank, error) {
	s := &Bank{bank: b, prefix: prefix}
	if b.Sealed() {
		if passphrase == "" {
			return nil, errors.New("source: bank is sealed and no passphrase is set")
		}
		s.key = security.DeriveKey(passphrase, b.Salt)
	}
	return s, nil
}

func (s *Bank) Fetch(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := strings.TrimPrefix(path, s.prefix)
	data, ok := s.bank.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s in bank %q", ErrNotFound, key, s.bank.Name)
	}
	if s.key == nil {
		return data, nil
	}
	plain, err := security.Decrypt(data, s.key)
	if err != nil {
		return nil, fmt.Errorf("source: open %s: %w", key, err)
	}
	return plain, nil
}

// ======================================================
// Sealed
// ======================================================

// Sealed unseals payloads from Next that carry the seal magic and passes the
// rest through unchanged.
type Sealed struct {
	Next sfx.Source

	passphrase string
	once       sync.Once
	key        []byte
}

func NewSealed(next sfx.Source, passphrase string) *Sealed {
	return &Sealed{Next: next, passphrase: passphrase}
}

func (s *Sealed) Fetch(ctx context.Context, path string) ([]byte, error) {
	data, err := s.Next.Fetch(ctx, path)
	if err != nil || !security.IsSealed(data) {
		return data, err
	}
	s.once.Do(func() {
		s.key = security.DeriveKey(s.passphrase, []byte(spec.Salt))
	})
	plain, err := security.Unseal(data, s.key)
	if err != nil {
		return nil, fmt.Errorf("source: unseal %s: %w", path, err)
	}
	return plain, nil
}

// ======================================================
// Cached
// ======================================================

// Cached keeps fetched bytes for ttl. Errors are not cached.
type Cached struct {
	Next  sfx.Source
	cache *cache.Cache
}

func NewCached(next sfx.Source, ttl time.Duration) *Cached {
	return &Cached{Next: next, cache: cache.New(ttl, 2*ttl)}
}

func (c *Cached) Fetch(ctx context.Context, path string) ([]byte, error) {
	if v, ok := c.cache.Get(path); ok {
		return v.([]byte), nil
	}
	data, err := c.Next.Fetch(ctx, path)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(path, data)
	return data, nil
}

// Len is the number of cached entries, expired ones included until swept.
func (c *Cached) Len() int { return c.cache.ItemCount() }
