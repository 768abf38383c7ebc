package source

import (
	"fmt"
	"net/http"
	"time"

	"hdxsfx/internal/container"
	"hdxsfx/pkg/sfx"
)

// Kind selects the base source.
type Kind string

const (
	KindDir  Kind = "dir"
	KindHTTP Kind = "http"
	KindBank Kind = "bank"
)

// Options describe a source stack.
type Options struct {
	Kind       Kind
	BasePath   string
	BankPath   string
	Passphrase string
	CacheTTL   time.Duration
	Timeout    time.Duration
}

// Build assembles base source, unsealing and caching in that order.
func Build(o Options) (sfx.Source, error) {
	var src sfx.Source
	switch o.Kind {
	case KindDir, "":
		src = Dir{}
	case KindHTTP:
		src = HTTP{Client: &http.Client{Timeout: o.Timeout}}
	case KindBank:
		b, err := container.OpenBank(o.BankPath)
		if err != nil {
			return nil, fmt.Errorf("source: open bank: %w", err)
		}
		bs, err := NewBank(b, o.BasePath, o.Passphrase)
		if err != nil {
			return nil, err
		}
		src = bs
	default:
		return nil, fmt.Errorf("source: unknown kind %q", o.Kind)
	}

	if o.Passphrase != "" && o.Kind != KindBank {
		src = NewSealed(src, o.Passphrase)
	}
	if o.CacheTTL > 0 {
		src = NewCached(src, o.CacheTTL)
	}
	return src, nil
}
