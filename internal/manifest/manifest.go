// Package manifest preloads sounds from a YAML file.
//
//	sounds:
//	  - {name: click, src: ui/click.wav, volume: 60}
//	tags:
//	  - {name: confirm, of: click, volume: 90}
//	master_volume: 80
//	muted: false
package manifest

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Sound is one Load call.
type Sound struct {
	Name   string `yaml:"name"`
	Src    string `yaml:"src"`
	Volume *int   `yaml:"volume,omitempty"`
}

// Tag is one Tag call.
type Tag struct {
	Name   string `yaml:"name"`
	Of     string `yaml:"of"`
	Volume *int   `yaml:"volume,omitempty"`
}

type Manifest struct {
	Sounds       []Sound `yaml:"sounds"`
	Tags         []Tag   `yaml:"tags"`
	MasterVolume *int    `yaml:"master_volume,omitempty"`
	Muted        bool    `yaml:"muted"`
}

// Target is the part of sfx.Manager a manifest drives.
type Target interface {
	Load(ctx context.Context, name, sourceKey string, volume ...int) error
	Tag(newName, existingName string, volume ...int) bool
	SetMasterVolume(v int) int
	Mute()
}

// Read opens and parses path.
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML and rejects entries without names.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	for i, s := range m.Sounds {
		if s.Name == "" || s.Src == "" {
			return nil, fmt.Errorf("manifest: sounds[%d]: name and src are required", i)
		}
	}
	for i, t := range m.Tags {
		if t.Name == "" || t.Of == "" {
			return nil, fmt.Errorf("manifest: tags[%d]: name and of are required", i)
		}
	}
	return &m, nil
}

// Apply loads every sound in order, then the tags, then master volume and
// mute. A failed load does not stop the rest; all load errors are joined.
// A tag whose target is missing is left to the manager's diagnostics.
func (m *Manifest) Apply(ctx context.Context, t Target) error {
	var errs []error
	for _, s := range m.Sounds {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := t.Load(ctx, s.Name, s.Src, vol(s.Volume)...); err != nil {
			errs = append(errs, fmt.Errorf("load %s: %w", s.Name, err))
		}
	}
	for _, tg := range m.Tags {
		t.Tag(tg.Name, tg.Of, vol(tg.Volume)...)
	}
	if m.MasterVolume != nil {
		t.SetMasterVolume(*m.MasterVolume)
	}
	if m.Muted {
		t.Mute()
	}
	return errors.Join(errs...)
}

// Marshal renders the manifest as YAML.
func (m *Manifest) Marshal() ([]byte, error) {
	return yaml.Marshal(m)
}

func vol(v *int) []int {
	if v == nil {
		return nil
	}
	return []int{*v}
}
