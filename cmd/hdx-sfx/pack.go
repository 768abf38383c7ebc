/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"hdxsfx/internal/codec"
	"hdxsfx/internal/container"
	"hdxsfx/internal/manifest"
	"hdxsfx/internal/security"
	"hdxsfx/pkg/audioengine"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type packOptions struct {
	Src        string
	Name       string
	Passphrase string
	Opus       bool
	Normalize  bool
	Workers    int
}

var (
	packOpts     packOptions
	packManifest string
	packSeal     bool
)

var packCmd = &cobra.Command{
	Use:   "pack SRC_DIR OUT_BANK",
	Short: "Build a sound bank from a directory",
	Long: `Collect every recognised sound file under SRC_DIR into one HDX-SFX bank.
Keys are the slash-separated paths relative to SRC_DIR, so a manager using the
bank source loads them with the same keys it would use on disk.

With --opus 16-bit WAV files are re-encoded to opus frame streams. With --seal
every payload is encrypted with a key derived from the configured passphrase.`,
	Args: cobra.ExactArgs(2),
	RunE: runPack,
}

func init() {
	f := packCmd.Flags()
	f.StringVar(&packOpts.Name, "name", "", "bank name (default: SRC_DIR base name)")
	f.BoolVar(&packOpts.Opus, "opus", false, "re-encode 16-bit WAV to opus")
	f.BoolVar(&packOpts.Normalize, "normalize", false, "peak-normalise WAV before opus encoding")
	f.IntVar(&packOpts.Workers, "workers", runtime.NumCPU(), "parallel encoders")
	f.BoolVar(&packSeal, "seal", false, "encrypt payloads with the configured passphrase")
	f.StringVar(&packManifest, "manifest-out", "", "also write a manifest listing every packed sound")
	rootCmd.AddCommand(packCmd)
}

func runPack(cmd *cobra.Command, args []string) error {
	opts := packOpts
	opts.Src = args[0]
	if packSeal {
		if cfg.Passphrase == "" {
			return fmt.Errorf("--seal needs a passphrase (HDX_SFX_PASSPHRASE or config)")
		}
		opts.Passphrase = cfg.Passphrase
	}
	if opts.Name == "" {
		opts.Name = filepath.Base(filepath.Clean(opts.Src))
	}

	files, err := collectSounds(opts.Src)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "[START] PACKING %d sounds from %s with %d workers\n", len(files), opts.Src, opts.Workers)

	prog := NewProgress(cmd.OutOrStdout(), "PACKING", "sounds", len(files))
	bank, m, err := packFiles(cmd.Context(), opts, files, func() { prog.Add(1) })
	if err != nil {
		return err
	}

	out, err := os.Create(args[1])
	if err != nil {
		return err
	}
	if err := container.WriteBank(out, bank); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if packManifest != "" {
		data, err := m.Marshal()
		if err != nil {
			return err
		}
		if err := os.WriteFile(packManifest, data, 0o644); err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "[DONE] %s: %d sounds, sealed=%v\n", args[1], bank.Len(), bank.Sealed())
	return nil
}

// collectSounds returns slash-separated paths of recognised files under root.
func collectSounds(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".wav", ".mp3", ".ogg", ".flac", ".hdxo":
		default:
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	sort.Strings(files)
	return files, err
}

// packFiles encodes files in parallel and assembles the bank in key order.
func packFiles(ctx context.Context, o packOptions, files []string, done func()) (*container.Bank, *manifest.Manifest, error) {
	bank := container.NewBank(o.Name)
	var key []byte
	if o.Passphrase != "" {
		salt, err := security.NewSalt(16)
		if err != nil {
			return nil, nil, err
		}
		bank.Salt = salt
		key = security.DeriveKey(o.Passphrase, salt)
	}

	payloads := make([][]byte, len(files))
	var mu sync.Mutex

	workers := o.Workers
	if workers < 1 {
		workers = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, rel := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := packOne(filepath.Join(o.Src, filepath.FromSlash(rel)), o)
			if err != nil {
				return fmt.Errorf("%s: %w", rel, err)
			}
			if key != nil {
				if data, err = security.Encrypt(data, key); err != nil {
					return err
				}
			}
			mu.Lock()
			payloads[i] = data
			mu.Unlock()
			if done != nil {
				done()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	m := &manifest.Manifest{}
	for i, rel := range files {
		if err := bank.Put(rel, payloads[i]); err != nil {
			return nil, nil, err
		}
		m.Sounds = append(m.Sounds, manifest.Sound{
			Name: strings.TrimSuffix(rel, filepath.Ext(rel)),
			Src:  rel,
		})
	}
	return bank, m, nil
}

// packOne reads a file, checks it is decodable audio and re-encodes WAV
// when asked.
func packOne(path string, o packOptions) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	kind, err := audioengine.Sniff(data)
	if err != nil {
		return nil, err
	}
	if o.Opus && kind == audioengine.KindWAV {
		stream, _, err := codec.EncodeWAVToOpusStream(data, o.Normalize)
		if err != nil {
			return nil, err
		}
		return stream, nil
	}
	return data, nil
}
