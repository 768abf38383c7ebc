/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package main

import (
	"context"

	"hdxsfx/internal/log"
	"hdxsfx/internal/manifest"
	"hdxsfx/internal/source"
	"hdxsfx/pkg/audioengine"
	"hdxsfx/pkg/sfx"
)

// buildManager wires config, source stack, speaker engine and manifest into
// a manager. extra options are applied last.
func buildManager(ctx context.Context, extra ...sfx.Option) (*sfx.Manager, error) {
	src, err := source.Build(cfg.SourceOptions())
	if err != nil {
		return nil, err
	}
	eng := audioengine.New(cfg.SampleRate, cfg.BufferMs)

	opts := []sfx.Option{
		sfx.WithSource(src),
		sfx.WithBasePath(cfg.BasePath),
		sfx.WithLocale(cfg.LocaleValue()),
		sfx.WithDiagnostics(log.Diagnostics(logger)),
	}
	mgr := sfx.New(eng, append(opts, extra...)...)

	if err := applyManifest(ctx, mgr, cfg.Manifest); err != nil {
		return nil, err
	}
	return mgr, nil
}

// applyManifest preloads path into t. Individual load failures are logged
// and do not abort startup.
func applyManifest(ctx context.Context, t manifest.Target, path string) error {
	if path == "" {
		return nil
	}
	m, err := manifest.Read(path)
	if err != nil {
		return err
	}
	if err := m.Apply(ctx, t); err != nil {
		logger.Warnf("manifest %s: %v", path, err)
	}
	logger.Infof("manifest %s: %d sounds, %d tags", path, len(m.Sounds), len(m.Tags))
	return nil
}
