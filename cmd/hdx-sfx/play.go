/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"hdxsfx/internal/log"
	"hdxsfx/internal/source"
	"hdxsfx/pkg/audioengine"
	"hdxsfx/pkg/sfx"

	"github.com/spf13/cobra"
)

var playVolume int

var playCmd = &cobra.Command{
	Use:   "play FILE",
	Short: "Play one sound file and wait until it ends",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlay,
}

func init() {
	playCmd.Flags().IntVar(&playVolume, "volume", sfx.DefaultVolume, "sound volume in percent")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	src, err := source.Build(cfg.SourceOptions())
	if err != nil {
		return err
	}

	name := filepath.Base(args[0])
	done := make(chan struct{})
	mgr := sfx.New(audioengine.New(cfg.SampleRate, cfg.BufferMs),
		sfx.WithSource(src),
		sfx.WithLocale(cfg.LocaleValue()),
		sfx.WithDiagnostics(log.Diagnostics(logger)),
		sfx.WithObserver(func(ev sfx.Event) {
			if ev.Type == sfx.EventFinished && ev.Tracked {
				close(done)
			}
		}),
	)

	if err := mgr.Load(ctx, name, args[0], playVolume); err != nil {
		return err
	}
	if !mgr.Play(name) {
		return fmt.Errorf("could not play %s", args[0])
	}
	logger.Infof("playing %s at %d%%", name, playVolume)

	select {
	case <-done:
	case <-ctx.Done():
		mgr.Stop(name)
	}
	return nil
}
