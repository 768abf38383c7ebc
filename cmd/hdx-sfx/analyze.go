/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"hdxsfx/internal/codec"

	"github.com/spf13/cobra"
)

var (
	analyzeJSON        bool
	analyzeSpectrogram string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze FILE...",
	Short: "Print duration, levels, dominant frequency and fingerprint of sound files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range args {
			if err := analyzeFile(cmd.OutOrStdout(), path, analyzeJSON, analyzeSpectrogram); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "one JSON object per file")
	analyzeCmd.Flags().StringVar(&analyzeSpectrogram, "spectrogram", "", "write <name>.png spectrograms into this directory")
	rootCmd.AddCommand(analyzeCmd)
}

type analyzeResult struct {
	File string `json:"file"`
	*codec.Report
}

func analyzeFile(out io.Writer, path string, asJSON bool, specDir string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	r, err := codec.Analyze(data)
	if err != nil {
		return err
	}

	if specDir != "" {
		img, err := r.Spectrogram()
		if err != nil {
			return err
		}
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if err := os.WriteFile(filepath.Join(specDir, base+".png"), img, 0o644); err != nil {
			return err
		}
	}

	if asJSON {
		return json.NewEncoder(out).Encode(analyzeResult{File: path, Report: r})
	}
	fmt.Fprintf(out, "%s\n", path)
	fmt.Fprintf(out, "  format      : %s\n", r.Format)
	fmt.Fprintf(out, "  duration    : %.3fs (%d frames)\n", r.Duration, r.Frames)
	fmt.Fprintf(out, "  peak        : %.3f (%.1f dBFS)\n", r.Peak, r.PeakDB)
	fmt.Fprintf(out, "  rms         : %.3f\n", r.RMS)
	fmt.Fprintf(out, "  dominant    : %.1f Hz\n", r.DominantHz)
	fmt.Fprintf(out, "  fingerprint : %s\n", r.Fingerprint)
	return nil
}
