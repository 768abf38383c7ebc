/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package main

import (
	"fmt"
	"os"

	"hdxsfx/pkg/audioengine"

	"github.com/spf13/cobra"
)

var encodeGain float64

var encodeCmd = &cobra.Command{
	Use:   "encode IN.wav OUT.hdxo",
	Short: "Stream-encode a 16-bit WAV into an opus frame stream",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer in.Close()

		out, err := os.Create(args[1])
		if err != nil {
			return err
		}
		dur, err := audioengine.StreamEncodeWAV(in, out, encodeGain)
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(args[1])
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "[DONE] %s: %.3fs\n", args[1], dur)
		return nil
	},
}

func init() {
	encodeCmd.Flags().Float64Var(&encodeGain, "gain", 1.0, "linear gain applied before encoding")
	rootCmd.AddCommand(encodeCmd)
}
