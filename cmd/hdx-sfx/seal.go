/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package main

import (
	"errors"
	"fmt"
	"os"

	"hdxsfx/internal/security"
	"hdxsfx/pkg/spec"

	"github.com/spf13/cobra"
)

var errNoPassphrase = errors.New("no passphrase configured (HDX_SFX_PASSPHRASE or config)")

var sealCmd = &cobra.Command{
	Use:   "seal IN OUT",
	Short: "Encrypt a single sound file for a sealed source",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Passphrase == "" {
			return errNoPassphrase
		}
		return sealFile(args[0], args[1], cfg.Passphrase)
	},
}

var unsealCmd = &cobra.Command{
	Use:   "unseal IN OUT",
	Short: "Decrypt a sealed sound file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Passphrase == "" {
			return errNoPassphrase
		}
		return unsealFile(args[0], args[1], cfg.Passphrase)
	},
}

func init() {
	rootCmd.AddCommand(sealCmd, unsealCmd)
}

func sealFile(in, out, pass string) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	if security.IsSealed(data) {
		return fmt.Errorf("%s is already sealed", in)
	}
	sealed, err := security.Seal(data, security.DeriveKey(pass, []byte(spec.Salt)))
	if err != nil {
		return err
	}
	return os.WriteFile(out, sealed, 0o644)
}

func unsealFile(in, out, pass string) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	plain, err := security.Unseal(data, security.DeriveKey(pass, []byte(spec.Salt)))
	if err != nil {
		return err
	}
	return os.WriteFile(out, plain, 0o644)
}
