/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package main

import (
	"fmt"
	"os"

	"hdxsfx/internal/config"
	"hdxsfx/internal/log"
	"hdxsfx/pkg/spec"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     config.Config
	logger  = log.New(os.Stderr, "[sfx] ", log.LevelInfo)
)

var rootCmd = &cobra.Command{
	Use:           "hdx-sfx",
	Short:         "Named sound effects: load, tag, play, stop, volume and mute",
	Version:       spec.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v := config.New(cfgFile)
		for key, flag := range map[string]string{
			"base_path": "base-path",
			"source":    "source",
			"bank_path": "bank",
			"locale":    "locale",
			"socket":    "socket",
			"manifest":  "manifest",
			"log_level": "log-level",
		} {
			if err := v.BindPFlag(key, cmd.Root().PersistentFlags().Lookup(flag)); err != nil {
				return err
			}
		}
		c, err := config.Load(v)
		if err != nil {
			return err
		}
		cfg = c
		logger.SetLevel(log.LevelFromString(cfg.LogLevel))
		logger.Debugf("config: source=%s base=%q locale=%s", cfg.Source, cfg.BasePath, cfg.Locale)
		return nil
	},
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("%s V.{{.Version}}\n%s %s\n", app_name, developer_title, developer_subtitle))

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "YAML config file (env HDX_SFX_* overrides)")
	pf.String("base-path", "", "prefix prepended to every sound source key")
	pf.String("source", "", "byte source: dir, http or bank")
	pf.String("bank", "", "sound bank file when source is bank")
	pf.String("locale", "", "operation names and messages: en or tr")
	pf.String("socket", "", "control socket path")
	pf.String("manifest", "", "YAML manifest preloaded at startup")
	pf.String("log-level", "", "debug, info, warn, error or none")
}

// execute runs rootCmd with args.
func execute(args ...string) error {
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}
