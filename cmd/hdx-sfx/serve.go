/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package main

import (
	"os"
	"os/signal"
	"syscall"

	"hdxsfx/internal/ipc"
	"hdxsfx/internal/log"
	"hdxsfx/pkg/sfx"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the control socket server",
	Long: `Run the sound manager behind a unix socket speaking the HDX line protocol.
Connect with hdx-sfx-client or any line-oriented socket tool.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := ipc.NewServer(log.New(os.Stderr, "[ipc] ", logger.Level()))
	mgr, err := buildManager(ctx, sfx.WithObserver(srv.Notify))
	if err != nil {
		return err
	}
	srv.Attach(mgr)

	if err := srv.Listen(cfg.Socket); err != nil {
		return err
	}
	defer os.Remove(cfg.Socket)

	logger.Infof("%s ready, %d sounds registered", app_name, len(mgr.Names()))
	return srv.Serve(ctx)
}
