/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	"hdxsfx/pkg/spec"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

const (
	app_name           = "HDX-SFX-Client"
	developer_title    = "Developer Hardiyanto"
	developer_subtitle = "Build 27/12/2025 Ebiet Version"
)

var socketPath string

var rootCmd = &cobra.Command{
	Use:          "hdx-sfx-client",
	Short:        "Interactive client for the hdx-sfx control socket",
	Version:      spec.Version,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&socketPath, "socket", spec.DefaultSocket, "control socket path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	fmt.Printf("\n%s V.%s\n", app_name, spec.Version)
	fmt.Printf("%s %s\n", developer_title, developer_subtitle)

	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return err
	}
	defer conn.Close()

	rl, err := readline.NewEx(&readline.Config{Prompt: "sfx> ", InterruptPrompt: "^C"})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Fprintln(rl.Stdout(), "CONNECTED", socketPath)
	fmt.Fprintln(rl.Stdout(), `Type IPC command, press Enter. "QUIT" exits`)

	closed := make(chan struct{})
	go func() {
		relay(conn, rl.Stdout())
		close(closed)
		rl.Close()
	}()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "QUIT" {
			fmt.Fprintln(rl.Stdout(), "Bye.")
			return nil
		}
		if _, err := io.WriteString(conn, line+"\n"); err != nil {
			return fmt.Errorf("write: %w", err)
		}
	}

	select {
	case <-closed:
		fmt.Fprintln(os.Stdout, "SOCKET CLOSED")
	default:
	}
	return nil
}

// relay copies server lines to out until the connection closes.
func relay(conn io.Reader, out io.Writer) {
	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		fmt.Fprintln(out, label(sc.Text()))
	}
}

// label marks pushed events apart from command replies.
func label(line string) string {
	if rest, ok := strings.CutPrefix(line, spec.EventPrefix+" "); ok {
		return "EVENT: " + rest
	}
	return "RECV: " + line
}
