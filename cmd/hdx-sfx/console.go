/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"hdxsfx/pkg/sfx"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive sound console",
	Long: `Drive the sound manager from a prompt. Every line is an operation in the
selected locale (load, tag, play, stop, setMasterVolume, mute, unmute,
toggleMute) or the name of a loaded sound, optionally followed by a volume.
TAB completes verbs and sound names.`,
	Args: cobra.NoArgs,
	RunE: runConsole,
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}

// console words handled before the manager sees the line
var consoleWords = []string{"help", "list", "status", "quit", "exit"}

func runConsole(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	mgr, err := buildManager(ctx)
	if err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "sfx> ",
		AutoComplete:    readline.NewPrefixCompleter(readline.PcItemDynamic(func(string) []string { return completions(mgr) })),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Fprintf(rl.Stdout(), "\n%s console (%s)\n", app_name, mgr.Locale().Name)
	fmt.Fprintln(rl.Stdout(), `Type "help" for operations, TAB to complete`)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			return nil
		}
		if quit := runLine(ctx, mgr, rl.Stdout(), line); quit {
			return nil
		}
	}
}

// runLine executes one console line and reports whether the console should exit.
func runLine(ctx context.Context, mgr *sfx.Manager, out io.Writer, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "quit", "exit":
		return true
	case "help":
		verbs := mgr.Locale().Verbs()
		sort.Strings(verbs)
		fmt.Fprintf(out, "operations: %s\n", strings.Join(verbs, ", "))
		fmt.Fprintf(out, "console:    %s\n", strings.Join(consoleWords, ", "))
		fmt.Fprintln(out, "any loaded sound name plays it: <name> [volume]")
		return false
	case "list":
		for _, n := range mgr.Names() {
			e, _ := mgr.Entry(n)
			fmt.Fprintf(out, "  %-24s %3d%%\n", n, e.Volume)
		}
		return false
	case "status":
		b, _ := json.MarshalIndent(mgr.Snapshot(), "", "  ")
		fmt.Fprintln(out, string(b))
		return false
	}

	if _, err := mgr.Call(ctx, fields[0], fields[1:]...); err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
	}
	return false
}

// completions lists console words, locale verbs and registered names.
func completions(mgr *sfx.Manager) []string {
	out := append([]string{}, consoleWords...)
	out = append(out, mgr.Locale().Verbs()...)
	out = append(out, mgr.Names()...)
	sort.Strings(out)
	return out
}
