/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package main

import (
	"os"
)

const (
	app_name           = "HDX-SFX"
	developer_title    = "Developer Hardiyanto"
	developer_subtitle = "Build 17/10/2026 Ebiet Version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
