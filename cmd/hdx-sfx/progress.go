package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

type Progress struct {
	out     io.Writer
	label   string
	unit    string
	total   int
	current int
	mu      sync.Mutex
}

func NewProgress(out io.Writer, label, unit string, total int) *Progress {
	return &Progress{out: out, label: label, unit: unit, total: total}
}

func (p *Progress) Add(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current += n
	p.draw()
}

func (p *Progress) draw() {
	if p.total <= 0 {
		return
	}
	width := 30
	percent := float64(p.current) / float64(p.total)
	filled := int(float64(width) * percent)

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	// \r keeps the bar on one line
	fmt.Fprintf(p.out, "\r [%s] [%s] %d%% (%d/%d %s)", p.label, bar, int(percent*100), p.current, p.total, p.unit)

	if p.current == p.total {
		fmt.Fprintln(p.out)
	}
}
