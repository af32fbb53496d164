package main

import (
	"github.com/logrusorgru/aurora"
)

// palette colours CLI output. A disabled palette passes text through.
type palette struct {
	au      aurora.Aurora
	enabled bool
}

func newPalette(enabled bool) palette {
	return palette{au: aurora.NewAurora(enabled), enabled: enabled}
}

func (p palette) result(v any) string {
	return p.au.Colorize(v, aurora.YellowFg|aurora.BrightFg).String()
}

func (p palette) label(s string) string {
	return p.au.Colorize(s, aurora.CyanFg).String()
}

func (p palette) failure(message string) string {
	return p.au.Colorize(message, aurora.RedFg|aurora.BrightFg|aurora.BoldFm).String()
}
