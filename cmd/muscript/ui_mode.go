package main

import (
	"fmt"
	"os"
	"strings"
)

// progressMode controls whether compile renders the interactive per-class
// progress view or prints plain diagnostics only.
type progressMode int

const (
	progressAuto progressMode = iota
	progressAlways
	progressNever
)

// parseProgressMode reads the --ui flag value. "auto" (and the empty
// string) defers the decision until interactive() looks at stdout.
func parseProgressMode(value string) (progressMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return progressAuto, nil
	case "on", "always":
		return progressAlways, nil
	case "off", "never":
		return progressNever, nil
	}
	return progressAuto, fmt.Errorf("--ui must be auto, on, or off, got %q", value)
}

// interactive resolves the mode against the actual stdout: auto means
// "only when a human is watching".
func (m progressMode) interactive() bool {
	switch m {
	case progressAlways:
		return true
	case progressNever:
		return false
	}
	return isTerminal(os.Stdout)
}
