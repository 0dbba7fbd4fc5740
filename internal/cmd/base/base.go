// Package base carries the pieces shared by every CLI command: the logger,
// the UI, and a flag set wrapper that renders its own help text.
package base

import (
	"flag"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
)

// Command is embedded by all CLI commands.
type Command struct {
	Log hclog.Logger
	UI  cli.Ui
}

// FlagSet wraps flag.FlagSet with help rendering suitable for appending to
// a command's Help output.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet wraps a standard flag set.
func NewFlagSet(f *flag.FlagSet) *FlagSet {
	// Help is rendered by the command, not by the flag package.
	f.Usage = func() {}
	return &FlagSet{FlagSet: f}
}

// Help returns the rendered option descriptions.
func (f *FlagSet) Help() string {
	var b strings.Builder
	b.WriteString("\n\nCommand Options:\n\n")
	f.SetOutput(&b)
	f.PrintDefaults()
	return strings.TrimRight(b.String(), "\n")
}
