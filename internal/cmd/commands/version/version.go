// Package version implements the `sidecar version` command.
package version

import (
	"github.com/studiofoundry/sidecar/internal/cmd/base"
	"github.com/studiofoundry/sidecar/internal/version"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the sidecar version"
}

func (c *Command) Help() string {
	return `Usage: sidecar version

  This command prints the sidecar version.`
}

func (c *Command) Run(args []string) int {
	c.UI.Output(version.Version)
	return 0
}
