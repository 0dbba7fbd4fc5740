package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/studiofoundry/sidecar/internal/cmd/base"
	synccmd "github.com/studiofoundry/sidecar/internal/cmd/commands/sync"
	versioncmd "github.com/studiofoundry/sidecar/internal/cmd/commands/version"
)

// Commands is the mapping of subcommand names to factories.
var Commands map[string]cli.CommandFactory

func initCommands(log hclog.Logger, ui cli.Ui) {
	b := &base.Command{
		Log: log,
		UI:  ui,
	}

	Commands = map[string]cli.CommandFactory{
		"sync": func() (cli.Command, error) {
			return &synccmd.Command{Command: b}, nil
		},
		"version": func() (cli.Command, error) {
			return &versioncmd.Command{Command: b}, nil
		},
	}
}
