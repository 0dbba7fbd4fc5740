// Package sync implements the `sidecar sync` command: one full
// synchronization pass against a project file's sidecar document.
package sync

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/studiofoundry/sidecar/internal/cmd/base"
	"github.com/studiofoundry/sidecar/pkg/sidecar"
)

type Command struct {
	*base.Command

	flagManifest string
	flagCache    string
	flagNoMint   bool
	flagDryRun   bool
}

func (c *Command) Synopsis() string {
	return "Synchronize a project file's sidecar document"
}

func (c *Command) Help() string {
	return `Usage: sidecar sync -manifest=<path>

  This command reads a sync manifest describing the project file, its
  configured tags, its library dependencies, and its trackable assets,
  then rewrites the adjacent sidecar document. User-authored prose in the
  existing sidecar is preserved; the generated section is rebuilt.` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("sync", flag.ExitOnError))

	f.StringVar(
		&c.flagManifest, "manifest", "", "(Required) Path to the sync manifest YAML file.",
	)
	f.StringVar(
		&c.flagCache, "cache", "",
		"Path to the persisted identity cache. Defaults to .sidecar-cache.yml next to the manifest.",
	)
	f.BoolVar(
		&c.flagNoMint, "no-mint", false,
		"Do not mint identities for unknown libraries; record MISSING_HASH instead.",
	)
	f.BoolVar(
		&c.flagDryRun, "dry-run", false,
		"Print the new sidecar text without writing it.",
	)

	return f
}

func (c *Command) Run(args []string) int {
	logger, ui := c.Log, c.UI

	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	if c.flagManifest == "" {
		ui.Error("manifest flag is required")
		return 1
	}

	fs := afero.NewOsFs()

	manifest, err := sidecar.LoadManifest(fs, c.flagManifest)
	if err != nil {
		ui.Error(fmt.Sprintf("error loading manifest: %v", err))
		return 1
	}

	cachePath := c.flagCache
	if cachePath == "" {
		cachePath = filepath.Join(filepath.Dir(c.flagManifest), ".sidecar-cache.yml")
	}
	cache, err := sidecar.NewFileCache(fs, cachePath)
	if err != nil {
		ui.Error(fmt.Sprintf("error loading identity cache: %v", err))
		return 1
	}

	session := sidecar.NewSession(fs, cache, logger)
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn("failed to flush identity cache", "error", err)
		}
	}()
	if c.flagNoMint {
		session.Resolver().MintIdentity = sidecar.NoMint
	}

	target := sidecar.PathFor(manifest.Document)

	// A missing sidecar is a fresh document, not an error.
	existing := ""
	if data, err := afero.ReadFile(fs, target); err == nil {
		existing = string(data)
	} else if !os.IsNotExist(err) {
		ui.Error(fmt.Sprintf("error reading sidecar %s: %v", target, err))
		return 1
	}

	text, report := session.Synchronize(existing, manifest.Tags, manifest.Libraries, manifest.Catalog)

	if err := report.Err(); err != nil {
		logger.Info("synchronization completed with notes", "notes", err)
	}

	if c.flagDryRun {
		ui.Output(text)
		return 0
	}

	if err := writeReplace(fs, target, text); err != nil {
		ui.Error(fmt.Sprintf("error writing sidecar: %v", err))
		return 1
	}

	ui.Info(fmt.Sprintf(
		"Synchronized %s (%d libraries, %d minted)",
		target, report.Libraries, report.Minted,
	))
	return 0
}

// writeReplace performs a full-document replacement via write-temp-then-
// rename so readers never observe a partial sidecar.
func writeReplace(fs afero.Fs, path, text string) error {
	dir := filepath.Dir(path)
	tmp, err := afero.TempFile(fs, dir, ".sidecar-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		fs.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		fs.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := fs.Rename(tmpName, path); err != nil {
		fs.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
