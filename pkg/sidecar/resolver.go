package sidecar

import (
	"fmt"
	"os"
	"regexp"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"

	"github.com/studiofoundry/sidecar/pkg/assetid"
)

// blendfileUUIDPattern extracts the identity field from a foreign sidecar's
// generated block. The foreign document is never fully parsed; this single
// pattern search is the whole cross-document contract.
var blendfileUUIDPattern = regexp.MustCompile(`"blendfile_uuid"\s*:\s*"([^"]+)"`)

// NoMint disables identity minting: a dependency with no adjacent sidecar
// and no cached identity resolves to the MISSING_HASH sentinel instead of
// receiving a fresh UUID.
func NoMint() string { return "" }

// mintIdentity is the default minting policy: a fresh v4 UUID in
// canonical string form.
func mintIdentity() string { return assetid.NewUUID().String() }

// Resolver produces a LibraryRecord for each external dependency.
//
// Resolution per dependency, in order: the dependency's own adjacent
// sidecar (authoritative, overrides any stale cache), the cached identity,
// a freshly minted identity, and finally the MISSING_HASH sentinel. Every
// failure along the way is non-fatal and falls through to the next source.
type Resolver struct {
	// FS is the filesystem used to read adjacent sidecar documents.
	FS afero.Fs

	// Cache holds last-resolved identities across passes.
	Cache IdentityCache

	// MintIdentity supplies a new identity when no other source has one.
	// Defaults to a random v4 UUID; set to NoMint to disable minting.
	MintIdentity func() string

	Logger hclog.Logger
}

// NewResolver creates a resolver with the default minting policy.
func NewResolver(fs afero.Fs, cache IdentityCache, logger hclog.Logger) *Resolver {
	return &Resolver{
		FS:           fs,
		Cache:        cache,
		MintIdentity: mintIdentity,
		Logger:       logger,
	}
}

// Resolve computes the LibraryRecord for one dependency. The report, when
// non-nil, accumulates informational notes about fallthroughs.
func (r *Resolver) Resolve(lib LibraryInput, report *Report) LibraryRecord {
	if r.Logger == nil {
		r.Logger = hclog.NewNullLogger()
	}

	libPath := NormalizePath(lib.Path)
	adjacent := libPath + Suffix

	stored := r.readForeignIdentity(libPath, adjacent, report)

	if stored == "" {
		stored = r.cachedOrMinted(libPath, lib.CachedIdentity, report)
	}

	identity := assetid.ParseIdentity(stored)
	if !identity.IsMissing() && r.Cache != nil {
		// Persist so the next pass can short-circuit the sidecar read.
		r.Cache.Put(libPath, stored)
	}

	var tracked []assetid.Asset
	for _, a := range lib.Assets {
		if a.Tracked() {
			tracked = append(tracked, a)
		}
	}
	identity = identity.WithAssets(tracked)

	r.Logger.Debug("resolved library identity",
		"path", libPath,
		"uuid", identity.CanonicalUUID(),
		"assets", len(tracked),
	)

	return LibraryRecord{Path: libPath, Identity: identity}
}

// ResolveAll resolves every dependency in caller order.
func (r *Resolver) ResolveAll(libs []LibraryInput, report *Report) []LibraryRecord {
	records := make([]LibraryRecord, 0, len(libs))
	for _, lib := range libs {
		records = append(records, r.Resolve(lib, report))
	}
	if report != nil {
		report.Libraries = len(records)
	}
	return records
}

// readForeignIdentity reads the dependency's own sidecar and extracts its
// identity field. Any failure returns "" and falls through.
func (r *Resolver) readForeignIdentity(libPath, adjacent string, report *Report) string {
	if r.FS == nil {
		return ""
	}

	data, err := afero.ReadFile(r.FS, adjacent)
	if err != nil {
		if os.IsNotExist(err) {
			r.Logger.Debug("no adjacent sidecar", "path", adjacent)
		} else {
			r.Logger.Info("adjacent sidecar unreadable", "path", adjacent, "error", err)
			if report != nil {
				report.Problems = multierror.Append(report.Problems,
					fmt.Errorf("library %s: adjacent sidecar unreadable: %w", libPath, err))
			}
		}
		return ""
	}

	value, ok := extractBlendfileUUID(data)
	if !ok {
		r.Logger.Debug("adjacent sidecar has no identity field", "path", adjacent)
		return ""
	}

	if report != nil {
		report.ForeignSidecarsRead++
	}
	return value
}

// cachedOrMinted falls back to the cached identity, then mints a new one.
func (r *Resolver) cachedOrMinted(libPath, inputCached string, report *Report) string {
	if inputCached != "" {
		return inputCached
	}
	if r.Cache != nil {
		if cached, ok := r.Cache.Get(libPath); ok && cached != "" {
			return cached
		}
	}

	mint := r.MintIdentity
	if mint == nil {
		mint = mintIdentity
	}
	minted := mint()
	if minted == "" {
		return assetid.MissingHash
	}

	r.Logger.Info("minted new library identity", "path", libPath, "uuid", minted)
	if report != nil {
		report.Minted++
	}
	return minted
}

// extractBlendfileUUID performs the narrow field lookup on a foreign
// sidecar's raw text. It exists as a seam: swapping it for a real partial
// parser must not touch callers.
func extractBlendfileUUID(data []byte) (string, bool) {
	m := blendfileUUIDPattern.FindSubmatch(data)
	if m == nil {
		return "", false
	}
	return string(m[1]), true
}
