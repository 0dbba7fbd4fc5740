package sidecar

import (
	"path"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/studiofoundry/sidecar/pkg/assetid"
)

// Suffix is appended to a project file path to form its sidecar path.
const Suffix = ".side.md"

// PathFor returns the sidecar path adjacent to a project file.
func PathFor(documentPath string) string {
	return NormalizePath(documentPath) + Suffix
}

// NormalizePath converts a dependency path to project-root-relative form
// with forward slashes. The host's "//" root-relative marker and any
// backslash separators are normalized away.
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimPrefix(p, "//")
	p = path.Clean(p)
	if p == "." {
		return ""
	}
	return p
}

// LibraryInput is the host's description of one external file dependency,
// supplied per synchronization pass.
type LibraryInput struct {
	// Path is the dependency's stored path. It is normalized before use.
	Path string `yaml:"path"`

	// CachedIdentity is the last identity resolved for this dependency,
	// if the host persisted one. Empty means no cached value.
	CachedIdentity string `yaml:"uuid,omitempty"`

	// Assets lists the host's trackable items whose back-reference names
	// this dependency as their source library. Items without an assigned
	// UUID are not yet tracked and are skipped during resolution.
	Assets []assetid.Asset `yaml:"assets,omitempty"`
}

// Validate implements validation.Validatable.
func (l LibraryInput) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Path, validation.Required),
		validation.Field(&l.Assets, validation.Each(validation.By(validateAsset))),
	)
}

// LibraryRecord is one resolved dependency: its normalized path and the
// identity that will be written into the generated block.
type LibraryRecord struct {
	Path     string
	Identity assetid.Identity
}

// Basename returns the final path element, used as the markdown link label.
func (r LibraryRecord) Basename() string {
	return path.Base(r.Path)
}
