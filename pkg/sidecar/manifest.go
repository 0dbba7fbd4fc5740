package sidecar

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/studiofoundry/sidecar/pkg/assetid"
)

// Manifest is the host's input contract for one synchronization pass: the
// target project file, the configured default tags, the dependency map, and
// the flat catalog of currently trackable assets.
type Manifest struct {
	Document  string          `yaml:"document"`
	Tags      []string        `yaml:"tags,omitempty"`
	Libraries []LibraryInput  `yaml:"libraries,omitempty"`
	Catalog   []assetid.Asset `yaml:"assets,omitempty"`
}

// LoadManifest reads and validates a YAML manifest.
func LoadManifest(fs afero.Fs, path string) (*Manifest, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return &m, nil
}

// Validate implements validation.Validatable.
func (m Manifest) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Document, validation.Required),
		validation.Field(&m.Libraries),
		validation.Field(&m.Catalog, validation.Each(validation.By(validateAsset))),
	)
}

// validateAsset checks one asset reference: a name is required and the
// category must be one of the recognized asset types. A missing UUID is
// allowed; such items are simply not yet tracked.
func validateAsset(value any) error {
	a, ok := value.(assetid.Asset)
	if !ok {
		return fmt.Errorf("expected asset, got %T", value)
	}
	return validation.ValidateStruct(&a,
		validation.Field(&a.Name, validation.Required),
		validation.Field(&a.Type, validation.Required, validation.By(validAssetType)),
	)
}

func validAssetType(value any) error {
	t, ok := value.(assetid.AssetType)
	if !ok || !t.IsValid() {
		return fmt.Errorf("unknown asset type %q (valid: %v)", value, assetid.ValidAssetTypes())
	}
	return nil
}
