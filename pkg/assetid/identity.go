package assetid

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// MissingHash is the sentinel identity meaning no durable identity could be
// established for a library.
const MissingHash = "MISSING_HASH"

// identityKind distinguishes the three shapes a stored identity can take.
type identityKind int

const (
	identityMissing identityKind = iota
	identityRaw
	identityStructured
)

// Identity is the resolved durable identity of a linked library: either the
// MISSING_HASH sentinel, a legacy bare UUID string, or a structured pair of
// blendfile UUID and tracked-asset catalog.
type Identity struct {
	kind   identityKind
	uuid   string
	assets []Asset
}

// structuredIdentity is the wire shape of a structured stored identity.
type structuredIdentity struct {
	BlendfileUUID string  `mapstructure:"blendfile_uuid"`
	Assets        []Asset `mapstructure:"assets"`
}

// MissingIdentity returns the sentinel identity.
func MissingIdentity() Identity {
	return Identity{kind: identityMissing, uuid: MissingHash}
}

// RawIdentity returns a legacy bare-string identity.
func RawIdentity(s string) Identity {
	if s == "" || s == MissingHash {
		return MissingIdentity()
	}
	return Identity{kind: identityRaw, uuid: s}
}

// StructuredIdentity returns an identity carrying a blendfile UUID and an
// asset catalog.
func StructuredIdentity(uuid string, assets []Asset) Identity {
	if uuid == "" {
		uuid = MissingHash
	}
	return Identity{kind: identityStructured, uuid: uuid, assets: assets}
}

// ParseIdentity interprets a stored identity string.
//
// A stored value may be a JSON object with a blendfile_uuid field (the
// nested value becomes the canonical UUID), a JSON string (used directly),
// or anything that fails to parse as JSON (tolerated as a legacy raw
// string). Malformed JSON is never an error.
func ParseIdentity(stored string) Identity {
	if stored == "" || stored == MissingHash {
		return MissingIdentity()
	}

	var value any
	if err := json.Unmarshal([]byte(stored), &value); err != nil {
		return RawIdentity(stored)
	}

	switch v := value.(type) {
	case map[string]any:
		var s structuredIdentity
		if err := mapstructure.Decode(v, &s); err != nil || s.BlendfileUUID == "" {
			return RawIdentity(stored)
		}
		return StructuredIdentity(s.BlendfileUUID, s.Assets)
	case string:
		return RawIdentity(v)
	default:
		return RawIdentity(stored)
	}
}

// CanonicalUUID returns the canonical UUID string, or MISSING_HASH.
func (id Identity) CanonicalUUID() string {
	return id.uuid
}

// IsMissing returns true when no durable identity could be established.
func (id Identity) IsMissing() bool {
	return id.uuid == MissingHash
}

// Assets returns the tracked-asset catalog carried by this identity.
func (id Identity) Assets() []Asset {
	return id.assets
}

// WithAssets returns a copy of the identity carrying the given catalog.
// A missing identity with a non-empty catalog becomes structured so the
// assets are not lost when the identity is rendered.
func (id Identity) WithAssets(assets []Asset) Identity {
	out := id
	out.assets = assets
	if len(assets) > 0 {
		out.kind = identityStructured
	}
	return out
}

// String returns a short human-readable description for logging.
func (id Identity) String() string {
	switch id.kind {
	case identityMissing:
		return MissingHash
	case identityRaw:
		return id.uuid
	default:
		return fmt.Sprintf("%s (%d assets)", id.uuid, len(id.assets))
	}
}

// MarshalJSON renders the identity the way sidecar documents store it: the
// bare sentinel string when nothing is known and no assets are tracked,
// otherwise a {blendfile_uuid, assets} object.
func (id Identity) MarshalJSON() ([]byte, error) {
	if id.IsMissing() && len(id.assets) == 0 {
		return json.Marshal(MissingHash)
	}
	assets := id.assets
	if assets == nil {
		assets = []Asset{}
	}
	return json.Marshal(struct {
		BlendfileUUID string  `json:"blendfile_uuid"`
		Assets        []Asset `json:"assets"`
	}{
		BlendfileUUID: id.uuid,
		Assets:        assets,
	})
}

// UnmarshalJSON implements json.Unmarshaler with the same tolerance as
// ParseIdentity.
func (id *Identity) UnmarshalJSON(data []byte) error {
	*id = ParseIdentity(string(data))
	return nil
}
