package sidecar

import (
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiofoundry/sidecar/pkg/assetid"
)

func newTestResolver(t *testing.T) (*Resolver, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	return NewResolver(fs, NewMemoryCache(), nil), fs
}

func TestResolver_AdjacentSidecarOverridesStaleCache(t *testing.T) {
	r, fs := newTestResolver(t)

	foreign := "# Sidecar Data\n\n```json\n{\"blendfile_uuid\": \"abc-123\", \"assets\": []}\n```\n"
	require.NoError(t, afero.WriteFile(fs, "libs/env.blend"+Suffix, []byte(foreign), 0o644))

	rec := r.Resolve(LibraryInput{
		Path:           "libs/env.blend",
		CachedIdentity: "stale-value",
	}, nil)

	assert.Equal(t, "abc-123", rec.Identity.CanonicalUUID())

	// The cache is refreshed with the authoritative value.
	cached, ok := r.Cache.Get("libs/env.blend")
	require.True(t, ok)
	assert.Equal(t, "abc-123", cached)
}

func TestResolver_FallsBackToInputCache(t *testing.T) {
	r, _ := newTestResolver(t)

	rec := r.Resolve(LibraryInput{
		Path:           "libs/env.blend",
		CachedIdentity: "cached-uuid",
	}, nil)

	assert.Equal(t, "cached-uuid", rec.Identity.CanonicalUUID())
}

func TestResolver_FallsBackToSessionCache(t *testing.T) {
	r, _ := newTestResolver(t)
	r.Cache.Put("libs/env.blend", "session-uuid")

	rec := r.Resolve(LibraryInput{Path: "libs/env.blend"}, nil)

	assert.Equal(t, "session-uuid", rec.Identity.CanonicalUUID())
}

func TestResolver_MintsWhenNothingKnown(t *testing.T) {
	r, _ := newTestResolver(t)
	report := &Report{}

	rec := r.Resolve(LibraryInput{Path: "libs/env.blend"}, report)

	require.False(t, rec.Identity.IsMissing())
	_, err := assetid.ParseUUID(rec.Identity.CanonicalUUID())
	assert.NoError(t, err, "default minter produces a v4 UUID")
	assert.Equal(t, 1, report.Minted)

	// The minted identity is cached for future passes.
	cached, ok := r.Cache.Get("libs/env.blend")
	require.True(t, ok)
	assert.Equal(t, rec.Identity.CanonicalUUID(), cached)
}

func TestResolver_MintingIsIdempotentAcrossPasses(t *testing.T) {
	r, _ := newTestResolver(t)

	first := r.Resolve(LibraryInput{Path: "libs/env.blend"}, nil)
	second := r.Resolve(LibraryInput{Path: "libs/env.blend"}, nil)

	assert.Equal(t, first.Identity.CanonicalUUID(), second.Identity.CanonicalUUID())
}

func TestResolver_NoMint(t *testing.T) {
	r, _ := newTestResolver(t)
	r.MintIdentity = NoMint

	rec := r.Resolve(LibraryInput{Path: "libs/env.blend"}, nil)

	assert.True(t, rec.Identity.IsMissing())

	// The sentinel is never cached.
	_, ok := r.Cache.Get("libs/env.blend")
	assert.False(t, ok)
}

func TestResolver_ExcludesUntrackedAssets(t *testing.T) {
	r, _ := newTestResolver(t)

	rec := r.Resolve(LibraryInput{
		Path:           "libs/env.blend",
		CachedIdentity: "u-1",
		Assets: []assetid.Asset{
			{Name: "Cube", Type: assetid.AssetTypeObject, UUID: "a-1"},
			{Name: "Untracked", Type: assetid.AssetTypeMaterial},
		},
	}, nil)

	require.Len(t, rec.Identity.Assets(), 1)
	assert.Equal(t, "Cube", rec.Identity.Assets()[0].Name)
}

func TestResolver_NormalizesPaths(t *testing.T) {
	r, _ := newTestResolver(t)

	rec := r.Resolve(LibraryInput{
		Path:           `//libs\env.blend`,
		CachedIdentity: "u-1",
	}, nil)

	assert.Equal(t, "libs/env.blend", rec.Path)
}

func TestResolver_ForeignSidecarWithoutIdentityField(t *testing.T) {
	r, fs := newTestResolver(t)
	require.NoError(t, afero.WriteFile(fs, "libs/env.blend"+Suffix,
		[]byte("just some prose, no generated block"), 0o644))

	rec := r.Resolve(LibraryInput{
		Path:           "libs/env.blend",
		CachedIdentity: "cached-uuid",
	}, nil)

	assert.Equal(t, "cached-uuid", rec.Identity.CanonicalUUID())
}

// unreadableFs fails opens on one path while delegating everything else.
type unreadableFs struct {
	afero.Fs
	path string
}

func (f *unreadableFs) Open(name string) (afero.File, error) {
	if name == f.path {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	return f.Fs.Open(name)
}

func TestResolver_UnreadableForeignSidecarFallsThrough(t *testing.T) {
	r, fs := newTestResolver(t)
	adjacent := "libs/env.blend" + Suffix
	require.NoError(t, afero.WriteFile(fs, adjacent, []byte("unreachable"), 0o644))
	r.FS = &unreadableFs{Fs: fs, path: adjacent}
	report := &Report{}

	rec := r.Resolve(LibraryInput{
		Path:           "libs/env.blend",
		CachedIdentity: "cached-uuid",
	}, report)

	// Resolution degrades to the cached identity instead of failing.
	assert.Equal(t, "cached-uuid", rec.Identity.CanonicalUUID())
	assert.Equal(t, 0, report.ForeignSidecarsRead)

	// The read failure is still surfaced on the report.
	require.Error(t, report.Err())
	assert.Contains(t, report.Err().Error(), "adjacent sidecar unreadable")
}

func TestResolver_StructuredForeignIdentity(t *testing.T) {
	// A foreign sidecar whose identity field sits inside a larger JSON
	// object still yields just the UUID value.
	r, fs := newTestResolver(t)
	foreign := `[env.blend](libs/env.blend)
` + "```json\n" + `{
  "path": "libs/env.blend",
  "uuid": {
    "blendfile_uuid": "deep-uuid",
    "assets": []
  }
}` + "\n```\n"
	require.NoError(t, afero.WriteFile(fs, "libs/env.blend"+Suffix, []byte(foreign), 0o644))

	rec := r.Resolve(LibraryInput{Path: "libs/env.blend"}, nil)

	assert.Equal(t, "deep-uuid", rec.Identity.CanonicalUUID())
}

func TestResolveAll_KeepsCallerOrder(t *testing.T) {
	r, _ := newTestResolver(t)
	report := &Report{}

	records := r.ResolveAll([]LibraryInput{
		{Path: "b.blend", CachedIdentity: "u-b"},
		{Path: "a.blend", CachedIdentity: "u-a"},
	}, report)

	require.Len(t, records, 2)
	assert.Equal(t, "b.blend", records[0].Path)
	assert.Equal(t, "a.blend", records[1].Path)
	assert.Equal(t, 2, report.Libraries)
}

func TestExtractBlendfileUUID(t *testing.T) {
	testCases := []struct {
		name  string
		data  string
		want  string
		found bool
	}{
		{"simple", `"blendfile_uuid": "abc"`, "abc", true},
		{"no whitespace", `"blendfile_uuid":"abc"`, "abc", true},
		{"absent", `"uuid": "abc"`, "", false},
		{"empty input", "", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, found := extractBlendfileUUID([]byte(tc.data))
			assert.Equal(t, tc.found, found)
			assert.Equal(t, tc.want, got)
		})
	}
}
