package sidecar

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiofoundry/sidecar/pkg/assetid"
)

func newTestSession(t *testing.T) (*Session, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	return NewSession(fs, NewMemoryCache(), nil), fs
}

func TestSynchronize_MergesTagsAndPreservesProse(t *testing.T) {
	s, _ := newTestSession(t)

	existing := "---\ntags: [a, b]\n---\nHello world"

	text, report := s.Synchronize(existing, []string{"b", "c"}, nil, nil)

	assert.True(t, strings.HasPrefix(text,
		"---\ntags:\n  - a\n  - b\n  - c\n---\nHello world\n\n"+GeneratedMarker))
	assert.Contains(t, text, "- None")
	assert.NoError(t, report.Err())
}

func TestSynchronize_EmptyDocument(t *testing.T) {
	s, _ := newTestSession(t)

	text, _ := s.Synchronize("", []string{"x"}, nil, nil)

	assert.True(t, strings.HasPrefix(text, "---\ntags:\n  - x\n---\n"+GeneratedMarker))
}

func TestSynchronize_NoHeaderPassthrough(t *testing.T) {
	s, _ := newTestSession(t)

	text, _ := s.Synchronize("Just prose\n\nmore prose\n", nil, nil, nil)

	assert.True(t, strings.HasPrefix(text, "Just prose\n\nmore prose\n\n"+GeneratedMarker))
}

func TestSynchronize_ReplacesPriorGeneratedBlock(t *testing.T) {
	s, _ := newTestSession(t)

	existing := "---\ntags: [a]\n---\nNotes here.\n\n" +
		GeneratedMarker + "\n\n## Assets\n\n```json\n[]\n```\n\n## Linked Libraries\n\n- None\n"

	text, _ := s.Synchronize(existing, nil, nil, nil)

	assert.Equal(t, 1, strings.Count(text, GeneratedMarker))
	assert.Contains(t, text, "Notes here.")
}

func TestSynchronize_Idempotent(t *testing.T) {
	s, _ := newTestSession(t)

	libs := []LibraryInput{{Path: "libs/env.blend"}}
	catalog := []assetid.Asset{
		{Name: "Cube", Type: assetid.AssetTypeObject, UUID: "a-1"},
	}
	tags := []string{"project"}

	first, _ := s.Synchronize("---\ntags: [scene]\n---\nMy notes.", tags, libs, catalog)
	second, _ := s.Synchronize(first, tags, libs, catalog)

	// The minted identity is recalled from the session cache, so a second
	// pass over its own output changes nothing.
	assert.Equal(t, first, second)
}

func TestSynchronize_LibraryWithTrackedAssets(t *testing.T) {
	s, _ := newTestSession(t)

	libs := []LibraryInput{{
		Path:           "libs/env.blend",
		CachedIdentity: "u-1",
		Assets: []assetid.Asset{
			{Name: "Cube", Type: assetid.AssetTypeObject, UUID: "a-1"},
		},
	}}

	text, report := s.Synchronize("", nil, libs, nil)

	assert.Contains(t, text, "[env.blend](libs/env.blend)")
	assert.Contains(t, text, `"blendfile_uuid": "u-1"`)
	assert.Contains(t, text, `"name": "Cube"`)
	assert.Equal(t, 1, report.Libraries)
}

func TestSynchronize_ForeignIdentityWinsOverCache(t *testing.T) {
	s, fs := newTestSession(t)
	require.NoError(t, afero.WriteFile(fs, "libs/env.blend"+Suffix,
		[]byte(`{"blendfile_uuid": "abc-123"}`), 0o644))

	text, report := s.Synchronize("", nil, []LibraryInput{{
		Path:           "libs/env.blend",
		CachedIdentity: "stale",
	}}, nil)

	assert.Contains(t, text, `"blendfile_uuid": "abc-123"`)
	assert.NotContains(t, text, "stale")
	assert.Equal(t, 1, report.ForeignSidecarsRead)
}

func TestSynchronize_UnknownLibraryWithoutMinting(t *testing.T) {
	s, _ := newTestSession(t)
	s.Resolver().MintIdentity = NoMint

	text, _ := s.Synchronize("", nil, []LibraryInput{{Path: "libs/ghost.blend"}}, nil)

	assert.Contains(t, text, `"uuid": "MISSING_HASH"`)
}

func TestSynchronize_TotalOnMalformedInput(t *testing.T) {
	s, _ := newTestSession(t)

	// Unterminated header: the whole input is treated as opaque preserved
	// content with no header and no recognized tags.
	existing := "---\ntags: [a]\nnever closed"

	text, _ := s.Synchronize(existing, nil, nil, nil)

	assert.True(t, strings.HasPrefix(text, "---\ntags: [a]\nnever closed\n\n"+GeneratedMarker))
}

func TestSynchronize_TagMonotonicityAcrossPasses(t *testing.T) {
	s, _ := newTestSession(t)

	first, _ := s.Synchronize("---\ntags: [keep]\n---\n", []string{"added"}, nil, nil)
	second, _ := s.Synchronize(first, nil, nil, nil)

	// Tags present before a pass are never removed by it.
	assert.Contains(t, second, "  - keep")
	assert.Contains(t, second, "  - added")
}

func TestSession_Reset(t *testing.T) {
	s, _ := newTestSession(t)

	first, _ := s.Synchronize("", nil, []LibraryInput{{Path: "libs/env.blend"}}, nil)
	s.Reset()
	second, _ := s.Synchronize("", nil, []LibraryInput{{Path: "libs/env.blend"}}, nil)

	// A reset discards cached identities, so the library is re-minted.
	assert.NotEqual(t, first, second)
}

func TestPathFor(t *testing.T) {
	assert.Equal(t, "scenes/shot_010.blend"+Suffix, PathFor("scenes/shot_010.blend"))
	assert.Equal(t, "scenes/shot_010.blend"+Suffix, PathFor(`//scenes\shot_010.blend`))
}

func TestNormalizePath(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"libs/env.blend", "libs/env.blend"},
		{`libs\env.blend`, "libs/env.blend"},
		{"//libs/env.blend", "libs/env.blend"},
		{"./libs/env.blend", "libs/env.blend"},
		{"libs//env.blend", "libs/env.blend"},
		{"", ""},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, NormalizePath(tc.in), "input %q", tc.in)
	}
}
