package sidecar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/studiofoundry/sidecar/pkg/assetid"
)

// GeneratedMarker opens the machine-owned section of a sidecar document.
// Everything from this line to the end of the file is rewritten on every
// pass; nothing below it is ever preserved.
const GeneratedMarker = "# Sidecar Data"

const (
	assetsHeading    = "## Assets"
	librariesHeading = "## Linked Libraries"
)

// libraryEntry is the fenced JSON body written under each library link.
type libraryEntry struct {
	Path string           `json:"path"`
	UUID assetid.Identity `json:"uuid"`
}

// ComposeGeneratedBlock renders the generated section: the document-wide
// asset catalog followed by one entry per linked library, in caller order.
// Output is deterministic and independent of any prior document state.
func ComposeGeneratedBlock(records []LibraryRecord, catalog []assetid.Asset) string {
	var b strings.Builder

	b.WriteString(GeneratedMarker)
	b.WriteString("\n\n")

	b.WriteString(assetsHeading)
	b.WriteString("\n\n```json\n")
	b.WriteString(marshalPretty(catalogOrEmpty(catalog)))
	b.WriteString("\n```\n\n")

	b.WriteString(librariesHeading)
	b.WriteString("\n\n")

	if len(records) == 0 {
		b.WriteString("- None\n")
		return b.String()
	}

	for _, rec := range records {
		fmt.Fprintf(&b, "[%s](%s)\n", rec.Basename(), rec.Path)
		b.WriteString("```json\n")
		b.WriteString(marshalPretty(libraryEntry{Path: rec.Path, UUID: rec.Identity}))
		b.WriteString("\n```\n\n")
	}

	return b.String()
}

func catalogOrEmpty(catalog []assetid.Asset) []assetid.Asset {
	if catalog == nil {
		return []assetid.Asset{}
	}
	return catalog
}

// marshalPretty renders v with two-space indentation and without escaping
// non-ASCII or HTML-significant characters, so asset names round-trip as
// typed.
func marshalPretty(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		// The inputs are plain structs and strings; encoding cannot fail
		// for them, but the composer must never abort a pass.
		return "null"
	}
	return strings.TrimRight(buf.String(), "\n")
}
