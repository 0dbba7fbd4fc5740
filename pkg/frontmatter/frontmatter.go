// Package frontmatter implements the parse/merge/reconstruct cycle for the
// `---`-fenced header block at the top of a sidecar document.
//
// The header is a small key-value block in which only the `tags` entry is
// interpreted; every other line is opaque and must survive a rewrite
// verbatim, in its original order. Tags may appear inline
// (`tags: [a, b]`) or as a block:
//
//	tags:
//	  - a
//	  - b
//
// All functions in this package are pure: they operate on line slices and
// perform no I/O, so the merge policy can be tested against literal inputs.
package frontmatter

import (
	"sort"
	"strings"
)

// fence is the header delimiter line.
const fence = "---"

// Parse scans lines for a `---`-fenced header and extracts the tag set.
//
// It returns the collected tags, the index of the closing fence, and the
// header body (the lines strictly between the fences, verbatim). A document
// that is empty, does not open with a fence, or never closes the fence has
// no header: Parse returns (nil, -1, nil) and discards any partial scan.
func Parse(lines []string) (tags []string, headerEnd int, body []string) {
	if len(lines) == 0 || trimEOL(lines[0]) != fence {
		return nil, -1, nil
	}

	headerEnd = -1
	for i := 1; i < len(lines); i++ {
		if trimEOL(lines[i]) == fence {
			headerEnd = i
			break
		}
	}
	if headerEnd == -1 {
		// Unterminated header is not a partial match.
		return nil, -1, nil
	}

	body = lines[1:headerEnd]

	seen := make(map[string]bool)
	collecting := false
	for _, raw := range body {
		line := trimEOL(raw)
		item := strings.TrimSpace(line)

		if collecting {
			if strings.HasPrefix(item, "- ") {
				addTag(&tags, seen, strings.TrimSpace(item[2:]))
				continue
			}
			if isIndented(line) {
				// Indented continuation that is not a list item: not a
				// tag, but collection mode stays open.
				continue
			}
			collecting = false
		}

		if strings.HasPrefix(line, "tags:") {
			collecting = true
			for _, t := range splitInline(line[len("tags:"):]) {
				addTag(&tags, seen, t)
			}
		}
	}

	return tags, headerEnd, body
}

// ReconstructBody rewrites a header body with a new tags block.
//
// The first `tags:` line and any immediately following `  - ` item lines are
// replaced by a block listing finalTags, one item per line. An empty
// finalTags removes the block entirely. When no `tags:` line exists and
// finalTags is non-empty, the block is appended at the end. All other lines
// are copied verbatim with trailing CR/LF stripped.
func ReconstructBody(body []string, finalTags []string) []string {
	out := make([]string, 0, len(body)+len(finalTags)+1)
	replaced := false

	i := 0
	for i < len(body) {
		line := trimEOL(body[i])
		if !replaced && strings.HasPrefix(line, "tags:") {
			replaced = true
			i++
			for i < len(body) {
				if !strings.HasPrefix(strings.TrimSpace(trimEOL(body[i])), "- ") {
					break
				}
				i++
			}
			out = appendTagsBlock(out, finalTags)
			continue
		}
		out = append(out, line)
		i++
	}

	if !replaced {
		out = appendTagsBlock(out, finalTags)
	}

	return out
}

// RenderHeader combines Parse and ReconstructBody: it unions the header's
// existing tags with configuredTags, sorts the result, and renders the full
// fenced header including a trailing line terminator.
//
// The returned header is empty when the reconstructed body would be empty
// (no original header content and nothing to write). headerEnd is always the
// original header's closing fence index, or -1, so callers can locate where
// preserved content begins regardless of whether a header is emitted.
func RenderHeader(lines []string, configuredTags []string) (header string, headerEnd int) {
	existing, headerEnd, body := Parse(lines)

	final := unionSorted(existing, configuredTags)
	newBody := ReconstructBody(body, final)
	if len(newBody) == 0 {
		return "", headerEnd
	}

	var b strings.Builder
	b.WriteString(fence)
	b.WriteString("\n")
	for _, line := range newBody {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(fence)
	b.WriteString("\n")
	return b.String(), headerEnd
}

// splitInline parses an inline tag value, optionally bracketed:
// " [a, b]" or " a, b".
func splitInline(value string) []string {
	value = strings.TrimSpace(value)
	value = strings.Trim(value, "[]")

	var result []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		item = strings.Trim(item, `"'`)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}

func addTag(tags *[]string, seen map[string]bool, t string) {
	if t == "" || seen[t] {
		return
	}
	seen[t] = true
	*tags = append(*tags, t)
}

func appendTagsBlock(out []string, finalTags []string) []string {
	if len(finalTags) == 0 {
		return out
	}
	out = append(out, "tags:")
	for _, t := range finalTags {
		out = append(out, "  - "+t)
	}
	return out
}

// unionSorted merges two tag lists into a deduplicated, ascending result.
func unionSorted(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, set := range [][]string{a, b} {
		for _, t := range set {
			if t == "" || seen[t] {
				continue
			}
			seen[t] = true
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out
}

func trimEOL(s string) string {
	return strings.TrimRight(s, "\r\n")
}

func isIndented(line string) bool {
	return strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
}
