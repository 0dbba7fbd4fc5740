package sidecar

import (
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"

	"github.com/studiofoundry/sidecar/pkg/assetid"
	"github.com/studiofoundry/sidecar/pkg/frontmatter"
)

// Session owns the state of synchronization passes against one target
// document: the filesystem used for cross-document reads, the identity
// cache, and the resolver. Its lifecycle follows the host document: create
// it when the document is opened, Reset on reload, Close when the document
// is closed.
//
// Passes are serialized; concurrent Synchronize calls on the same Session
// run one at a time so a pass is an atomic unit of work. Sessions for
// different documents are fully independent.
type Session struct {
	mu       sync.Mutex
	resolver *Resolver
	log      hclog.Logger
}

// NewSession creates a session. A nil fs defaults to the OS filesystem, a
// nil cache to a fresh in-memory cache, and a nil logger to the null
// logger.
func NewSession(fs afero.Fs, cache IdentityCache, logger hclog.Logger) *Session {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if cache == nil {
		cache = NewMemoryCache()
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Session{
		resolver: NewResolver(fs, cache, logger),
		log:      logger,
	}
}

// Resolver exposes the session's resolver so callers can adjust the
// minting policy.
func (s *Session) Resolver() *Resolver {
	return s.resolver
}

// Reset discards the session's cached identities, as when the host
// document is reloaded from storage.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolver.Cache.Reset()
}

// Close flushes the identity cache when it is file-backed.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.resolver.Cache.(*FileCache); ok {
		return f.Flush()
	}
	return nil
}

// Synchronize runs one full pass and returns the replacement document text.
//
// The existing text is split into header, preserved prose, and a prior
// generated block. The header's tags are unioned with configuredTags, the
// prose is carried forward verbatim, and the generated block is rebuilt
// from the resolved libraries and the caller's asset catalog. The function
// is total: malformed input degrades to opaque preserved content, never to
// an error.
func (s *Session) Synchronize(existing string, configuredTags []string, libs []LibraryInput, catalog []assetid.Asset) (string, *Report) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := &Report{}

	lines := splitLines(existing)
	header, headerEnd := frontmatter.RenderHeader(lines, configuredTags)

	preserved := preservedRegion(lines, headerEnd)

	records := s.resolver.ResolveAll(libs, report)
	block := ComposeGeneratedBlock(records, catalog)

	var b strings.Builder
	b.WriteString(header)
	if len(preserved) > 0 {
		b.WriteString(strings.Join(preserved, "\n"))
		b.WriteString("\n\n")
	}
	b.WriteString(block)

	return b.String(), report
}

// preservedRegion extracts the user-authored lines between the header and
// the prior generated block, with leading and trailing blank lines
// stripped. headerEnd of -1 means the whole document is candidate prose.
func preservedRegion(lines []string, headerEnd int) []string {
	start := 0
	if headerEnd >= 0 {
		start = headerEnd + 1
	}
	if start > len(lines) {
		return nil
	}
	region := lines[start:]

	// The prior generated block is never preserved.
	for i, line := range region {
		if strings.TrimSpace(line) == GeneratedMarker {
			region = region[:i]
			break
		}
	}

	out := make([]string, 0, len(region))
	for _, line := range region {
		out = append(out, strings.TrimRight(line, "\r"))
	}
	return trimBlankEdges(out)
}

func trimBlankEdges(lines []string) []string {
	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	end := len(lines)
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end]
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
