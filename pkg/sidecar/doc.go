// Package sidecar implements the synchronization engine for sidecar
// companion documents.
//
// A sidecar document is a UTF-8 text file stored next to a project file at
// <path><Suffix>. It has three regions, in order: an optional `---`-fenced
// header carrying a tags list, free user prose preserved verbatim across
// passes, and a machine-owned generated section listing the current asset
// catalog and the identities of linked libraries. Each synchronization pass
// reads the whole document, merges machine state into the header, carries
// the prose forward untouched, and fully rewrites the generated section.
//
// The engine never fails on malformed input: a broken header degrades to
// "no header", an unreadable foreign sidecar falls through to the identity
// cache, and an unparseable stored identity is treated as a legacy raw
// string. Hand-edited sidecars must always remain writable.
package sidecar
