// Package assetid provides durable identity types for linked libraries and
// the assets they expose.
//
// A library or asset keeps its identity across renames and moves through a
// UUID recorded in its sidecar document. Identities are discovered in three
// ways:
//
//  1. Read from the library's own sidecar document (blendfile_uuid field)
//  2. Recalled from the per-session identity cache
//  3. Minted fresh when neither source has a value
//
// Stored identities accumulated over time come in three shapes: a bare UUID
// string (legacy), a JSON object carrying blendfile_uuid plus an asset
// catalog, or the MISSING_HASH sentinel when nothing durable could be
// established. The Identity type models all three and normalizes them under
// the rules every consumer shares.
package assetid
