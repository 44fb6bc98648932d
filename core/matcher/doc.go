// Package matcher pairs device descriptors with driver catalog entries.
//
// Device names come from hardware inventory, catalog names come from the OS
// driver store, and the two rarely agree byte for byte ("Intel(R) UHD Graphics 630"
// against "Intel UHD Graphics Family"). The Tiered matcher bridges that gap with
// a fixed sequence of increasingly loose heuristics.
//
// # Tiers
//
// Tiers are tried in order and the first one that yields an entry wins. Within a
// tier the first entry in catalog order wins, so results are deterministic for a
// given catalog:
//
//  1. Exact: lower-cased names are equal, or raw names are equal.
//  2. Containment: either name contains the other.
//  3. Keywords: manufacturer containment (1 point) plus one point per device-name
//     keyword found in the entry name; two points are required.
//  4. Display fallback: only for devices named like a display adapter; the
//     manufacturers cross-contain and the entry name looks like one too.
//
// # Diagnostics
//
// Score and Candidates rank every catalog entry with a weighted score. They
// exist for troubleshooting "no match" results and are never consulted by Match.
package matcher
