// Package inventory enumerates workstation devices without platform tools.
//
// Enumerator reads CPU, network and storage devices through gopsutil and can
// be restricted to a subset of categories. Composite merges several
// enumerators into one list, skipping those that fail.
package inventory
