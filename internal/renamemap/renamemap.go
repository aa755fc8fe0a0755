// Package renamemap implements the rename ledger: a record of old→new
// target mappings produced by renaming passes. The ledger composes
// transitively, so a query for A resolves to C when A→B and B→C were
// recorded, including across separate passes sharing one ledger.
package renamemap

import (
	"sort"

	"github.com/tdb-alcorn/firrtl/internal/target"
)

// RenameMap records target renames and answers composed lookups.
type RenameMap struct {
	under map[string][]target.Target
}

// New creates an empty rename map.
func New() *RenameMap {
	return &RenameMap{under: make(map[string][]target.Target)}
}

// Record adds a mapping from one target to another. Recording the identity
// mapping is a no-op. Multiple distinct replacements for the same source are
// kept; such a source no longer resolves through Get.
func (rm *RenameMap) Record(from, to target.Target) {
	fromKey := from.Key()
	toKey := to.Key()
	if fromKey == toKey {
		return
	}
	for _, existing := range rm.under[fromKey] {
		if existing.Key() == toKey {
			return
		}
	}
	rm.under[fromKey] = append(rm.under[fromKey], to)
}

// Get returns the single transitively-composed replacement for t, if one
// exists. A target that was never renamed, or that maps to more than one
// replacement at any step of the chain, reports false.
func (rm *RenameMap) Get(t target.Target) (target.Target, bool) {
	seen := map[string]bool{t.Key(): true}
	cur := t
	found := false
	for {
		replacements, ok := rm.under[cur.Key()]
		if !ok {
			break
		}
		if len(replacements) != 1 {
			return nil, false
		}
		next := replacements[0]
		if seen[next.Key()] {
			break
		}
		seen[next.Key()] = true
		cur = next
		found = true
	}
	if !found {
		return nil, false
	}
	return cur, true
}

// Len returns the number of recorded source targets.
func (rm *RenameMap) Len() int {
	return len(rm.under)
}

// Entry is one recorded mapping.
type Entry struct {
	From target.Target
	To   target.Target
}

// Entries returns every recorded mapping, sorted by source key, with each
// destination resolved through composition.
func (rm *RenameMap) Entries() []Entry {
	keys := make([]string, 0, len(rm.under))
	for k := range rm.under {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var entries []Entry
	for _, k := range keys {
		from, err := target.Parse(k)
		if err != nil {
			continue
		}
		if to, ok := rm.Get(from); ok {
			entries = append(entries, Entry{From: from, To: to})
			continue
		}
		for _, to := range rm.under[k] {
			entries = append(entries, Entry{From: from, To: to})
		}
	}
	return entries
}
