package types

import (
	"fmt"
	"strings"
)

// Indexing selects how a cluster index is interpreted.
type Indexing int

const (
	// Logical addresses the Nth surface entry: one per record or free slot.
	Logical Indexing = iota

	// Physical addresses the Nth fixed-size cluster in the cluster area.
	// Chains are skipped by their span.
	Physical
)

// String implements fmt.Stringer.
func (i Indexing) String() string {
	switch i {
	case Logical:
		return "logical"
	case Physical:
		return "physical"
	default:
		return fmt.Sprintf("Indexing(%d)", int(i))
	}
}

// ParseIndexing parses "logical"/"l" or "physical"/"p" (case-insensitive).
func ParseIndexing(s string) (Indexing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "logical", "l", "":
		return Logical, nil
	case "physical", "p":
		return Physical, nil
	default:
		return Logical, fmt.Errorf("unknown indexing %q (want logical or physical)", s)
	}
}
