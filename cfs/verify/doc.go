// Package verify provides validation functions for cluster store images.
//
// The checks work on the raw byte sequence and never consult an open
// store's in-memory surface table, so they can detect span chains that no
// longer agree with the global cluster counter.
package verify
