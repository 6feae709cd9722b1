// Package cfs implements a cluster store: a single random-access byte
// sequence split into fixed-size clusters, with record allocation, chains
// that span several contiguous clusters, and batched transactional inserts.
//
// # Layout
//
//	0x00  header (version, createdAt, clusterSize, clusterMaxExpand)
//	0x20  global cluster counter (int64)
//	0x28  cluster area: count × clusterSize
//
// Every physical cluster starts with a 4-byte span field. A span of 0 marks
// a free cluster; a span of k ≥ 1 marks the head of a chain of k contiguous
// clusters whose payload is read and written as one region.
//
// # Surface table
//
// The store keeps an in-memory table with one entry per logical slot (an
// occupied chain or a free single cluster). The table is rebuilt from span
// fields on Open and never persisted. Its entries tile the cluster area.
//
// Freeing a chain of k clusters leaves k free single-cluster slots; slots
// are never coalesced. Allocation is first-fit.
//
// # Handles
//
// A Handle is a cursor over one slot's payload. Writes that run past the
// payload ask the issuing Allocator to expand the chain one cluster at a
// time, either by absorbing the next free slot or by growing the tail.
// Handles are invalidated by any structural change (Allocate, Free, Commit).
//
// # Transactions
//
// Begin attaches a Tx that stages new records in a private sequence (memory
// or a temp file). Commit finds room for the whole batch with one first-fit
// search, grows the store at most once, copies the staged bytes in one
// block and merges the staged entries into the surface table.
//
//	tx, _ := s.Begin(cfs.DefaultTxConfig())
//	defer tx.Close()
//	h, _ := tx.Allocate()
//	_ = h.WriteString("hello")
//	_ = tx.Commit()
//
// # Thread Safety
//
// A Store and its Tx are NOT thread-safe. One goroutine drives a store at a
// time.
package cfs
