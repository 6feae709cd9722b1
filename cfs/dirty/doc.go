// Package dirty tracks which byte ranges of a store's backing sequence were
// modified and flushes only those to disk.
//
// # Overview
//
// Every structural mutation the store performs (span fields, the global
// cluster counter, payload writes through a handle, the bulk copy of a
// transaction commit) is reported with Add. Nothing is written until Flush:
//
//	tracker := dirty.NewTracker(b)
//	tracker.Add(0x28, 4)             // span field of cluster 0
//	tracker.FlushDataOnly(ctx)       // msync data pages
//	tracker.FlushHeaderAndMeta(ctx, dirty.FlushAuto)
//
// # Page-Level Granularity
//
// Ranges are rounded to 4KB pages and merged when they overlap or touch:
//
//	Dirty pages: [0, 1, 2, 5, 6] → Ranges: [0x0-0x3000, 0x5000-0x7000]
//
// The first page holds the header and the global counter; it is flushed last
// by FlushHeaderAndMeta so that the counter never claims clusters whose data
// is not yet durable.
//
// # Thread Safety
//
// Tracker instances are not thread-safe.
package dirty
