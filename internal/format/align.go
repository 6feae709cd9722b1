package format

// PageSize is the flush granularity used when syncing mapped regions.
const PageSize = 4096

// AlignPage returns n aligned up to the next page boundary.
//
// Example:
//
//	AlignPage(1)    = 4096
//	AlignPage(4096) = 4096
//	AlignPage(4097) = 8192
func AlignPage(n int64) int64 {
	return (n + PageSize - 1) &^ (PageSize - 1)
}

// AlignPageDown returns n aligned down to a page boundary.
func AlignPageDown(n int64) int64 {
	return n &^ (PageSize - 1)
}
