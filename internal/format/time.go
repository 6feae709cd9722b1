package format

import (
	"time"
)

const (
	// ticksToUnixEpoch is the number of 100ns ticks between 0001-01-01 and 1970-01-01.
	ticksToUnixEpoch = 621355968000000000
	tickUnit         = 100 // ticks are 100ns
)

// TicksToTime converts a createdAt tick count to time.Time (UTC).
func TicksToTime(v int64) time.Time {
	if v <= ticksToUnixEpoch {
		return time.Unix(0, 0).UTC()
	}
	ns := (v - ticksToUnixEpoch) * tickUnit
	return time.Unix(ns/int64(time.Second), ns%int64(time.Second)).UTC()
}

// TimeToTicks converts a time.Time to a createdAt tick count.
func TimeToTicks(t time.Time) int64 {
	if t.Before(time.Unix(0, 0)) {
		return ticksToUnixEpoch
	}
	ns := t.UnixNano()
	return ns/tickUnit + ticksToUnixEpoch
}
