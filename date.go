package gocfb

import (
	"time"
)

const (
	// filetimeTicksPerSecond is the resolution of a FILETIME, 100 nanosecond intervals.
	filetimeTicksPerSecond = 10000000
	// filetimeUnixOffset is the number of seconds between 1601-01-01 and 1970-01-01.
	filetimeUnixOffset = 11644473600
)

// ParseFiletime reads the given input as a Windows FILETIME like it is stored in directory entries:
//  A 64-bit value representing the number of 100-nanosecond intervals
//  since January 1, 1601 (UTC).
// It returns a time.Time in UTC.
//
// Authoring tools leave the value 0 for entries without timestamps (the root entry and all streams
// in practice). In that case time.Time{} is returned to be compatible with time.Time.IsZero().
func ParseFiletime(input uint64) time.Time {
	if input == 0 {
		return time.Time{}
	}

	seconds := int64(input/filetimeTicksPerSecond) - filetimeUnixOffset
	nanoseconds := int64(input%filetimeTicksPerSecond) * 100

	return time.Unix(seconds, nanoseconds).UTC()
}

// Filetime is the inverse of ParseFiletime. The zero time maps to 0.
// Times before 1601 can not be represented and also map to 0.
func Filetime(t time.Time) uint64 {
	if t.IsZero() {
		return 0
	}

	seconds := t.Unix() + filetimeUnixOffset
	if seconds < 0 {
		return 0
	}

	return uint64(seconds)*filetimeTicksPerSecond + uint64(t.Nanosecond()/100)
}
