package sched

import "time"

// Duration is a non-negative count of nanoseconds, measured from an
// arbitrary monotonic epoch. Zero is the additive identity. Arithmetic
// saturates at zero rather than going negative: the scheduler never needs
// to represent "time before the epoch."
type Duration int64

// Zero is the identity Duration.
const Zero Duration = 0

// FromStd converts a standard library time.Duration to a Duration,
// clamping negative values to Zero.
func FromStd(d time.Duration) Duration {
	if d < 0 {
		return Zero
	}
	return Duration(d)
}

// Std converts a Duration back to a standard library time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Nanoseconds returns the duration as an integer nanosecond count.
func (d Duration) Nanoseconds() int64 { return int64(d) }

// Microseconds returns the duration truncated toward zero to microseconds.
func (d Duration) Microseconds() int64 { return int64(d) / int64(time.Microsecond) }

// Milliseconds returns the duration truncated toward zero to milliseconds.
func (d Duration) Milliseconds() int64 { return int64(d) / int64(time.Millisecond) }

// Seconds returns the duration as a floating point number of seconds.
func (d Duration) Seconds() float64 {
	return float64(d) / float64(time.Second)
}

// Add returns d+other. Both operands are assumed non-negative, so the
// result cannot overflow into negative territory; overflow past the
// realistic lifetime of a process is explicitly out of scope per spec.
func (d Duration) Add(other Duration) Duration { return d + other }

// Sub returns d-other, saturating at Zero rather than going negative.
func (d Duration) Sub(other Duration) Duration {
	if other >= d {
		return Zero
	}
	return d - other
}

// Less reports whether d is strictly less than other.
func (d Duration) Less(other Duration) bool { return d < other }

// String renders the duration using the standard library's human-readable
// format (e.g. "1.5s", "200ms").
func (d Duration) String() string { return d.Std().String() }
