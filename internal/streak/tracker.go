// Package streak tracks repeated occurrences of an event.
package streak

import "time"

// Tracker counts consecutive occurrences of an event, such as repeated attempts to quit
// with unsaved changes, until it reaches a limit.
//
// A streak is broken explicitly by calling Reset. If Interval is positive, it is also broken
// when an occurrence comes more than Interval after the previous one.
type Tracker struct {
	Limit    int              // The number of consecutive occurrences that completes a streak.
	Interval time.Duration    // The maximum time between consecutive occurrences; zero means no limit.
	Clock    func() time.Time // Source of the current time; time.Now if nil.

	ticks        int
	lastTickTime time.Time
}

// Tick records one occurrence of the event and reports whether the streak is now complete.
func (t *Tracker) Tick() bool {
	now := t.clock()
	if t.Interval > 0 && !t.lastTickTime.IsZero() && now.Sub(t.lastTickTime) > t.Interval {
		t.ticks = 0
	}
	t.ticks++
	t.lastTickTime = now
	return t.ticks >= t.Limit
}

// Reset breaks the current streak.
func (t *Tracker) Reset() {
	t.ticks = 0
	t.lastTickTime = time.Time{}
}

// Count returns the number of consecutive occurrences so far.
func (t *Tracker) Count() int { return t.ticks }

// Remaining returns how many more occurrences are needed to complete the streak.
func (t *Tracker) Remaining() int { return max(t.Limit-t.ticks, 0) }

func (t *Tracker) clock() time.Time {
	if t.Clock != nil {
		return t.Clock()
	}
	return time.Now()
}
