// Package clock supplies calendar-day keys and day boundaries.
package clock

import (
	"time"

	"github.com/jwebster45206/aftermath/pkg/state"
)

// Clock reports the current calendar day.
type Clock interface {
	// Today returns the DateKey of the current day.
	Today() state.DateKey
	// NextDay returns the instant the current day ends.
	NextDay() time.Time
}

// IsNewDay reports whether today differs from last.
func IsNewDay(last, today state.DateKey) bool {
	return last != today
}

// System is the wall clock in a fixed location.
type System struct {
	loc *time.Location
	now func() time.Time
}

var _ Clock = (*System)(nil)

// NewSystem returns a wall clock for loc. A nil loc means time.Local.
func NewSystem(loc *time.Location) *System {
	if loc == nil {
		loc = time.Local
	}
	return &System{loc: loc, now: time.Now}
}

func (s *System) Today() state.DateKey {
	return state.DateKeyOf(s.now().In(s.loc))
}

func (s *System) NextDay() time.Time {
	return NextMidnight(s.now().In(s.loc))
}

// NextMidnight returns the start of the day after t, in t's location.
func NextMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}

// Fixed is a Clock pinned to one instant. It is intended for tests.
type Fixed struct {
	At time.Time
}

var _ Clock = (*Fixed)(nil)

func (f *Fixed) Today() state.DateKey {
	return state.DateKeyOf(f.At)
}

func (f *Fixed) NextDay() time.Time {
	return NextMidnight(f.At)
}

// Advance moves the clock forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.At = f.At.Add(d)
}
