package animimg

import "time"

// SequenceItem pairs an item with its hold duration.
type SequenceItem[T any] struct {
	Item     T
	Duration time.Duration
}

// Sequence is a time-addressable, optionally looping playlist of items with
// per-item hold durations.
//
// A Sequence is constructed with its complete item list up front and is
// immutable after construction: Current is a pure function of the elapsed
// playback time, so resetting the clock reproduces identical output.
//
// Thread safety: a Sequence has a single playback clock and is intended to
// be advanced from one animation loop; it is not safe for concurrent use.
type Sequence[T any] struct {
	items  []SequenceItem[T]
	prefix []time.Duration // prefix[i] is the start time of items[i]
	total  time.Duration
	loop   bool

	elapsed  time.Duration
	finished bool
}

// NewSequence creates a sequence over the given items.
// If loop is true the sequence wraps around indefinitely; otherwise it clamps
// to the last item once the total duration has elapsed.
func NewSequence[T any](items []SequenceItem[T], loop bool) *Sequence[T] {
	prefix := make([]time.Duration, len(items))
	var total time.Duration
	for i, it := range items {
		prefix[i] = total
		total += it.Duration
	}
	return &Sequence[T]{
		items:  items,
		prefix: prefix,
		total:  total,
		loop:   loop,
	}
}

// Update advances the playback clock by dt.
//
// For looping sequences the clock wraps modulo the total duration, preserving
// the overshoot so playback stays frame-accurate across the wrap. For
// non-looping sequences the clock clamps at the total duration and the
// sequence becomes finished. Update(0) never changes the current item.
func (s *Sequence[T]) Update(dt time.Duration) {
	s.elapsed += dt

	if s.elapsed < s.total {
		return
	}
	if s.total <= 0 {
		// Degenerate: no items or all-zero durations.
		if !s.loop {
			s.finished = true
		}
		s.elapsed = 0
		return
	}
	if s.loop {
		s.elapsed %= s.total
		return
	}
	s.elapsed = s.total
	s.finished = true
}

// Current returns the item active at the current playback time, or the zero
// value and false for an empty sequence.
//
// The active item i satisfies prefix[i] <= elapsed < prefix[i+1]
// (closed-open intervals: a clock exactly on a boundary selects the later
// item, so items are never skipped). A finished non-looping sequence stays on
// its last item.
func (s *Sequence[T]) Current() (T, bool) {
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}
	if s.elapsed >= s.total {
		return s.items[len(s.items)-1].Item, true
	}

	// Binary search over start times: the largest i with prefix[i] <= elapsed.
	lo, hi := 0, len(s.items)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if s.prefix[mid] <= s.elapsed {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return s.items[lo].Item, true
}

// Finished reports whether a non-looping sequence has played past its total
// duration. Looping sequences never finish.
func (s *Sequence[T]) Finished() bool {
	return s.finished
}

// Reset rewinds the playback clock to zero and clears the finished state.
func (s *Sequence[T]) Reset() {
	s.elapsed = 0
	s.finished = false
}

// Len returns the number of items.
func (s *Sequence[T]) Len() int { return len(s.items) }

// TotalDuration returns the sum of all item durations.
func (s *Sequence[T]) TotalDuration() time.Duration { return s.total }

// Loop reports whether the sequence wraps around.
func (s *Sequence[T]) Loop() bool { return s.loop }

// Elapsed returns the current playback time.
func (s *Sequence[T]) Elapsed() time.Duration { return s.elapsed }
