package timeutils

import "time"

// Iterator walks the tick boundaries strictly between startAt and endAt.
// Only whole ticks count, so a span of 2.5 ticks has Steps() == 2 and yields a single boundary.
type Iterator struct {
	startAt time.Time
	tick    time.Duration
	steps   int
	cur     int
}

func NewIterator(startAt, endAt time.Time, tick time.Duration) *Iterator {
	var steps int
	if tick > 0 && endAt.After(startAt) {
		steps = int(endAt.Sub(startAt) / tick)
	}
	return &Iterator{
		startAt: startAt,
		tick:    tick,
		steps:   steps,
	}
}

// Steps returns the number of whole ticks between startAt and endAt.
func (iter *Iterator) Steps() int {
	return iter.steps
}

func (iter *Iterator) HasNext() bool {
	return iter.cur+1 < iter.steps
}

// Next returns the next boundary and its step number, counted from 1.
func (iter *Iterator) Next() (time.Time, int) {
	iter.cur++
	return iter.startAt.Add(time.Duration(iter.cur) * iter.tick), iter.cur
}
