package timeutils_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/mashiike/gapfill/internal/timeutils"
	"github.com/stretchr/testify/require"
)

type boundary struct {
	At   time.Time
	Step int
}

func (b boundary) GoString() string {
	return fmt.Sprintf("[%s #%d]", b.At, b.Step)
}

func TestIterator(t *testing.T) {
	cases := []struct {
		startAt       time.Time
		endAt         time.Time
		tick          time.Duration
		expectedSteps int
		expected      []boundary
	}{
		{
			startAt:       time.Date(2021, time.October, 1, 0, 0, 0, 0, time.UTC),
			endAt:         time.Date(2021, time.October, 1, 3, 0, 0, 0, time.UTC),
			tick:          time.Hour,
			expectedSteps: 3,
			expected: []boundary{
				{
					At:   time.Date(2021, time.October, 1, 1, 0, 0, 0, time.UTC),
					Step: 1,
				},
				{
					At:   time.Date(2021, time.October, 1, 2, 0, 0, 0, time.UTC),
					Step: 2,
				},
			},
		},
		{
			startAt:       time.Date(2021, time.October, 1, 0, 0, 0, 0, time.UTC),
			endAt:         time.Date(2021, time.October, 1, 1, 0, 0, 0, time.UTC),
			tick:          time.Hour,
			expectedSteps: 1,
			expected:      []boundary{},
		},
		{
			startAt:       time.Date(2021, time.October, 1, 0, 0, 0, 0, time.UTC),
			endAt:         time.Date(2021, time.October, 1, 2, 30, 0, 0, time.UTC),
			tick:          time.Hour,
			expectedSteps: 2,
			expected: []boundary{
				{
					At:   time.Date(2021, time.October, 1, 1, 0, 0, 0, time.UTC),
					Step: 1,
				},
			},
		},
		{
			startAt:       time.Date(2021, time.October, 1, 0, 0, 0, 0, time.UTC),
			endAt:         time.Date(2021, time.October, 1, 1, 0, 0, 0, time.UTC),
			tick:          25 * time.Minute,
			expectedSteps: 2,
			expected: []boundary{
				{
					At:   time.Date(2021, time.October, 1, 0, 25, 0, 0, time.UTC),
					Step: 1,
				},
			},
		},
		{
			startAt:       time.Date(2021, time.October, 1, 3, 0, 0, 0, time.UTC),
			endAt:         time.Date(2021, time.October, 1, 0, 0, 0, 0, time.UTC),
			tick:          time.Hour,
			expectedSteps: 0,
			expected:      []boundary{},
		},
		{
			startAt:       time.Date(2021, time.October, 1, 0, 0, 0, 0, time.UTC),
			endAt:         time.Date(2021, time.October, 1, 3, 0, 0, 0, time.UTC),
			tick:          0,
			expectedSteps: 0,
			expected:      []boundary{},
		},
	}
	for _, c := range cases {
		t.Run(fmt.Sprintf("%s~%s[tick=%s]", c.startAt, c.endAt, c.tick), func(t *testing.T) {
			iter := timeutils.NewIterator(c.startAt, c.endAt, c.tick)
			require.Equal(t, c.expectedSteps, iter.Steps())
			actual := make([]boundary, 0)
			for iter.HasNext() {
				at, step := iter.Next()
				actual = append(actual, boundary{At: at, Step: step})
			}
			require.EqualValues(t, c.expected, actual)
		})
	}
}
