package timeutils

import (
	"fmt"
	"strings"
	"time"
)

// DurationString is the inverse of ParseDuration for whole seconds.
func DurationString(d time.Duration) string {
	if d < time.Second {
		return d.String()
	}
	day := 24 * time.Hour
	var builder strings.Builder
	for _, unit := range []struct {
		size   time.Duration
		suffix string
	}{
		{size: day, suffix: "d"},
		{size: time.Hour, suffix: "h"},
		{size: time.Minute, suffix: "m"},
		{size: time.Second, suffix: "s"},
	} {
		if n := d / unit.size; n > 0 {
			fmt.Fprintf(&builder, "%d%s", n, unit.suffix)
			d -= n * unit.size
		}
	}
	return builder.String()
}
