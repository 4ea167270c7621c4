package timeutils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDuration parses a Go duration string that may start with a day part, e.g. "1d12h".
func ParseDuration(str string) (time.Duration, error) {
	if str == "" {
		return 0, errors.New("empty duration")
	}
	if _, err := strconv.ParseFloat(str, 64); err == nil {
		return 0, fmt.Errorf("missing unit in duration %q", str)
	}
	days, parts := trimDay(str)
	if parts != "" {
		d, err := time.ParseDuration(parts)
		return days + d, err
	}
	if days == 0 {
		return 0, errors.New("invalid format")
	}
	return days, nil
}

func trimDay(str string) (time.Duration, string) {
	var val int64
	for i, c := range str {
		if '0' <= c && c <= '9' {
			val = val*10 + int64(c-'0')
			continue
		}
		if c == 'd' {
			return time.Duration(val) * 24 * time.Hour, str[i+1:]
		}
		return 0, str
	}
	return 0, str
}

var unpadded = strings.NewReplacer("01", "1", "02", "2", "04", "4", "05", "5")

// ParseTime parses value with layout. When that fails and the layout separates its
// fields, it retries with month, day, minute and second accepting one digit,
// so "2021-1-5 3:04:05" reads with "2006-01-02 15:04:05".
func ParseTime(layout, value string) (time.Time, error) {
	t, err := time.Parse(layout, value)
	if err == nil {
		return t, nil
	}
	if !strings.ContainsAny(layout, "-/.: ") {
		return t, err
	}
	lenient := unpadded.Replace(layout)
	if lenient == layout {
		return t, err
	}
	if t, lerr := time.Parse(lenient, value); lerr == nil {
		return t, nil
	}
	return t, err
}
