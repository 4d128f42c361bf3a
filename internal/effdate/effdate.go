// Package effdate computes chart effective dates, which change every 56 days.
package effdate

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// CycleDays is the length of a chart cycle.
const CycleDays = 56

const secondsPerDay = 24 * 60 * 60

var ErrUnknownFormat = errors.New("unknown format")

// Epoch is the start of a known cycle.
var Epoch = time.Date(2015, time.June, 25, 12, 0, 0, 0, time.UTC)

// Effective returns the effective date of the cycle containing now, or of a
// later cycle if next is positive. The result is at 12:00 UTC.
func Effective(now time.Time, next int) time.Time {
	epochDay := floorDiv(Epoch.Unix(), secondsPerDay)
	nowDay := floorDiv(now.Unix(), secondsPerDay)
	cycle := floorDiv(nowDay-epochDay, CycleDays)
	effDay := (cycle+int64(next))*CycleDays + epochDay
	return time.Unix(effDay*secondsPerDay+12*60*60, 0).UTC()
}

// Format formats t in one of the layouts "yyyy-mm-dd", "mm-dd-yyyy", or
// "mmm dd yyyy". The layout is case insensitive and defaults to "yyyy-mm-dd".
func Format(t time.Time, layout string) (string, error) {
	switch strings.ToLower(layout) {
	case "", "yyyy-mm-dd":
		return t.Format("2006-01-02"), nil
	case "mm-dd-yyyy":
		return t.Format("01-02-2006"), nil
	case "mmm dd yyyy":
		return t.Format("Jan 02 2006"), nil
	default:
		return "", fmt.Errorf("%s: %w", layout, ErrUnknownFormat)
	}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
