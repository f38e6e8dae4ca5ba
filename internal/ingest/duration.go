package ingest

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Day components are accepted but ignored; matches never last that long.
var durationPattern = regexp.MustCompile(`(?i)P(?:\d+D)?T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?`)

// ParseDurationSeconds converts an ISO-8601 style duration such as "PT12M3.5S"
// into whole seconds. It returns nil for empty or unparseable input.
func ParseDurationSeconds(duration string) *int {
	if duration == "" {
		return nil
	}
	m := durationPattern.FindStringSubmatch(duration)
	if m == nil {
		return nil
	}
	var total float64
	for i, unit := range []float64{3600, 60, 1} {
		part := m[i+1]
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil
		}
		total += v * unit
	}
	secs := int(math.Round(total))
	return &secs
}

// FormatDurationISO is the inverse of ParseDurationSeconds for whole seconds.
// Non-positive or nil input yields nil.
func FormatDurationISO(seconds *int) *string {
	if seconds == nil || *seconds <= 0 {
		return nil
	}
	total := *seconds
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	var b strings.Builder
	b.WriteString("PT")
	if hours > 0 {
		b.WriteString(strconv.Itoa(hours) + "H")
	}
	if minutes > 0 {
		b.WriteString(strconv.Itoa(minutes) + "M")
	}
	if secs > 0 || (hours == 0 && minutes == 0) {
		b.WriteString(strconv.Itoa(secs) + "S")
	}
	out := b.String()
	return &out
}

// TeamSize returns the largest number of players sharing a team id, or nil when
// no player has a team.
func TeamSize(teamIDs []*int) *int {
	counts := make(map[int]int)
	for _, id := range teamIDs {
		if id == nil {
			continue
		}
		counts[*id]++
	}
	if len(counts) == 0 {
		return nil
	}
	largest := 0
	for _, n := range counts {
		largest = max(largest, n)
	}
	return &largest
}
