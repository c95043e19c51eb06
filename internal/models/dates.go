package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DateArray is a timestamp serialized by the backend as
// [year, month, day, hour?, minute?, second?, nanos?].
//
// The month is 1-indexed, matching [time.Month], so no offset is applied.
// Values decode in UTC. ISO-8601 strings and null are accepted as well.
type DateArray struct {
	time.Time
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// NewDateArray wraps t.
func NewDateArray(t time.Time) DateArray {
	return DateArray{Time: t}
}

// ParseDateParts builds a UTC time from backend date parts.
func ParseDateParts(parts []int) (time.Time, error) {
	if len(parts) < 3 || len(parts) > 7 {
		return time.Time{}, fmt.Errorf("date array must have 3 to 7 elements, got %d", len(parts))
	}
	if parts[1] < 1 || parts[1] > 12 {
		return time.Time{}, fmt.Errorf("date array month out of range: %d", parts[1])
	}

	var fields [7]int
	copy(fields[:], parts)

	days := time.Date(fields[0], time.Month(fields[1])+1, 0, 0, 0, 0, 0, time.UTC).Day()
	switch {
	case fields[2] < 1 || fields[2] > days:
		return time.Time{}, fmt.Errorf("date array day out of range: %d", fields[2])
	case fields[3] < 0 || fields[3] > 23:
		return time.Time{}, fmt.Errorf("date array hour out of range: %d", fields[3])
	case fields[4] < 0 || fields[4] > 59:
		return time.Time{}, fmt.Errorf("date array minute out of range: %d", fields[4])
	case fields[5] < 0 || fields[5] > 59:
		return time.Time{}, fmt.Errorf("date array second out of range: %d", fields[5])
	case fields[6] < 0 || fields[6] > 999999999:
		return time.Time{}, fmt.Errorf("date array nanosecond out of range: %d", fields[6])
	}

	return time.Date(fields[0], time.Month(fields[1]), fields[2], fields[3], fields[4], fields[5], fields[6], time.UTC), nil
}

// UnmarshalJSON implements [json.Unmarshaler].
func (d *DateArray) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}

	switch data[0] {
	case '[':
		var parts []int
		if err := json.Unmarshal(data, &parts); err != nil {
			return fmt.Errorf("invalid date array %s: %w", data, err)
		}
		t, err := ParseDateParts(parts)
		if err != nil {
			return err
		}
		d.Time = t
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			d.Time = time.Time{}
			return nil
		}
		for _, layout := range isoLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				d.Time = t.UTC()
				return nil
			}
		}
		return fmt.Errorf("unrecognized date string %q", s)
	default:
		return fmt.Errorf("unsupported date encoding %s", data)
	}
}

// MarshalJSON writes the array form back; the zero value encodes as null.
func (d DateArray) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}

	t := d.UTC()
	parts := []int{t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second()}
	if t.Nanosecond() != 0 {
		parts = append(parts, t.Nanosecond())
	}
	return json.Marshal(parts)
}

// Date formats the day as yyyy-MM-dd, or "" for the zero value.
func (d DateArray) Date() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(time.DateOnly)
}
