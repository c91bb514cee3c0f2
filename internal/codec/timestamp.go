package codec

import (
	"encoding/binary"

	"github.com/bc-dunia/projector/internal/leapyear"
)

const (
	minTimestampLen = 20 // "YYYY-MM-DDTHH:MM:SSZ"
	maxTimestampLen = 31 // "YYYY-MM-DDTHH:MM:SS.ffffffZ..." (up to 10 fractional digits)
	minYear         = 2000
	maxYear         = 4027
)

var monthDays = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// formatTimestamp parses a strict ISO-8601 UTC instant per spec.md §4.2 and
// writes its big-endian microsecond-since-2000-01-01T00:00:00Z encoding into
// a freshly allocated 8-byte slot buffer.
func formatTimestamp(value any, slot *Slot) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	micros, ok := parseISO8601Micros(s)
	if !ok {
		return false
	}
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, micros)
	slot.Data = buf
	slot.Null = false
	slot.Owned = true
	return true
}

func parseISO8601Micros(s string) (uint64, bool) {
	n := len(s)
	if n < minTimestampLen || n > maxTimestampLen {
		return 0, false
	}
	if s[4] != '-' || s[7] != '-' || s[10] != 'T' || s[13] != ':' || s[16] != ':' {
		return 0, false
	}
	if s[n-1] != 'Z' {
		return 0, false
	}

	year, ok := digits(s, 0, 4)
	if !ok {
		return 0, false
	}
	month, ok := digits(s, 5, 2)
	if !ok {
		return 0, false
	}
	day, ok := digits(s, 8, 2)
	if !ok {
		return 0, false
	}
	hour, ok := digits(s, 11, 2)
	if !ok {
		return 0, false
	}
	minute, ok := digits(s, 14, 2)
	if !ok {
		return 0, false
	}
	second, ok := digits(s, 17, 2)
	if !ok {
		return 0, false
	}

	var fracDigits string
	switch s[19] {
	case 'Z':
		if n != minTimestampLen {
			return 0, false
		}
	case '.':
		fracDigits = s[20 : n-1]
		if fracDigits == "" {
			return 0, false
		}
		for i := 0; i < len(fracDigits); i++ {
			if fracDigits[i] < '0' || fracDigits[i] > '9' {
				return 0, false
			}
		}
	default:
		return 0, false
	}

	if year < minYear || year > maxYear {
		return 0, false
	}
	if month < 1 || month > 12 {
		return 0, false
	}
	if day < 1 || day > 31 {
		return 0, false
	}
	if month == 2 && day > 29 {
		return 0, false
	}
	if hour < 0 || hour > 23 {
		return 0, false
	}
	if minute < 0 || minute > 59 {
		return 0, false
	}
	if second < 0 || second > 60 {
		return 0, false
	}

	y := year - minYear
	doy := dayOfYear(y, month, day)
	epochSeconds := int64(second) + 60*int64(minute) + 3600*int64(hour) +
		86400*int64(doy-1) + 86400*int64(leapyear.Prefix[y]) + 31_536_000*int64(y)

	micro := truncateFraction(fracDigits)
	epochMicros := 1_000_000*epochSeconds + int64(micro)
	return uint64(epochMicros), true
}

func digits(s string, offset, length int) (int, bool) {
	v := 0
	for i := 0; i < length; i++ {
		c := s[offset+i]
		if c < '0' || c > '9' {
			return 0, false
		}
		v = v*10 + int(c-'0')
	}
	return v, true
}

func dayOfYear(yearOffset, month, day int) int {
	doy := day
	feb := monthDays[1]
	if leapyear.IsLeapOffset(yearOffset) {
		feb = 29
	}
	for m := 1; m < month; m++ {
		if m == 2 {
			doy += feb
		} else {
			doy += monthDays[m-1]
		}
	}
	return doy
}

// truncateFraction pads frac right with zeros to 6 digits (or truncates it
// to the first 6) and returns it as a microsecond count: fractional seconds
// are truncated, not rounded, per spec.md §4.2.
func truncateFraction(frac string) int {
	if len(frac) >= 6 {
		frac = frac[:6]
	} else {
		frac = frac + "000000"[:6-len(frac)]
	}
	v := 0
	for i := 0; i < 6; i++ {
		v = v*10 + int(frac[i]-'0')
	}
	return v
}
