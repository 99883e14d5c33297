package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var months = map[string]int{
	"janeiro":   1,
	"january":   1,
	"fevereiro": 2,
	"february":  2,
	"marco":     3,
	"march":     3,
	"abril":     4,
	"april":     4,
	"maio":      5,
	"may":       5,
	"junho":     6,
	"june":      6,
	"julho":     7,
	"july":      7,
	"agosto":    8,
	"august":    8,
	"setembro":  9,
	"september": 9,
	"outubro":   10,
	"october":   10,
	"novembro":  11,
	"november":  11,
	"dezembro":  12,
	"december":  12,
}

var monthAbbreviations = map[string]int{
	"jan": 1,
	"fev": 2,
	"feb": 2,
	"mar": 3,
	"abr": 4,
	"apr": 4,
	"mai": 5,
	"may": 5,
	"jun": 6,
	"jul": 7,
	"ago": 8,
	"aug": 8,
	"set": 9,
	"sep": 9,
	"out": 10,
	"oct": 10,
	"nov": 11,
	"dez": 12,
	"dec": 12,
}

var (
	isoDateRegex       = regexp.MustCompile(`^(\d{4})[-./](\d{1,2})[-./](\d{1,2})$`)
	dayFirstDateRegex  = regexp.MustCompile(`^(\d{1,2})[-./](\d{1,2})[-./](\d{4})$`)
	writtenPTDateRegex = regexp.MustCompile(`^(\d{1,2})(?:\s+de)?\s+([a-z]+)\.?(?:\s+de)?\s+(\d{4})$`)
	writtenENDateRegex = regexp.MustCompile(`^([a-z]+)\.?\s+(\d{1,2}),?\s+(\d{4})$`)
)

var fallbackDateLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"January 2, 2006",
	"2 January 2006",
	"01/02/2006",
}

// ReleaseDate parses the human date formats staff actually paste into the
// release date field and emits a canonical ISO date, or "" when nothing
// valid can be made of the input. Every candidate is round-trip validated
// so that e.g. Feb 30 is rejected instead of silently becoming Mar 2.
func ReleaseDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if m := isoDateRegex.FindStringSubmatch(s); m != nil {
		return validateDate(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}
	if m := dayFirstDateRegex.FindStringSubmatch(s); m != nil {
		return validateDate(atoi(m[3]), atoi(m[2]), atoi(m[1]))
	}

	folded := strings.ToLower(stripDiacritics(s))
	if m := writtenPTDateRegex.FindStringSubmatch(folded); m != nil {
		if month := monthFromToken(m[2]); month != 0 {
			return validateDate(atoi(m[3]), month, atoi(m[1]))
		}
	}
	if m := writtenENDateRegex.FindStringSubmatch(folded); m != nil {
		if month := monthFromToken(m[1]); month != 0 {
			return validateDate(atoi(m[3]), month, atoi(m[2]))
		}
	}

	for _, layout := range fallbackDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return validateDate(t.Year(), int(t.Month()), t.Day())
		}
	}

	return ""
}

func monthFromToken(token string) int {
	if m, ok := months[token]; ok {
		return m
	}
	if len(token) >= 3 {
		if m, ok := monthAbbreviations[token[:3]]; ok {
			return m
		}
	}
	return 0
}

// validateDate reconstructs the calendar date and requires an exact
// round-trip, which rejects out-of-range days a naive constructor would
// normalize away.
func validateDate(year, month, day int) string {
	if year < 1900 || year > 2100 {
		return ""
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
