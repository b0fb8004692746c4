// Package csvlog parses semicolon-separated training-log exports of the form
//
//	DATE;EXERCISE;KG;REPS
//	2026-05-01 18:32;Press Banca;82,5;8
//	2026-05-01 18:35;Press Banca;82,5;8
//
// Decimal commas are accepted in the weight column, as European tracker
// exports use them.
package csvlog

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Entry is one parsed historical set.
type Entry struct {
	LoggedAt time.Time
	Exercise string
	WeightKg float64
	Reps     int
}

// Parse reads a set-log export and returns its entries in file order.
// Blank lines and the column header are skipped; a malformed data line is an
// error, not a silent drop.
func Parse(r io.Reader) ([]Entry, error) {
	scanner := bufio.NewScanner(r)
	var entries []Entry
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if isHeader(line) {
			continue
		}

		fields := strings.Split(line, ";")
		if len(fields) != 4 {
			return nil, fmt.Errorf("line %d: want 4 fields, got %d", lineNo, len(fields))
		}

		loggedAt, err := parseTimestamp(strings.TrimSpace(fields[0]))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		exercise := strings.TrimSpace(fields[1])
		if exercise == "" {
			return nil, fmt.Errorf("line %d: empty exercise name", lineNo)
		}

		weight, err := parseDecimal(strings.TrimSpace(fields[2]))
		if err != nil || weight < 0 {
			return nil, fmt.Errorf("line %d: bad weight %q", lineNo, fields[2])
		}

		reps, err := strconv.Atoi(strings.TrimSpace(fields[3]))
		if err != nil || reps < 1 {
			return nil, fmt.Errorf("line %d: bad reps %q", lineNo, fields[3])
		}

		entries = append(entries, Entry{
			LoggedAt: loggedAt,
			Exercise: exercise,
			WeightKg: weight,
			Reps:     reps,
		})
	}

	return entries, scanner.Err()
}

func isHeader(line string) bool {
	return strings.EqualFold(line, "date;exercise;kg;reps")
}

// parseTimestamp accepts date-time and date-only forms.
func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02"} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp %q", s)
}

// parseDecimal converts a decimal string to float64, accepting a comma as
// the decimal separator. "82,5" -> 82.5
func parseDecimal(s string) (float64, error) {
	s = strings.ReplaceAll(s, ",", ".")
	return strconv.ParseFloat(s, 64)
}
