package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Date is a partially specified calendar date. Month and Day are zero when
// unknown; Year is always set. Unknown components render as "??".
type Date struct {
	Year  int
	Month int
	Day   int
}

// NewDate builds a fully or partially specified date. Pass zero for unknown
// month or day.
func NewDate(year, month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// String renders the canonical textual form, e.g. "2021-04-??".
func (d Date) String() string {
	parts := []string{fmt.Sprintf("%04d", d.Year)}
	if d.Month == 0 {
		parts = append(parts, "??")
	} else {
		parts = append(parts, fmt.Sprintf("%02d", d.Month))
	}
	if d.Day == 0 {
		parts = append(parts, "??")
	} else {
		parts = append(parts, fmt.Sprintf("%02d", d.Day))
	}
	return strings.Join(parts, "-")
}

// IsZero reports whether the date carries no information at all.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// ParseDate reads a dash separated date, ignoring components that are not
// numeric. "2021-??-??" yields a year-only date.
func ParseDate(text string) (Date, error) {
	var numbers []int
	for _, part := range strings.Split(text, "-") {
		n, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		numbers = append(numbers, n)
	}
	if len(numbers) == 0 {
		return Date{}, fmt.Errorf("no numeric components in date %q", text)
	}
	d := Date{Year: numbers[0]}
	if len(numbers) > 1 {
		d.Month = numbers[1]
	}
	if len(numbers) > 2 {
		d.Day = numbers[2]
	}
	return d, nil
}
