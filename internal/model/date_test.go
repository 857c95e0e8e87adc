package model_test

import (
	"testing"

	"gwatching/internal/model"
)

func TestDateString(t *testing.T) {
	cases := []struct {
		name string
		date model.Date
		want string
	}{
		{"full", model.NewDate(2021, 4, 2), "2021-04-02"},
		{"no day", model.NewDate(2021, 4, 0), "2021-04-??"},
		{"year only", model.NewDate(2021, 0, 0), "2021-??-??"},
		{"early year pads", model.NewDate(999, 1, 1), "0999-01-01"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.date.String(); got != tc.want {
				t.Fatalf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		text string
		want model.Date
	}{
		{"2021-04-02", model.NewDate(2021, 4, 2)},
		{"2021-04", model.NewDate(2021, 4, 0)},
		{"2021-??-??", model.NewDate(2021, 0, 0)},
	}

	for _, tc := range cases {
		got, err := model.ParseDate(tc.text)
		if err != nil {
			t.Fatalf("ParseDate(%q) failed: %v", tc.text, err)
		}
		if got != tc.want {
			t.Fatalf("ParseDate(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}

	if _, err := model.ParseDate("????"); err == nil {
		t.Fatal("expected error for date without numeric components")
	}
}
