package importer

import (
	"testing"

	"gopunch/internal/timeutil"
)

func TestParsePunch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "clock", input: "08:15", want: "08:15:00"},
		{name: "clock with seconds", input: " 17:02:09 ", want: "17:02:09"},
		{name: "datetime", input: "2026-03-02 22:05:00", want: "22:05:00"},
		{name: "rfc3339", input: "2026-03-02T06:10:00+07:00", want: "06:10:00"},
		{name: "excel fraction", input: "0.5", want: "12:00:00"},
		{name: "excel fraction comma", input: "0,25", want: "06:00:00"},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "late", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := parsePunch(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for %q: %v", tc.input, err)
			}
			if got.String() != tc.want {
				t.Fatalf("unexpected punch for %q: want %s, got %s", tc.input, tc.want, got)
			}
		})
	}
}

func TestParseWorkDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "2026-03-02", want: "2026-03-02"},
		{input: "02/03/2026", want: "2026-03-02"},
		{input: "46083", want: "2026-03-02"},
		{input: "", wantErr: true},
		{input: "tomorrow", wantErr: true},
	}

	for _, tc := range tests {
		got, err := parseWorkDate(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("expected error for %q", tc.input)
			}
			continue
		}
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", tc.input, err)
		}
		if timeutil.DateKey(got) != tc.want {
			t.Fatalf("unexpected date for %q: want %s, got %s", tc.input, tc.want, timeutil.DateKey(got))
		}
	}
}
