package booking

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestAlternativeSlotTimes(t *testing.T) {
	tests := []struct {
		name      string
		requested string
		open      string
		close     string
		want      []string
	}{
		{
			name:      "all offsets inside hours",
			requested: "13:00", open: "11:00", close: "22:00",
			want: []string{"11:00", "11:30", "12:00", "12:30", "13:30", "14:00", "14:30", "15:00"},
		},
		{
			name:      "clipped at opening",
			requested: "12:00", open: "11:00", close: "22:00",
			want: []string{"11:00", "11:30", "12:30", "13:00", "13:30", "14:00"},
		},
		{
			name:      "clipped at closing, closing inclusive",
			requested: "21:00", open: "11:00", close: "22:00",
			want: []string{"19:00", "19:30", "20:00", "20:30", "21:30", "22:00"},
		},
		{
			name:      "unaligned minutes roll over",
			requested: "18:45", open: "00:00", close: "23:59",
			want: []string{"16:45", "17:15", "17:45", "18:15", "19:15", "19:45", "20:15", "20:45"},
		},
		{
			name:      "no negative hours after midnight",
			requested: "00:30", open: "00:00", close: "23:59",
			want: []string{"00:00", "01:00", "01:30", "02:00", "02:30"},
		},
		{
			name:      "no hour 24 before midnight",
			requested: "23:00", open: "00:00", close: "23:59",
			want: []string{"21:00", "21:30", "22:00", "22:30", "23:30"},
		},
		{
			name:      "nothing inside hours",
			requested: "08:00", open: "11:00", close: "22:00",
			want: []string{},
		},
		{
			name:      "malformed time",
			requested: "8pm", open: "11:00", close: "22:00",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AlternativeSlotTimes(tt.requested, tt.open, tt.close)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("AlternativeSlotTimes(%q, %q, %q) = %v, want %v", tt.requested, tt.open, tt.close, got, tt.want)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	for _, s := range []string{"", "9:00", "09:0", "24:00", "12:60", "12-30", "ab:cd", "12:30:00"} {
		if _, _, err := parseClock(s); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("parseClock(%q) error = %v, want ErrInvalidRequest", s, err)
		}
	}
	h, m, err := parseClock("07:05")
	if err != nil || h != 7 || m != 5 {
		t.Fatalf("parseClock(07:05) = %d, %d, %v", h, m, err)
	}
}

func TestWeekdayName(t *testing.T) {
	d, err := parseDate("2025-06-02")
	if err != nil {
		t.Fatalf("parseDate: %v", err)
	}
	if got := weekdayName(d); got != "Monday" {
		t.Fatalf("weekdayName = %q, want Monday", got)
	}
	if _, err := parseDate("2025-6-2"); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("parseDate(2025-6-2) error = %v, want ErrInvalidRequest", err)
	}
	if got := weekdayName(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)); got != "Sunday" {
		t.Fatalf("weekdayName = %q, want Sunday", got)
	}
}
