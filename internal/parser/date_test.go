package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExtractDate(t *testing.T) {
	fallback := time.Date(2026, 2, 12, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		text string
		want time.Time
	}{
		{
			name: "full date with time",
			text: "presso AMAZON il 10/02/2026 alle 14:21",
			want: time.Date(2026, 2, 10, 14, 21, 0, 0, time.UTC),
		},
		{
			name: "alle ore connector",
			text: "in data 03/01/2026 alle ore 08:05",
			want: time.Date(2026, 1, 3, 8, 5, 0, 0, time.UTC),
		},
		{
			name: "two digit year",
			text: "il 07/02/26",
			want: time.Date(2026, 2, 7, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "missing year uses fallback year",
			text: "il 05/03 alle 12:30",
			want: time.Date(2026, 3, 5, 12, 30, 0, 0, time.UTC),
		},
		{
			name: "missing time defaults to midnight",
			text: "in data 10/02/2026",
			want: time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "no date returns fallback with its time of day",
			text: "nessuna data qui",
			want: fallback,
		},
		{
			name: "invalid calendar date returns fallback",
			text: "il 31/04/2026",
			want: fallback,
		},
		{
			name: "impossible month returns fallback",
			text: "il 12/34",
			want: fallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, ExtractDate(tt.text, fallback).Equal(tt.want),
				"got %v, want %v", ExtractDate(tt.text, fallback), tt.want)
		})
	}
}
