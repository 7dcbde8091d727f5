package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScheduleTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "full seconds",
			input: "2026-03-15 09:30:45",
			want:  time.Date(2026, 3, 15, 9, 30, 45, 0, time.UTC),
		},
		{
			name:  "seconds default to zero",
			input: "2026-03-15 09:30",
			want:  time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC),
		},
		{
			name:  "datetime-local separator",
			input: "2026-03-15T09:30",
			want:  time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC),
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "garbage",
			input:   "15/03/2026 9:30am",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseScheduleTime(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestScheduleTimeRoundTrip(t *testing.T) {
	// Format(Parse(x)) must reproduce the original wall-clock minute.
	inputs := []string{
		"2026-01-01 00:00:00",
		"2026-06-30 23:59:00",
		"2025-12-31 12:01:00",
	}

	for _, in := range inputs {
		parsed, err := ParseScheduleTime(in)
		require.NoError(t, err)
		assert.Equal(t, in, FormatScheduleTime(parsed))
	}

	// Minute-precision input gains an explicit :00 on the way out.
	parsed, err := ParseScheduleTime("2026-06-30 23:59")
	require.NoError(t, err)
	assert.Equal(t, "2026-06-30 23:59:00", FormatScheduleTime(parsed))
}

func TestParseScheduleTimePtr(t *testing.T) {
	got, err := ParseScheduleTimePtr(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	empty := "  "
	got, err = ParseScheduleTimePtr(&empty)
	require.NoError(t, err)
	assert.Nil(t, got)

	val := "2026-03-15 09:30:00"
	got, err = ParseScheduleTimePtr(&val)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, &val, FormatScheduleTimePtr(got))
}
