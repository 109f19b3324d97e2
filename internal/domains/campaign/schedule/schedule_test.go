package schedule_test

import (
	"bedcall/internal/domains/campaign/schedule"
	"bedcall/shared/timezone"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const calendarYAML = `
occasions:
  - name: Passover
    date: "2026-04-04"
  - name: Harvest
    rrule: "FREQ=YEARLY;BYMONTH=10;BYMONTHDAY=3"
`

func date(t *testing.T, value string) time.Time {
	t.Helper()

	parsed, err := timezone.Parse(time.DateOnly, value)
	require.NoError(t, err)

	return parsed
}

func TestParseCalendar(t *testing.T) {
	calendar, err := schedule.ParseCalendar([]byte(calendarYAML))
	require.NoError(t, err)
	require.Len(t, calendar.Occasions, 2)

	_, err = schedule.ParseCalendar([]byte("occasions:\n  - name: Broken\n"))
	assert.Error(t, err, "occasion needs a date or a rule")

	_, err = schedule.ParseCalendar([]byte("occasions:\n  - name: Bad\n    rrule: \"FREQ=SOMETIMES\"\n"))
	assert.Error(t, err)
}

func TestCalendar_Match(t *testing.T) {
	calendar, err := schedule.ParseCalendar([]byte(calendarYAML))
	require.NoError(t, err)

	occasion, ok := calendar.Match(date(t, "2026-04-04"))
	assert.True(t, ok)
	assert.Equal(t, "Passover", occasion.Name)

	occasion, ok = calendar.Match(date(t, "2026-10-03"))
	assert.True(t, ok)
	assert.Equal(t, "Harvest", occasion.Name)

	_, ok = calendar.Match(date(t, "2026-10-04"))
	assert.False(t, ok)
}

func TestLoadCalendar(t *testing.T) {
	calendar, err := schedule.LoadCalendar("")
	require.NoError(t, err)
	assert.Empty(t, calendar.Occasions)

	path := filepath.Join(t.TempDir(), "calendar.yaml")
	require.NoError(t, os.WriteFile(path, []byte(calendarYAML), 0o600))

	calendar, err = schedule.LoadCalendar(path)
	require.NoError(t, err)
	assert.Len(t, calendar.Occasions, 2)

	_, err = schedule.LoadCalendar(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestPlanner_Next(t *testing.T) {
	calendar, err := schedule.ParseCalendar([]byte(calendarYAML))
	require.NoError(t, err)

	planner := schedule.NewPlannerWithCalendar("FREQ=WEEKLY;BYDAY=SA", calendar)

	tests := []struct {
		name        string
		after       string
		wantDate    string
		wantSpecial bool
	}{
		{name: "midweek goes to the coming saturday", after: "2026-10-14", wantDate: "2026-10-17"},
		{name: "saturday goes to the following saturday", after: "2026-10-17", wantDate: "2026-10-24"},
		{name: "special occasion on the next saturday", after: "2026-04-01", wantDate: "2026-04-04", wantSpecial: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := planner.Next(date(t, tt.after).Add(15 * time.Hour))
			require.NoError(t, err)

			assert.Equal(t, tt.wantDate, timezone.Format(event.Date, time.DateOnly))
			assert.Equal(t, tt.wantSpecial, event.IsSpecial)
		})
	}
}
