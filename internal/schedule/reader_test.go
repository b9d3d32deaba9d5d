package schedule

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"batchcal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "Calendar,Event Name,Description,Location,Start Date,Start Time,End Time,End Date,Sun,Mon,Tue,Wed,Thu,Fri,Sat\n"

func TestRead(t *testing.T) {
	data := "\ufeff" + header +
		"room101@example.com,Standup,Daily sync,Room 101,06/21/2021,09:00 AM,09:30 AM,07/08/2021,FALSE,TRUE,FALSE,FALSE,FALSE,FALSE,FALSE\n" +
		"\"lab, east@example.com\",Lab,\"multi, part\",,6/22/2021,1:15 PM,2:00 PM,6/29/2021,FALSE,FALSE,TRUE,FALSE,TRUE,FALSE,FALSE\n"

	rows, err := Read(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, models.ScheduleRow{
		Line:        2,
		Calendar:    "room101@example.com",
		EventName:   "Standup",
		Description: "Daily sync",
		Location:    "Room 101",
		StartDate:   "06/21/2021",
		StartTime:   "09:00 AM",
		EndTime:     "09:30 AM",
		EndDate:     "07/08/2021",
		Sun:         "FALSE", Mon: "TRUE", Tue: "FALSE", Wed: "FALSE", Thu: "FALSE", Fri: "FALSE", Sat: "FALSE",
	}, rows[0])

	assert.Equal(t, 3, rows[1].Line)
	assert.Equal(t, "lab, east@example.com", rows[1].Calendar)
	assert.Equal(t, "multi, part", rows[1].Description)
	assert.Equal(t, [7]string{"FALSE", "FALSE", "TRUE", "FALSE", "TRUE", "FALSE", "FALSE"}, rows[1].DayFlags())
}

func TestRead_MissingColumns(t *testing.T) {
	_, err := Read(strings.NewReader("Calendar,Event Name,Start Date\nx,y,01/01/2021\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Start Time")
	assert.Contains(t, err.Error(), "Sat")

	_, err = Read(strings.NewReader(""))
	assert.Error(t, err)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.csv")
	require.NoError(t, os.WriteFile(path, []byte(header), 0o600))

	rows, err := ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = ReadFile(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestParseTimes(t *testing.T) {
	row := models.ScheduleRow{StartDate: "06/21/2021", StartTime: "09:00 AM", EndTime: "09:30 am", EndDate: "07/08/2021"}

	got, err := ParseTimes(row)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, 6, 21, 9, 0, 0, 0, time.UTC), got.Start)
	assert.Equal(t, time.Date(2021, 6, 21, 9, 30, 0, 0, time.UTC), got.End)
	assert.Equal(t, time.Date(2021, 6, 21, 0, 0, 0, 0, time.UTC), got.RangeStart)
	assert.Equal(t, time.Date(2021, 7, 8, 0, 0, 0, 0, time.UTC), got.RangeEnd)

	pm, err := ParseClock("12:15 PM")
	require.NoError(t, err)
	assert.Equal(t, 12*time.Hour+15*time.Minute, pm)
	am, err := ParseClock("12:15 AM")
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, am)
}

func TestParseTimes_Errors(t *testing.T) {
	base := models.ScheduleRow{StartDate: "06/21/2021", StartTime: "09:00 AM", EndTime: "09:30 AM", EndDate: "07/08/2021"}

	tests := []struct {
		name   string
		mutate func(*models.ScheduleRow)
		want   string
	}{
		{"iso start date", func(r *models.ScheduleRow) { r.StartDate = "2021-06-21" }, "Start Date"},
		{"bad end date", func(r *models.ScheduleRow) { r.EndDate = "13/40/2021" }, "End Date"},
		{"24h start time", func(r *models.ScheduleRow) { r.StartTime = "17:00" }, "Start Time"},
		{"empty end time", func(r *models.ScheduleRow) { r.EndTime = "" }, "End Time"},
		{"range reversed", func(r *models.ScheduleRow) { r.EndDate = "06/20/2021" }, "before Start Date"},
		{"end before start", func(r *models.ScheduleRow) { r.EndTime = "08:00 AM" }, "not after Start Time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := base
			tt.mutate(&row)
			_, err := ParseTimes(row)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
