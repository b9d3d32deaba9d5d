package schedule

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"batchcal/internal/models"

	"github.com/gocarina/gocsv"
)

// Columns lists the header every schedule spreadsheet must carry.
var Columns = []string{
	"Calendar", "Event Name", "Description", "Location",
	"Start Date", "Start Time", "End Time", "End Date",
	"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat",
}

// ReadFile loads every row of the schedule spreadsheet at path.
func ReadFile(path string) ([]models.ScheduleRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open schedule: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses schedule rows from r. The header must contain all Columns;
// extra columns are ignored.
func Read(r io.Reader) ([]models.ScheduleRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read schedule: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	header, err := csv.NewReader(bytes.NewReader(data)).Read()
	if err == io.EOF {
		return nil, fmt.Errorf("schedule is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read schedule header: %w", err)
	}
	if missing := missingColumns(header); len(missing) > 0 {
		return nil, fmt.Errorf("schedule header is missing columns: %s", strings.Join(missing, ", "))
	}

	var rows []models.ScheduleRow
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse schedule: %w", err)
	}
	for i := range rows {
		// line 1 is the header
		rows[i].Line = i + 2
	}
	return rows, nil
}

func missingColumns(header []string) []string {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	var missing []string
	for _, c := range Columns {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	return missing
}
