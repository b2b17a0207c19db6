package spreadsheet

import (
	"fmt"
	"io"
	"math"
	"visit-route-planner/internal/clock"
	"visit-route-planner/internal/domain"

	"github.com/xuri/excelize/v2"
)

const scheduleSheet = "Schedule"

var scheduleHeaders = []string{
	"Order", "Day", "Address", "Client level", "Arrival", "Departure",
	"Visit (min)", "Travel to next (min)", "Travel to next (km)",
	"Working hours", "Lunch", "Status",
}

// WriteSchedule renders schedule as a single-sheet workbook to w.
// Unplaceable visits are listed with empty times.
func WriteSchedule(w io.Writer, schedule *domain.Schedule) error {
	f, err := newWorkbook(scheduleSheet, scheduleHeaders)
	if err != nil {
		return fmt.Errorf("export schedule: %w", err)
	}
	defer f.Close()

	for i, e := range schedule.Entries {
		if err := writeRow(f, scheduleSheet, i+2, entryValues(e)); err != nil {
			return fmt.Errorf("export schedule: %w", err)
		}
	}

	return finish(f, w, scheduleSheet, len(scheduleHeaders), "export schedule")
}

func entryValues(e domain.ScheduleEntry) []any {
	arrival, departure, day := "", "", any("")
	if e.Placed() {
		arrival = e.ArrivalTime.Format("2006-01-02 15:04")
		departure = e.DepartureTime.Format("2006-01-02 15:04")
		day = e.Day
	}

	return []any{
		e.Order,
		day,
		e.Address,
		e.Level.String(),
		arrival,
		departure,
		e.VisitMinutes,
		e.TravelTimeMinutes,
		math.Round(e.TravelDistanceKm*100) / 100,
		clock.Format(e.WorkStart) + " - " + clock.Format(e.WorkEnd),
		clock.Format(e.LunchStart) + " - " + clock.Format(e.LunchEnd),
		string(e.Status),
	}
}

// newWorkbook returns a workbook whose only sheet is named sheet and carries
// a bold header row.
func newWorkbook(sheet string, headers []string) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	values := make([]any, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	if err := writeRow(f, sheet, 1, values); err != nil {
		f.Close()
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6E6FA"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("header style: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		f.Close()
		return nil, fmt.Errorf("apply header style: %w", err)
	}

	return f, nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, v := range values {
		name, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, name, v); err != nil {
			return fmt.Errorf("set %s: %w", name, err)
		}
	}
	return nil
}

// finish sizes the columns and writes the workbook to w.
func finish(f *excelize.File, w io.Writer, sheet string, cols int, op string) error {
	last, err := excelize.ColumnNumberToName(cols)
	if err != nil {
		return fmt.Errorf("%s: column name: %w", op, err)
	}
	if err := f.SetColWidth(sheet, "A", last, 16); err != nil {
		return fmt.Errorf("%s: set column width: %w", op, err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("%s: write workbook: %w", op, err)
	}
	return nil
}
