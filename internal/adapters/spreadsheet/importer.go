// Package spreadsheet reads visit points from .xlsx workbooks and writes schedules back out.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"visit-route-planner/internal/clock"
	"visit-route-planner/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"
)

var ErrNoData = errors.New("spreadsheet: no data rows")

// idHeader must match a header exactly; as a substring it would hit unrelated titles.
const idHeader = "id"

// Header substrings per column, checked in order against lower-cased headers.
var (
	addressHeaders    = []string{"адрес", "address", "точка"}
	latHeaders        = []string{"широта", "latitude", "lat"}
	lonHeaders        = []string{"долгота", "longitude", "lng", "lon"}
	workStartHeaders  = []string{"начало работы", "workstart", "work start", "время начала"}
	workEndHeaders    = []string{"конец работы", "workend", "work end", "время окончания"}
	lunchStartHeaders = []string{"начало обеда", "lunchstart", "lunch start", "обед начало"}
	lunchEndHeaders   = []string{"конец обеда", "lunchend", "lunch end", "обед конец"}
	levelHeaders      = []string{"уровень", "level", "клиент", "client"}
	durationHeaders   = []string{"длительность", "duration"}
)

var validate = validator.New()

// importRow is a data row after cell parsing, before it becomes a VisitPoint.
type importRow struct {
	Address  string  `validate:"required"`
	Lat      float64 `validate:"latitude"`
	Lon      float64 `validate:"longitude"`
	Duration int     `validate:"gte=0,lte=1440"`
}

// RowError describes a data row that was skipped. Row is the 1-based sheet row.
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string { return fmt.Sprintf("row %d: %v", e.Row, e.Err) }

type ImportResult struct {
	Points  []domain.VisitPoint
	Skipped []RowError
}

type columns struct {
	id         int
	address    int
	lat        int
	lon        int
	workStart  int
	workEnd    int
	lunchStart int
	lunchEnd   int
	level      int
	duration   int
}

// Import reads the first sheet of an .xlsx workbook. The first row holds the
// headers; columns are matched by name in Russian or English. An "ID" column
// is optional and defaults to the row sequence. Rows without usable (or
// 0,0) coordinates and rows repeating an earlier id are skipped and reported;
// missing times take the default working day and a missing or unknown level
// is Standard.
func Import(r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("import spreadsheet: open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("import spreadsheet: %w", ErrNoData)
	}

	// Raw values keep time cells as day fractions instead of locale-formatted text.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("import spreadsheet: read sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("import spreadsheet: %w", ErrNoData)
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}
	cols := columns{
		id:         slices.Index(headers, idHeader),
		address:    findColumn(headers, addressHeaders),
		lat:        findColumn(headers, latHeaders),
		lon:        findColumn(headers, lonHeaders),
		workStart:  findColumn(headers, workStartHeaders),
		workEnd:    findColumn(headers, workEndHeaders),
		lunchStart: findColumn(headers, lunchStartHeaders),
		lunchEnd:   findColumn(headers, lunchEndHeaders),
		level:      findColumn(headers, levelHeaders),
		duration:   findColumn(headers, durationHeaders),
	}
	if cols.lat == -1 || cols.lon == -1 {
		return nil, fmt.Errorf("import spreadsheet: latitude and longitude columns are required")
	}

	res := &ImportResult{Points: make([]domain.VisitPoint, 0, len(rows)-1)}
	seen := make(map[string]bool, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}

		p, err := parseRow(row, cols, len(res.Points)+1)
		if err == nil && seen[p.ID] {
			err = fmt.Errorf("duplicate id %q", p.ID)
		}
		if err != nil {
			res.Skipped = append(res.Skipped, RowError{Row: i + 2, Err: err})
			continue
		}
		seen[p.ID] = true
		res.Points = append(res.Points, p)
	}

	if len(res.Points) == 0 {
		return res, fmt.Errorf("import spreadsheet: %w", ErrNoData)
	}
	return res, nil
}

func parseRow(row []string, cols columns, seq int) (domain.VisitPoint, error) {
	in := importRow{Address: cell(row, cols.address)}
	if in.Address == "" {
		in.Address = fmt.Sprintf("Point %d", seq)
	}

	var err error
	if in.Lat, err = parseFloat(cell(row, cols.lat)); err != nil {
		return domain.VisitPoint{}, fmt.Errorf("latitude: %w", err)
	}
	if in.Lon, err = parseFloat(cell(row, cols.lon)); err != nil {
		return domain.VisitPoint{}, fmt.Errorf("longitude: %w", err)
	}
	if v := cell(row, cols.duration); v != "" {
		d, err := parseFloat(v)
		if err != nil {
			return domain.VisitPoint{}, fmt.Errorf("duration: %w", err)
		}
		in.Duration = int(d)
	}

	if err := validate.Struct(in); err != nil {
		return domain.VisitPoint{}, err
	}
	if (domain.Coordinates{Lat: in.Lat, Lon: in.Lon}).IsZero() {
		return domain.VisitPoint{}, errors.New("coordinates are 0,0")
	}

	id := cell(row, cols.id)
	if id == "" {
		id = strconv.Itoa(seq)
	}

	p := domain.VisitPoint{
		ID:          id,
		Address:     in.Address,
		Coordinates: domain.Coordinates{Lat: in.Lat, Lon: in.Lon},
		WorkStart:   timeCell(row, cols.workStart, clock.DefaultWorkStart),
		WorkEnd:     timeCell(row, cols.workEnd, clock.DefaultWorkEnd),
		LunchStart:  timeCell(row, cols.lunchStart, clock.DefaultLunchStart),
		LunchEnd:    timeCell(row, cols.lunchEnd, clock.DefaultLunchEnd),
		Duration:    in.Duration,
	}
	if level, err := domain.ParseClientLevel(cell(row, cols.level)); err == nil {
		p.Level = level
	}

	return p, nil
}

// findColumn returns the index of the first header containing one of names, or -1.
func findColumn(headers []string, names []string) int {
	for _, name := range names {
		for i, h := range headers {
			if h != "" && strings.Contains(h, name) {
				return i
			}
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func timeCell(row []string, idx int, fallback int) int {
	hhmm, ok := clock.Normalize(cell(row, idx))
	if !ok {
		return fallback
	}
	return clock.MinutesOr(hhmm, fallback)
}

func parseFloat(v string) (float64, error) {
	if v == "" {
		return 0, errors.New("missing value")
	}
	f, err := strconv.ParseFloat(strings.Replace(v, ",", ".", 1), 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", v, err)
	}
	return f, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
