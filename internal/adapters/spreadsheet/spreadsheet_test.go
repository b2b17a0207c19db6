package spreadsheet

import (
	"bytes"
	"testing"
	"time"
	"visit-route-planner/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// workbook builds an .xlsx with rows written to the first sheet.
func workbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for r, row := range rows {
		for c, v := range row {
			name, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", name, v))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestImportRussianHeaders(t *testing.T) {
	buf := workbook(t, [][]any{
		{"Адрес", "Широта", "Долгота", "Начало работы", "Конец работы", "Начало обеда", "Конец обеда", "Уровень клиента", "Длительность"},
		{"ул. Большая Садовая, 1", 47.221532, 39.704423, "9:00", "18:00", "13:00", "14:00", "VIP", 45},
		{"пр. Соколова, 25", "47,235671", "39,689543", "10:00", "19:00", "13.30", "14.30", "Standart", ""},
		{"пр. Ворошиловский, 40", 47.246892, 39.723456, 0.3333333333, 0.7083333333, "12 00", "13 00", "обычный", 20},
	})

	res, err := Import(buf)
	require.NoError(t, err)
	assert.Empty(t, res.Skipped)
	require.Len(t, res.Points, 3)

	first := res.Points[0]
	assert.Equal(t, "1", first.ID)
	assert.Equal(t, "ул. Большая Садовая, 1", first.Address)
	assert.InDelta(t, 47.221532, first.Coordinates.Lat, 1e-9)
	assert.Equal(t, domain.LevelVIP, first.Level)
	assert.Equal(t, 45, first.Duration)
	assert.Equal(t, 540, first.WorkStart)

	second := res.Points[1]
	assert.InDelta(t, 39.689543, second.Coordinates.Lon, 1e-9)
	assert.Equal(t, 600, second.WorkStart)
	assert.Equal(t, 810, second.LunchStart)
	assert.Equal(t, domain.LevelStandard, second.Level)
	assert.Equal(t, domain.DefaultVisitDuration, second.VisitDuration())

	third := res.Points[2]
	assert.Equal(t, 480, third.WorkStart)
	assert.Equal(t, 1020, third.WorkEnd)
	assert.Equal(t, 720, third.LunchStart)
	assert.Equal(t, 780, third.LunchEnd)
}

func TestImportEnglishHeadersWithDefaults(t *testing.T) {
	buf := workbook(t, [][]any{
		{"Address", "Latitude", "Longitude", "Client"},
		{"1 Main St", 47.22, 39.70, "vip"},
		{},
		{"", 47.23, 39.71, "gold"},
		{"No coordinates", "", "", "VIP"},
		{"Off the map", 95.0, 39.7, ""},
	})

	res, err := Import(buf)
	require.NoError(t, err)
	require.Len(t, res.Points, 2)

	assert.Equal(t, domain.LevelVIP, res.Points[0].Level)
	assert.Equal(t, 540, res.Points[0].WorkStart)
	assert.Equal(t, 1080, res.Points[0].WorkEnd)
	assert.Equal(t, 780, res.Points[0].LunchStart)
	assert.Equal(t, 840, res.Points[0].LunchEnd)

	assert.Equal(t, "Point 2", res.Points[1].Address)
	assert.Equal(t, "2", res.Points[1].ID)
	assert.Equal(t, domain.LevelStandard, res.Points[1].Level)

	require.Len(t, res.Skipped, 2)
	assert.Equal(t, 5, res.Skipped[0].Row)
	assert.Equal(t, 6, res.Skipped[1].Row)
	assert.Contains(t, res.Skipped[1].Error(), "row 6")
}

func TestImportRequiresCoordinateColumns(t *testing.T) {
	buf := workbook(t, [][]any{
		{"Address", "Level"},
		{"1 Main St", "VIP"},
	})

	_, err := Import(buf)
	assert.Error(t, err)
}

func TestImportNoData(t *testing.T) {
	_, err := Import(workbook(t, [][]any{{"Address", "Lat", "Lon"}}))
	assert.ErrorIs(t, err, ErrNoData)

	_, err = Import(workbook(t, [][]any{
		{"Address", "Lat", "Lon"},
		{"Nowhere", "north", "east"},
	}))
	assert.ErrorIs(t, err, ErrNoData)
}

func TestImportNotAWorkbook(t *testing.T) {
	_, err := Import(bytes.NewBufferString("address,lat,lon\n"))
	assert.Error(t, err)
}

func TestWriteSchedule(t *testing.T) {
	arrival := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	schedule := &domain.Schedule{
		Entries: []domain.ScheduleEntry{
			{
				PointID:           "1",
				Address:           "1 Main St",
				Level:             domain.LevelVIP,
				Order:             1,
				ArrivalTime:       arrival,
				DepartureTime:     arrival.Add(45 * time.Minute),
				VisitMinutes:      45,
				TravelTimeMinutes: 7,
				TravelDistanceKm:  6.789,
				Day:               1,
				Status:            domain.StatusNormal,
				WorkStart:         540,
				WorkEnd:           1080,
				LunchStart:        780,
				LunchEnd:          840,
			},
			{
				PointID:      "2",
				Address:      "2 Long Rd",
				Order:        2,
				VisitMinutes: 400,
				Status:       domain.StatusUnplaceable,
				WorkStart:    540,
				WorkEnd:      1080,
				LunchStart:   780,
				LunchEnd:     840,
			},
		},
		Unplaceable: []string{"2"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSchedule(&buf, schedule))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Schedule"}, f.GetSheetList())

	rows, err := f.GetRows("Schedule")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, scheduleHeaders, rows[0])
	assert.Equal(t, []string{
		"1", "1", "1 Main St", "VIP", "2025-03-10 09:00", "2025-03-10 09:45",
		"45", "7", "6.79", "09:00 - 18:00", "13:00 - 14:00", "normal",
	}, rows[1])

	assert.Equal(t, "2", rows[2][0])
	assert.Equal(t, "", rows[2][1])
	assert.Equal(t, "", rows[2][4])
	assert.Equal(t, "unplaceable", rows[2][11])
}

func TestVisitPointsRoundTrip(t *testing.T) {
	points := []domain.VisitPoint{
		{
			ID:          "p-17",
			Address:     "ул. Пушкинская, 154",
			Coordinates: domain.Coordinates{Lat: 47.222531, Lon: 39.718609},
			WorkStart:   540,
			WorkEnd:     1080,
			LunchStart:  780,
			LunchEnd:    840,
			Level:       domain.LevelVIP,
			Duration:    45,
		},
		{
			ID:          "p-4",
			Address:     "пр. Буденновский, 35",
			Coordinates: domain.Coordinates{Lat: 47.227887, Lon: 39.744678},
			WorkStart:   600,
			WorkEnd:     1140,
			LunchStart:  810,
			LunchEnd:    870,
			Level:       domain.LevelStandard,
			Duration:    0,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteVisitPoints(&buf, points))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, []string{"Маршруты"}, f.GetSheetList())
	require.NoError(t, f.Close())

	res, err := Import(&buf)
	require.NoError(t, err)
	assert.Empty(t, res.Skipped)
	assert.Equal(t, points, res.Points)
}

func TestWriteTemplate(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTemplate(&buf))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, []string{"Точки маршрута"}, f.GetSheetList())
	header, err := f.GetCellValue("Точки маршрута", "B1")
	require.NoError(t, err)
	assert.Equal(t, "Адрес", header)
	require.NoError(t, f.Close())

	res, err := Import(&buf)
	require.NoError(t, err)
	require.Len(t, res.Points, 2)
	assert.Equal(t, "1", res.Points[0].ID)
	assert.Equal(t, domain.LevelVIP, res.Points[0].Level)
	assert.Equal(t, 45, res.Points[0].Duration)
	assert.Equal(t, "2", res.Points[1].ID)
	assert.Equal(t, 600, res.Points[1].WorkStart)
	assert.Equal(t, domain.LevelStandard, res.Points[1].Level)
}

func TestImportIDColumn(t *testing.T) {
	buf := workbook(t, [][]any{
		{"ID", "Address", "Lat", "Lon"},
		{"x", "first", 47.1, 39.1},
		{"x", "repeat", 47.2, 39.2},
		{"", "null island", 0, 0},
		{"", "second", 47.3, 39.3},
	})

	res, err := Import(buf)
	require.NoError(t, err)
	require.Len(t, res.Points, 2)
	assert.Equal(t, "x", res.Points[0].ID)
	assert.Equal(t, "2", res.Points[1].ID)
	assert.Equal(t, "second", res.Points[1].Address)

	require.Len(t, res.Skipped, 2)
	assert.Equal(t, 3, res.Skipped[0].Row)
	assert.ErrorContains(t, res.Skipped[0].Err, "duplicate id")
	assert.Equal(t, 4, res.Skipped[1].Row)
	assert.ErrorContains(t, res.Skipped[1].Err, "0,0")
}
