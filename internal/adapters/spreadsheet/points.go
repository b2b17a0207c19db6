package spreadsheet

import (
	"fmt"
	"io"
	"visit-route-planner/internal/clock"
	"visit-route-planner/internal/domain"
)

const (
	pointsSheet   = "Маршруты"
	templateSheet = "Точки маршрута"
)

// Column titles understood by Import.
var pointHeaders = []string{
	"ID", "Адрес", "Широта", "Долгота",
	"Начало работы", "Конец работы", "Начало обеда", "Конец обеда",
	"Уровень клиента", "Длительность (мин)",
}

var templateRows = [][]any{
	{"", "г. Ростов-на-Дону, ул. Примерная, д. 1", "47.221532", "39.704423", "09:00", "18:00", "13:00", "14:00", "VIP", "45"},
	{"", "г. Ростов-на-Дону, пр. Примерный, д. 25", "47.228945", "39.718762", "10:00", "19:00", "13:00", "14:00", "Standard", "30"},
}

// WriteVisitPoints renders points as a workbook that Import reads back unchanged.
func WriteVisitPoints(w io.Writer, points []domain.VisitPoint) error {
	f, err := newWorkbook(pointsSheet, pointHeaders)
	if err != nil {
		return fmt.Errorf("export visit points: %w", err)
	}
	defer f.Close()

	for i, p := range points {
		values := []any{
			p.ID,
			p.Address,
			p.Coordinates.Lat,
			p.Coordinates.Lon,
			clock.Format(p.WorkStart),
			clock.Format(p.WorkEnd),
			clock.Format(p.LunchStart),
			clock.Format(p.LunchEnd),
			p.Level.String(),
			p.Duration,
		}
		if err := writeRow(f, pointsSheet, i+2, values); err != nil {
			return fmt.Errorf("export visit points: %w", err)
		}
	}

	return finish(f, w, pointsSheet, len(pointHeaders), "export visit points")
}

// WriteTemplate renders an import template with two sample rows.
func WriteTemplate(w io.Writer) error {
	f, err := newWorkbook(templateSheet, pointHeaders)
	if err != nil {
		return fmt.Errorf("export template: %w", err)
	}
	defer f.Close()

	for i, row := range templateRows {
		if err := writeRow(f, templateSheet, i+2, row); err != nil {
			return fmt.Errorf("export template: %w", err)
		}
	}

	return finish(f, w, templateSheet, len(pointHeaders), "export template")
}
