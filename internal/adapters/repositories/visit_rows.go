package repositories

import (
	"database/sql"
	"fmt"
	"visit-route-planner/internal/domain"
)

const visitColumns = `point_id, address, lat, lon, work_start, work_end, lunch_start, lunch_end, level, duration`

func scanVisitPoints(rows *sql.Rows) ([]domain.VisitPoint, error) {
	points := make([]domain.VisitPoint, 0, 64)
	for rows.Next() {
		var p domain.VisitPoint
		var level string
		err := rows.Scan(
			&p.ID, &p.Address, &p.Coordinates.Lat, &p.Coordinates.Lon,
			&p.WorkStart, &p.WorkEnd, &p.LunchStart, &p.LunchEnd,
			&level, &p.Duration,
		)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		if p.Level, err = domain.ParseClientLevel(level); err != nil {
			return nil, fmt.Errorf("scan row point_id=%q: %w", p.ID, err)
		}
		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}

	return points, nil
}

func visitArgs(seq int, p domain.VisitPoint) []any {
	return []any{
		seq, p.ID, p.Address, p.Coordinates.Lat, p.Coordinates.Lon,
		p.WorkStart, p.WorkEnd, p.LunchStart, p.LunchEnd,
		p.Level.String(), p.Duration,
	}
}
