package dto

type VisitPointResponse struct {
	ID         string  `json:"id"`
	Address    string  `json:"address"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	WorkStart  string  `json:"work_start"`
	WorkEnd    string  `json:"work_end"`
	LunchStart string  `json:"lunch_start"`
	LunchEnd   string  `json:"lunch_end"`
	Level      string  `json:"level"`
	Duration   int     `json:"duration_minutes"`
}

type ListVisitsResponse struct {
	Visits []VisitPointResponse `json:"visits"`
}

type SkippedRowResponse struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

type ImportVisitsResponse struct {
	Imported int                  `json:"imported"`
	Skipped  []SkippedRowResponse `json:"skipped"`
}
