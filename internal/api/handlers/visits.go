package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"visit-route-planner/internal/adapters/spreadsheet"
	"visit-route-planner/internal/api/dto"
	"visit-route-planner/internal/clock"
	"visit-route-planner/internal/platform/obs"
	"visit-route-planner/internal/ports"
)

const maxImportBytes = 10 << 20

// VisitHandler lists stored visit points and moves them in and out of spreadsheets.
type VisitHandler struct {
	Repo ports.VisitRepository
}

func (h *VisitHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	points, err := h.Repo.ListVisitPoints(r.Context())
	if err != nil {
		log.Printf("req_id=%s list visit points failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListVisitsResponse{
		Visits: make([]dto.VisitPointResponse, 0, len(points)),
	}
	for _, p := range points {
		res.Visits = append(res.Visits, dto.VisitPointResponse{
			ID:         p.ID,
			Address:    p.Address,
			Lat:        p.Coordinates.Lat,
			Lon:        p.Coordinates.Lon,
			WorkStart:  clock.Format(p.WorkStart),
			WorkEnd:    clock.Format(p.WorkEnd),
			LunchStart: clock.Format(p.LunchStart),
			LunchEnd:   clock.Format(p.LunchEnd),
			Level:      p.Level.String(),
			Duration:   p.VisitDuration(),
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Import replaces the stored visit points with the rows of an uploaded .xlsx
// workbook sent as the multipart field "file".
func (h *VisitHandler) Import(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		writeError(w, r, http.StatusBadRequest, "file must be an .xlsx workbook")
		return
	}

	res, err := spreadsheet.Import(file)
	if err != nil {
		log.Printf("req_id=%s import spreadsheet %q: %v", obs.RequestID(r.Context()), header.Filename, err)
		msg := "could not read spreadsheet"
		if errors.Is(err, spreadsheet.ErrNoData) {
			msg = "spreadsheet has no usable rows"
		}
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	if err := h.Repo.ReplaceVisitPoints(r.Context(), res.Points); err != nil {
		log.Printf("req_id=%s replace visit points failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	out := dto.ImportVisitsResponse{
		Imported: len(res.Points),
		Skipped:  make([]dto.SkippedRowResponse, 0, len(res.Skipped)),
	}
	for _, s := range res.Skipped {
		out.Skipped = append(out.Skipped, dto.SkippedRowResponse{Row: s.Row, Error: s.Err.Error()})
	}

	writeJSON(w, r, http.StatusOK, out)
}

// Export returns the stored visit points as an .xlsx workbook that Import accepts.
func (h *VisitHandler) Export(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	points, err := h.Repo.ListVisitPoints(r.Context())
	if err != nil {
		log.Printf("req_id=%s list visit points failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeWorkbook(w, r, "visit_points.xlsx", func(out io.Writer) error {
		return spreadsheet.WriteVisitPoints(out, points)
	})
}

// Template returns an empty import workbook with sample rows.
func (h *VisitHandler) Template(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeWorkbook(w, r, "visit_points_template.xlsx", spreadsheet.WriteTemplate)
}
