// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/app"
	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/domain"
	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/export"
	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/ingest"
)

type Handlers struct {
	A         *app.AnalysisService
	Q         *app.QueryService
	MaxUpload int64
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/", h.index)
	s.mux.Post("/v1/datasets", h.createDataset)
	s.mux.Get("/v1/datasets", h.listDatasets)
	s.mux.Get("/v1/datasets/{id}", h.getDataset)
	s.mux.Delete("/v1/datasets/{id}", h.deleteDataset)
	s.mux.Get("/v1/datasets/{id}/records", h.listRecords)
	s.mux.Get("/v1/datasets/{id}/aggregates", h.getAggregates)
	s.mux.Post("/v1/datasets/{id}/reanalyze", h.reanalyze)
	s.mux.Get("/v1/datasets/{id}/export", h.exportDataset)
	s.mux.Get("/v1/datasets/{id}/report", h.report)
	s.mux.Get("/v1/datasets/{id}/charts", h.charts)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// respondError maps domain errors onto problem responses.
func respondError(w http.ResponseWriter, err error) {
	var fe *domain.FormatError
	var ve *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "dataset not found")
	case errors.As(err, &fe):
		writeProblem(w, http.StatusBadRequest, "Unreadable Payload", fe.Error())
	case errors.As(err, &ve):
		writeProblem(w, http.StatusUnprocessableEntity, "Invalid Payload", ve.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		// Log but don't fail the whole response; return empty ETag and best-effort body.
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCacheable answers with an ETag and honors If-None-Match.
func writeCacheable(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func (h *Handlers) createDataset(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUpload)

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	declared := r.URL.Query().Get("format")
	var data []byte

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "multipart/form-data" {
		if err := r.ParseMultipartForm(h.MaxUpload); err != nil {
			writeUploadError(w, err)
			return
		}
		f, fh, err := r.FormFile("file")
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Missing File", `multipart field "file" is required`)
			return
		}
		defer f.Close()
		if data, err = io.ReadAll(f); err != nil {
			writeUploadError(w, err)
			return
		}
		if name == "" {
			name = fh.Filename
		}
		if v := r.FormValue("format"); v != "" {
			declared = v
		}
	} else {
		var err error
		if data, err = io.ReadAll(r.Body); err != nil {
			writeUploadError(w, err)
			return
		}
		if name == "" {
			name = "pasted"
		}
	}

	format, err := ingest.ParseFormat(declared)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Unsupported Format", "format must be one of json, csv, txt")
		return
	}

	ds, skipped, err := h.A.CreateDataset(r.Context(), name, data, format)
	if err != nil {
		respondError(w, err)
		return
	}
	dv, err := h.Q.Dataset(r.Context(), ds.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Location", "/v1/datasets/"+ds.ID)
	writeJSON(w, http.StatusCreated, uploadDTO{Dataset: mapView(dv), Skipped: skipped})
}

func writeUploadError(w http.ResponseWriter, err error) {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		writeProblem(w, http.StatusRequestEntityTooLarge, "Payload Too Large",
			fmt.Sprintf("upload exceeds %d bytes", mbe.Limit))
		return
	}
	writeProblem(w, http.StatusBadRequest, "Bad Upload", err.Error())
}

func (h *Handlers) listDatasets(w http.ResponseWriter, r *http.Request) {
	infos, err := h.Q.ListDatasets(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	out := make([]datasetDTO, 0, len(infos))
	for _, di := range infos {
		out = append(out, mapDatasetInfo(di))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) getDataset(w http.ResponseWriter, r *http.Request) {
	dv, err := h.Q.Dataset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeCacheable(w, r, mapView(dv))
}

func (h *Handlers) deleteDataset(w http.ResponseWriter, r *http.Request) {
	if err := h.A.DeleteDataset(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) listRecords(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	q := domain.RecordsQuery{
		Sentiment: strings.ToLower(qs.Get("sentiment")),
		Flag:      qs.Get("flag"),
		Q:         qs.Get("q"),
		Limit:     50,
	}
	if v := qs.Get("min_rating"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || f > 5 {
			writeProblem(w, http.StatusBadRequest, "Invalid min_rating", "min_rating must be a number between 0 and 5")
			return
		}
		q.MinRating = &f
	}
	if v := qs.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 500 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 500")
			return
		}
		q.Limit = n
	}
	if v := qs.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeProblem(w, http.StatusBadRequest, "Invalid offset", "offset must be a non-negative integer")
			return
		}
		q.Offset = n
	}

	page, err := h.Q.Records(r.Context(), chi.URLParam(r, "id"), q)
	if err != nil {
		respondError(w, err)
		return
	}
	writeCacheable(w, r, mapRecordsPage(page, q.Limit, q.Offset))
}

func (h *Handlers) getAggregates(w http.ResponseWriter, r *http.Request) {
	ag, err := h.Q.Aggregates(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeCacheable(w, r, mapAggregates(ag))
}

func (h *Handlers) reanalyze(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	force := qBool(r.URL.Query().Get("force"))
	if _, err := h.A.Reanalyze(r.Context(), id, force); err != nil {
		respondError(w, err)
		return
	}
	dv, err := h.Q.Dataset(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapView(dv))
}

func (h *Handlers) exportDataset(w http.ResponseWriter, r *http.Request) {
	ds, err := h.Q.Full(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}

	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = "csv"
	}
	base := exportName(ds.Name)
	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+base+`.csv"`)
		if err := export.CSV(w, ds); err != nil {
			log.Error().Err(err).Str("dataset", ds.ID).Msg("csv export failed")
		}
	case "json":
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="`+base+`.json"`)
		if err := export.JSON(w, ds); err != nil {
			log.Error().Err(err).Str("dataset", ds.ID).Msg("json export failed")
		}
	default:
		writeProblem(w, http.StatusBadRequest, "Unsupported Format", "format must be csv or json")
	}
}

func (h *Handlers) report(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	dv, err := h.Q.Dataset(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	ag, err := h.Q.Aggregates(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportName(dv.Info.Name)+`.pdf"`)
	if err := export.Report(w, dv, ag); err != nil {
		log.Error().Err(err).Str("dataset", id).Msg("pdf report failed")
	}
}

func qBool(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// exportName derives a safe download filename from the uploaded name.
func exportName(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	base = strings.Map(func(r rune) rune {
		if r == '"' || r == '\\' || r == '/' || r < 32 {
			return '-'
		}
		return r
	}, base)
	if base == "" || base == "." {
		base = "reviews"
	}
	return base + "-insights"
}
