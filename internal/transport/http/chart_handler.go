package http

import (
	"errors"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"dispochart/internal/config"
	apierrors "dispochart/internal/errors"
	"dispochart/internal/exporter"
	"dispochart/internal/middleware"
	"dispochart/internal/services"
	"dispochart/pkg/contracts/domain"
)

// Multipart form fields
const (
	FieldFile        = "file"
	FieldFactions    = "factions"
	FieldTags        = "tags"
	FieldTagMode     = "tag_mode"
	FieldEmptyTags   = "empty_tags"
	FieldYMetric     = "y_metric"
	FieldMarkerMode  = "marker_mode"
	FieldPreviewRows = "preview_rows"
	FieldTitle       = "title"
)

type validateRequest struct {
	YMetric string `json:"y_metric" validate:"omitempty,reachmetric"`
}

// ChartHandler handles spreadsheet uploads and returns chart specs
type ChartHandler struct {
	service        ChartServiceInterface
	validator      *middleware.RequestValidator
	errorHandler   *apierrors.ErrorHandler
	logger         *slog.Logger
	maxUploadBytes int64
}

// NewChartHandler creates a new chart handler
func NewChartHandler(service ChartServiceInterface, validator *middleware.RequestValidator, errorHandler *apierrors.ErrorHandler, maxUploadBytes int64, logger *slog.Logger) *ChartHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChartHandler{
		service:        service,
		validator:      validator,
		errorHandler:   errorHandler,
		logger:         logger.With(slog.String("handler", "charts")),
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes returns the chart routes
func (h *ChartHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/schema", h.GetSchema)
	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeValidator("multipart/form-data"))
		r.Post("/", h.Generate)
		r.Post("/validate", h.Validate)
		r.Post("/export", h.Export)
	})
	return r
}

// Generate handles POST /api/v1/charts
func (h *ChartHandler) Generate(w http.ResponseWriter, r *http.Request) {
	upload, cleanup, err := h.parseUpload(w, r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	defer cleanup()

	req, err := h.parseChartRequest(r.MultipartForm)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "generating chart",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("file", upload.Filename),
		slog.Int64("size", upload.Size),
		slog.Int("factions", len(req.Filter.Factions)),
		slog.Int("tags", len(req.Filter.Tags)),
	)

	result, err := h.service.Generate(r.Context(), upload, req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]any{
		"status": "success",
		"data":   result,
	})
}

// Validate handles POST /api/v1/charts/validate
func (h *ChartHandler) Validate(w http.ResponseWriter, r *http.Request) {
	upload, cleanup, err := h.parseUpload(w, r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	defer cleanup()

	yMetric := r.MultipartForm.Value[FieldYMetric]
	metric := ""
	if len(yMetric) > 0 {
		metric = yMetric[0]
	}
	if err := h.validator.ValidateStruct(validateRequest{YMetric: metric}); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	report, err := h.service.Validate(r.Context(), upload, metric)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]any{
		"status": "success",
		"data":   report,
	})
}

// Export handles POST /api/v1/charts/export. It takes the same form as
// Generate and streams every selected row as CSV.
func (h *ChartHandler) Export(w http.ResponseWriter, r *http.Request) {
	upload, cleanup, err := h.parseUpload(w, r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	defer cleanup()

	req, err := h.parseChartRequest(r.MultipartForm)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	rows, err := h.service.Export(r.Context(), upload, req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": exportFilename(upload.Filename),
	}))
	if err := exporter.WriteRecords(w, rows, exporter.DefaultWriteOptions()); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to write export",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("error", err.Error()))
	}
}

// exportFilename derives the download name from the uploaded file.
func exportFilename(upload string) string {
	stem := strings.TrimSuffix(filepath.Base(upload), filepath.Ext(upload))
	if stem == "" || stem == "." {
		stem = "accounts"
	}
	return stem + "-selection.csv"
}

// GetSchema handles GET /api/v1/charts/schema
func (h *ChartHandler) GetSchema(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"status": "success",
		"data":   h.service.Schema(),
	})
}

// parseUpload reads the multipart body under the size limit and opens the
// uploaded file. The returned cleanup closes it and drops temp files.
func (h *ChartHandler) parseUpload(w http.ResponseWriter, r *http.Request) (services.Upload, func(), error) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}
	if err := r.ParseMultipartForm(config.MultipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			return services.Upload{}, nil, err
		}
		return services.Upload{}, nil, apierrors.InvalidRequestWithError(err)
	}

	file, header, err := r.FormFile(FieldFile)
	if err != nil {
		r.MultipartForm.RemoveAll()
		if errors.Is(err, http.ErrMissingFile) {
			return services.Upload{}, nil, apierrors.ErrMissingFile
		}
		return services.Upload{}, nil, apierrors.InvalidRequestWithError(err)
	}

	cleanup := func() {
		file.Close()
		r.MultipartForm.RemoveAll()
	}
	return services.Upload{
		Reader:   file,
		Filename: header.Filename,
		Size:     header.Size,
	}, cleanup, nil
}

// parseChartRequest maps form values onto a ChartRequest. A selection field
// that is absent stays nil (untouched widget); a field sent with only empty
// values is an explicit empty selection.
func (h *ChartHandler) parseChartRequest(form *multipart.Form) (services.ChartRequest, error) {
	first := func(key string) string {
		if v := form.Value[key]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}

	req := services.ChartRequest{
		Filter: domain.FilterState{
			Factions:  selection(form.Value, FieldFactions),
			Tags:      selection(form.Value, FieldTags),
			TagMode:   domain.TagMode(first(FieldTagMode)),
			EmptyTags: domain.EmptyTagPolicy(first(FieldEmptyTags)),
		},
		YMetric: first(FieldYMetric),
		Marker:  domain.MarkerMode(first(FieldMarkerMode)),
		Title:   first(FieldTitle),
	}

	if raw := first(FieldPreviewRows); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return req, apierrors.InvalidParameter(FieldPreviewRows, raw)
		}
		req.PreviewRows = n
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return req, err
	}
	return req, nil
}

func selection(values map[string][]string, key string) []string {
	raw, ok := values[key]
	if !ok {
		return nil
	}
	out := []string{}
	for _, v := range raw {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
