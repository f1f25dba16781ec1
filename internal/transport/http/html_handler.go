package http

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"dispochart/internal/dataprocessing"
	"dispochart/pkg/contracts/domain"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// MetricOption is one entry of the Y axis selector.
type MetricOption struct {
	Value    string
	Label    string
	Selected bool
}

// IndexPage is the data rendered into the upload page.
type IndexPage struct {
	Title       string
	Endpoint    string
	Accept      string
	MaxUploadMB int64
	Metrics     []MetricOption
}

// NewIndexPage builds the page model for the configured defaults.
func NewIndexPage(endpoint string, defaultMetric domain.ReachMetric, maxUploadBytes int64) IndexPage {
	page := IndexPage{
		Title:       "Disposition vs Reach",
		Endpoint:    endpoint,
		Accept:      strings.Join(dataprocessing.SupportedExtensions, ","),
		MaxUploadMB: maxUploadBytes >> 20,
	}
	for _, m := range []domain.ReachMetric{domain.MetricReach, domain.MetricTwFollowers, domain.MetricWebsiteViews} {
		page.Metrics = append(page.Metrics, MetricOption{
			Value:    string(m),
			Label:    m.Label(),
			Selected: m == defaultMetric,
		})
	}
	return page
}

// ServeIndex serves the upload page. The template is rendered once.
func ServeIndex(page IndexPage, logger *slog.Logger) http.HandlerFunc {
	var buf bytes.Buffer
	renderErr := indexTemplate.Execute(&buf, page)
	if renderErr != nil {
		logger.Error("failed to render index page", slog.String("error", renderErr.Error()))
	}
	body := buf.Bytes()

	return func(w http.ResponseWriter, r *http.Request) {
		if renderErr != nil {
			http.Error(w, "page unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.Write(body)
	}
}
