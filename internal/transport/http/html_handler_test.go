package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispochart/pkg/contracts/domain"
)

func TestServeIndex(t *testing.T) {
	page := NewIndexPage("/api/v1/charts", domain.MetricTwFollowers, 20<<20)
	require.Len(t, page.Metrics, 3)
	assert.Equal(t, int64(20), page.MaxUploadMB)
	assert.Equal(t, ".xlsx,.xlsm,.csv", page.Accept)

	h := ServeIndex(page, slog.New(slog.NewTextHandler(io.Discard, nil)))
	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "<title>Disposition vs Reach</title>")
	assert.Contains(t, body, "vega-embed@6")
	assert.Contains(t, body, `<option value="TwFollowers" selected>Twitter Followers</option>`)
	assert.Contains(t, body, "Max 20 MB")
}
