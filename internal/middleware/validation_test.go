package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "dispochart/internal/errors"
	"dispochart/pkg/contracts/domain"
)

type sampleRequest struct {
	Filter      domain.FilterState `json:"filter"`
	YMetric     string             `json:"y_metric" validate:"omitempty,reachmetric"`
	Filename    string             `json:"filename" validate:"required,filename"`
	PreviewRows int                `json:"preview_rows" validate:"gte=0,lte=100"`
}

func TestValidateStruct(t *testing.T) {
	v := NewRequestValidator(quietLogger())

	tests := []struct {
		name       string
		req        sampleRequest
		wantFields []string
	}{
		{
			name: "valid",
			req:  sampleRequest{Filename: "accounts.xlsx", YMetric: "reach"},
		},
		{
			name: "bad enums",
			req: sampleRequest{
				Filename: "a.csv",
				YMetric:  "likes",
				Filter:   domain.FilterState{TagMode: "fuzzy", EmptyTags: "some"},
			},
			wantFields: []string{"y_metric", "filter.tag_mode", "filter.empty_tags"},
		},
		{
			name:       "path traversal and range",
			req:        sampleRequest{Filename: "../etc/passwd", PreviewRows: 1000},
			wantFields: []string{"filename", "preview_rows"},
		},
		{
			name:       "oversized tag",
			req:        sampleRequest{Filename: "a.csv", Filter: domain.FilterState{Tags: []string{strings.Repeat("x", 300)}}},
			wantFields: []string{"filter.tags[0]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStruct(tt.req)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			var apiErr *apierrors.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
			details, ok := apiErr.Details.(apierrors.ValidationErrors)
			require.True(t, ok)

			var fields []string
			for _, fe := range details.Errors {
				fields = append(fields, fe.Field)
				assert.NotEmpty(t, fe.Message)
			}
			assert.ElementsMatch(t, tt.wantFields, fields)
		})
	}
}

func TestFormatValidationErrorMessages(t *testing.T) {
	v := NewRequestValidator(quietLogger())
	err := v.ValidateStruct(sampleRequest{Filename: "a.csv", YMetric: "likes"})

	var apiErr *apierrors.APIError
	require.True(t, errors.As(err, &apiErr))
	details := apiErr.Details.(apierrors.ValidationErrors)
	require.Len(t, details.Errors, 1)
	assert.Equal(t, "y_metric must be one of: TwFollowers, WebsiteViews, Reach", details.Errors[0].Message)
}

func TestContentTypeValidator(t *testing.T) {
	h := ContentTypeValidator("multipart/form-data")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name        string
		method      string
		contentType string
		wantStatus  int
	}{
		{"multipart with boundary", http.MethodPost, "multipart/form-data; boundary=xyz", http.StatusOK},
		{"json rejected", http.MethodPost, "application/json", http.StatusUnsupportedMediaType},
		{"missing header", http.MethodPost, "", http.StatusUnsupportedMediaType},
		{"get skipped", http.MethodGet, "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", nil)
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, apierrors.ContentTypeProblem, w.Header().Get("Content-Type"))
			}
		})
	}
}
