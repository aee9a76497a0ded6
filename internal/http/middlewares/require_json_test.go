package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/geocoder89/taskhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func requireJSONRouter() *gin.Engine {
	r := gin.New()
	r.Use(middlewares.RequireJSON())

	handler := func(c *gin.Context) { c.Status(http.StatusOK) }

	r.POST("/submit", handler)
	r.PUT("/submit", handler)
	r.GET("/fetch", handler)

	return r
}

func TestRequireJSON(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		contentType    string
		wantStatusCode int
	}{
		{name: "json_body", method: http.MethodPost, path: "/submit", body: `{}`, contentType: "application/json", wantStatusCode: http.StatusOK},
		{name: "json_with_charset", method: http.MethodPut, path: "/submit", body: `{}`, contentType: "application/json; charset=utf-8", wantStatusCode: http.StatusOK},
		{name: "wrong_content_type", method: http.MethodPost, path: "/submit", body: `a=b`, contentType: "application/x-www-form-urlencoded", wantStatusCode: http.StatusUnsupportedMediaType},
		{name: "body_without_content_type", method: http.MethodPost, path: "/submit", body: `{}`, contentType: "", wantStatusCode: http.StatusUnsupportedMediaType},
		// a body-less POST (logout-style) passes without any header
		{name: "empty_body_no_content_type", method: http.MethodPost, path: "/submit", body: "", contentType: "", wantStatusCode: http.StatusOK},
		{name: "get_ignores_content_type", method: http.MethodGet, path: "/fetch", body: "", contentType: "text/plain", wantStatusCode: http.StatusOK},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			r := requireJSONRouter()

			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}
