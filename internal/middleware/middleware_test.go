package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "campusledger/internal/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse error body: %v\nbody: %s", err, rec.Body.String())
	}
	return body.Error.Code
}

func TestErrorHandler(t *testing.T) {
	t.Run("app_error_keeps_code_and_status", func(t *testing.T) {
		r := gin.New()
		r.Use(ErrorHandler())
		r.GET("/test", func(c *gin.Context) {
			c.Error(apperrors.ErrNotFound)
		})

		rec := serve(r, nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rec.Code)
		}
		if code := errorCode(t, rec); code != "NOT_FOUND" {
			t.Errorf("expected error code NOT_FOUND, got %q", code)
		}
	})

	t.Run("unexpected_error_is_masked", func(t *testing.T) {
		r := gin.New()
		r.Use(ErrorHandler())
		r.GET("/test", func(c *gin.Context) {
			c.Error(errors.New("sqlite disk I/O error at offset 4096"))
		})

		rec := serve(r, nil)
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected status 500, got %d", rec.Code)
		}
		if code := errorCode(t, rec); code != "INTERNAL_ERROR" {
			t.Errorf("expected error code INTERNAL_ERROR, got %q", code)
		}
		if strings.Contains(rec.Body.String(), "sqlite") {
			t.Errorf("internal details leaked to client: %s", rec.Body.String())
		}
	})

	t.Run("no_errors_leaves_response_alone", func(t *testing.T) {
		r := gin.New()
		r.Use(ErrorHandler())
		r.GET("/test", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})

		rec := serve(r, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rec.Code)
		}
	})
}

func TestRequestLogging(t *testing.T) {
	t.Run("issues_a_request_id", func(t *testing.T) {
		r := gin.New()
		r.Use(RequestLogging())
		r.GET("/test", func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})

		rec := serve(r, nil)
		if rec.Header().Get("X-Request-ID") == "" {
			t.Error("expected a generated X-Request-ID header")
		}
	})

	t.Run("keeps_a_client_supplied_request_id", func(t *testing.T) {
		r := gin.New()
		r.Use(RequestLogging())
		var seen string
		r.GET("/test", func(c *gin.Context) {
			seen = c.GetString(requestIDKey)
			c.Status(http.StatusNoContent)
		})

		rec := serve(r, map[string]string{"X-Request-ID": "mobile-retry-7"})
		if got := rec.Header().Get("X-Request-ID"); got != "mobile-retry-7" {
			t.Errorf("expected echoed request id, got %q", got)
		}
		if seen != "mobile-retry-7" {
			t.Errorf("expected handler to see the client request id, got %q", seen)
		}
	})
}
