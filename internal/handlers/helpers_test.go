package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"campusledger/internal/config"
	"campusledger/internal/currency"
	"campusledger/internal/store"
	"campusledger/internal/testutil"
	"campusledger/internal/validator"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
	// Handlers that mint tokens need the JWT settings loaded.
	if _, err := config.Load(); err != nil {
		panic(err)
	}
}

func setupStore(t *testing.T) (*store.Store, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return store.New(db), db
}

func setupConverter(t *testing.T, s *store.Store) *currency.Converter {
	t.Helper()
	conv, err := currency.NewConverter(s)
	if err != nil {
		t.Fatalf("failed to build converter: %v", err)
	}
	return conv
}

func injectUserID(uid uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}
