package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/bexps-backend/internal/platform/apierr"
)

func render(t *testing.T, err error) (int, ErrorEnvelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	RespondAPIError(c, err)

	var env ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rec.Code, env
}

func TestRespondAPIError_Validation(t *testing.T) {
	code, env := render(t, apierr.Validation(map[string]string{"model_name": "This field is required."}))
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("status: want=422 got=%d", code)
	}
	if env.Error.Code != "validation_failed" || env.Error.Fields["model_name"] == "" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestRespondAPIError_Wrapped(t *testing.T) {
	err := errors.Join(errors.New("context"), apierr.NotFound("location"))
	code, env := render(t, err)
	if code != http.StatusNotFound || env.Error.Message != "location not found" {
		t.Fatalf("unexpected: status=%d envelope=%+v", code, env)
	}
}

func TestRespondAPIError_HidesInternalErrors(t *testing.T) {
	code, env := render(t, errors.New("pq: password authentication failed"))
	if code != http.StatusInternalServerError {
		t.Fatalf("status: want=500 got=%d", code)
	}
	if env.Error.Code != "internal_error" || env.Error.Message != "internal server error" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}
