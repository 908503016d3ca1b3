package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	types "github.com/yungbote/bexps-backend/internal/domain"
)

func TestUploadRedirectsAndListsModel(t *testing.T) {
	env := newHandlerEnv(t, 0)

	rec := env.do(env.uploadRequest("Tower", "tower.IFC", "ISO-10303-21;"))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("upload: status=%d body=%s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Location"); got != env.locationPath() {
		t.Fatalf("redirect: want %q got %q", env.locationPath(), got)
	}

	var view struct {
		Models  []types.IFCModel `json:"models"`
		Notices []string         `json:"notices"`
	}
	decode(t, env.get(env.locationPath()), &view)
	if len(view.Models) != 1 || view.Models[0].ModelName != "Tower" || view.Models[0].Status != types.ModelStatusUploaded {
		t.Fatalf("models: unexpected %+v", view.Models)
	}
	if len(view.Notices) != 0 {
		t.Fatalf("notices: want none, got %v", view.Notices)
	}
}

func TestUploadValidation(t *testing.T) {
	env := newHandlerEnv(t, 0)

	cases := []struct {
		name      string
		modelName string
		fileName  string
		field     string
	}{
		{"missing name", "", "a.ifc", "model_name"},
		{"missing file", "A", "", "ifc_file"},
		{"wrong extension", "A", "a.txt", "ifc_file"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := decodeError(t, env.do(env.uploadRequest(tc.modelName, tc.fileName, "data")), http.StatusUnprocessableEntity)
			if body.Error.Code != "validation_failed" || body.Error.Fields[tc.field] == "" {
				t.Fatalf("want field error on %s, got %+v", tc.field, body)
			}
		})
	}
}

func TestUploadRejectsNonMultipart(t *testing.T) {
	env := newHandlerEnv(t, 0)
	req := httptest.NewRequest(http.MethodPost, env.locationPath()+"/upload-ifc", strings.NewReader("x"))
	req.Header.Set("Content-Type", "text/plain")
	body := decodeError(t, env.do(req), http.StatusBadRequest)
	if body.Error.Code != "invalid_multipart_form" {
		t.Fatalf("unexpected %+v", body)
	}
}

func TestUploadDuplicateContentConflicts(t *testing.T) {
	env := newHandlerEnv(t, 0)
	env.uploadModel("First", "a.ifc", "same bytes")

	body := decodeError(t, env.do(env.uploadRequest("Second", "b.ifc", "same bytes")), http.StatusConflict)
	if body.Error.Code != "duplicate_model_file" {
		t.Fatalf("unexpected %+v", body)
	}
}

func TestDownloadReturnsStoredBytes(t *testing.T) {
	env := newHandlerEnv(t, 0)
	id := env.uploadModel("Tower", "tower.ifc", "ISO-10303-21; body")

	rec := env.get(fmt.Sprintf("%s/ifc/%d/file", env.locationPath(), id))
	if rec.Code != http.StatusOK {
		t.Fatalf("download: status=%d body=%s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != "ISO-10303-21; body" {
		t.Fatalf("download body: %q", rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, `filename="tower.ifc"`) {
		t.Fatalf("Content-Disposition: %q", cd)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/x-step" {
		t.Fatalf("Content-Type: %q", ct)
	}
	if cl := rec.Header().Get("Content-Length"); cl != fmt.Sprint(len("ISO-10303-21; body")) {
		t.Fatalf("Content-Length: %q", cl)
	}
}

func TestDeleteSetsFlashConsumedByLocation(t *testing.T) {
	env := newHandlerEnv(t, 0)
	id := env.uploadModel("Tower", "tower.ifc", "content")

	rec := env.do(httptest.NewRequest(http.MethodPost, fmt.Sprintf("%s/ifc/%d/delete", env.locationPath(), id), nil))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("delete: status=%d body=%s", rec.Code, rec.Body.String())
	}
	var flash *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == flashCookie {
			flash = ck
		}
	}
	if flash == nil {
		t.Fatalf("delete: no flash cookie set")
	}

	req := httptest.NewRequest(http.MethodGet, env.locationPath(), nil)
	req.AddCookie(flash)
	locRec := env.do(req)
	var view struct {
		Models  []types.IFCModel `json:"models"`
		Notices []string         `json:"notices"`
	}
	decode(t, locRec, &view)
	if len(view.Models) != 0 {
		t.Fatalf("models after delete: %+v", view.Models)
	}
	if len(view.Notices) != 1 || view.Notices[0] != "Deleted: Tower" {
		t.Fatalf("notices: %v", view.Notices)
	}
	cleared := false
	for _, ck := range locRec.Result().Cookies() {
		if ck.Name == flashCookie && ck.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("flash cookie was not cleared")
	}

	decodeError(t, env.do(httptest.NewRequest(http.MethodPost, fmt.Sprintf("%s/ifc/%d/delete", env.locationPath(), id), nil)), http.StatusNotFound)
}
