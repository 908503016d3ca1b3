package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/bexps-backend/internal/data/repos"
	"github.com/yungbote/bexps-backend/internal/data/repos/testutil"
	types "github.com/yungbote/bexps-backend/internal/domain"
	"github.com/yungbote/bexps-backend/internal/platform/filestore"
	"github.com/yungbote/bexps-backend/internal/services"
)

type handlerEnv struct {
	t      *testing.T
	ctx    context.Context
	router *gin.Engine

	building *types.Building
	location *types.Location
}

func newHandlerEnv(t *testing.T, maxIngestBytes int64) *handlerEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := testutil.Logger(t)
	conn := testutil.Tx(t, testutil.DB(t))
	files, err := filestore.NewLocalStore(t.TempDir(), log)
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	buildingRepo := repos.NewBuildingRepo(conn, log)
	locationRepo := repos.NewLocationRepo(conn, log)
	userRepo := repos.NewUserRepo(conn, log)
	modelRepo := repos.NewIFCModelRepo(conn, log)
	elementTypeRepo := repos.NewElementTypeRepo(conn, log)
	elementRepo := repos.NewElementRepo(conn, log)

	catalog := services.NewCatalogService(conn, log, buildingRepo, locationRepo, userRepo, modelRepo, elementTypeRepo)
	models := services.NewModelService(conn, log, services.ModelServiceConfig{}, catalog, modelRepo, userRepo, files, nil, nil)
	ingestion := services.NewIngestionService(conn, log, 0, catalog, modelRepo, elementTypeRepo, elementRepo, nil, nil)
	equipment := services.NewEquipmentService(conn, log, catalog, modelRepo, elementTypeRepo, elementRepo, nil)

	buildingH := NewBuildingHandler(log, catalog)
	locationH := NewLocationHandler(log, catalog)
	modelH := NewModelHandler(log, models, 0)
	ingestH := NewIngestHandler(log, catalog, ingestion, maxIngestBytes)
	equipmentH := NewEquipmentHandler(log, equipment)

	r := gin.New()
	r.GET("/healthcheck", NewHealthHandler().HealthCheck)
	api := r.Group("/api")
	api.GET("/buildings", buildingH.ListBuildings)
	api.GET("/buildings/:building_id", buildingH.GetBuilding)
	loc := api.Group("/buildings/:building_id/locations/:location_id")
	loc.GET("", locationH.GetLocation)
	loc.POST("/upload-ifc", modelH.Upload)
	loc.POST("/ifc/:ifc_id/delete", modelH.Delete)
	loc.GET("/ifc/:ifc_id/file", modelH.Download)
	loc.POST("/ifc/:ifc_id/elements", ingestH.Ingest)
	loc.GET("/equipment", equipmentH.Browse)
	loc.GET("/equipment/export", equipmentH.Export)

	ctx := context.Background()
	b := testutil.SeedBuilding(t, ctx, conn, "HQ")
	l := testutil.SeedLocation(t, ctx, conn, b.ID, "Floor 1", nil)
	return &handlerEnv{t: t, ctx: ctx, router: r, building: b, location: l}
}

func (e *handlerEnv) do(req *http.Request) *httptest.ResponseRecorder {
	e.t.Helper()
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *handlerEnv) get(path string) *httptest.ResponseRecorder {
	e.t.Helper()
	return e.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (e *handlerEnv) locationPath() string {
	return locationURL(e.building.ID, e.location.ID)
}

// uploadRequest builds a multipart upload; an empty fileName omits ifc_file.
func (e *handlerEnv) uploadRequest(modelName, fileName, content string) *http.Request {
	e.t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("model_name", modelName); err != nil {
		e.t.Fatalf("WriteField: %v", err)
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("ifc_file", fileName)
		if err != nil {
			e.t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := io.WriteString(fw, content); err != nil {
			e.t.Fatalf("write file part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		e.t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, e.locationPath()+"/upload-ifc", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// uploadModel uploads content and returns the model id listed for the location.
func (e *handlerEnv) uploadModel(modelName, fileName, content string) uint {
	e.t.Helper()
	rec := e.do(e.uploadRequest(modelName, fileName, content))
	if rec.Code != http.StatusSeeOther {
		e.t.Fatalf("upload: status=%d body=%s", rec.Code, rec.Body.String())
	}
	var view struct {
		Models []types.IFCModel `json:"models"`
	}
	decode(e.t, e.get(e.locationPath()), &view)
	for _, m := range view.Models {
		if m.ModelName == modelName {
			return m.ID
		}
	}
	e.t.Fatalf("uploaded model %q not listed", modelName)
	return 0
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode body: %v (%s)", err, rec.Body.String())
	}
}

type errorBody struct {
	Error struct {
		Message string            `json:"message"`
		Code    string            `json:"code"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int) errorBody {
	t.Helper()
	if rec.Code != wantStatus {
		t.Fatalf("status: want %d got %d body=%s", wantStatus, rec.Code, rec.Body.String())
	}
	var out errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, rec.Body.String())
	}
	return out
}
