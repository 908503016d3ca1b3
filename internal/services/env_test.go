package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/yungbote/bexps-backend/internal/data/repos"
	"github.com/yungbote/bexps-backend/internal/data/repos/testutil"
	types "github.com/yungbote/bexps-backend/internal/domain"
	"github.com/yungbote/bexps-backend/internal/observability"
	"github.com/yungbote/bexps-backend/internal/platform/filestore"
	"github.com/yungbote/bexps-backend/internal/platform/logger"
	"github.com/yungbote/bexps-backend/internal/realtime/bus"
)

type memStore struct {
	mu         sync.Mutex
	files      map[string][]byte
	failDelete error
}

func newMemStore() *memStore { return &memStore{files: map[string][]byte{}} }

func (s *memStore) Kind() string { return "memory" }

func (s *memStore) Put(_ context.Context, key string, r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[key] = b
	return nil
}

func (s *memStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.files[key]
	if !ok {
		return nil, filestore.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (s *memStore) Stat(_ context.Context, key string) (*filestore.FileInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.files[key]
	if !ok {
		return nil, filestore.ErrNotExist
	}
	return &filestore.FileInfo{Size: int64(len(b)), ContentType: "application/x-step"}, nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDelete != nil {
		return s.failDelete
	}
	if _, ok := s.files[key]; !ok {
		return filestore.ErrNotExist
	}
	delete(s.files, key)
	return nil
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

type recordingBus struct {
	mu     sync.Mutex
	events []bus.ModelEvent
}

func (b *recordingBus) Publish(_ context.Context, ev bus.ModelEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, ev)
	return nil
}

func (b *recordingBus) StartForwarder(context.Context, func(ev bus.ModelEvent)) error { return nil }
func (b *recordingBus) Close() error                                                  { return nil }

func (b *recordingBus) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.events))
	for _, ev := range b.events {
		out = append(out, ev.Type)
	}
	return out
}

type testEnv struct {
	ctx     context.Context
	conn    *gorm.DB
	files   *memStore
	events  *recordingBus
	metrics *observability.Metrics
	log     *logger.Logger

	userRepo        repos.UserRepo
	modelRepo       repos.IFCModelRepo
	elementRepo     repos.ElementRepo
	elementTypeRepo repos.ElementTypeRepo

	catalog   CatalogService
	models    ModelService
	ingestion IngestionService
	equipment EquipmentService
}

// newTestEnv wires every service against one rolled-back transaction.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.DB(t)
	return newTestEnvOn(t, testutil.Tx(t, db))
}

func newTestEnvOn(t *testing.T, conn *gorm.DB) *testEnv {
	t.Helper()
	log := testutil.Logger(t)
	env := &testEnv{
		ctx:     context.Background(),
		conn:    conn,
		files:   newMemStore(),
		events:  &recordingBus{},
		metrics: observability.NewMetrics(prometheus.NewRegistry()),
		log:     log,
	}

	buildingRepo := repos.NewBuildingRepo(conn, log)
	locationRepo := repos.NewLocationRepo(conn, log)
	env.userRepo = repos.NewUserRepo(conn, log)
	userRepo := env.userRepo
	env.modelRepo = repos.NewIFCModelRepo(conn, log)
	env.elementTypeRepo = repos.NewElementTypeRepo(conn, log)
	env.elementRepo = repos.NewElementRepo(conn, log)

	env.catalog = NewCatalogService(conn, log, buildingRepo, locationRepo, userRepo, env.modelRepo, env.elementTypeRepo)
	env.models = NewModelService(conn, log, ModelServiceConfig{}, env.catalog, env.modelRepo, userRepo, env.files, env.events, env.metrics)
	env.ingestion = NewIngestionService(conn, log, 2, env.catalog, env.modelRepo, env.elementTypeRepo, env.elementRepo, env.events, env.metrics)
	env.equipment = NewEquipmentService(conn, log, env.catalog, env.modelRepo, env.elementTypeRepo, env.elementRepo, env.metrics)
	return env
}

func (e *testEnv) seedLocation(t *testing.T) (*types.Building, *types.Location) {
	t.Helper()
	b := testutil.SeedBuilding(t, e.ctx, e.conn, "HQ")
	loc := testutil.SeedLocation(t, e.ctx, e.conn, b.ID, "Floor 1", nil)
	return b, loc
}

func (e *testEnv) upload(t *testing.T, b *types.Building, loc *types.Location, name, fileName, content string) *types.IFCModel {
	t.Helper()
	m, err := e.models.Upload(e.ctx, b.ID, loc.ID, UploadInput{
		ModelName: name,
		FileName:  fileName,
		Size:      int64(len(content)),
		Reader:    bytes.NewReader([]byte(content)),
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	return m
}

func (e *testEnv) countModels(t *testing.T, locationID uint) int64 {
	t.Helper()
	var n int64
	if err := e.conn.Model(&types.IFCModel{}).Where("location_id = ?", locationID).Count(&n).Error; err != nil {
		t.Fatalf("count models: %v", err)
	}
	return n
}

func counterValue(t *testing.T, e *testEnv, name string) float64 {
	t.Helper()
	families, err := e.metrics.Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		total := 0.0
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
		return total
	}
	return 0
}

var errBoom = errors.New("boom")
