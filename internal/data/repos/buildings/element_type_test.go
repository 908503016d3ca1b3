package buildings

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/bexps-backend/internal/data/repos/testutil"
	"github.com/yungbote/bexps-backend/internal/platform/dbctx"
)

func TestElementTypeRepo_UpsertByCodes(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	existing := testutil.SeedElementType(t, ctx, tx, "IFCWALL", "Стена")

	repo := NewElementTypeRepo(db, testutil.Logger(t))

	got, err := repo.UpsertByCodes(dbc, map[string]string{
		"IFCWALL": "Wall (new label)",
		"IFCDOOR": "",
	})
	if err != nil {
		t.Fatalf("UpsertByCodes: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("UpsertByCodes: expected 2 codes, got %d", len(got))
	}
	if got["IFCWALL"].ID != existing.ID || got["IFCWALL"].Label != "Стена" {
		t.Fatalf("UpsertByCodes: existing label must be kept, got %+v", got["IFCWALL"])
	}
	if got["IFCDOOR"] == nil || got["IFCDOOR"].Label != "IFCDOOR" {
		t.Fatalf("UpsertByCodes: expected label to default to code, got %+v", got["IFCDOOR"])
	}

	again, err := repo.UpsertByCodes(dbc, map[string]string{"IFCDOOR": "Door"})
	if err != nil {
		t.Fatalf("UpsertByCodes (again): %v", err)
	}
	if again["IFCDOOR"].ID != got["IFCDOOR"].ID {
		t.Fatalf("UpsertByCodes (again): expected same row")
	}

	one, err := repo.GetByCode(dbc, "IFCDOOR")
	if err != nil {
		t.Fatalf("GetByCode: %v", err)
	}
	if one == nil || one.ID != got["IFCDOOR"].ID {
		t.Fatalf("GetByCode: unexpected result: %+v", one)
	}

	list, err := repo.ListByCodes(dbc, []string{"IFCWALL", "IFCDOOR", "IFCNOPE"})
	if err != nil {
		t.Fatalf("ListByCodes: %v", err)
	}
	if len(list) != 2 || list[0].Code != "IFCDOOR" || list[1].Code != "IFCWALL" {
		t.Fatalf("ListByCodes: expected code order, got %+v", list)
	}
}

func TestElementTypeRepo_DistinctForLocationAndDelete(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	b := testutil.SeedBuilding(t, ctx, tx, "B")
	loc := testutil.SeedLocation(t, ctx, tx, b.ID, "L", nil)
	empty := testutil.SeedLocation(t, ctx, tx, b.ID, "Empty", nil)
	m1 := testutil.SeedModel(t, ctx, tx, b.ID, loc.ID, "m1")
	m2 := testutil.SeedModel(t, ctx, tx, b.ID, loc.ID, "m2")

	wall := testutil.SeedElementType(t, ctx, tx, "IFCWALL", "Wall")
	door := testutil.SeedElementType(t, ctx, tx, "IFCDOOR", "Door")
	testutil.SeedElementType(t, ctx, tx, "IFCSLAB", "Slab")

	testutil.SeedElement(t, ctx, tx, m1.ID, wall.ID, "G1", "w", nil)
	testutil.SeedElement(t, ctx, tx, m1.ID, wall.ID, "G2", "w", nil)
	testutil.SeedElement(t, ctx, tx, m2.ID, door.ID, "G1", "d", nil)

	repo := NewElementTypeRepo(db, testutil.Logger(t))

	used, err := repo.DistinctForLocation(dbc, loc.ID)
	if err != nil {
		t.Fatalf("DistinctForLocation: %v", err)
	}
	if len(used) != 2 || used[0].Code != "IFCDOOR" || used[1].Code != "IFCWALL" {
		t.Fatalf("DistinctForLocation: unexpected result: %+v", used)
	}

	none, err := repo.DistinctForLocation(dbc, empty.ID)
	if err != nil {
		t.Fatalf("DistinctForLocation (empty): %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("DistinctForLocation (empty): expected none, got %d", len(none))
	}

	if err := repo.Delete(dbc, "IFCSLAB"); err != nil {
		t.Fatalf("Delete unused: %v", err)
	}
	if err := repo.Delete(dbc, "IFCSLAB"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("Delete (again): expected ErrRecordNotFound, got %v", err)
	}
	// Last: a violated constraint aborts a Postgres transaction.
	if err := repo.Delete(dbc, "IFCWALL"); !errors.Is(err, gorm.ErrForeignKeyViolated) {
		t.Fatalf("Delete in use: expected ErrForeignKeyViolated, got %v", err)
	}
}
