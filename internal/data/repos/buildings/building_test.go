package buildings

import (
	"context"
	"testing"

	"github.com/yungbote/bexps-backend/internal/data/repos/testutil"
	types "github.com/yungbote/bexps-backend/internal/domain"
	"github.com/yungbote/bexps-backend/internal/platform/dbctx"
)

func TestBuildingRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewBuildingRepo(db, testutil.Logger(t))

	for _, name := range []string{"Zeta", "Alpha", "Mid"} {
		if _, err := repo.Create(dbc, &types.Building{Name: name}); err != nil {
			t.Fatalf("Create(%s): %v", name, err)
		}
	}

	list, err := repo.ListOrderedByName(dbc)
	if err != nil {
		t.Fatalf("ListOrderedByName: %v", err)
	}
	if len(list) < 3 {
		t.Fatalf("ListOrderedByName: expected at least 3, got %d", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].Name > list[i].Name {
			t.Fatalf("ListOrderedByName: not sorted: %q before %q", list[i-1].Name, list[i].Name)
		}
	}

	got, err := repo.GetByID(dbc, list[0].ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.ID != list[0].ID {
		t.Fatalf("GetByID: unexpected result: %+v", got)
	}

	missing, err := repo.GetByID(dbc, 987654)
	if err != nil {
		t.Fatalf("GetByID (missing): %v", err)
	}
	if missing != nil {
		t.Fatalf("GetByID (missing): expected nil, got %+v", missing)
	}
}

func TestLocationRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	b1 := testutil.SeedBuilding(t, ctx, tx, "B1")
	b2 := testutil.SeedBuilding(t, ctx, tx, "B2")

	repo := NewLocationRepo(db, testutil.Logger(t))

	floor, err := repo.Create(dbc, &types.Location{BuildingID: b1.ID, Name: "Floor 1", LocationType: "floor"})
	if err != nil {
		t.Fatalf("Create floor: %v", err)
	}
	room, err := repo.Create(dbc, &types.Location{BuildingID: b1.ID, Name: "Room 101", LocationType: "room", ParentID: &floor.ID})
	if err != nil {
		t.Fatalf("Create room: %v", err)
	}
	testutil.SeedLocation(t, ctx, tx, b2.ID, "Other", nil)

	got, err := repo.GetInBuilding(dbc, b1.ID, room.ID)
	if err != nil {
		t.Fatalf("GetInBuilding: %v", err)
	}
	if got == nil || got.ID != room.ID {
		t.Fatalf("GetInBuilding: unexpected result: %+v", got)
	}

	wrong, err := repo.GetInBuilding(dbc, b2.ID, room.ID)
	if err != nil {
		t.Fatalf("GetInBuilding (wrong building): %v", err)
	}
	if wrong != nil {
		t.Fatalf("GetInBuilding (wrong building): expected nil")
	}

	list, err := repo.ListByBuilding(dbc, b1.ID)
	if err != nil {
		t.Fatalf("ListByBuilding: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("ListByBuilding: expected 2, got %d", len(list))
	}
	if list[0].ID != floor.ID || list[1].ID != room.ID {
		t.Fatalf("ListByBuilding: expected id order")
	}
	if list[1].Parent == nil || list[1].Parent.ID != floor.ID {
		t.Fatalf("ListByBuilding: expected parent preloaded, got %+v", list[1].Parent)
	}
}

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	repo := NewUserRepo(db, testutil.Logger(t))

	first, err := repo.UpsertByEmail(dbc, &types.User{FirstName: "A", LastName: "B", Email: "Eng@Example.com", Role: "engineer"})
	if err != nil {
		t.Fatalf("UpsertByEmail: %v", err)
	}
	if first.Email != "eng@example.com" {
		t.Fatalf("UpsertByEmail: expected normalized email, got %q", first.Email)
	}

	second, err := repo.UpsertByEmail(dbc, &types.User{FirstName: "A", LastName: "B", Email: "eng@example.com", Role: "manager"})
	if err != nil {
		t.Fatalf("UpsertByEmail (again): %v", err)
	}
	if second.ID != first.ID || second.Role != "manager" {
		t.Fatalf("UpsertByEmail (again): expected same row with updated role, got %+v", second)
	}

	byID, err := repo.GetByID(dbc, first.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if byID == nil || byID.Email != "eng@example.com" {
		t.Fatalf("GetByID: unexpected result: %+v", byID)
	}

	none, err := repo.GetByEmail(dbc, "nobody@example.com")
	if err != nil {
		t.Fatalf("GetByEmail (missing): %v", err)
	}
	if none != nil {
		t.Fatalf("GetByEmail (missing): expected nil")
	}
}
