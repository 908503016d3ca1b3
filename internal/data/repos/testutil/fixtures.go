package testutil

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/bexps-backend/internal/domain"
)

func SeedBuilding(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Building {
	tb.Helper()
	b := &types.Building{Name: name, Address: "1 Test St"}
	if err := tx.WithContext(ctx).Create(b).Error; err != nil {
		tb.Fatalf("seed building: %v", err)
	}
	return b
}

func SeedLocation(tb testing.TB, ctx context.Context, tx *gorm.DB, buildingID uint, name string, parentID *uint) *types.Location {
	tb.Helper()
	loc := &types.Location{
		BuildingID:   buildingID,
		Name:         name,
		LocationType: "floor",
		ParentID:     parentID,
	}
	if err := tx.WithContext(ctx).Omit("Building", "Parent").Create(loc).Error; err != nil {
		tb.Fatalf("seed location: %v", err)
	}
	return loc
}

// SeedModel inserts an uploaded model with a unique random hash.
func SeedModel(tb testing.TB, ctx context.Context, tx *gorm.DB, buildingID, locationID uint, name string) *types.IFCModel {
	tb.Helper()
	sum := sha256.Sum256([]byte(uuid.NewString()))
	key := fmt.Sprintf("ifc/%d/%d/%s.ifc", buildingID, locationID, uuid.NewString())
	m := &types.IFCModel{
		BuildingID: buildingID,
		LocationID: locationID,
		ModelName:  name,
		FileKey:    &key,
		FileName:   name + ".ifc",
		SizeBytes:  4,
		SHA256:     hex.EncodeToString(sum[:]),
		Status:     types.ModelStatusUploaded,
	}
	if err := tx.WithContext(ctx).Omit("Building", "Location", "UploadedBy").Create(m).Error; err != nil {
		tb.Fatalf("seed model: %v", err)
	}
	return m
}

func SeedElementType(tb testing.TB, ctx context.Context, tx *gorm.DB, code, label string) *types.ElementType {
	tb.Helper()
	et := &types.ElementType{Code: code, Label: label}
	if err := tx.WithContext(ctx).Create(et).Error; err != nil {
		tb.Fatalf("seed element type: %v", err)
	}
	return et
}

func SeedElement(tb testing.TB, ctx context.Context, tx *gorm.DB, modelID, typeID uint, globalID, name string, ifcID *int64) *types.ModelElement {
	tb.Helper()
	el := &types.ModelElement{
		IFCModelID:    modelID,
		ElementTypeID: typeID,
		GlobalID:      globalID,
		Name:          name,
		IFCID:         ifcID,
	}
	if err := tx.WithContext(ctx).Omit("IFCModel", "ElementType").Create(el).Error; err != nil {
		tb.Fatalf("seed element: %v", err)
	}
	return el
}

func Int64Ptr(v int64) *int64 { return &v }
