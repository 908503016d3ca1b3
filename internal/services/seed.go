package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	types "github.com/yungbote/bexps-backend/internal/domain"
	"github.com/yungbote/bexps-backend/internal/platform/logger"
)

// SeedDocument is the YAML reference-data file loaded by cmd/seed.
type SeedDocument struct {
	Buildings    []SeedBuilding    `yaml:"buildings"`
	Users        []SeedUser        `yaml:"users"`
	ElementTypes map[string]string `yaml:"element_types"`
}

type SeedBuilding struct {
	Name        string         `yaml:"name"`
	Address     string         `yaml:"address"`
	Description string         `yaml:"description"`
	Locations   []SeedLocation `yaml:"locations"`
}

type SeedLocation struct {
	Name     string         `yaml:"name"`
	Type     string         `yaml:"type"`
	Children []SeedLocation `yaml:"children"`
}

type SeedUser struct {
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Email     string `yaml:"email"`
	Role      string `yaml:"role"`
}

type SeedSummary struct {
	Buildings    int
	Locations    int
	Users        int
	ElementTypes int
}

func ParseSeed(r io.Reader) (*SeedDocument, error) {
	var doc SeedDocument
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode seed yaml: %w", err)
	}
	return &doc, nil
}

// ApplySeed creates what the document describes. Buildings are matched by
// name and locations by (name, parent), so re-running a seed only adds what
// is new.
func ApplySeed(ctx context.Context, log *logger.Logger, catalog CatalogService, doc *SeedDocument) (*SeedSummary, error) {
	sum := &SeedSummary{}
	if doc == nil {
		return sum, nil
	}
	seedLog := log.With("component", "Seed")

	existing, err := catalog.ListBuildings(ctx)
	if err != nil {
		return nil, err
	}
	byName := map[string]*types.Building{}
	for _, b := range existing {
		byName[b.Name] = b
	}

	for _, sb := range doc.Buildings {
		name := strings.TrimSpace(sb.Name)
		b := byName[name]
		if b == nil {
			b, err = catalog.CreateBuilding(ctx, &types.Building{
				Name:        name,
				Address:     sb.Address,
				Description: sb.Description,
			})
			if err != nil {
				return nil, fmt.Errorf("building %q: %w", name, err)
			}
			byName[name] = b
			sum.Buildings++
		}

		detail, err := catalog.BuildingDetail(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		known := map[string]uint{}
		for _, loc := range detail.Locations {
			known[locationKey(loc.ParentID, loc.Name)] = loc.ID
		}
		n, err := seedLocations(ctx, catalog, b.ID, nil, sb.Locations, known)
		if err != nil {
			return nil, fmt.Errorf("building %q: %w", name, err)
		}
		sum.Locations += n
	}

	for _, su := range doc.Users {
		if _, err := catalog.UpsertUser(ctx, &types.User{
			FirstName: su.FirstName,
			LastName:  su.LastName,
			Email:     su.Email,
			Role:      su.Role,
		}); err != nil {
			return nil, fmt.Errorf("user %q: %w", su.Email, err)
		}
		sum.Users++
	}

	if len(doc.ElementTypes) > 0 {
		out, err := catalog.UpsertElementTypes(ctx, doc.ElementTypes)
		if err != nil {
			return nil, err
		}
		sum.ElementTypes = len(out)
	}

	seedLog.Info("Seed applied",
		"buildings_created", sum.Buildings,
		"locations_created", sum.Locations,
		"users", sum.Users,
		"element_types", sum.ElementTypes,
	)
	return sum, nil
}

func seedLocations(ctx context.Context, catalog CatalogService, buildingID uint, parentID *uint, locs []SeedLocation, known map[string]uint) (int, error) {
	created := 0
	for _, sl := range locs {
		name := strings.TrimSpace(sl.Name)
		key := locationKey(parentID, name)
		id, ok := known[key]
		if !ok {
			loc, err := catalog.CreateLocation(ctx, &types.Location{
				BuildingID:   buildingID,
				Name:         name,
				LocationType: sl.Type,
				ParentID:     parentID,
			})
			if err != nil {
				return created, fmt.Errorf("location %q: %w", name, err)
			}
			id = loc.ID
			known[key] = id
			created++
		}
		parent := id
		n, err := seedLocations(ctx, catalog, buildingID, &parent, sl.Children, known)
		created += n
		if err != nil {
			return created, err
		}
	}
	return created, nil
}

func locationKey(parentID *uint, name string) string {
	if parentID == nil {
		return "-/" + name
	}
	return fmt.Sprintf("%d/%s", *parentID, name)
}
