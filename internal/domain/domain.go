package domain

import "github.com/yungbote/bexps-backend/internal/domain/buildings"

const (
	ModelStatusUploaded = buildings.ModelStatusUploaded
	ModelStatusParsed   = buildings.ModelStatusParsed
	ModelStatusError    = buildings.ModelStatusError
)

type Building = buildings.Building
type Location = buildings.Location
type User = buildings.User
type IFCModel = buildings.IFCModel
type ElementType = buildings.ElementType
type ModelElement = buildings.ModelElement

func FoldSearchQuery(q string) string { return buildings.FoldSearchQuery(q) }
