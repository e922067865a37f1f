package insanity

import (
	"github.com/kienanstewart/insanity/internal/dat"
	"github.com/kienanstewart/insanity/internal/discover"
	"github.com/kienanstewart/insanity/internal/registry"
	"github.com/kienanstewart/insanity/internal/scan"
)

// Public type aliases for internal types used in the Engine API. These are
// Go type aliases (=) — identical to the internal types at compile time.
// External consumers use these names; no conversion is needed.

type Category = registry.Category
type Registry = registry.Registry
type TechFilter = registry.TechFilter
type Kind = scan.Kind
type Site = scan.Site
type Mode = discover.Mode
type ParseError = dat.ParseError

// Categories.
const (
	Fleet   = registry.Fleet
	Ship    = registry.Ship
	Outfit  = registry.Outfit
	Unidiff = registry.Unidiff
)

// Call kinds.
const (
	AddPilot  = scan.AddPilot
	AddShip   = scan.AddShip
	AddOutfit = scan.AddOutfit
	ApplyDiff = scan.ApplyDiff
)

// Discovery modes.
const (
	MissionList   = discover.MissionList
	DirectoryWalk = discover.DirectoryWalk
)

// ParseMode converts a CLI spelling ("missionxml" or "rawfiles") to a Mode.
func ParseMode(s string) (Mode, error) {
	return discover.ParseMode(s)
}
