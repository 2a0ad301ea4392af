package chart

import "strings"

// DefaultHouseSystem is used when a request omits the selector.
const DefaultHouseSystem = "WholeSign"

// HouseSystemKind enumerates the house systems the builder understands.
type HouseSystemKind int

const (
	WholeSign HouseSystemKind = iota
	Unsupported
)

// HouseSystem is decided once per request; ID keeps the caller's identifier for echoing.
type HouseSystem struct {
	Kind HouseSystemKind
	ID   string
}

// ParseHouseSystem matches the "whole" prefix case-insensitively; anything else is unsupported.
func ParseHouseSystem(id string) HouseSystem {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return HouseSystem{Kind: WholeSign, ID: DefaultHouseSystem}
	}
	if strings.HasPrefix(strings.ToLower(trimmed), "whole") {
		return HouseSystem{Kind: WholeSign, ID: trimmed}
	}
	return HouseSystem{Kind: Unsupported, ID: trimmed}
}

// House is a house number in [1, 12]; the zero value means unassigned.
type House int

// Unassigned marks bodies whose house system is not supported.
const Unassigned House = 0

// Assigned reports whether h carries a house number.
func (h House) Assigned() bool {
	return h >= 1 && h <= 12
}

// AssignHouse places a planet relative to the ascendant. Unsupported systems yield (Unassigned, false).
func AssignHouse(ascendant, planet float64, hs HouseSystem) (House, bool) {
	switch hs.Kind {
	case WholeSign:
		offset := (SignIndex(planet) - SignIndex(ascendant) + 12) % 12
		return House(offset + 1), true
	default:
		return Unassigned, false
	}
}
