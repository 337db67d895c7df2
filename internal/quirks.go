package internal

import (
	"fmt"
	"strings"
)

// Quirks selects between the behaviours that historical CHIP-8 interpreters
// disagree on. The zero value is the modern convention.
type Quirks struct {
	// 8XY6 and 8XYE copy VY into VX before shifting
	ShiftUsesVY bool
	// FX55 and FX65 leave I pointing past the last register transferred
	LoadStoreIncrementsI bool
	// BNNN is read as BXNN and jumps to XNN + VX
	JumpUsesVX bool
	// 8XY1, 8XY2 and 8XY3 clear VF
	VFReset bool
	// FX1E sets VF when I+VX leaves the 12-bit address space
	IndexOverflowVF bool
	// DXYN clips sprites at the screen edge instead of wrapping them
	ClipSprites bool
}

// Names of the quirk profiles understood by QuirksByName
const (
	QuirksModern = "modern"
	QuirksCosmac = "cosmac"
)

// ModernQuirks returns the settings followed by most interpreters written
// since the 1990s.
func ModernQuirks() Quirks {
	return Quirks{}
}

// CosmacQuirks returns the settings of the original COSMAC VIP interpreter
func CosmacQuirks() Quirks {
	return Quirks{
		ShiftUsesVY:          true,
		LoadStoreIncrementsI: true,
		VFReset:              true,
		ClipSprites:          true,
	}
}

// QuirksByName returns the named quirk profile
func QuirksByName(name string) (Quirks, error) {
	switch strings.ToLower(name) {
	case "", QuirksModern:
		return ModernQuirks(), nil
	case QuirksCosmac, "vip":
		return CosmacQuirks(), nil
	}
	return Quirks{}, fmt.Errorf("unknown quirks profile '%s'", name)
}
