package normalize

import "github.com/poiesic/specmatch/core"

// Tables holds the synonym lookup tables for categorical attributes.
// Each table maps a lower-cased raw form to its canonical token.
// Tables are immutable configuration: the Normalizer copies them at
// construction and never writes to them.
type Tables struct {
	ConductorMaterial map[string]string
	Insulation        map[string]string
	Armouring         map[string]string
	Sheathing         map[string]string
}

// DefaultTables returns the standard synonym tables for power cable
// specifications. Callers may modify the returned maps freely; each call
// produces fresh copies.
func DefaultTables() Tables {
	return Tables{
		ConductorMaterial: map[string]string{
			"al":        "aluminum",
			"alu":       "aluminum",
			"aluminium": "aluminum",
			"aluminum":  "aluminum",
			"cu":        "copper",
			"copper":    "copper",
		},
		Insulation: map[string]string{
			"xlpe":                      "xlpe",
			"cross linked polyethylene": "xlpe",
			"cross-linked polyethylene": "xlpe",
			"pvc":                       "pvc",
			"polyvinyl chloride":        "pvc",
			"epr":                       "epr",
			"ethylene propylene rubber": "epr",
			"rubber":                    "rubber",
			"rubber insulated":          "rubber",
		},
		Armouring: map[string]string{
			"gi strip":              "gi_strip",
			"gi_strip":              "gi_strip",
			"galvanized iron strip": "gi_strip",
			"galvanised iron strip": "gi_strip",
			"gi wire":               "gi_wire",
			"gi_wire":               "gi_wire",
			"galvanized iron wire":  "gi_wire",
			"galvanised iron wire":  "gi_wire",
			"swa":                   "swa",
			"steel wire":            "swa",
			"steel wire armour":     "swa",
			"steel wire armoured":   "swa",
			"sta":                   "sta",
			"steel tape armour":     "sta",
			"unarmoured":            "unarmoured",
			"un-armoured":           "unarmoured",
			"none":                  "unarmoured",
		},
		Sheathing: map[string]string{
			"pvc":                    "pvc",
			"polyvinyl chloride":     "pvc",
			"pe":                     "pe",
			"polyethylene":           "pe",
			"lszh":                   "lszh",
			"low smoke zero halogen": "lszh",
		},
	}
}

// tableFor returns the synonym table for a categorical attribute key,
// or nil when the key has no table (numeric keys, unknown keys).
func (t Tables) tableFor(key core.AttributeKey) map[string]string {
	switch key {
	case core.KeyConductorMaterial:
		return t.ConductorMaterial
	case core.KeyInsulation:
		return t.Insulation
	case core.KeyArmouring:
		return t.Armouring
	case core.KeySheathing:
		return t.Sheathing
	}
	return nil
}

func copyTable(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (t Tables) clone() Tables {
	return Tables{
		ConductorMaterial: copyTable(t.ConductorMaterial),
		Insulation:        copyTable(t.Insulation),
		Armouring:         copyTable(t.Armouring),
		Sheathing:         copyTable(t.Sheathing),
	}
}
