package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/poiesic/specmatch/core"
)

var (
	voltagePattern      = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(kv|kilovolts?|v(?:olts?)?)?\b`)
	crossSectionPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(?:sq\.?\s*mm|sqmm|mm\s*2|mm²)?\b`)
	coreCountPattern    = regexp.MustCompile(`^(\d+)\s*(?:[-x]\s*core|cores?|c|x)?\b`)
)

// Normalizer canonicalizes raw attribute values.
// It is stateless apart from its immutable synonym tables and is safe for
// concurrent use.
type Normalizer struct {
	tables Tables
}

// NewNormalizer creates a normalizer with the given synonym tables.
// The tables are copied; later changes to the argument have no effect.
func NewNormalizer(tables Tables) *Normalizer {
	return &Normalizer{tables: tables.clone()}
}

// Value normalizes a single raw attribute value into its canonical form.
// It returns an *Error (wrapping ErrUnparsable or ErrEmptyValue) when the
// value cannot be canonicalized; callers treat that attribute as absent.
func (n *Normalizer) Value(key core.AttributeKey, raw string) (core.Value, error) {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	if cleaned == "" {
		return core.Value{}, newError(key, raw, ErrEmptyValue)
	}

	switch key {
	case core.KeyVoltage:
		return n.voltage(key, raw, cleaned)
	case core.KeyCrossSection:
		return n.crossSection(key, raw, cleaned)
	case core.KeyCoreCount:
		return n.coreCount(key, raw, cleaned)
	default:
		return n.categorical(key, cleaned), nil
	}
}

// Record normalizes a full set of raw attributes into an AttributeRecord.
// Attributes that fail to normalize are omitted from the record and reported
// in the returned issue list; normalization never aborts on a bad value.
func (n *Normalizer) Record(raw map[core.AttributeKey]string) (core.AttributeRecord, []*Error) {
	record := make(core.AttributeRecord, len(raw))
	var issues []*Error

	for _, key := range core.AttributeKeys {
		value, ok := raw[key]
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		canonical, err := n.Value(key, value)
		if err != nil {
			var nerr *Error
			if e, ok := err.(*Error); ok {
				nerr = e
			} else {
				nerr = newError(key, value, err)
			}
			issues = append(issues, nerr)
			continue
		}
		record[key] = canonical
	}

	return record, issues
}

// voltage parses a leading numeric quantity with a kV or V unit and
// canonicalizes to integer volts. A bare number is taken as volts.
func (n *Normalizer) voltage(key core.AttributeKey, raw, cleaned string) (core.Value, error) {
	m := voltagePattern.FindStringSubmatch(cleaned)
	if m == nil {
		return core.Value{}, newError(key, raw, ErrUnparsable)
	}

	magnitude, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return core.Value{}, newError(key, raw, ErrUnparsable)
	}

	unit := m[2]
	if strings.HasPrefix(unit, "k") {
		magnitude *= 1000
	}

	return core.Number(math.Round(magnitude)), nil
}

// crossSection parses a numeric magnitude in square millimeters,
// stripping common unit suffixes.
func (n *Normalizer) crossSection(key core.AttributeKey, raw, cleaned string) (core.Value, error) {
	m := crossSectionPattern.FindStringSubmatch(cleaned)
	if m == nil {
		return core.Value{}, newError(key, raw, ErrUnparsable)
	}

	magnitude, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return core.Value{}, newError(key, raw, ErrUnparsable)
	}

	return core.Number(magnitude), nil
}

// coreCount parses a positive integer core count, accepting textual forms
// such as "3 Core", "3C" and "3".
func (n *Normalizer) coreCount(key core.AttributeKey, raw, cleaned string) (core.Value, error) {
	m := coreCountPattern.FindStringSubmatch(cleaned)
	if m == nil {
		return core.Value{}, newError(key, raw, ErrUnparsable)
	}

	count, err := strconv.Atoi(m[1])
	if err != nil || count < 1 {
		return core.Value{}, newError(key, raw, ErrUnparsable)
	}

	return core.Number(float64(count)), nil
}

// categorical resolves a raw value through the key's synonym table.
// Unmapped values pass through lower-cased and trimmed, so they remain
// comparable even when no synonym is known.
func (n *Normalizer) categorical(key core.AttributeKey, cleaned string) core.Value {
	cleaned = collapseSpaces(cleaned)
	if table := n.tables.tableFor(key); table != nil {
		if canonical, ok := table[cleaned]; ok {
			return core.Token(canonical)
		}
	}
	return core.Token(cleaned)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
