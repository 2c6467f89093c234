package core

import (
	"encoding/binary"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier derived from domain content.
// It is used for stable storage keys and catalog fingerprints.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// AttributeKey identifies one technical attribute of a cable specification.
type AttributeKey string

const (
	KeyVoltage           AttributeKey = "voltage"
	KeyConductorMaterial AttributeKey = "conductor_material"
	KeyCrossSection      AttributeKey = "cross_section"
	KeyCoreCount         AttributeKey = "core_count"
	KeyInsulation        AttributeKey = "insulation"
	KeyArmouring         AttributeKey = "armouring"
	KeySheathing         AttributeKey = "sheathing"
)

// AttributeKeys is the fixed attribute set, in the canonical comparison order.
// All weight tables and attribute records are defined over this set.
var AttributeKeys = []AttributeKey{
	KeyVoltage,
	KeyConductorMaterial,
	KeyCrossSection,
	KeyCoreCount,
	KeyInsulation,
	KeyArmouring,
	KeySheathing,
}

// IsNumericKey reports whether the attribute carries a numeric canonical value.
// Numeric attributes receive graded scoring on close-but-unequal values.
func IsNumericKey(key AttributeKey) bool {
	switch key {
	case KeyVoltage, KeyCrossSection, KeyCoreCount:
		return true
	}
	return false
}

// ValueKind discriminates the canonical representation of an attribute value.
type ValueKind int

const (
	// KindToken is a synonym-resolved categorical token, e.g. "xlpe".
	KindToken ValueKind = iota + 1
	// KindNumber is a unit-normalized numeric magnitude, e.g. volts or sq.mm.
	KindNumber
)

// Value is the canonical, comparable form of a single attribute.
// A Value is produced once by normalization; downstream code never re-parses
// raw text. Absence is expressed by the key being missing from its record,
// not by a Value variant.
type Value struct {
	Kind   ValueKind
	Number float64
	Token  string
}

// Number creates a numeric canonical value.
func Number(n float64) Value {
	return Value{Kind: KindNumber, Number: n}
}

// Token creates a categorical canonical value.
func Token(t string) Value {
	return Value{Kind: KindToken, Token: t}
}

// Equal reports canonical equality between two values.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	if v.Kind == KindNumber {
		return v.Number == other.Number
	}
	return v.Token == other.Token
}

// String renders the canonical value for diagnostics and deviation notes.
func (v Value) String() string {
	if v.Kind == KindNumber {
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	}
	return v.Token
}

// AttributeRecord maps attribute keys to their canonical values.
// Keys absent from the map are absent attributes. Records are treated as
// immutable once normalization has produced them.
type AttributeRecord map[AttributeKey]Value

// Get returns the value for key and whether it is present.
func (r AttributeRecord) Get(key AttributeKey) (Value, bool) {
	v, ok := r[key]
	return v, ok
}

// Clone returns an independent copy of the record.
func (r AttributeRecord) Clone() AttributeRecord {
	if r == nil {
		return nil
	}
	out := make(AttributeRecord, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Product is one manufacturer catalog entry.
type Product struct {
	SKU           string
	Name          string
	Category      string
	DatasheetText string          // Free-text datasheet, used for embedding
	Specs         AttributeRecord // Normalized specifications
	Vector        []float32       // Embedding vector (populated at catalog load time)
	InsertedAt    time.Time
	UpdatedAt     time.Time
}

// RFPItem is one line item from a request-for-proposal scope of supply.
// RawAttributes holds the extraction output before normalization; the
// matching pipeline normalizes them into an AttributeRecord.
type RFPItem struct {
	ItemID        int
	SpecText      string // Original raw specification text, used for retrieval
	Quantity      string
	Unit          string
	RawAttributes map[AttributeKey]string
}

// MatchStatus classifies an overall match score.
type MatchStatus string

const (
	StatusExactMatch   MatchStatus = "exact_match"
	StatusPartialMatch MatchStatus = "partial_match"
	StatusNoMatch      MatchStatus = "no_match"
)

// AttributeScore is the per-attribute entry of a match breakdown.
// Requirement and Candidate are nil when the respective side is absent.
type AttributeScore struct {
	Key         AttributeKey
	Requirement *Value
	Candidate   *Value
	Weight      float64
	Score       float64 // Sub-score in [0,1]; 0 when the candidate misses a requested spec
	Included    bool    // Whether the attribute participated in weight re-normalization
}

// MatchResult is one requirement-versus-product comparison.
// Results are ephemeral: created per query, never persisted.
type MatchResult struct {
	SKU         string
	ProductName string
	Score       float64 // Overall score in [0,100]
	Status      MatchStatus
	Similarity  float32 // Retrieval-stage cosine similarity, informational only
	Breakdown   []AttributeScore
	Deviations  []string // Human-readable notes on mismatched or missing attributes
}

// RankedMatches holds the ordered match results for one RFP line item,
// sorted descending by score with ties broken by SKU, truncated to top-N.
type RankedMatches struct {
	ItemID  int
	Matches []MatchResult
	Viable  bool // Whether the best score clears the viability floor
}

// Best returns the highest-ranked result, or nil when there are no matches.
func (r *RankedMatches) Best() *MatchResult {
	if r == nil || len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// SimilarityHit is one product surfaced by vector retrieval.
type SimilarityHit struct {
	SKU   string
	Score float32
}
