package storage

import (
	"testing"
	"time"

	"github.com/poiesic/specmatch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalProduct(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	original := &core.Product{
		SKU:           "PC-XLPE-11KV-3C-300",
		Name:          "11kV 3C x 300sqmm AL XLPE Cable",
		Category:      "HT Power Cable",
		DatasheetText: "11kV aluminium conductor XLPE insulated armoured cable",
		Specs: core.AttributeRecord{
			core.KeyVoltage:           core.Number(11000),
			core.KeyConductorMaterial: core.Token("aluminum"),
			core.KeyCrossSection:      core.Number(300),
		},
		Vector:     []float32{0.1, 0.2, 0.3},
		InsertedAt: now,
		UpdatedAt:  now,
	}

	data, err := MarshalProduct(original)
	require.NoError(t, err)

	restored, err := UnmarshalProduct(data)
	require.NoError(t, err)
	assert.Equal(t, original, restored)
}

func TestMarshalProductEmptySpecs(t *testing.T) {
	data, err := MarshalProduct(&core.Product{SKU: "X-1", Name: "x", DatasheetText: "d"})
	require.NoError(t, err)

	restored, err := UnmarshalProduct(data)
	require.NoError(t, err)
	assert.Nil(t, restored.Specs)
	assert.Equal(t, "X-1", restored.SKU)
}

func TestUnmarshalProductCorruptData(t *testing.T) {
	data, err := MarshalProduct(&core.Product{SKU: "X-1", Name: "x", DatasheetText: "d"})
	require.NoError(t, err)

	t.Run("truncated record", func(t *testing.T) {
		_, err := UnmarshalProduct(data[:len(data)/2])
		assert.ErrorIs(t, err, ErrSerializationFailed)
	})

	t.Run("empty record", func(t *testing.T) {
		_, err := UnmarshalProduct(nil)
		assert.ErrorIs(t, err, ErrSerializationFailed)
	})
}

func TestMarshalProductTimestampPrecision(t *testing.T) {
	// Timestamps persist as Unix microseconds; nanosecond remainders are
	// dropped on the way in.
	at := time.Date(2026, 8, 29, 10, 30, 0, 123456789, time.UTC)
	data, err := MarshalProduct(&core.Product{
		SKU: "X-1", Name: "x", DatasheetText: "d",
		InsertedAt: at, UpdatedAt: at,
	})
	require.NoError(t, err)

	restored, err := UnmarshalProduct(data)
	require.NoError(t, err)
	assert.Equal(t, at.Truncate(time.Microsecond), restored.InsertedAt)
	assert.Equal(t, at.Truncate(time.Microsecond), restored.UpdatedAt)
}
