package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validProduct() *Product {
	return &Product{
		SKU:           "HV-AL-XLPE-001",
		Name:          "11kV 3C x 300sqmm Al XLPE Cable",
		DatasheetText: "11kV 3 Core 300 sq mm Aluminum XLPE Insulated Cable",
		Specs: AttributeRecord{
			KeyVoltage:           Number(11000),
			KeyConductorMaterial: Token("aluminum"),
		},
	}
}

func TestValidateProduct(t *testing.T) {
	t.Run("valid product", func(t *testing.T) {
		assert.NoError(t, ValidateProduct(validProduct()))
	})

	t.Run("nil product", func(t *testing.T) {
		err := ValidateProduct(nil)
		assert.ErrorIs(t, err, ErrInvalidProduct)
	})

	t.Run("empty sku", func(t *testing.T) {
		p := validProduct()
		p.SKU = ""
		err := ValidateProduct(p)
		assert.ErrorIs(t, err, ErrInvalidProduct)
		assert.ErrorIs(t, err, ErrEmptySKU)
	})

	t.Run("empty name", func(t *testing.T) {
		p := validProduct()
		p.Name = ""
		err := ValidateProduct(p)
		assert.ErrorIs(t, err, ErrEmptyName)
	})

	t.Run("empty datasheet", func(t *testing.T) {
		p := validProduct()
		p.DatasheetText = ""
		err := ValidateProduct(p)
		assert.ErrorIs(t, err, ErrEmptyDatasheet)
	})

	t.Run("unknown spec key", func(t *testing.T) {
		p := validProduct()
		p.Specs["colour"] = Token("black")
		err := ValidateProduct(p)
		assert.ErrorIs(t, err, ErrUnknownAttribute)
	})

	t.Run("zero-valued spec value", func(t *testing.T) {
		p := validProduct()
		p.Specs[KeyInsulation] = Value{}
		err := ValidateProduct(p)
		assert.ErrorIs(t, err, ErrInvalidValue)
	})
}

func TestIsKnownKey(t *testing.T) {
	for _, key := range AttributeKeys {
		assert.True(t, IsKnownKey(key), "key %q should be known", key)
	}
	assert.False(t, IsKnownKey("colour"))
}
