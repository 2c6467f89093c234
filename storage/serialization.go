// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/specmatch/core"
)

// storedValue is the persisted form of a canonical attribute value.
type storedValue struct {
	Kind   int
	Number float64
	Token  string
}

// storedValueMUS is a hand-composed MUS serializer for storedValue.
// Field order is the wire format: Kind, Number, Token.
type storedValueMUS struct{}

func (s storedValueMUS) Marshal(v storedValue, bs []byte) (n int) {
	n = varint.Int.Marshal(v.Kind, bs)
	n += raw.Float64.Marshal(v.Number, bs[n:])
	n += ord.String.Marshal(v.Token, bs[n:])
	return
}

func (s storedValueMUS) Unmarshal(bs []byte) (v storedValue, n int, err error) {
	v.Kind, n, err = varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Number, n1, err = raw.Float64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Token, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (s storedValueMUS) Size(v storedValue) (size int) {
	size = varint.Int.Size(v.Kind)
	size += raw.Float64.Size(v.Number)
	size += ord.String.Size(v.Token)
	return
}

func (s storedValueMUS) Skip(bs []byte) (n int, err error) {
	n, err = varint.Int.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = raw.Float64.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	return
}

var (
	specsMUS  = ord.NewMapSer[string, storedValue](ord.String, storedValueMUS{})
	vectorMUS = ord.NewSliceSer[float32](raw.Float32)
)

// storedProduct is the persisted form of a catalog product.
// Timestamps are stored as Unix microseconds.
type storedProduct struct {
	SKU           string
	Name          string
	Category      string
	DatasheetText string
	Specs         map[string]storedValue
	Vector        []float32
	InsertedAt    time.Time
	UpdatedAt     time.Time
}

// storedProductMUS is a hand-composed MUS serializer for storedProduct.
// Field order is the wire format and must not be reordered.
type storedProductMUS struct{}

func (s storedProductMUS) Marshal(v storedProduct, bs []byte) (n int) {
	n = ord.String.Marshal(v.SKU, bs)
	n += ord.String.Marshal(v.Name, bs[n:])
	n += ord.String.Marshal(v.Category, bs[n:])
	n += ord.String.Marshal(v.DatasheetText, bs[n:])
	n += specsMUS.Marshal(v.Specs, bs[n:])
	n += vectorMUS.Marshal(v.Vector, bs[n:])
	n += varint.Int64.Marshal(v.InsertedAt.UnixMicro(), bs[n:])
	n += varint.Int64.Marshal(v.UpdatedAt.UnixMicro(), bs[n:])
	return
}

func (s storedProductMUS) Unmarshal(bs []byte) (v storedProduct, n int, err error) {
	v.SKU, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Name, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Category, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.DatasheetText, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Specs, n1, err = specsMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Vector, n1, err = vectorMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt = time.UnixMicro(micros).UTC()
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt = time.UnixMicro(micros).UTC()
	return
}

func (s storedProductMUS) Size(v storedProduct) (size int) {
	size = ord.String.Size(v.SKU)
	size += ord.String.Size(v.Name)
	size += ord.String.Size(v.Category)
	size += ord.String.Size(v.DatasheetText)
	size += specsMUS.Size(v.Specs)
	size += vectorMUS.Size(v.Vector)
	size += varint.Int64.Size(v.InsertedAt.UnixMicro())
	size += varint.Int64.Size(v.UpdatedAt.UnixMicro())
	return
}

// ProductMUS serializes catalog products for badger values.
var ProductMUS = storedProductMUS{}

// MarshalProduct serializes a product for storage.
func MarshalProduct(product *core.Product) ([]byte, error) {
	stored := storedProduct{
		SKU:           product.SKU,
		Name:          product.Name,
		Category:      product.Category,
		DatasheetText: product.DatasheetText,
		Vector:        product.Vector,
		InsertedAt:    product.InsertedAt,
		UpdatedAt:     product.UpdatedAt,
	}
	if len(product.Specs) > 0 {
		stored.Specs = make(map[string]storedValue, len(product.Specs))
		for key, value := range product.Specs {
			stored.Specs[string(key)] = storedValue{
				Kind:   int(value.Kind),
				Number: value.Number,
				Token:  value.Token,
			}
		}
	}

	buf := make([]byte, ProductMUS.Size(stored))
	ProductMUS.Marshal(stored, buf)
	return buf, nil
}

// UnmarshalProduct deserializes a product from storage.
func UnmarshalProduct(data []byte) (*core.Product, error) {
	stored, _, err := ProductMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}

	product := &core.Product{
		SKU:           stored.SKU,
		Name:          stored.Name,
		Category:      stored.Category,
		DatasheetText: stored.DatasheetText,
		Vector:        stored.Vector,
		InsertedAt:    stored.InsertedAt,
		UpdatedAt:     stored.UpdatedAt,
	}
	if len(stored.Specs) > 0 {
		product.Specs = make(core.AttributeRecord, len(stored.Specs))
		for key, value := range stored.Specs {
			product.Specs[core.AttributeKey(key)] = core.Value{
				Kind:   core.ValueKind(value.Kind),
				Number: value.Number,
				Token:  value.Token,
			}
		}
	}
	return product, nil
}
