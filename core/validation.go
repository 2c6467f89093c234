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


package core

import "fmt"

var knownKeys = func() map[AttributeKey]bool {
	m := make(map[AttributeKey]bool, len(AttributeKeys))
	for _, k := range AttributeKeys {
		m[k] = true
	}
	return m
}()

// IsKnownKey reports whether key belongs to the fixed attribute set.
func IsKnownKey(key AttributeKey) bool {
	return knownKeys[key]
}

// ValidateProduct validates a Product according to domain rules.
//
// Validation rules:
//   - SKU must not be empty
//   - Name must not be empty
//   - DatasheetText must not be empty
//   - Specs must only use known attribute keys with valid values
//
// NOT validated (populated by the catalog loader):
//   - Vector (can be empty until the product is embedded)
//   - InsertedAt/UpdatedAt (set by storage)
func ValidateProduct(product *Product) error {
	if product == nil {
		return fmt.Errorf("%w: product is nil", ErrInvalidProduct)
	}

	if product.SKU == "" {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, ErrEmptySKU)
	}

	if product.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, ErrEmptyName)
	}

	if product.DatasheetText == "" {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, ErrEmptyDatasheet)
	}

	if err := ValidateRecord(product.Specs); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, err)
	}

	return nil
}

// ValidateRecord validates that a record only uses known attribute keys
// and that every value carries a valid kind.
func ValidateRecord(record AttributeRecord) error {
	for key, value := range record {
		if !IsKnownKey(key) {
			return fmt.Errorf("%w: %q", ErrUnknownAttribute, key)
		}
		if value.Kind != KindToken && value.Kind != KindNumber {
			return fmt.Errorf("%w: key %q", ErrInvalidValue, key)
		}
	}
	return nil
}
