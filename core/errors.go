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

import "errors"

// Domain validation errors
var (
	// ErrInvalidProduct indicates a Product failed validation.
	ErrInvalidProduct = errors.New("invalid product")

	// ErrEmptySKU indicates the SKU field is empty.
	ErrEmptySKU = errors.New("sku cannot be empty")

	// ErrEmptyName indicates the product name is empty.
	ErrEmptyName = errors.New("product name cannot be empty")

	// ErrEmptyDatasheet indicates the datasheet text is empty.
	ErrEmptyDatasheet = errors.New("datasheet text cannot be empty")

	// ErrInvalidValue indicates an attribute value has no valid kind.
	ErrInvalidValue = errors.New("invalid attribute value")

	// ErrUnknownAttribute indicates a key outside the fixed attribute set.
	ErrUnknownAttribute = errors.New("unknown attribute key")
)
