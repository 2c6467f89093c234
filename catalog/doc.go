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


// Package catalog loads product specifications into the match database.
//
// The loader takes raw product specs (typically parsed from a JSON catalog
// file), normalizes their attributes into canonical form, generates datasheet
// embeddings in concurrent batches, and writes the finished products to both
// the catalog repository and the vector index.
//
// Embedding calls are retried with exponential backoff since they cross a
// network boundary. Normalization failures on individual attributes are
// logged and skipped rather than failing the whole load; a product with a
// partially normalized spec record still participates in matching on the
// attributes that did normalize.
package catalog
