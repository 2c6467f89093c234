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


// Package index provides in-memory vector similarity search over the
// product catalog.
//
// The index stores one unit-normalized embedding per SKU and answers
// nearest-neighbor queries by brute-force cosine scan, which is sufficient
// for catalogs up to a few thousand products. Retrieval is a recall filter
// only: results feed the spec match engine for exact symbolic scoring and
// are never used directly as the final rank.
//
// The read path is safe for concurrent use; writes are serialized against
// reads by a single-writer/multi-reader lock.
package index
