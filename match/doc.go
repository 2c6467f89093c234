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


// Package match provides the hybrid requirement-to-product matching pipeline.
//
// The Pipeline type implements a two-stage matching algorithm:
//   - Candidate retrieval using vector embeddings over datasheet text
//   - Weighted symbolic scoring over normalized attribute records
//
// Retrieval narrows the catalog to a small candidate set; the scoring stage
// then produces an auditable per-attribute breakdown for each candidate.
// Results are ranked by score and truncated to the configured top-N.
package match
