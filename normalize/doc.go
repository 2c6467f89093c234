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


// Package normalize canonicalizes raw attribute values for comparison.
//
// The Normalizer maps heterogeneous textual forms onto a single canonical
// representation per attribute family:
//
//   - voltage: "11kV", "11 kV", "11000V" all become 11000 (integer volts)
//   - cross section: "300 sq.mm", "300sqmm", "300mm2" become 300.0
//   - core count: "3 Core", "3C", "3" become 3
//   - categorical attributes: synonym tables resolve "Al", "aluminium" to
//     "aluminum", "GI Strip" to "gi_strip", and so on
//
// Normalization is deterministic and pure: no I/O, no mutation of inputs,
// and idempotent on already-canonical values. Synonym tables are immutable
// configuration passed in at construction, so tests can supply their own.
package normalize
