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


// Package engine implements the deterministic spec match scoring.
//
// The engine compares one normalized requirement record against one
// normalized product record and produces an explainable score in [0,100]
// with a per-attribute breakdown. Scoring is pure symbolic logic: no model
// calls, no I/O, identical inputs always produce identical results.
//
// Per attribute, both sides absent excludes the attribute from the
// comparison entirely, a candidate missing a requested spec scores 0,
// canonical equality scores 1, and unequal numeric values receive graded
// credit inversely proportional to their relative deviation. Weights are
// re-normalized over the attributes actually compared, so a requirement
// that omits an attribute is scored over the remaining weight mass.
package engine
