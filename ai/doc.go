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


// Package ai provides abstractions for the AI services used in specmatch.
//
// The matching core never talks to a language model directly. It depends on
// two narrow capabilities defined here:
//
//   - Embedder: turns free text into a fixed-dimension vector
//   - AttributeExtractor: turns a raw specification string into raw
//     attribute values for the normalizer
//
// A Provider aggregates both for convenient initialization. The ai/openai
// subpackage implements them against OpenAI-compatible APIs; ai/mock
// provides deterministic test doubles so the core test suite never needs a
// running model.
package ai
