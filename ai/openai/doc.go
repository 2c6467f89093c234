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


// Package openai implements the ai interfaces against OpenAI-compatible APIs.
//
// It works with any service exposing the OpenAI embedding and chat
// completion endpoints: Ollama, LocalAI, vLLM, or OpenAI itself. The
// attribute extractor drives a chat model in JSON mode with a retry loop
// and response repair, since small local models occasionally emit
// malformed JSON.
package openai
