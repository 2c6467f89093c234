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

package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/poiesic/specmatch/ai"
	"github.com/poiesic/specmatch/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// AttributeExtractor implements ai.AttributeExtractor using OpenAI-compatible
// chat APIs.
type AttributeExtractor struct {
	client llms.Model
	logger *slog.Logger
}

// newAttributeExtractor is an internal constructor that returns the concrete
// type. Used by Provider to manage the instance.
func newAttributeExtractor(config *ai.Config) (*AttributeExtractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't
	// require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.ExtractorHost),
		openai.WithToken("none"),
		openai.WithModel(config.ExtractorModel),
	)
	if err != nil {
		return nil, err
	}

	return &AttributeExtractor{
		client: client,
		logger: slog.Default().With("component", "openai-extractor"),
	}, nil
}

// NewAttributeExtractor creates a new attribute extractor using the provided
// configuration.
//
// Returns ai.AttributeExtractor interface to enforce abstraction.
func NewAttributeExtractor(config *ai.Config) (ai.AttributeExtractor, error) {
	return newAttributeExtractor(config)
}

// ExtractAttributes extracts raw attribute values from a specification text
// using an LLM in JSON mode. Malformed responses are repaired and retried.
func (e *AttributeExtractor) ExtractAttributes(ctx context.Context, text string) (map[core.AttributeKey]string, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(extractionPrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(text)},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var fields map[string]string
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			e.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			e.logger.Debug("no choices returned from model")
			return map[core.AttributeKey]string{}, nil
		}

		responseText := stripCodeFences(response.Choices[0].Content)
		responseText = repairJSON(responseText)

		fields = nil
		if err := json.Unmarshal([]byte(responseText), &fields); err != nil {
			lastErr = err
			e.logger.Warn("error parsing extractor response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}
		lastErr = nil
		break
	}
	if lastErr != nil {
		return nil, lastErr
	}

	// Keep only known attribute keys with non-blank values; the model is
	// instructed not to emit others but small models sometimes do anyway.
	attributes := make(map[core.AttributeKey]string, len(fields))
	for field, value := range fields {
		key := core.AttributeKey(strings.ToLower(strings.TrimSpace(field)))
		value = strings.TrimSpace(value)
		if !core.IsKnownKey(key) || value == "" {
			continue
		}
		attributes[key] = value
	}

	e.logger.Debug("extracted attributes", "count", len(attributes))
	return attributes, nil
}

// stripCodeFences removes markdown code fences some models wrap around JSON.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
