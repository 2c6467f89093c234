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


package specmatch

import (
	"context"
	"log/slog"

	"github.com/poiesic/specmatch/ai"
	"github.com/poiesic/specmatch/ai/openai"
	"github.com/poiesic/specmatch/catalog"
	"github.com/poiesic/specmatch/engine"
	"github.com/poiesic/specmatch/index"
	"github.com/poiesic/specmatch/match"
	"github.com/poiesic/specmatch/storage"
	"github.com/poiesic/specmatch/storage/badger"
)

// Matcher is the top-level entry point. It owns the storage backend, the
// vector index, the AI provider, and the scoring engine, and hands out
// loaders and pipelines bound to them.
type Matcher struct {
	backend     *badger.Backend
	catalogRepo storage.CatalogRepository
	provider    ai.Provider
	index       *index.Index
	engine      *engine.Engine
	logger      *slog.Logger
}

// MatcherOption configures a Matcher.
type MatcherOption func(*matcherOptions)

type matcherOptions struct {
	aiConfig   *ai.Config
	provider   ai.Provider
	weights    engine.Weights
	thresholds *engine.Thresholds
}

// WithAIConfig sets the AI service configuration.
func WithAIConfig(config *ai.Config) MatcherOption {
	return func(o *matcherOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithProvider injects a pre-built AI provider, bypassing the default
// OpenAI-compatible provider. Intended for tests.
func WithProvider(provider ai.Provider) MatcherOption {
	return func(o *matcherOptions) {
		o.provider = provider
	}
}

// WithWeights overrides the default attribute weight table.
func WithWeights(weights engine.Weights) MatcherOption {
	return func(o *matcherOptions) {
		o.weights = weights
	}
}

// WithThresholds overrides the default classification thresholds.
func WithThresholds(thresholds engine.Thresholds) MatcherOption {
	return func(o *matcherOptions) {
		o.thresholds = &thresholds
	}
}

// Open opens a matcher over the database at filePath, creating it if needed.
// The vector index is rebuilt from the stored catalog so that matching is
// available immediately after opening.
func Open(filePath string, opts ...MatcherOption) (*Matcher, error) {
	options := &matcherOptions{
		aiConfig:   ai.DefaultConfig(),
		weights:    engine.DefaultWeights(),
		thresholds: nil,
	}
	for _, opt := range opts {
		opt(options)
	}
	thresholds := engine.DefaultThresholds()
	if options.thresholds != nil {
		thresholds = *options.thresholds
	}

	eng, err := engine.New(options.weights, thresholds)
	if err != nil {
		return nil, err
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	// Create catalog repository
	catalogRepo, err := badger.NewCatalogRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create AI provider with configured settings
	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			catalogRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	idx, err := index.New(provider.Embedder())
	if err != nil {
		provider.Close()
		catalogRepo.Close()
		backend.Close()
		return nil, err
	}

	m := &Matcher{
		backend:     backend,
		catalogRepo: catalogRepo,
		provider:    provider,
		index:       idx,
		engine:      eng,
		logger:      slog.Default(),
	}

	if err := m.rebuildIndex(context.Background()); err != nil {
		m.Close()
		return nil, err
	}

	return m, nil
}

// rebuildIndex loads every stored product vector into the in-memory index.
func (m *Matcher) rebuildIndex(ctx context.Context) error {
	products, err := m.catalogRepo.ListProducts(ctx)
	if err != nil {
		return err
	}

	indexed := 0
	for _, product := range products {
		if len(product.Vector) == 0 {
			m.logger.Warn("product has no embedding, excluded from retrieval", "sku", product.SKU)
			continue
		}
		if err := m.index.Upsert(product); err != nil {
			return err
		}
		indexed++
	}

	if indexed > 0 {
		m.logger.Info("vector index rebuilt", "products", indexed)
	}
	return nil
}

func (m *Matcher) Close() error {
	// Close AI provider first
	if err := m.provider.Close(); err != nil {
		m.logger.Error("error closing AI provider", "err", err)
	}

	if err := m.catalogRepo.Close(); err != nil {
		m.logger.Error("error closing catalog repository", "err", err)
		return err
	}

	if err := m.backend.Close(); err != nil {
		m.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (m *Matcher) CatalogRepository() storage.CatalogRepository {
	return m.catalogRepo
}

func (m *Matcher) Index() *index.Index {
	return m.index
}

func (m *Matcher) Engine() *engine.Engine {
	return m.engine
}

// NewLoader creates a catalog loader bound to this matcher's storage,
// index, and embedder.
func (m *Matcher) NewLoader(opts ...catalog.Option) (*catalog.Loader, error) {
	return catalog.NewLoader(m.catalogRepo, m.index, m.provider.Embedder(), opts...)
}

// NewPipeline creates a matching pipeline bound to this matcher's
// components. The provider's attribute extractor is wired in as the
// fallback for items without structured attributes.
func (m *Matcher) NewPipeline(opts ...match.Option) (*match.Pipeline, error) {
	merged := append([]match.Option{match.WithExtractor(m.provider.AttributeExtractor())}, opts...)
	return match.NewPipeline(m.catalogRepo, m.index, m.engine, merged...)
}
