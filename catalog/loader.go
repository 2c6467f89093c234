package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/specmatch/ai"
	"github.com/poiesic/specmatch/core"
	"github.com/poiesic/specmatch/index"
	"github.com/poiesic/specmatch/normalize"
	"github.com/poiesic/specmatch/storage"
)

const (
	defaultBatchSize      = 16
	defaultMaxRetries     = 3
	defaultRetryBaseDelay = 500 * time.Millisecond
)

// ProductSpec is one raw product entry from a catalog file, before
// normalization and embedding.
type ProductSpec struct {
	SKU            string            `json:"sku"`
	Name           string            `json:"name"`
	Category       string            `json:"category,omitempty"`
	Datasheet      string            `json:"datasheet"`
	Specifications map[string]string `json:"specifications,omitempty"`
}

// LoadFile reads product specs from a JSON catalog file.
// The file holds a JSON array of product spec objects.
func LoadFile(path string) ([]ProductSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}

	var specs []ProductSpec
	if err := json.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("parsing catalog file %s: %w", path, err)
	}
	return specs, nil
}

// Loader normalizes, embeds, and stores product specs.
type Loader struct {
	repo           storage.CatalogRepository
	index          *index.Index
	embedder       ai.Embedder
	normalizer     *normalize.Normalizer
	pool           *ants.Pool
	batchSize      int
	maxRetries     int
	retryBaseDelay time.Duration
	progress       *ProgressTracker
	logger         *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader) error

// WithPoolSize sets the worker pool size for concurrent embedding batches.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(l *Loader) error {
		if size < 1 {
			size = 1
		}
		if l.pool != nil {
			l.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		l.pool = pool
		return nil
	}
}

// WithBatchSize sets how many products are embedded per API call.
func WithBatchSize(size int) Option {
	return func(l *Loader) error {
		if size < 1 {
			size = 1
		}
		l.batchSize = size
		return nil
	}
}

// WithRetry configures retry behavior for embedding calls.
func WithRetry(maxRetries int, baseDelay time.Duration) Option {
	return func(l *Loader) error {
		if maxRetries < 1 {
			return ErrInvalidMaxAttempts
		}
		l.maxRetries = maxRetries
		l.retryBaseDelay = baseDelay
		return nil
	}
}

// WithProgress attaches a progress tracker to the loader.
func WithProgress(progress *ProgressTracker) Option {
	return func(l *Loader) error {
		l.progress = progress
		return nil
	}
}

// WithNormalizer overrides the default normalizer.
func WithNormalizer(normalizer *normalize.Normalizer) Option {
	return func(l *Loader) error {
		if normalizer != nil {
			l.normalizer = normalizer
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger.With("component", "catalog")
		return nil
	}
}

// NewLoader creates a catalog loader.
func NewLoader(repo storage.CatalogRepository, idx *index.Index, embedder ai.Embedder, opts ...Option) (*Loader, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if idx == nil {
		return nil, ErrIndexRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	l := &Loader{
		repo:           repo,
		index:          idx,
		embedder:       embedder,
		normalizer:     normalize.NewNormalizer(normalize.DefaultTables()),
		pool:           pool,
		batchSize:      defaultBatchSize,
		maxRetries:     defaultMaxRetries,
		retryBaseDelay: defaultRetryBaseDelay,
		logger:         slog.Default().With("component", "catalog"),
	}

	for _, opt := range opts {
		if optErr := opt(l); optErr != nil {
			l.Release()
			return nil, optErr
		}
	}

	return l, nil
}

// Release releases the worker pool.
// The loader should not be used after calling Release.
func (l *Loader) Release() {
	if l.pool != nil {
		l.pool.Release()
	}
}

// Load normalizes, embeds, and stores the given product specs.
// Returns the number of products loaded. Rejects batches containing
// duplicate or invalid products before any embedding work starts.
func (l *Loader) Load(ctx context.Context, specs []ProductSpec) (int, error) {
	if len(specs) == 0 {
		return 0, nil
	}

	products, err := l.prepare(specs)
	if err != nil {
		return 0, err
	}

	if l.progress != nil {
		l.progress.Start()
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for start := 0; start < len(products); start += l.batchSize {
		end := start + l.batchSize
		if end > len(products) {
			end = len(products)
		}
		batch := products[start:end]

		wg.Add(1)
		submitErr := l.pool.Submit(func() {
			defer wg.Done()
			if err := l.processBatch(ctx, batch); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			if l.progress != nil {
				l.progress.Increment(len(batch))
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = submitErr
			}
			mu.Unlock()
			break
		}
	}

	wg.Wait()

	if l.progress != nil && firstErr == nil {
		l.progress.Finish()
	}
	if firstErr != nil {
		return 0, firstErr
	}

	l.logger.Info("catalog loaded", "products", len(products))
	return len(products), nil
}

// prepare converts raw specs into validated products with normalized
// attribute records. Fails fast on duplicate SKUs and invalid products.
func (l *Loader) prepare(specs []ProductSpec) ([]*core.Product, error) {
	seen := make(map[string]bool, len(specs))
	products := make([]*core.Product, 0, len(specs))

	for _, spec := range specs {
		if seen[spec.SKU] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSKU, spec.SKU)
		}
		seen[spec.SKU] = true

		raw := make(map[core.AttributeKey]string, len(spec.Specifications))
		for key, value := range spec.Specifications {
			if !core.IsKnownKey(core.AttributeKey(key)) {
				l.logger.Warn("skipping unknown attribute", "sku", spec.SKU, "attribute", key)
				continue
			}
			raw[core.AttributeKey(key)] = value
		}

		record, issues := l.normalizer.Record(raw)
		for _, issue := range issues {
			l.logger.Warn("attribute normalization failed",
				"sku", spec.SKU, "attribute", issue.Key, "error", issue)
		}

		product := &core.Product{
			SKU:           spec.SKU,
			Name:          spec.Name,
			Category:      spec.Category,
			DatasheetText: spec.Datasheet,
			Specs:         record,
		}
		if err := core.ValidateProduct(product); err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	return products, nil
}

// processBatch embeds one batch of products and writes them to storage and
// the vector index.
func (l *Loader) processBatch(ctx context.Context, batch []*core.Product) error {
	texts := make([]string, len(batch))
	for i, product := range batch {
		texts[i] = product.DatasheetText
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = l.embedder.EmbedTexts(ctx, texts)
		return err
	}, l.maxRetries, l.retryBaseDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", l.maxRetries, err)
	}
	if len(embeddings) != len(batch) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(batch), len(embeddings))
	}

	for i := range batch {
		batch[i].Vector = index.NormalizeVector(embeddings[i])
	}

	if _, err := l.repo.PutProducts(ctx, batch...); err != nil {
		return fmt.Errorf("failed to store products: %w", err)
	}
	if err := l.index.Upsert(batch...); err != nil {
		return fmt.Errorf("failed to index products: %w", err)
	}
	return nil
}
