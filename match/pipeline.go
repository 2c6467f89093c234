package match

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/specmatch/ai"
	"github.com/poiesic/specmatch/core"
	"github.com/poiesic/specmatch/engine"
	"github.com/poiesic/specmatch/index"
	"github.com/poiesic/specmatch/normalize"
	"github.com/poiesic/specmatch/storage"
)

const (
	// DefaultTopK is how many candidates retrieval surfaces per item.
	DefaultTopK = 5

	// DefaultTopN is how many scored matches are kept per item.
	DefaultTopN = 3

	// DefaultMinViableScore is the score floor below which the best match
	// is not considered a viable supply option.
	DefaultMinViableScore = 60.0
)

// Pipeline matches RFP line items against the product catalog.
type Pipeline struct {
	catalog        storage.CatalogRepository
	index          *index.Index
	engine         *engine.Engine
	normalizer     *normalize.Normalizer
	extractor      ai.AttributeExtractor
	pool           *ants.Pool
	topK           int
	topN           int
	minViableScore float64
	logger         *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger.With("component", "match")
		return nil
	}
}

// WithTopK sets how many candidates retrieval surfaces per item.
func WithTopK(k int) Option {
	return func(p *Pipeline) error {
		if k > 0 {
			p.topK = k
		}
		return nil
	}
}

// WithTopN sets how many scored matches are kept per item.
func WithTopN(n int) Option {
	return func(p *Pipeline) error {
		if n > 0 {
			p.topN = n
		}
		return nil
	}
}

// WithMinViableScore sets the viability floor for the best match.
func WithMinViableScore(score float64) Option {
	return func(p *Pipeline) error {
		p.minViableScore = score
		return nil
	}
}

// WithNormalizer overrides the default normalizer.
func WithNormalizer(normalizer *normalize.Normalizer) Option {
	return func(p *Pipeline) error {
		if normalizer != nil {
			p.normalizer = normalizer
		}
		return nil
	}
}

// WithExtractor attaches an attribute extractor used to recover structured
// attributes from free-text specs when an item carries none.
func WithExtractor(extractor ai.AttributeExtractor) Option {
	return func(p *Pipeline) error {
		p.extractor = extractor
		return nil
	}
}

// WithPoolSize sets the worker pool size for batch matching.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// NewPipeline creates a matching pipeline.
func NewPipeline(
	catalog storage.CatalogRepository,
	idx *index.Index,
	eng *engine.Engine,
	opts ...Option,
) (*Pipeline, error) {
	if catalog == nil {
		return nil, ErrCatalogRequired
	}
	if idx == nil {
		return nil, ErrIndexRequired
	}
	if eng == nil {
		return nil, ErrEngineRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		catalog:        catalog,
		index:          idx,
		engine:         eng,
		normalizer:     normalize.NewNormalizer(normalize.DefaultTables()),
		pool:           pool,
		topK:           DefaultTopK,
		topN:           DefaultTopN,
		minViableScore: DefaultMinViableScore,
		logger:         slog.Default().With("component", "match"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// MatchItem matches one RFP line item against the catalog.
func (p *Pipeline) MatchItem(ctx context.Context, item *core.RFPItem) (*core.RankedMatches, error) {
	return p.MatchItemWithMonitor(ctx, item, nil)
}

// MatchItemWithMonitor matches one RFP line item with monitoring.
// The monitor receives callbacks at each stage of the matching process.
//
// The pipeline degrades rather than fails: normalization issues drop the
// offending attribute, and a retrieval failure yields an empty, non-viable
// result. The returned RankedMatches is never nil on a nil error.
func (p *Pipeline) MatchItemWithMonitor(ctx context.Context, item *core.RFPItem, monitor MatchMonitor) (*core.RankedMatches, error) {
	if item == nil {
		return nil, ErrItemRequired
	}
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(item)

	// 1. Normalize the requirement attributes
	requirement := p.normalizeRequirement(ctx, item, monitor)
	monitor.AfterNormalization(item.ItemID, requirement)

	ranked := &core.RankedMatches{ItemID: item.ItemID}

	// 2. Retrieve candidates by datasheet similarity
	hits, err := p.index.Search(ctx, item.SpecText, p.topK)
	if err != nil {
		p.logger.Error("candidate retrieval failed", "itemID", item.ItemID, "err", err)
		monitor.AfterRetrieval(item.ItemID, nil)
		monitor.Finish(ranked)
		return ranked, nil
	}
	monitor.AfterRetrieval(item.ItemID, hits)

	if len(hits) == 0 {
		monitor.Finish(ranked)
		return ranked, nil
	}

	// 3. Fetch candidate products
	skus := make([]string, len(hits))
	similarities := make(map[string]float32, len(hits))
	for i, hit := range hits {
		skus[i] = hit.SKU
		similarities[hit.SKU] = hit.Score
	}
	products, err := p.catalog.GetProducts(ctx, skus...)
	if err != nil {
		return nil, err
	}

	// 4. Score each candidate
	for _, product := range products {
		result := p.engine.Score(requirement, product)
		result.Similarity = similarities[product.SKU]
		monitor.Scored(item.ItemID, &result)
		ranked.Matches = append(ranked.Matches, result)
	}

	// 5. Rank by score descending, SKU ascending on ties
	sort.Slice(ranked.Matches, func(i, j int) bool {
		if ranked.Matches[i].Score != ranked.Matches[j].Score {
			return ranked.Matches[i].Score > ranked.Matches[j].Score
		}
		return strings.Compare(ranked.Matches[i].SKU, ranked.Matches[j].SKU) < 0
	})
	if len(ranked.Matches) > p.topN {
		ranked.Matches = ranked.Matches[:p.topN]
	}
	if best := ranked.Best(); best != nil {
		ranked.Viable = best.Score >= p.minViableScore
	}

	monitor.Finish(ranked)
	return ranked, nil
}

// MatchBatch matches multiple RFP line items concurrently.
// Result order mirrors the input order. A failed item degrades to an empty
// result rather than aborting the batch; failures are logged.
func (p *Pipeline) MatchBatch(ctx context.Context, items []*core.RFPItem) []*core.RankedMatches {
	results := make([]*core.RankedMatches, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		run := func() {
			defer wg.Done()
			ranked, err := p.MatchItem(ctx, item)
			if err != nil {
				p.logger.Error("item match failed", "index", i, "err", err)
				ranked = &core.RankedMatches{}
				if item != nil {
					ranked.ItemID = item.ItemID
				}
			}
			results[i] = ranked
		}
		if submitErr := p.pool.Submit(run); submitErr != nil {
			// Pool unavailable (released); fall back to inline execution.
			p.logger.Warn("worker pool rejected task, running inline", "err", submitErr)
			run()
		}
	}
	wg.Wait()

	return results
}

// normalizeRequirement turns an item's raw attributes into a canonical
// record, consulting the attribute extractor when the item carries none.
func (p *Pipeline) normalizeRequirement(ctx context.Context, item *core.RFPItem, monitor MatchMonitor) core.AttributeRecord {
	raw := item.RawAttributes
	if len(raw) == 0 && p.extractor != nil {
		extracted, err := p.extractor.ExtractAttributes(ctx, item.SpecText)
		if err != nil {
			p.logger.Warn("attribute extraction failed", "itemID", item.ItemID, "err", err)
		} else {
			raw = extracted
		}
	}

	record, issues := p.normalizer.Record(raw)
	for _, issue := range issues {
		p.logger.Warn("requirement attribute dropped",
			"itemID", item.ItemID, "attribute", issue.Key, "err", issue)
		monitor.NormalizationIssue(item.ItemID, issue.Key, issue.Raw, issue)
	}
	return record
}
