package feed

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/phrazzld/scry-feed/internal/cache"
	"github.com/phrazzld/scry-feed/internal/domain"
	"github.com/phrazzld/scry-feed/internal/generation"
	"github.com/phrazzld/scry-feed/internal/metrics"
	"github.com/phrazzld/scry-feed/internal/platform/logger"
	"github.com/phrazzld/scry-feed/internal/popularity"
	"github.com/phrazzld/scry-feed/internal/redact"
	"golang.org/x/crypto/blake2b"
)

// DefaultTopUpAttempts bounds the fallback top-up rounds per page.
const DefaultTopUpAttempts = 4

const cacheKeyPrefix = "feed:v1:"

// BatchCache serves candidate batches by key with single-flight generation.
type BatchCache interface {
	GetOrGenerate(ctx context.Context, key string, ttl time.Duration, generate cache.GenerateFunc) (domain.Batch, cache.Lookup, error)
}

// SeenTracker remembers which snippets each viewer has been served.
type SeenTracker interface {
	Filter(viewerKey string, candidates []string) ([]string, int)
	Record(viewerKey string, accepted []string)
	Recorded(viewerKey string) uint64
}

// ContentLibrary produces deterministic content when the provider cannot.
type ContentLibrary interface {
	Generate(topic string, count int, wantOptions bool, salt string) ([]string, []domain.SubTopicOption)
	Options(topic string) []domain.SubTopicOption
}

// Config holds the tunables of the orchestrator.
type Config struct {
	// ProviderTimeout bounds each provider call; zero uses the adapter default.
	ProviderTimeout time.Duration

	// CacheTTL is how long generated batches are served from the cache.
	CacheTTL time.Duration

	// TopUpAttempts bounds the fallback rounds used to fill a short page.
	TopUpAttempts int
}

// Option configures optional collaborators of a Service.
type Option func(*Service)

// WithPopularity counts requested topics in counter.
func WithPopularity(counter popularity.Counter) Option {
	return func(s *Service) { s.popularity = counter }
}

// WithMetrics records page outcomes in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// Service is the generation orchestrator.
type Service struct {
	provider   generation.Provider
	batches    BatchCache
	seen       SeenTracker
	library    ContentLibrary
	prompts    *PromptBuilder
	popularity popularity.Counter
	metrics    *metrics.Metrics
	config     Config
	logger     *slog.Logger
}

// NewService creates the orchestrator. All positional dependencies are required.
func NewService(
	provider generation.Provider,
	batches BatchCache,
	seen SeenTracker,
	library ContentLibrary,
	prompts *PromptBuilder,
	config Config,
	logger *slog.Logger,
	opts ...Option,
) (*Service, error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: provider cannot be nil", ErrInvalidDependency)
	}
	if batches == nil {
		return nil, fmt.Errorf("%w: batch cache cannot be nil", ErrInvalidDependency)
	}
	if seen == nil {
		return nil, fmt.Errorf("%w: seen tracker cannot be nil", ErrInvalidDependency)
	}
	if library == nil {
		return nil, fmt.Errorf("%w: content library cannot be nil", ErrInvalidDependency)
	}
	if prompts == nil {
		return nil, fmt.Errorf("%w: prompt builder cannot be nil", ErrInvalidDependency)
	}
	if logger == nil {
		return nil, fmt.Errorf("%w: logger cannot be nil", ErrInvalidDependency)
	}

	if config.CacheTTL <= 0 {
		config.CacheTTL = cache.DefaultTTL
	}
	if config.TopUpAttempts <= 0 {
		config.TopUpAttempts = DefaultTopUpAttempts
	}

	s := &Service{
		provider: provider,
		batches:  batches,
		seen:     seen,
		library:  library,
		prompts:  prompts,
		config:   config,
		logger:   logger.With("component", "feed_service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Generate returns the next page of snippets for req.
func (s *Service) Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error) {
	if err := req.Validate(); err != nil {
		return domain.GenerationResult{}, err
	}
	cursor, err := DecodeCursor(req.Cursor)
	if err != nil {
		return domain.GenerationResult{}, err
	}

	topic := strings.Join(strings.Fields(req.Topic), " ")
	normalized := domain.NormalizeTopic(topic)
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		"topic", topic,
		"viewer", ViewerHash(req.ViewerKey),
		"page", cursor.Page,
	)

	key := CacheKey(normalized, req.Count, req.Cursor, req.GenerateOptions)
	batch, lookup, err := s.batches.GetOrGenerate(ctx, key, s.config.CacheTTL, func(genCtx context.Context) (domain.Batch, error) {
		return s.generateBatch(genCtx, topic, req, cursor)
	})

	source := domain.SourceProvider
	fallbackCount := 0
	fromFallback := false
	switch {
	case err != nil && ctx.Err() != nil:
		return domain.GenerationResult{}, ctx.Err()
	case err != nil:
		log.WarnContext(ctx, "generation failed, serving fallback content",
			"failure_kind", generation.Kind(err),
			"error", redact.Error(err))
		snippets, options := s.library.Generate(topic, req.Count, req.GenerateOptions, pageSalt(cursor.Page))
		batch = domain.Batch{Snippets: snippets, Options: options}
		source = domain.SourceFallback
		fromFallback = true
	case lookup == cache.LookupHit:
		source = domain.SourceCache
	}
	s.metrics.CacheLookup(lookup.String())

	accepted, duplicates := s.seen.Filter(req.ViewerKey, batch.Snippets)
	exhausted := len(batch.Snippets) > 0 && duplicates == len(batch.Snippets)
	if exhausted {
		log.WarnContext(ctx, "candidate batch exhausted for viewer",
			"error", ErrAllDuplicates,
			"candidates", len(batch.Snippets))
	}
	if len(accepted) > req.Count {
		accepted = accepted[:req.Count]
	}
	if fromFallback {
		fallbackCount = len(accepted)
	}

	accepted, topped := s.topUp(topic, req, cursor, accepted)
	fallbackCount += topped
	if len(accepted) < req.Count {
		log.WarnContext(ctx, "page short after fallback top-up",
			"wanted", req.Count,
			"served", len(accepted))
	}

	var options []domain.SubTopicOption
	if req.GenerateOptions {
		options = batch.Options
		if len(options) == 0 {
			options = s.library.Options(topic)
		}
		if len(options) > domain.MaxOptions {
			options = options[:domain.MaxOptions]
		}
		options = append([]domain.SubTopicOption(nil), options...)
	}

	s.seen.Record(req.ViewerKey, accepted)

	next := Cursor{Page: nextPage(cursor.Page), Last: cursor.Last}
	if len(accepted) > 0 {
		next.Last = accepted[len(accepted)-1]
	}

	if s.popularity != nil && cursor.Page == 0 {
		if err := s.popularity.Increment(ctx, normalized); err != nil {
			log.DebugContext(ctx, "failed to count topic", "error", redact.Error(err))
		}
	}

	s.metrics.FeedServed(source, fallbackCount, duplicates, exhausted)
	log.InfoContext(ctx, "feed page served",
		"source", source,
		"cache", lookup.String(),
		"served", len(accepted),
		"duplicates", duplicates,
		"fallback_snippets", fallbackCount)

	return domain.GenerationResult{
		Snippets:      accepted,
		Options:       options,
		NextCursor:    next.Encode(),
		Source:        source,
		FallbackCount: fallbackCount,
	}, nil
}

// generateBatch runs inside the cache flight. Its errors are not cached.
func (s *Service) generateBatch(
	ctx context.Context,
	topic string,
	req domain.GenerationRequest,
	cursor Cursor,
) (domain.Batch, error) {
	prompt, err := s.prompts.Build(PromptData{
		Topic:          topic,
		Count:          req.Count,
		Page:           cursor.Page,
		Previous:       cursor.Last,
		IncludeOptions: req.GenerateOptions,
		MaxOptions:     domain.MaxOptions,
	})
	if err != nil {
		return domain.Batch{}, err
	}

	raw, err := s.provider.Complete(generation.WithTopic(ctx, topic), prompt, s.config.ProviderTimeout)
	if err != nil {
		return domain.Batch{}, err
	}

	cards, options, err := generation.Parse(raw, req.Count)
	if err != nil {
		return domain.Batch{}, err
	}
	if len(cards) == 0 {
		return domain.Batch{}, ErrEmptyBatch
	}
	if !req.GenerateOptions {
		options = nil
	}
	return domain.Batch{Snippets: cards, Options: options}, nil
}

// topUp fills accepted up to req.Count with fallback snippets the viewer has
// not seen. It returns the page and the number of snippets added.
func (s *Service) topUp(
	topic string,
	req domain.GenerationRequest,
	cursor Cursor,
	accepted []string,
) ([]string, int) {
	if len(accepted) >= req.Count {
		return accepted, 0
	}

	taken := make(map[string]struct{}, req.Count)
	for _, snippet := range accepted {
		taken[domain.Fingerprint(snippet)] = struct{}{}
	}

	// The record count moves on with every served page and never saturates,
	// so repeated requests for the same cursor draw different fallback content.
	records := s.seen.Recorded(req.ViewerKey)
	added := 0
	for attempt := 1; attempt <= s.config.TopUpAttempts && len(accepted) < req.Count; attempt++ {
		need := req.Count - len(accepted)
		extra, _ := s.library.Generate(topic, need, false, topUpSalt(cursor.Page, records, attempt))

		candidates := extra[:0]
		for _, snippet := range extra {
			if _, ok := taken[domain.Fingerprint(snippet)]; !ok {
				candidates = append(candidates, snippet)
			}
		}

		fresh, _ := s.seen.Filter(req.ViewerKey, candidates)
		if len(fresh) > need {
			fresh = fresh[:need]
		}
		for _, snippet := range fresh {
			taken[domain.Fingerprint(snippet)] = struct{}{}
		}
		accepted = append(accepted, fresh...)
		added += len(fresh)
	}
	return accepted, added
}

// CacheKey derives the batch cache key. It never includes the viewer.
func CacheKey(normalizedTopic string, count int, cursor string, withOptions bool) string {
	var b strings.Builder
	b.WriteString(cacheKeyPrefix)
	b.WriteString(normalizedTopic)
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(count))
	b.WriteByte('|')
	if cursor != "" {
		sum := blake2b.Sum256([]byte(cursor))
		b.WriteString(hex.EncodeToString(sum[:16]))
	}
	b.WriteByte('|')
	b.WriteString(strconv.FormatBool(withOptions))
	return b.String()
}

// ViewerHash is the log-safe identity of a viewer key.
func ViewerHash(viewerKey string) string {
	sum := blake2b.Sum256([]byte(viewerKey))
	return hex.EncodeToString(sum[:6])
}

func pageSalt(page int) string {
	return "p" + strconv.Itoa(page)
}

func topUpSalt(page int, records uint64, attempt int) string {
	return fmt.Sprintf("p%d.r%d.a%d", page, records, attempt)
}

// IsBadRequest reports whether err is a request validation failure.
func IsBadRequest(err error) bool {
	return errors.Is(err, domain.ErrBadRequest)
}
