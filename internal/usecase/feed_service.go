package usecase

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/feedlink/backend/internal/domain"
	"github.com/feedlink/backend/internal/infrastructure/export"
	"go.uber.org/zap"
)

// UploadSourceName labels conversions of documents supplied directly
const UploadSourceName = "Uploaded XML"

// FeedService fetches and converts supplier feeds
type FeedService struct {
	fetcher domain.FeedFetcher
	parser  domain.FeedParser
	sources map[string]domain.FeedSource
	logger  *zap.Logger
}

// NewFeedService creates a new feed service over the configured sources
func NewFeedService(
	fetcher domain.FeedFetcher,
	parser domain.FeedParser,
	sources []domain.FeedSource,
	logger *zap.Logger,
) *FeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	byKey := make(map[string]domain.FeedSource, len(sources))
	for _, src := range sources {
		byKey[src.Key] = src
	}
	return &FeedService{
		fetcher: fetcher,
		parser:  parser,
		sources: byKey,
		logger:  logger,
	}
}

// Sources returns the configured feed sources ordered by key
func (s *FeedService) Sources() []domain.FeedSource {
	sources := make([]domain.FeedSource, 0, len(s.sources))
	for _, src := range s.sources {
		sources = append(sources, src)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].Key < sources[j].Key })
	return sources
}

// Source looks up one configured feed source
func (s *FeedService) Source(key string) (domain.FeedSource, error) {
	src, ok := s.sources[key]
	if !ok {
		return domain.FeedSource{}, fmt.Errorf("%w: %q", domain.ErrUnknownSource, key)
	}
	return src, nil
}

// ConvertSource downloads a configured feed and parses it with the source's dialect.
// Flow: lookup source -> fetch -> parse
func (s *FeedService) ConvertSource(ctx context.Context, key string) (*domain.FeedConversion, error) {
	src, err := s.Source(key)
	if err != nil {
		return nil, err
	}

	data, err := s.fetcher.Fetch(ctx, src.URL)
	if err != nil {
		return nil, err
	}

	products, err := s.parser.Parse(src.Dialect, data)
	if err != nil {
		s.logger.Warn("feed parse failed", zap.String("source", key), zap.Error(err))
		return nil, err
	}

	s.logger.Info("feed converted",
		zap.String("source", key),
		zap.Stringer("dialect", src.Dialect),
		zap.Int("products", len(products)),
	)
	return &domain.FeedConversion{Source: src.Name, Dialect: src.Dialect, Products: products}, nil
}

// ConvertDocument detects the dialect of a supplied document and parses it
func (s *FeedService) ConvertDocument(data []byte) (*domain.FeedConversion, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty document", domain.ErrInvalidRequest)
	}

	dialect, products, err := s.parser.ParseAuto(data)
	if err != nil {
		s.logger.Warn("uploaded document rejected", zap.Error(err))
		return nil, err
	}

	s.logger.Info("uploaded document converted",
		zap.String("detected", dialect.Label()),
		zap.Int("products", len(products)),
	)
	return &domain.FeedConversion{Source: UploadSourceName, Dialect: dialect, Products: products}, nil
}

// Export writes products to w as a CSV or XLSX file
func (s *FeedService) Export(w io.Writer, format export.Format, products []domain.NormalizedProduct) error {
	if err := export.Write(w, format, products); err != nil {
		s.logger.Error("export failed", zap.String("format", string(format)), zap.Error(err))
		return err
	}
	return nil
}
