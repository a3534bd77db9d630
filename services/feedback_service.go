package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"medmind-server/cache"
	"medmind-server/metrics"
	"medmind-server/models"
	"medmind-server/repository"
	"medmind-server/validation"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100

	// MaxPage keeps the skip offset of the last page within an int.
	MaxPage = math.MaxInt32 / MaxPageLimit
)

// FeedbackPublisher receives every stored feedback record.
type FeedbackPublisher interface {
	PublishFeedback(f *models.Feedback)
}

// RequestMeta is the best-effort request metadata kept with a submission.
type RequestMeta struct {
	UserAgent string
	IPAddress string
}

// ListQuery is the raw paging request; zero values select the defaults.
type ListQuery struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// Pagination describes the page returned by List.
type Pagination struct {
	Current int   `json:"current"`
	Limit   int   `json:"limit"`
	Pages   int64 `json:"pages"`
	Total   int64 `json:"total"`
}

// FeedbackPage is one page of feedback.
type FeedbackPage struct {
	Data       []models.Feedback `json:"data"`
	Pagination Pagination        `json:"pagination"`
}

// FeedbackService accepts, lists and summarizes feedback.
type FeedbackService struct {
	store     repository.FeedbackStore
	cache     cache.AnalyticsCache
	publisher FeedbackPublisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewFeedbackService builds the service. A nil cache disables caching and a
// nil publisher disables the live feed.
func NewFeedbackService(store repository.FeedbackStore, c cache.AnalyticsCache, publisher FeedbackPublisher, logger *slog.Logger, m *metrics.Metrics) *FeedbackService {
	if c == nil {
		c = cache.Noop{}
	}
	return &FeedbackService{
		store:     store,
		cache:     c,
		publisher: publisher,
		logger:    logger,
		metrics:   m,
		now:       time.Now,
	}
}

// Submit validates and stores one feedback record and returns it.
func (s *FeedbackService) Submit(ctx context.Context, in validation.FeedbackInput, meta RequestMeta) (*models.Feedback, error) {
	if missing := in.MissingFields(); len(missing) > 0 {
		return nil, validation.Missing("Rating and message are required", missing...)
	}
	in.Normalize()
	if err := validation.ValidateFeedback(&in).Err(); err != nil {
		return nil, err
	}

	feedback := &models.Feedback{
		ID:           uuid.NewString(),
		Rating:       in.Rating.Value,
		Emotions:     in.EmotionTags(),
		EaseOfUse:    in.EaseOfUse.Value,
		Message:      in.Message,
		Name:         in.Name,
		Email:        in.Email,
		WantsUpdates: in.WantsUpdates,
		Category:     models.Category(in.Category),
		UserAgent:    truncate(meta.UserAgent, 500),
		IPAddress:    truncate(meta.IPAddress, 45),
		CreatedAt:    s.now().UTC(),
	}

	if err := s.store.CreateFeedback(ctx, feedback); err != nil {
		return nil, fmt.Errorf("create feedback: %w", err)
	}

	s.cache.Invalidate(ctx)
	if s.publisher != nil {
		s.publisher.PublishFeedback(feedback)
	}
	s.metrics.FeedbackSubmitted(string(feedback.Category))
	s.logger.Info("feedback submitted",
		"feedback_id", feedback.ID,
		"rating", feedback.Rating,
		"category", feedback.Category,
	)
	return feedback, nil
}

// List returns one page of feedback. Out-of-range paging values are clamped.
func (s *FeedbackService) List(ctx context.Context, q ListQuery) (*FeedbackPage, error) {
	opts := ListOptionsFrom(q)

	total, err := s.store.CountFeedback(ctx)
	if err != nil {
		return nil, fmt.Errorf("count feedback: %w", err)
	}
	items, err := s.store.ListFeedback(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	if items == nil {
		items = []models.Feedback{}
	}

	return &FeedbackPage{
		Data: items,
		Pagination: Pagination{
			Current: opts.Page,
			Limit:   opts.Limit,
			Pages:   (total + int64(opts.Limit) - 1) / int64(opts.Limit),
			Total:   total,
		},
	}, nil
}

// ListOptionsFrom applies paging defaults and bounds.
func ListOptionsFrom(q ListQuery) repository.ListOptions {
	page := q.Page
	switch {
	case page < 1:
		page = 1
	case page > MaxPage:
		page = MaxPage
	}
	limit := q.Limit
	switch {
	case limit <= 0:
		limit = DefaultPageLimit
	case limit > MaxPageLimit:
		limit = MaxPageLimit
	}
	return repository.ListOptions{
		Page:       page,
		Limit:      limit,
		SortBy:     repository.ParseSortField(q.SortBy),
		Descending: q.SortOrder != "asc",
	}
}

// Analytics returns the aggregate report, served from cache when fresh.
func (s *FeedbackService) Analytics(ctx context.Context) (*models.FeedbackAnalytics, error) {
	cached, version, ok := s.cache.Get(ctx)
	if ok {
		return cached, nil
	}

	report, err := s.store.FeedbackAnalytics(ctx)
	if err != nil {
		return nil, fmt.Errorf("feedback analytics: %w", err)
	}
	// dropped by the cache if a submission invalidated it meanwhile
	s.cache.Set(ctx, report, version)
	return report, nil
}

// truncate cuts s to at most max bytes without splitting a UTF-8 sequence.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
