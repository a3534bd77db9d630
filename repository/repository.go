package repository

import (
	"context"
	"errors"
	"math"
	"time"

	"medmind-server/models"
)

var (
	// ErrNotFound indicates an entity was not located.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicateEmail is returned when a user with the same email exists.
	ErrDuplicateEmail = errors.New("repository: duplicate email")
)

// UserStore persists users.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

// FeedbackStore persists append-only feedback and computes aggregates.
type FeedbackStore interface {
	CreateFeedback(ctx context.Context, feedback *models.Feedback) error
	ListFeedback(ctx context.Context, opts ListOptions) ([]models.Feedback, error)
	CountFeedback(ctx context.Context) (int64, error)
	FeedbackAnalytics(ctx context.Context) (*models.FeedbackAnalytics, error)
}

// Pinger reports store reachability for health checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Store bundles everything a backend provides.
type Store interface {
	UserStore
	FeedbackStore
	Pinger
	Close(ctx context.Context) error
}

type SortField string

const (
	SortByCreatedAt SortField = "createdAt"
	SortByRating    SortField = "rating"
	SortByEaseOfUse SortField = "easeOfUse"
)

// ParseSortField maps a query value to a sort field, defaulting to createdAt.
func ParseSortField(s string) SortField {
	switch SortField(s) {
	case SortByRating, SortByEaseOfUse:
		return SortField(s)
	default:
		return SortByCreatedAt
	}
}

// ListOptions describes one page of feedback.
type ListOptions struct {
	Page       int
	Limit      int
	SortBy     SortField
	Descending bool
}

// Skip returns the number of records before the requested page. It
// saturates instead of overflowing.
func (o ListOptions) Skip() int {
	if o.Page < 1 || o.Limit < 1 {
		return 0
	}
	if o.Page-1 > math.MaxInt/o.Limit {
		return math.MaxInt
	}
	return (o.Page - 1) * o.Limit
}
