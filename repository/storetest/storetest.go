// Package storetest holds behaviour checks shared by every repository.Store
// implementation.
package storetest

import (
	"context"
	"errors"
	"math"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"medmind-server/models"
	"medmind-server/repository"
)

// Factory returns an empty store. Cleanup is the caller's job (t.Cleanup).
type Factory func(t *testing.T) repository.Store

// Run executes the shared suite against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("UserRoundTrip", func(t *testing.T) { testUserRoundTrip(t, newStore(t)) })
	t.Run("DuplicateEmail", func(t *testing.T) { testDuplicateEmail(t, newStore(t)) })
	t.Run("UpdateLastLogin", func(t *testing.T) { testUpdateLastLogin(t, newStore(t)) })
	t.Run("ListEmpty", func(t *testing.T) { testListEmpty(t, newStore(t)) })
	t.Run("ListPagingAndSorting", func(t *testing.T) { testListPagingAndSorting(t, newStore(t)) })
	t.Run("AnalyticsEmpty", func(t *testing.T) { testAnalyticsEmpty(t, newStore(t)) })
	t.Run("Analytics", func(t *testing.T) { testAnalytics(t, newStore(t)) })
}

// NewUser builds a user with a fresh id.
func NewUser(email string) *models.User {
	return &models.User{
		ID:           uuid.NewString(),
		FullName:     "Test User",
		Email:        email,
		PasswordHash: "$2a$04$notarealhashbutlongenoughforthecolumn",
		IsActive:     true,
	}
}

// NewFeedback builds a valid feedback record with a fresh id.
func NewFeedback(rating int, emotions ...models.Emotion) *models.Feedback {
	if emotions == nil {
		emotions = []models.Emotion{}
	}
	return &models.Feedback{
		ID:        uuid.NewString(),
		Rating:    rating,
		Emotions:  emotions,
		EaseOfUse: models.DefaultEaseOfUse,
		Message:   "feedback",
		Category:  models.CategoryGeneral,
		UserAgent: "storetest",
		IPAddress: "127.0.0.1",
	}
}

func testUserRoundTrip(t *testing.T, store repository.Store) {
	ctx := context.Background()
	age := 30
	user := NewUser("round@trip.test")
	user.Age = &age
	user.Gender = models.GenderOther

	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	byEmail, err := store.GetUserByEmail(ctx, "round@trip.test")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if byEmail.ID != user.ID || byEmail.PasswordHash != user.PasswordHash {
		t.Fatalf("unexpected user %+v", byEmail)
	}
	if byEmail.Age == nil || *byEmail.Age != 30 || byEmail.Gender != models.GenderOther {
		t.Fatalf("optional fields lost: %+v", byEmail)
	}
	if !byEmail.IsActive {
		t.Fatalf("expected active user")
	}

	byID, err := store.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID.Email != user.Email {
		t.Fatalf("expected %s, got %s", user.Email, byID.Email)
	}

	if _, err := store.GetUserByID(ctx, uuid.NewString()); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.GetUserByEmail(ctx, "missing@trip.test"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func testDuplicateEmail(t *testing.T, store repository.Store) {
	ctx := context.Background()
	if err := store.CreateUser(ctx, NewUser("dup@trip.test")); err != nil {
		t.Fatalf("create user: %v", err)
	}
	err := store.CreateUser(ctx, NewUser("dup@trip.test"))
	if !errors.Is(err, repository.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func testUpdateLastLogin(t *testing.T, store repository.Store) {
	ctx := context.Background()
	user := NewUser("login@trip.test")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	at := time.Now().UTC().Truncate(time.Second)
	if err := store.UpdateLastLogin(ctx, user.ID, at); err != nil {
		t.Fatalf("update last login: %v", err)
	}
	got, err := store.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got.LastLogin == nil || !got.LastLogin.Equal(at) {
		t.Fatalf("expected last login %v, got %v", at, got.LastLogin)
	}

	if err := store.UpdateLastLogin(ctx, uuid.NewString(), at); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}
}

func testListEmpty(t *testing.T, store repository.Store) {
	ctx := context.Background()
	items, err := store.ListFeedback(ctx, repository.ListOptions{Page: 1, Limit: 10, SortBy: repository.SortByCreatedAt, Descending: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty list, got %d", len(items))
	}
	total, err := store.CountFeedback(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != 0 {
		t.Fatalf("expected 0, got %d", total)
	}
}

func testListPagingAndSorting(t *testing.T, store repository.Store) {
	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
	for i, rating := range []int{3, 1, 5, 2, 4} {
		fb := NewFeedback(rating, models.EmotionHappy)
		fb.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := store.CreateFeedback(ctx, fb); err != nil {
			t.Fatalf("create feedback: %v", err)
		}
	}

	total, err := store.CountFeedback(ctx)
	if err != nil || total != 5 {
		t.Fatalf("expected 5 records, got %d (%v)", total, err)
	}

	newest, err := store.ListFeedback(ctx, repository.ListOptions{Page: 1, Limit: 2, SortBy: repository.SortByCreatedAt, Descending: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(newest) != 2 || newest[0].Rating != 4 || newest[1].Rating != 2 {
		t.Fatalf("unexpected newest page %+v", newest)
	}
	for _, fb := range newest {
		if fb.UserAgent != "" || fb.IPAddress != "" {
			t.Fatalf("request metadata leaked: %+v", fb)
		}
		if len(fb.Emotions) != 1 || fb.Emotions[0] != models.EmotionHappy {
			t.Fatalf("emotions lost: %+v", fb.Emotions)
		}
	}

	last, err := store.ListFeedback(ctx, repository.ListOptions{Page: 3, Limit: 2, SortBy: repository.SortByCreatedAt, Descending: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(last) != 1 || last[0].Rating != 3 {
		t.Fatalf("unexpected last page %+v", last)
	}

	byRating, err := store.ListFeedback(ctx, repository.ListOptions{Page: 1, Limit: 5, SortBy: repository.SortByRating})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for i, fb := range byRating {
		if fb.Rating != i+1 {
			t.Fatalf("expected ascending ratings, got %+v", byRating)
		}
	}
}

func testAnalyticsEmpty(t *testing.T, store repository.Store) {
	report, err := store.FeedbackAnalytics(context.Background())
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	if report.Analytics.TotalFeedbacks != 0 || len(report.Analytics.RatingDistribution) != 0 {
		t.Fatalf("expected empty summary, got %+v", report.Analytics)
	}
	if len(report.EmotionStats) != 0 || len(report.CategoryStats) != 0 {
		t.Fatalf("expected no stats, got %+v", report)
	}
}

func testAnalytics(t *testing.T, store repository.Store) {
	ctx := context.Background()
	records := []*models.Feedback{
		NewFeedback(5, models.EmotionHappy, models.EmotionConfused),
		NewFeedback(5, models.EmotionHappy),
		NewFeedback(3),
	}
	records[0].EaseOfUse = 5
	records[1].EaseOfUse = 4
	records[2].Category = models.CategoryBugReport
	for _, fb := range records {
		if err := store.CreateFeedback(ctx, fb); err != nil {
			t.Fatalf("create feedback: %v", err)
		}
	}

	report, err := store.FeedbackAnalytics(ctx)
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}

	summary := report.Analytics
	if summary.TotalFeedbacks != 3 {
		t.Fatalf("expected 3 feedbacks, got %d", summary.TotalFeedbacks)
	}
	if math.Abs(summary.AverageRating-13.0/3.0) > 1e-9 {
		t.Fatalf("expected average 13/3, got %v", summary.AverageRating)
	}
	if math.Abs(summary.AverageEaseOfUse-4) > 1e-9 {
		t.Fatalf("expected ease of use 4, got %v", summary.AverageEaseOfUse)
	}
	dist := append([]int(nil), summary.RatingDistribution...)
	sort.Ints(dist)
	if len(dist) != 3 || dist[0] != 3 || dist[1] != 5 || dist[2] != 5 {
		t.Fatalf("expected distribution {3,5,5}, got %v", summary.RatingDistribution)
	}

	if len(report.EmotionStats) != 2 {
		t.Fatalf("expected 2 emotion stats, got %+v", report.EmotionStats)
	}
	if report.EmotionStats[0].Emotion != models.EmotionHappy || report.EmotionStats[0].Count != 2 {
		t.Fatalf("expected happy=2 first, got %+v", report.EmotionStats)
	}
	if report.EmotionStats[1].Emotion != models.EmotionConfused || report.EmotionStats[1].Count != 1 {
		t.Fatalf("expected confused=1 second, got %+v", report.EmotionStats)
	}

	if len(report.CategoryStats) != 2 {
		t.Fatalf("expected 2 category stats, got %+v", report.CategoryStats)
	}
	general := report.CategoryStats[0]
	if general.Category != models.CategoryGeneral || general.Count != 2 || math.Abs(general.AverageRating-5) > 1e-9 {
		t.Fatalf("unexpected general stat %+v", general)
	}
	bugs := report.CategoryStats[1]
	if bugs.Category != models.CategoryBugReport || bugs.Count != 1 || math.Abs(bugs.AverageRating-3) > 1e-9 {
		t.Fatalf("unexpected bug_report stat %+v", bugs)
	}
}
