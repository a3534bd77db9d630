package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"medmind-server/cache"
	"medmind-server/config"
	"medmind-server/models"
	"medmind-server/repository"
	"medmind-server/services"
	"medmind-server/validation"
)

type seeder struct {
	feedbackStore repository.FeedbackStore
	auth          *services.AuthService
	feedback      *services.FeedbackService
	logger        *slog.Logger
}

// newSeeder builds the seeder on the same services the server uses, so
// seeded accounts get the configured bcrypt cost.
func newSeeder(cfg *config.Config, store repository.Store, c cache.AnalyticsCache, logger *slog.Logger) (*seeder, error) {
	tokens, err := services.NewTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	if err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}
	return &seeder{
		feedbackStore: store,
		auth:          services.NewAuthService(store, tokens, cfg.Security.BcryptCost, logger, nil),
		feedback:      services.NewFeedbackService(store, c, nil, logger, nil),
		logger:        logger,
	}, nil
}

var sampleMessages = []string{
	"The symptom checker was easy to follow.",
	"I could not find where to update my profile.",
	"Loved the reminders feature, please keep it.",
	"The page froze after submitting the form.",
	"Would be great to export my history as PDF.",
	"Articles are clear and well written.",
}

// seedUser registers a demo account through the normal registration path.
// An existing account is left alone.
func (s *seeder) seedUser(ctx context.Context, email, password string) error {
	if password == "" {
		return errors.New("SEED_USER_PASSWORD is required with -user-email")
	}
	_, err := s.auth.Register(ctx, validation.RegisterInput{
		FullName: "Demo User",
		Email:    email,
		Password: password,
	})
	if errors.Is(err, services.ErrEmailTaken) {
		s.logger.Info("demo user already exists, skipping", "email", email)
		return nil
	}
	return err
}

// seedFeedback inserts n records unless feedback already exists. It returns
// the number of records written.
func (s *seeder) seedFeedback(ctx context.Context, n int) (int, error) {
	existing, err := s.feedbackStore.CountFeedback(ctx)
	if err != nil {
		return 0, fmt.Errorf("count feedback: %w", err)
	}
	if existing > 0 {
		s.logger.Info("feedback already exists, skipping", "count", existing)
		return 0, nil
	}

	for i := 0; i < n; i++ {
		emotions := []string{string(models.Emotions[i%len(models.Emotions)])}
		if i%3 == 0 {
			emotions = append(emotions, string(models.Emotions[(i+1)%len(models.Emotions)]))
		}
		in := validation.FeedbackInput{
			Rating:       validation.Int(i%models.MaxScore + 1),
			Emotions:     emotions,
			EaseOfUse:    validation.Int((i+2)%models.MaxScore + 1),
			Message:      sampleMessages[i%len(sampleMessages)],
			WantsUpdates: i%4 == 0,
			Category:     string(models.Categories[i%len(models.Categories)]),
		}
		if _, err := s.feedback.Submit(ctx, in, services.RequestMeta{UserAgent: "medmind-seed"}); err != nil {
			return i, fmt.Errorf("submit sample %d: %w", i, err)
		}
	}
	s.logger.Info("feedback seeded", "count", n)
	return n, nil
}
