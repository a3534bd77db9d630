package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"medmind-server/models"
	"medmind-server/repository"
)

// Store implements repository.Store on gorm (postgres, sqlite).
type Store struct {
	db      *gorm.DB
	timeout time.Duration
}

var _ repository.Store = (*Store)(nil)

func New(db *gorm.DB, timeout time.Duration) *Store {
	return &Store{db: db, timeout: timeout}
}

func (s *Store) conn(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	if s.timeout <= 0 {
		ctx, cancel := context.WithCancel(ctx)
		return s.db.WithContext(ctx), cancel
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	return s.db.WithContext(ctx), cancel
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	db, cancel := s.conn(ctx)
	defer cancel()

	if err := db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, "email = ?", email)
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.findUser(ctx, "id = ?", id)
}

func (s *Store) findUser(ctx context.Context, query string, arg string) (*models.User, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var user models.User
	if err := db.Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	db, cancel := s.conn(ctx)
	defer cancel()

	res := db.Model(&models.User{}).Where("id = ?", id).Update("last_login", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *Store) CreateFeedback(ctx context.Context, feedback *models.Feedback) error {
	db, cancel := s.conn(ctx)
	defer cancel()
	return db.Create(feedback).Error
}

var sortColumns = map[repository.SortField]string{
	repository.SortByCreatedAt: "created_at",
	repository.SortByRating:    "rating",
	repository.SortByEaseOfUse: "ease_of_use",
}

// ListFeedback returns one sorted page without the request metadata.
func (s *Store) ListFeedback(ctx context.Context, opts repository.ListOptions) ([]models.Feedback, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	column, ok := sortColumns[opts.SortBy]
	if !ok {
		column = sortColumns[repository.SortByCreatedAt]
	}
	direction := "ASC"
	if opts.Descending {
		direction = "DESC"
	}

	items := make([]models.Feedback, 0, opts.Limit)
	err := db.Omit("user_agent", "ip_address").
		Order(fmt.Sprintf("%s %s, id %s", column, direction, direction)).
		Offset(opts.Skip()).
		Limit(opts.Limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountFeedback(ctx context.Context) (int64, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var total int64
	err := db.Model(&models.Feedback{}).Count(&total).Error
	return total, err
}

// FeedbackAnalytics aggregates with GROUP BY queries; emotion arrays are
// stored serialized so their tally happens after decoding.
func (s *Store) FeedbackAnalytics(ctx context.Context) (*models.FeedbackAnalytics, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	report := &models.FeedbackAnalytics{
		Analytics:     models.RatingSummary{RatingDistribution: []int{}},
		EmotionStats:  []models.EmotionStat{},
		CategoryStats: []models.CategoryStat{},
	}

	var summary struct {
		Total            int64
		AverageRating    float64
		AverageEaseOfUse float64
	}
	err := db.Model(&models.Feedback{}).
		Select("COUNT(*) AS total, COALESCE(AVG(rating), 0) AS average_rating, COALESCE(AVG(ease_of_use), 0) AS average_ease_of_use").
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	report.Analytics.TotalFeedbacks = summary.Total
	report.Analytics.AverageRating = summary.AverageRating
	report.Analytics.AverageEaseOfUse = summary.AverageEaseOfUse

	if err := db.Model(&models.Feedback{}).Pluck("rating", &report.Analytics.RatingDistribution).Error; err != nil {
		return nil, err
	}

	var tagged []models.Feedback
	if err := db.Select("id", "emotions").Find(&tagged).Error; err != nil {
		return nil, err
	}
	report.EmotionStats = tallyEmotions(tagged)

	err = db.Model(&models.Feedback{}).
		Select("category, COUNT(*) AS count, AVG(rating) AS average_rating").
		Group("category").
		Order("count DESC, category ASC").
		Scan(&report.CategoryStats).Error
	if err != nil {
		return nil, err
	}
	return report, nil
}

func tallyEmotions(items []models.Feedback) []models.EmotionStat {
	counts := make(map[models.Emotion]int64)
	for _, item := range items {
		for _, e := range item.Emotions {
			counts[e]++
		}
	}

	stats := make([]models.EmotionStat, 0, len(counts))
	for e, n := range counts {
		stats = append(stats, models.EmotionStat{Emotion: e, Count: n})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Emotion < stats[j].Emotion
	})
	return stats
}
