package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"medmind-server/database"
	"medmind-server/models"
	"medmind-server/repository"
)

// Store implements repository.Store on MongoDB.
type Store struct {
	conn     *database.Mongo
	users    *mongo.Collection
	feedback *mongo.Collection
	timeout  time.Duration
}

var _ repository.Store = (*Store)(nil)

// New wraps an established connection. timeout bounds every call.
func New(conn *database.Mongo, timeout time.Duration) *Store {
	return &Store{
		conn:     conn,
		users:    conn.DB.Collection(database.UsersCollection),
		feedback: conn.DB.Collection(database.FeedbackCollection),
		timeout:  timeout,
	}
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.conn.Ping(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	return s.conn.Disconnect(ctx)
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	if _, err := s.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

func (s *Store) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var user models.User
	if err := s.users.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.users.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"lastLogin": at, "updatedAt": at},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *Store) CreateFeedback(ctx context.Context, feedback *models.Feedback) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if feedback.CreatedAt.IsZero() {
		feedback.CreatedAt = time.Now().UTC()
	}
	_, err := s.feedback.InsertOne(ctx, feedback)
	return err
}

// ListFeedback returns one sorted page without the request metadata.
func (s *Store) ListFeedback(ctx context.Context, opts repository.ListOptions) ([]models.Feedback, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	direction := 1
	if opts.Descending {
		direction = -1
	}
	findOpts := options.Find().
		SetSort(bson.D{{Key: string(opts.SortBy), Value: direction}, {Key: "_id", Value: direction}}).
		SetSkip(int64(opts.Skip())).
		SetLimit(int64(opts.Limit)).
		SetProjection(bson.M{"userAgent": 0, "ipAddress": 0})

	cursor, err := s.feedback.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]models.Feedback, 0, opts.Limit)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountFeedback(ctx context.Context) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.feedback.CountDocuments(ctx, bson.M{})
}
