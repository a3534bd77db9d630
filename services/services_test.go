package services

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"medmind-server/config"
	"medmind-server/database"
	"medmind-server/logger"
	"medmind-server/metrics"
	"medmind-server/models"
	"medmind-server/repository"
	"medmind-server/repository/sqlstore"
)

const testSecret = "test-secret-with-enough-entropy"

type testStore struct {
	*sqlstore.Store
	db *gorm.DB
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()
	db, err := database.OpenSQL(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		URL:    ":memory:",
	}, logger.Discard())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	store := sqlstore.New(db, 5*time.Second)
	t.Cleanup(func() { store.Close(context.Background()) })
	return &testStore{Store: store, db: db}
}

func deactivate(t *testing.T, store *testStore, id string) {
	t.Helper()
	if err := store.db.Model(&models.User{}).Where("id = ?", id).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}
}

func newTestTokens(t *testing.T) *TokenService {
	t.Helper()
	tokens, err := NewTokenService(testSecret, time.Hour, "medmind-test")
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	return tokens
}

func newTestAuth(t *testing.T, users repository.UserStore) *AuthService {
	t.Helper()
	return NewAuthService(users, newTestTokens(t), bcrypt.MinCost, logger.Discard(), metrics.New())
}
