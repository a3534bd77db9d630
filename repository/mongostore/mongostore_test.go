package mongostore

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"medmind-server/config"
	"medmind-server/database"
	"medmind-server/logger"
	"medmind-server/repository"
	"medmind-server/repository/storetest"
)

// Runs only against a live server, e.g.
// MONGODB_TEST_URI=mongodb://localhost:27017 go test ./repository/mongostore
func TestMongoStore(t *testing.T) {
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}

	storetest.Run(t, func(t *testing.T) repository.Store {
		t.Helper()
		ctx := context.Background()
		conn, err := database.ConnectMongo(ctx, config.DatabaseConfig{
			MongoURI:       uri,
			MongoDatabase:  "medmind_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12],
			ConnectTimeout: 5 * time.Second,
		}, logger.Discard())
		if err != nil {
			t.Fatalf("connect: %v", err)
		}
		t.Cleanup(func() {
			_ = conn.DB.Drop(context.Background())
			_ = conn.Disconnect(context.Background())
		})
		return New(conn, 5*time.Second)
	})
}
