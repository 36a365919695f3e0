// Package testutil holds shared helpers for package tests.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/clinicoutcomes/internal/app/system/indexes"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	// TestDBURI is where the Mongo-backed store and seeding tests connect.
	TestDBURI = "mongodb://localhost:27017"
	// TestDBName prefixes each per-test database.
	TestDBName = "clinicoutcomes_test"
)

var (
	clientOnce sync.Once
	client     *mongo.Client
	clientErr  error
)

// getClient connects once and pings, so a missing server is detected up
// front and every Mongo test skips instead of timing out on its own.
func getClient() (*mongo.Client, error) {
	clientOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		client, clientErr = mongo.Connect(ctx, options.Client().
			ApplyURI(TestDBURI).
			SetMaxPoolSize(20).
			SetServerSelectionTimeout(5*time.Second))
		if clientErr != nil {
			return
		}
		clientErr = client.Ping(ctx, nil)
	})
	return client, clientErr
}

// SetupTestDB returns an empty database named after the test, with the
// outcomes indexes in place. It is dropped again on cleanup. The test is
// skipped in -short mode or when no server answers at TestDBURI.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping MongoDB test in -short mode")
	}
	client, err := getClient()
	if err != nil {
		t.Skipf("MongoDB not available at %s: %v", TestDBURI, err)
	}

	dbName := fmt.Sprintf("%s_%s", TestDBName, sanitizeTestName(t.Name()))
	db := client.Database(dbName)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Drop(ctx); err != nil {
		t.Fatalf("failed to drop test database: %v", err)
	}

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("failed to create indexes: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.Drop(ctx); err != nil {
			t.Logf("warning: failed to drop test database on cleanup: %v", err)
		}
	})

	return db
}

// sanitizeTestName maps a test name onto the characters Mongo accepts in a
// database name. The result is capped at 43 bytes so that, with the
// "clinicoutcomes_test_" prefix, the name stays within Mongo's 63.
func sanitizeTestName(name string) string {
	const maxLen = 43
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name) && len(out) < maxLen; i++ {
		switch c := name[i]; {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
			out = append(out, c)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}

// TestContext bounds a Mongo test's operations.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
