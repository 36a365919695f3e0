// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database and backend dependencies for this WAFFLE app.
//
// It is created in ConnectDB and passed to EnsureSchema, Startup,
// BuildHandler, and Shutdown. With data_source = "mock" both fields are nil
// and the dashboard runs entirely from the embedded fixtures.
type DBDeps struct {
	// MongoDB client and database
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
}

// HasMongo reports whether a MongoDB connection was made.
func (d DBDeps) HasMongo() bool {
	return d.MongoClient != nil && d.MongoDatabase != nil
}
