package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	mongoClient *mongo.Client
	mongoDB     *mongo.Database
)

// ConnectDatabase establishes a connection to MongoDB and pings it
func ConnectDatabase(cfg *Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	mongoClient = client
	mongoDB = client.Database(cfg.MongoDatabase)

	log.Println("Database connection established successfully")
	return nil
}

// DisconnectDatabase closes the MongoDB connection
func DisconnectDatabase() error {
	if mongoClient == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return mongoClient.Disconnect(ctx)
}

// GetDB returns the database instance
func GetDB() *mongo.Database {
	return mongoDB
}

// SetDB sets the database instance (primarily for testing)
func SetDB(db *mongo.Database) {
	mongoDB = db
}
