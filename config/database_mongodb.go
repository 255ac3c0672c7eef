package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var MongoClient *mongo.Client
var MongoDB *mongo.Database
var MongoStorageCollection *mongo.Collection

// InitMongoDB connects the client backing STORAGE_DRIVER=mongo.
func InitMongoDB() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOpts := options.Client().ApplyURI(MongoURI)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return fmt.Errorf("connect to MongoDB: %w", err)
	}

	err = client.Ping(ctx, nil)
	if err != nil {
		return fmt.Errorf("ping MongoDB: %w", err)
	}

	log.Println("✅ Connected to MongoDB")

	MongoClient = client
	MongoDB = client.Database(MongoDBName)
	MongoStorageCollection = MongoDB.Collection("portal_storage")

	return nil
}

func CloseMongoDB() error {
	if MongoClient == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return MongoClient.Disconnect(ctx)
}
