/*
 * Copyright (c) 2025-2026, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package provider

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/pjdagdal/member-data-service/internal/system/config"
	"github.com/pjdagdal/member-data-service/internal/system/database/client"
	"github.com/pjdagdal/member-data-service/internal/system/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DBConfig represents the relational database configuration.
type DBConfig struct {
	dsn        string
	driverName string
}

// DBProviderInterface defines the interface for getting database handles.
type DBProviderInterface interface {
	GetDBClient() (client.DBClientInterface, error)
	GetMongoDatabase(ctx context.Context) (*mongo.Database, error)
}

// DBProvider is the implementation of DBProviderInterface. Connection pools are opened on first
// use and shared by every caller in the process.
type DBProvider struct{}

var (
	mu          sync.Mutex
	sharedDB    *sql.DB
	mongoClient *mongo.Client
	mongoDB     *mongo.Database
)

// NewDBProvider creates a new instance of DBProvider.
func NewDBProvider() DBProviderInterface {

	return &DBProvider{}
}

// SetTestDB installs an already opened postgres pool, bypassing the runtime configuration.
func SetTestDB(db *sql.DB) {
	mu.Lock()
	defer mu.Unlock()
	sharedDB = db
}

// SetTestMongoDatabase installs an already connected mongo database.
func SetTestMongoDatabase(db *mongo.Database) {
	mu.Lock()
	defer mu.Unlock()
	mongoDB = db
}

// GetDBClient returns a postgres client backed by the shared pool.
func (d *DBProvider) GetDBClient() (client.DBClientInterface, error) {

	mu.Lock()
	defer mu.Unlock()
	if sharedDB != nil {
		return client.NewSharedDBClient(sharedDB), nil
	}

	runtimeConfig := config.GetRuntime().Config
	dbConfig := getDBConfig(runtimeConfig)

	db, err := sql.Open(dbConfig.driverName, dbConfig.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout(runtimeConfig))
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	sharedDB = db
	log.GetLogger().Info("PostgreSQL connection pool initialized",
		log.String("host", runtimeConfig.DataSource.Hostname))
	return client.NewSharedDBClient(sharedDB), nil
}

// GetMongoDatabase returns the configured mongo database, connecting on first use.
func (d *DBProvider) GetMongoDatabase(ctx context.Context) (*mongo.Database, error) {

	mu.Lock()
	defer mu.Unlock()
	if mongoDB != nil {
		return mongoDB, nil
	}

	runtimeConfig := config.GetRuntime().Config
	ds := runtimeConfig.DataSource
	uri := ds.URI
	if uri == "" {
		uri = fmt.Sprintf("mongodb://%s:%d", ds.Hostname, ds.Port)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout(runtimeConfig))
	defer cancel()

	opts := options.Client().ApplyURI(uri).SetServerSelectionTimeout(timeout(runtimeConfig))
	if ds.Username != "" {
		opts.SetAuth(options.Credential{Username: ds.Username, Password: ds.Password})
	}
	c, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := c.Ping(ctx, readpref.Primary()); err != nil {
		_ = c.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	mongoClient = c
	mongoDB = c.Database(ds.Name)
	log.GetLogger().Info("MongoDB connection initialized", log.String("database", ds.Name))
	return mongoDB, nil
}

// CloseAll releases the shared connections.
func CloseAll(ctx context.Context) {
	mu.Lock()
	defer mu.Unlock()
	if sharedDB != nil {
		_ = sharedDB.Close()
		sharedDB = nil
	}
	if mongoClient != nil {
		_ = mongoClient.Disconnect(ctx)
		mongoClient = nil
	}
	mongoDB = nil
}

func getDBConfig(dataSource config.Config) DBConfig {

	var dbConfig DBConfig

	dbConfig.driverName = "postgres"
	dbConfig.dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dataSource.DataSource.Hostname, dataSource.DataSource.Port, dataSource.DataSource.Username,
		dataSource.DataSource.Password, dataSource.DataSource.Name, dataSource.DataSource.SSLMode)

	return dbConfig
}

func timeout(cfg config.Config) time.Duration {
	if cfg.DataSource.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(cfg.DataSource.TimeoutSeconds) * time.Second
}
