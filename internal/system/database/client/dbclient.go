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

package client

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	"github.com/pjdagdal/member-data-service/internal/system/log"
)

// DBClientInterface defines the interface for relational database operations.
type DBClientInterface interface {
	ExecuteQuery(ctx context.Context, query string, args ...interface{}) ([]map[string]interface{}, error)
	Execute(ctx context.Context, query string, args ...interface{}) (int64, error)
	BeginTx(ctx context.Context) (*sql.Tx, error)
	Ping(ctx context.Context) error
	InitSchema(ctx context.Context, statements []string) error
	Close() error
}

// DBClient is the implementation of DBClientInterface.
type DBClient struct {
	db     *sql.DB
	shared bool
}

// NewDBClient creates a new instance of DBClient owning the provided connection pool.
func NewDBClient(db *sql.DB) DBClientInterface {

	return &DBClient{
		db: db,
	}
}

// NewSharedDBClient wraps a pool owned by someone else. Close leaves the pool open.
func NewSharedDBClient(db *sql.DB) DBClientInterface {

	return &DBClient{
		db:     db,
		shared: true,
	}
}

// InitSchema executes the given DDL statements in order.
func (client *DBClient) InitSchema(ctx context.Context, statements []string) error {

	for _, statement := range statements {
		if _, err := client.db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("failed to execute schema: %w", err)
		}
	}
	log.GetLogger().Info("Database schema created successfully")
	return nil
}

// ExecuteQuery executes a SELECT (or RETURNING) query and returns the rows as a slice of maps.
func (client *DBClient) ExecuteQuery(ctx context.Context, query string, args ...interface{}) ([]map[string]interface{}, error) {

	rows, err := client.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var results []map[string]interface{}
	for rows.Next() {
		row := make([]interface{}, len(columns))
		rowPointers := make([]interface{}, len(columns))
		for i := range row {
			rowPointers[i] = &row[i]
		}

		if err := rows.Scan(rowPointers...); err != nil {
			return nil, err
		}

		result := map[string]interface{}{}
		for i, col := range columns {
			result[strings.ToLower(col)] = row[i]
		}
		results = append(results, result)
	}

	return results, rows.Err()
}

// Execute runs a statement that returns no rows and reports the affected row count.
func (client *DBClient) Execute(ctx context.Context, query string, args ...interface{}) (int64, error) {

	res, err := client.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// BeginTx starts a new database transaction.
func (client *DBClient) BeginTx(ctx context.Context) (*sql.Tx, error) {

	return client.db.BeginTx(ctx, nil)
}

// Ping verifies the connection to the database.
func (client *DBClient) Ping(ctx context.Context) error {

	return client.db.PingContext(ctx)
}

// Close closes the database connection unless the pool is shared.
func (client *DBClient) Close() error {
	if client.shared {
		return nil
	}
	return client.db.Close()
}
