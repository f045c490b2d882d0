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

package store

import (
	"context"
	"fmt"

	auditModel "github.com/pjdagdal/member-data-service/internal/audit/model"
	"github.com/pjdagdal/member-data-service/internal/member/model"
	"github.com/pjdagdal/member-data-service/internal/system/config"
	"github.com/pjdagdal/member-data-service/internal/system/database/provider"
	"github.com/pjdagdal/member-data-service/internal/system/database/scripts"
	"github.com/pjdagdal/member-data-service/internal/system/log"
)

// MemberStore persists member records. Listing methods return records in insertion order.
type MemberStore interface {
	// Insert writes a new member. Id and timestamps are assigned when empty.
	Insert(ctx context.Context, member *model.Member) error
	FindAll(ctx context.Context) ([]model.Member, error)
	// FindById returns nil without an error when no member has the given id.
	FindById(ctx context.Context, id string) (*model.Member, error)
	FindWithoutMembershipId(ctx context.Context) ([]model.Member, error)
	List(ctx context.Context, limit, offset int) ([]model.Member, error)
	// UpdateFields sets the named fields (see model.Field*) and bumps UpdatedAt.
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
	Ping(ctx context.Context) error
}

// CounterStore holds named monotonic sequences.
type CounterStore interface {
	// Increment atomically creates the counter at 1 or adds one to it and returns the new value.
	Increment(ctx context.Context, name string) (int64, error)
	// Current returns the counter value without changing it, 0 when the counter does not exist.
	Current(ctx context.Context, name string) (int64, error)
}

// AuditStore persists audit entries.
type AuditStore interface {
	InsertAuditLog(ctx context.Context, entry auditModel.AuditLog) error
	// ListAuditLogs returns matching entries newest first, skipping skip entries and returning at most limit.
	ListAuditLogs(ctx context.Context, filter auditModel.AuditLogFilter, limit, skip int) ([]auditModel.AuditLog, error)
}

// Stores groups the stores of one backend.
type Stores struct {
	Members  MemberStore
	Counters CounterStore
	Audit    AuditStore
}

const (
	BackendMongo    = "mongodb"
	BackendPostgres = "postgres"
)

// NewStores builds the stores for the configured datasource type.
func NewStores(ctx context.Context, ds config.DataSourceConfig, dbProvider provider.DBProviderInterface) (*Stores, error) {

	logger := log.GetLogger()
	switch ds.Type {
	case BackendMongo, "":
		db, err := dbProvider.GetMongoDatabase(ctx)
		if err != nil {
			return nil, err
		}
		if err := EnsureMongoIndexes(ctx, db); err != nil {
			return nil, err
		}
		logger.Info("Using MongoDB member store", log.String("database", db.Name()))
		return &Stores{
			Members:  NewMongoMemberStore(db),
			Counters: NewMongoCounterStore(db),
			Audit:    NewMongoAuditStore(db),
		}, nil
	case BackendPostgres:
		dbClient, err := dbProvider.GetDBClient()
		if err != nil {
			return nil, err
		}
		if err := dbClient.InitSchema(ctx, scripts.Schema); err != nil {
			return nil, err
		}
		logger.Info("Using PostgreSQL member store")
		return &Stores{
			Members:  NewPostgresMemberStore(dbClient),
			Counters: NewPostgresCounterStore(dbClient),
			Audit:    NewPostgresAuditStore(dbClient),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported datasource type: %s", ds.Type)
	}
}
