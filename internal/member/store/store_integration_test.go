//go:build integration

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
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"testing"
	"time"

	_ "github.com/lib/pq"
	auditModel "github.com/pjdagdal/member-data-service/internal/audit/model"
	"github.com/pjdagdal/member-data-service/internal/member/model"
	"github.com/pjdagdal/member-data-service/internal/system/config"
	"github.com/pjdagdal/member-data-service/internal/system/database/provider"
	errors2 "github.com/pjdagdal/member-data-service/internal/system/errors"
	"github.com/pjdagdal/member-data-service/internal/system/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

func mongoStores(t *testing.T) *Stores {
	t.Helper()
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	provider.SetTestMongoDatabase(client.Database("members_test"))
	t.Cleanup(func() { provider.SetTestMongoDatabase(nil) })

	stores, err := NewStores(ctx, config.DataSourceConfig{Type: BackendMongo}, provider.NewDBProvider())
	require.NoError(t, err)
	return stores
}

func postgresStores(t *testing.T) *Stores {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	require.NoError(t, db.PingContext(ctx))
	t.Cleanup(func() { _ = db.Close() })

	provider.SetTestDB(db)
	t.Cleanup(func() { provider.SetTestDB(nil) })

	stores, err := NewStores(ctx, config.DataSourceConfig{Type: BackendPostgres}, provider.NewDBProvider())
	require.NoError(t, err)
	return stores
}

func TestMongoStores(t *testing.T) {
	runStoreContract(t, mongoStores(t))
}

func TestMongoStores_LegacyNumericMembershipIds(t *testing.T) {
	ctx := context.Background()
	stores := mongoStores(t)
	collection := stores.Members.(*MongoMemberStore).Collection

	_, err := collection.InsertMany(ctx, []interface{}{
		bson.M{"fullName": "Amel", "membershipId": int32(17), "createdAt": time.Now().UTC()},
		bson.M{"fullName": "Bilel", "membershipId": float64(18), "createdAt": time.Now().UTC()},
		bson.M{"fullName": "Chiraz", "createdAt": time.Now().UTC()},
	})
	require.NoError(t, err)

	all, err := stores.Members.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"17", "18", ""}, []string{all[0].MembershipId, all[1].MembershipId, all[2].MembershipId})

	pending, err := stores.Members.FindWithoutMembershipId(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Chiraz", pending[0].FullName)
}

func TestPostgresStores(t *testing.T) {
	runStoreContract(t, postgresStores(t))
}

func runStoreContract(t *testing.T, stores *Stores) {
	ctx := context.Background()
	members := stores.Members
	joined := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	insert := func(m model.Member) model.Member {
		t.Helper()
		m.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
		m.UpdatedAt = m.CreatedAt
		require.NoError(t, members.Insert(ctx, &m))
		require.NotEmpty(t, m.Id)
		return m
	}

	first := insert(model.Member{FullName: "Amel", Email: "amel@example.com", MembershipId: "1", JoinedAt: &joined})
	second := insert(model.Member{FullName: "Bilel", NationalId: "09123456"})
	third := insert(model.Member{FullName: "Chiraz"})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, members.Ping(ctx))
	})

	t.Run("find all keeps insertion order", func(t *testing.T) {
		all, err := members.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []string{first.Id, second.Id, third.Id}, []string{all[0].Id, all[1].Id, all[2].Id})
		require.NotNil(t, all[0].JoinedAt)
		assert.True(t, joined.Equal(*all[0].JoinedAt))
	})

	t.Run("find by id", func(t *testing.T) {
		found, err := members.FindById(ctx, second.Id)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "09123456", found.NationalId)

		missing, err := members.FindById(ctx, "000000000000000000000000")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("unique membership id", func(t *testing.T) {
		duplicate := model.Member{FullName: "Dora", MembershipId: "1", CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}
		err := members.Insert(ctx, &duplicate)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors2.ErrValidation))
	})

	t.Run("without membership id", func(t *testing.T) {
		pending, err := members.FindWithoutMembershipId(ctx)
		require.NoError(t, err)
		require.Len(t, pending, 2)
		assert.Equal(t, second.Id, pending[0].Id)
	})

	t.Run("list pages", func(t *testing.T) {
		page, err := members.List(ctx, 1, 1)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, second.Id, page[0].Id)
	})

	t.Run("update fields", func(t *testing.T) {
		require.NoError(t, members.UpdateFields(ctx, third.Id, map[string]interface{}{
			model.FieldMembershipId: "M-2024-00001",
			model.FieldBio:          "Organizer",
			model.FieldDateOfBirth:  time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC),
		}))
		updated, err := members.FindById(ctx, third.Id)
		require.NoError(t, err)
		assert.Equal(t, "M-2024-00001", updated.MembershipId)
		assert.Equal(t, "Organizer", updated.Bio)
		require.NotNil(t, updated.DateOfBirth)

		err = members.UpdateFields(ctx, third.Id, map[string]interface{}{"nickname": "C"})
		assert.True(t, errors.Is(err, errors2.ErrValidation))

		err = members.UpdateFields(ctx, "000000000000000000000000", map[string]interface{}{model.FieldBio: "x"})
		assert.True(t, errors.Is(err, errors2.ErrNotFound))
	})

	t.Run("unique national id moves only once released", func(t *testing.T) {
		err := members.UpdateFields(ctx, third.Id, map[string]interface{}{model.FieldNationalId: "09123456"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors2.ErrValidation))

		require.NoError(t, members.UpdateFields(ctx, second.Id, map[string]interface{}{model.FieldNationalId: ""}))
		require.NoError(t, members.UpdateFields(ctx, third.Id, map[string]interface{}{model.FieldNationalId: "09123456"}))

		released, err := members.FindById(ctx, second.Id)
		require.NoError(t, err)
		assert.Empty(t, released.NationalId)
		moved, err := members.FindById(ctx, third.Id)
		require.NoError(t, err)
		assert.Equal(t, "09123456", moved.NationalId)
	})

	t.Run("delete many", func(t *testing.T) {
		deleted, err := members.DeleteMany(ctx, []string{second.Id, third.Id})
		require.NoError(t, err)
		assert.Equal(t, int64(2), deleted)

		all, err := members.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
	})

	t.Run("counter increments are unique", func(t *testing.T) {
		const workers, perWorker = 10, 20
		var (
			mu   sync.Mutex
			seen []int64
			wg   sync.WaitGroup
		)
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < perWorker; i++ {
					seq, err := stores.Counters.Increment(ctx, "memberId-2024")
					if !assert.NoError(t, err) {
						return
					}
					mu.Lock()
					seen = append(seen, seq)
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		sort.Slice(seen, func(i, j int) bool { return seen[i] < seen[j] })
		require.Len(t, seen, workers*perWorker)
		for i, seq := range seen {
			assert.Equal(t, int64(i+1), seq, fmt.Sprintf("position %d", i))
		}
		current, err := stores.Counters.Current(ctx, "memberId-2024")
		require.NoError(t, err)
		assert.Equal(t, int64(workers*perWorker), current)

		unused, err := stores.Counters.Current(ctx, "memberId-1999")
		require.NoError(t, err)
		assert.Zero(t, unused)
	})

	t.Run("audit log", func(t *testing.T) {
		at := time.Now().UTC().Truncate(time.Millisecond)
		entries := []auditModel.AuditLog{
			{Id: "a-1", Actor: "script", Action: auditModel.ActionDelete, ResourceType: auditModel.ResourceMemberBulk,
				Before: map[string][]string{"deleted": {"x"}}, CreatedAt: at},
			{Id: "a-2", Actor: "admin", Action: auditModel.ActionUpdate, ResourceType: auditModel.ResourceMember,
				ResourceId: first.Id, CreatedAt: at.Add(time.Second)},
			{Id: "a-3", Actor: "script", Action: auditModel.ActionDelete, ResourceType: auditModel.ResourceMemberBulk,
				CreatedAt: at.Add(2 * time.Second)},
		}
		for _, entry := range entries {
			require.NoError(t, stores.Audit.InsertAuditLog(ctx, entry))
		}

		ids := func(logs []auditModel.AuditLog) []string {
			out := make([]string, 0, len(logs))
			for _, l := range logs {
				out = append(out, l.Id)
			}
			return out
		}

		all, err := stores.Audit.ListAuditLogs(ctx, auditModel.AuditLogFilter{}, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"a-3", "a-2", "a-1"}, ids(all))
		assert.Equal(t, first.Id, all[1].ResourceId)
		assert.True(t, at.Equal(all[2].CreatedAt))
		before, err := json.Marshal(all[2].Before)
		require.NoError(t, err)
		assert.JSONEq(t, `{"deleted": ["x"]}`, string(before))
		assert.Nil(t, all[1].Before)

		byActor, err := stores.Audit.ListAuditLogs(ctx, auditModel.AuditLogFilter{Actor: "script"}, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"a-3", "a-1"}, ids(byActor))

		byType, err := stores.Audit.ListAuditLogs(ctx, auditModel.AuditLogFilter{
			Action: auditModel.ActionUpdate, ResourceType: auditModel.ResourceMember}, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"a-2"}, ids(byType))

		page, err := stores.Audit.ListAuditLogs(ctx, auditModel.AuditLogFilter{}, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"a-2"}, ids(page))
	})
}
