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

package service

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"
	"time"

	auditService "github.com/pjdagdal/member-data-service/internal/audit/service"
	"github.com/pjdagdal/member-data-service/internal/member/model"
	"github.com/pjdagdal/member-data-service/internal/member/store/storetest"
	idService "github.com/pjdagdal/member-data-service/internal/membership_ids/service"
	errors2 "github.com/pjdagdal/member-data-service/internal/system/errors"
	"github.com/pjdagdal/member-data-service/internal/system/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

var fixedNow = time.Date(2025, 2, 3, 10, 0, 0, 0, time.UTC)

func newService(mem *storetest.Memory) *MemberService {
	recorder := auditService.NewRecorder(mem)
	svc := NewMemberService(mem, idService.NewMembershipIdService(mem, mem, recorder), recorder)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestCreateMember_AppliesDefaultsAndAllocates(t *testing.T) {
	mem := storetest.NewMemory()

	created, err := newService(mem).CreateMember(context.Background(), model.Member{
		FullName: "  Karim Jlassi ",
		Email:    "karim@example.com",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.Id)
	assert.Equal(t, "Karim Jlassi", created.FullName)
	assert.Equal(t, "1", created.MembershipId)
	assert.Equal(t, "active", created.MemberType)
	assert.Equal(t, "active", created.Status)
	require.NotNil(t, created.JoinedAt)
	assert.Equal(t, fixedNow, *created.JoinedAt)
	assert.Equal(t, fixedNow, created.CreatedAt)

	stored := mem.Snapshot()
	require.Len(t, stored, 1)
	assert.Equal(t, "1", stored[0].MembershipId)

	logs := mem.AuditLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, "create", logs[0].Action)
	assert.Equal(t, created.Id, logs[0].ResourceId)
}

func TestCreateMember_KeepsProvidedMembershipId(t *testing.T) {
	mem := storetest.NewMemory()

	created, err := newService(mem).CreateMember(context.Background(), model.Member{
		FullName: "Meriem", MembershipId: "M-2019-00012", MemberType: "bureau",
	})
	require.NoError(t, err)
	assert.Equal(t, "M-2019-00012", created.MembershipId)
	assert.Equal(t, "bureau", created.MemberType)
	assert.Zero(t, mem.IncrementCalls)
}

func TestCreateMember_SequentialIds(t *testing.T) {
	mem := storetest.NewMemory()
	svc := newService(mem)

	for _, name := range []string{"One", "Two", "Three"} {
		_, err := svc.CreateMember(context.Background(), model.Member{FullName: name})
		require.NoError(t, err)
	}
	var ids []string
	for _, member := range mem.Snapshot() {
		ids = append(ids, member.MembershipId)
	}
	assert.Equal(t, []string{"1", "2", "3"}, ids)
}

func TestCreateMember_ValidationFailure(t *testing.T) {
	mem := storetest.NewMemory()

	_, err := newService(mem).CreateMember(context.Background(), model.Member{
		FullName: "   ",
		Email:    "not-an-email",
		Gender:   "Z",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors2.ErrValidation))

	var clientErr *errors2.ClientError
	require.True(t, errors.As(err, &clientErr))
	assert.Equal(t, http.StatusBadRequest, clientErr.StatusCode)
	assert.Contains(t, clientErr.Description, "full_name")
	assert.Contains(t, clientErr.Description, "email")
	assert.Zero(t, mem.IncrementCalls)
	assert.Empty(t, mem.Snapshot())
}

func TestCreateMember_AllocationFailureWritesNothing(t *testing.T) {
	mem := storetest.NewMemory()
	mem.FailIncrement = errors2.StorageUnavailable(errors.New("server selection timeout"))

	created, err := newService(mem).CreateMember(context.Background(), model.Member{FullName: "Walid"})
	require.Error(t, err)
	assert.Nil(t, created)
	assert.True(t, errors.Is(err, errors2.ErrStorageUnavailable))
	assert.Empty(t, mem.Snapshot())
	assert.Empty(t, mem.AuditLogs())
}

func TestGetMember(t *testing.T) {
	mem := storetest.NewMemory()
	mem.Seed(model.Member{Id: "m1", FullName: "Sonia"})
	svc := newService(mem)

	member, err := svc.GetMember(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "Sonia", member.FullName)

	_, err = svc.GetMember(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors2.ErrNotFound))
	var clientErr *errors2.ClientError
	require.True(t, errors.As(err, &clientErr))
	assert.Equal(t, http.StatusNotFound, clientErr.StatusCode)
}

func TestListMembers(t *testing.T) {
	mem := storetest.NewMemory()
	mem.Seed(model.Member{FullName: "A"}, model.Member{FullName: "B"}, model.Member{FullName: "C"})
	svc := newService(mem)

	page, err := svc.ListMembers(context.Background(), 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "B", page[0].FullName)
	assert.Equal(t, "C", page[1].FullName)

	all, err := svc.ListMembers(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	empty, err := svc.ListMembers(context.Background(), 10, 10)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = svc.ListMembers(context.Background(), 10, -1)
	assert.True(t, errors.Is(err, errors2.ErrValidation))
}

func TestImportMembers(t *testing.T) {
	mem := storetest.NewMemory()

	result, err := newService(mem).ImportMembers(context.Background(), []model.Member{
		{FullName: "Fatma", NationalId: "11111111"},
		{},
		{FullName: "Bad", Gender: "Q"},
		{FullName: "Duplicate", NationalId: "11111111"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 2, result.Failed)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "item 3")
	assert.Contains(t, result.Errors[1], "item 4")

	stored := mem.Snapshot()
	require.Len(t, stored, 2)
	assert.Equal(t, "Imported 2", stored[1].FullName)
}

func TestImportMembers_StopsWhenStorageIsDown(t *testing.T) {
	mem := storetest.NewMemory()
	mem.FailInsert = errors2.StorageUnavailable(errors.New("connection refused"))

	result, err := newService(mem).ImportMembers(context.Background(), []model.Member{
		{FullName: "One"}, {FullName: "Two"},
	})
	require.Error(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 1, result.Failed)
}
