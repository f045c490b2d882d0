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
	"os"
	"sort"
	"sync"
	"testing"
	"time"

	auditService "github.com/pjdagdal/member-data-service/internal/audit/service"
	memberModel "github.com/pjdagdal/member-data-service/internal/member/model"
	"github.com/pjdagdal/member-data-service/internal/member/store/storetest"
	"github.com/pjdagdal/member-data-service/internal/system/constants"
	errors2 "github.com/pjdagdal/member-data-service/internal/system/errors"
	"github.com/pjdagdal/member-data-service/internal/system/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

func newService(mem *storetest.Memory) *MembershipIdService {
	return NewMembershipIdService(mem, mem, auditService.NewRecorder(mem))
}

func joined(year int, month time.Month) *time.Time {
	t := time.Date(year, month, 10, 0, 0, 0, 0, time.UTC)
	return &t
}

// seedYears seeds members from 2023 and 2024, one of them already numbered and one without a join date.
func seedYears(mem *storetest.Memory) {
	mem.Seed(
		memberModel.Member{Id: "m1", FullName: "Zied", JoinedAt: joined(2024, time.March)},
		memberModel.Member{Id: "m2", FullName: "Alya", JoinedAt: joined(2023, time.May)},
		memberModel.Member{Id: "m3", FullName: "Badr", MembershipId: "M-2024-00001", JoinedAt: joined(2024, time.January)},
		memberModel.Member{Id: "m4", FullName: "Chiraz"},
		memberModel.Member{Id: "m5", FullName: "Amal", JoinedAt: joined(2024, time.December)},
	)
}

func TestFormatMembershipId(t *testing.T) {
	assert.Equal(t, "M-2024-00001", FormatMembershipId(2024, 1))
	assert.Equal(t, "M-2024-00042", FormatMembershipId(2024, 42))
	assert.Equal(t, "M-2024-99999", FormatMembershipId(2024, 99999))
	assert.Equal(t, "M-2024-123456", FormatMembershipId(2024, 123456))
}

func TestCounterNameForYear(t *testing.T) {
	assert.Equal(t, "memberId-2024", CounterNameForYear(2024))
}

func TestAllocate_StartsAtOneAndIncrements(t *testing.T) {
	svc := newService(storetest.NewMemory())
	for want := int64(1); want <= 3; want++ {
		got, err := svc.Allocate(context.Background(), "memberId-2030")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	other, err := svc.Allocate(context.Background(), "other")
	require.NoError(t, err)
	assert.Equal(t, int64(1), other)
}

func TestAllocate_ConcurrentCallersGetDistinctValues(t *testing.T) {
	svc := newService(storetest.NewMemory())
	const callers, perCaller = 16, 25

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		values []int64
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perCaller; j++ {
				v, err := svc.Allocate(context.Background(), constants.MembershipIdCounter)
				if !assert.NoError(t, err) {
					return
				}
				mu.Lock()
				values = append(values, v)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, values, callers*perCaller)
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	for i, v := range values {
		assert.Equal(t, int64(i+1), v)
	}
}

func TestAllocate_EmptyNameRejected(t *testing.T) {
	mem := storetest.NewMemory()
	_, err := newService(mem).Allocate(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors2.ErrValidation))
	assert.Zero(t, mem.IncrementCalls)
}

func TestAllocate_StorageErrorPropagates(t *testing.T) {
	mem := storetest.NewMemory()
	mem.FailIncrement = errors2.StorageUnavailable(errors.New("timeout"))

	_, err := newService(mem).Allocate(context.Background(), constants.MembershipIdCounter)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors2.ErrStorageUnavailable))
}

func TestEnsureMembershipId(t *testing.T) {
	mem := storetest.NewMemory()
	svc := newService(mem)

	existing := memberModel.Member{MembershipId: "M-2020-00003"}
	require.NoError(t, svc.EnsureMembershipId(context.Background(), &existing))
	assert.Equal(t, "M-2020-00003", existing.MembershipId)
	assert.Zero(t, mem.IncrementCalls)

	fresh := memberModel.Member{}
	require.NoError(t, svc.EnsureMembershipId(context.Background(), &fresh))
	assert.Equal(t, "1", fresh.MembershipId)
}

func TestPreviewAssignments(t *testing.T) {
	mem := storetest.NewMemory()
	seedYears(mem)
	mem.SetCounter(CounterNameForYear(2024), 1)

	preview, err := newService(mem).PreviewAssignments(context.Background(), 2024)
	require.NoError(t, err)

	assert.Equal(t, int64(2), preview.StartingSeq)
	require.Len(t, preview.Assignments, 3)
	assert.Equal(t, "m1", preview.Assignments[0].MemberId)
	assert.Equal(t, "M-2024-00002", preview.Assignments[0].MembershipId)
	assert.Equal(t, "m4", preview.Assignments[1].MemberId)
	assert.Equal(t, "M-2024-00003", preview.Assignments[1].MembershipId)
	assert.Equal(t, "m5", preview.Assignments[2].MemberId)
	assert.Equal(t, "M-2024-00004", preview.Assignments[2].MembershipId)

	current, err := mem.Current(context.Background(), CounterNameForYear(2024))
	require.NoError(t, err)
	assert.Equal(t, int64(1), current)
	assert.Zero(t, mem.IncrementCalls)
	assert.Zero(t, mem.UpdateCalls)
}

func TestPreviewAssignments_IsRepeatable(t *testing.T) {
	mem := storetest.NewMemory()
	seedYears(mem)
	svc := newService(mem)

	first, err := svc.PreviewAssignments(context.Background(), 2024)
	require.NoError(t, err)
	second, err := svc.PreviewAssignments(context.Background(), 2024)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestApplyAssignments_MatchesPreview(t *testing.T) {
	mem := storetest.NewMemory()
	seedYears(mem)
	mem.SetCounter(CounterNameForYear(2024), 1)
	svc := newService(mem)

	preview, err := svc.PreviewAssignments(context.Background(), 2024)
	require.NoError(t, err)
	applied, err := svc.ApplyAssignments(context.Background(), 2024, "")
	require.NoError(t, err)

	assert.Equal(t, constants.AssignmentModeFill, applied.Mode)
	assert.Equal(t, len(preview.Assignments), applied.AppliedCount)
	assert.Equal(t, preview.Assignments, applied.Applied)

	stored := map[string]string{}
	for _, member := range mem.Snapshot() {
		stored[member.Id] = member.MembershipId
	}
	assert.Equal(t, "M-2024-00002", stored["m1"])
	assert.Equal(t, "", stored["m2"])
	assert.Equal(t, "M-2024-00001", stored["m3"])
	assert.Equal(t, "M-2024-00003", stored["m4"])
	assert.Equal(t, "M-2024-00004", stored["m5"])

	again, err := svc.PreviewAssignments(context.Background(), 2024)
	require.NoError(t, err)
	assert.Empty(t, again.Assignments)
	assert.Equal(t, int64(5), again.StartingSeq)
}

func TestApplyAssignments_Reassign(t *testing.T) {
	mem := storetest.NewMemory()
	seedYears(mem)

	applied, err := newService(mem).ApplyAssignments(context.Background(), 2024, constants.AssignmentModeReassign)
	require.NoError(t, err)

	require.Equal(t, 4, applied.AppliedCount)
	ids := make([]string, 0, len(applied.Applied))
	for _, a := range applied.Applied {
		ids = append(ids, a.MemberId+"="+a.MembershipId)
	}
	assert.Equal(t, []string{"m1=M-2024-00001", "m3=M-2024-00002", "m4=M-2024-00003", "m5=M-2024-00004"}, ids)
	assert.Equal(t, "M-2024-00001", applied.Applied[1].PreviousMembershipId)
}

func TestApplyAssignments_InvalidInput(t *testing.T) {
	mem := storetest.NewMemory()
	svc := newService(mem)

	_, err := svc.ApplyAssignments(context.Background(), 2024, "shuffle")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors2.ErrValidation))

	_, err = svc.ApplyAssignments(context.Background(), 0, constants.AssignmentModeFill)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors2.ErrValidation))

	_, err = svc.PreviewAssignments(context.Background(), -5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors2.ErrValidation))
	assert.Zero(t, mem.IncrementCalls)
}

func TestApplyAssignments_StopsOnStorageError(t *testing.T) {
	mem := storetest.NewMemory()
	seedYears(mem)
	mem.FailIncrement = errors2.StorageUnavailable(errors.New("connection refused"))
	mem.FailIncrementAfter = 1

	applied, err := newService(mem).ApplyAssignments(context.Background(), 2024, constants.AssignmentModeFill)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors2.ErrStorageUnavailable))
	require.NotNil(t, applied)
	assert.Equal(t, 1, applied.AppliedCount)
	assert.Equal(t, "m1", applied.Applied[0].MemberId)
}

func TestBackfillMembershipIds(t *testing.T) {
	mem := storetest.NewMemory()
	seedYears(mem)
	mem.SetCounter(constants.MembershipIdCounter, 10)

	assigned, err := newService(mem).BackfillMembershipIds(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, assigned)

	got := map[string]string{}
	for _, member := range mem.Snapshot() {
		got[member.Id] = member.MembershipId
	}
	assert.Equal(t, map[string]string{
		"m1": "11", "m2": "12", "m3": "M-2024-00001", "m4": "13", "m5": "14",
	}, got)
}

func TestApplyAssignments_ReassignReusesHeldIds(t *testing.T) {
	mem := storetest.NewMemory()
	mem.Seed(
		memberModel.Member{Id: "m1", FullName: "Zied", MembershipId: "M-2024-00002", JoinedAt: joined(2024, time.March)},
		memberModel.Member{Id: "m2", FullName: "Badr", MembershipId: "M-2024-00001", JoinedAt: joined(2024, time.January)},
	)

	applied, err := newService(mem).ApplyAssignments(context.Background(), 2024, constants.AssignmentModeReassign)
	require.NoError(t, err)
	require.Equal(t, 2, applied.AppliedCount)

	members := mem.Snapshot()
	assert.Equal(t, "M-2024-00001", members[0].MembershipId)
	assert.Equal(t, "M-2024-00002", members[1].MembershipId)
	assert.Equal(t, "M-2024-00001", applied.Applied[1].PreviousMembershipId)
}
