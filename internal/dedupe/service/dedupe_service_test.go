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
	"testing"
	"time"

	auditService "github.com/pjdagdal/member-data-service/internal/audit/service"
	"github.com/pjdagdal/member-data-service/internal/dedupe/model"
	dedupeStore "github.com/pjdagdal/member-data-service/internal/dedupe/store"
	memberModel "github.com/pjdagdal/member-data-service/internal/member/model"
	"github.com/pjdagdal/member-data-service/internal/member/store/storetest"
	errors2 "github.com/pjdagdal/member-data-service/internal/system/errors"
	"github.com/pjdagdal/member-data-service/internal/system/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

var base = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func at(day int) time.Time {
	return base.AddDate(0, 0, day)
}

func newService(t *testing.T, mem *storetest.Memory) *DedupeService {
	t.Helper()
	extractors, err := ExtractorsFor(nil)
	require.NoError(t, err)
	return NewDedupeService(mem, extractors, auditService.NewRecorder(mem), nil)
}

// threeClusters seeds three independent pairs of duplicates plus one unrelated member.
func threeClusters(mem *storetest.Memory) {
	mem.Seed(
		memberModel.Member{Id: "a1", FullName: "Amina Bensalah", Email: "amina@example.com", CreatedAt: at(1)},
		memberModel.Member{Id: "b1", FullName: "Youssef Haddad", Phone: "+216 20 111 222", CreatedAt: at(2)},
		memberModel.Member{Id: "a2", FullName: "A. Bensalah", Email: " AMINA@example.com", CreatedAt: at(3)},
		memberModel.Member{Id: "c1", FullName: "Sami Trabelsi", NationalId: "0912 3456", CreatedAt: at(4)},
		memberModel.Member{Id: "b2", FullName: "Y. Haddad", Phone: "+216-20-111-222", CreatedAt: at(5)},
		memberModel.Member{Id: "c2", FullName: "S. Trabelsi", NationalId: "09123456", CreatedAt: at(6)},
		memberModel.Member{Id: "z1", FullName: "Leila Mansour", Email: "leila@example.com", CreatedAt: at(7)},
	)
}

func TestRunDedup_TransitiveCluster(t *testing.T) {
	mem := storetest.NewMemory()
	mem.Seed(
		memberModel.Member{Id: "A", FullName: "Alice", Email: "x@y.com", CreatedAt: at(1)},
		memberModel.Member{Id: "B", FullName: "Bob", Email: "x@y.com", Phone: "123", CreatedAt: at(2)},
		memberModel.Member{Id: "C", FullName: "Carl", Phone: "123", CreatedAt: at(3)},
		memberModel.Member{Id: "D", FullName: "Dan", Email: "other@z.com", CreatedAt: at(4)},
	)

	report, err := newService(t, mem).RunDedup(context.Background(), model.Options{})
	require.NoError(t, err)

	require.Len(t, report.Clusters, 1)
	assert.Equal(t, 1, report.ClusterCount)
	assert.Equal(t, 4, report.TotalMembers)
	assert.Equal(t, []string{"A", "B", "C"}, report.Clusters[0].Group)
	assert.Equal(t, "A", report.Clusters[0].Keeper)
	assert.Equal(t, []string{"B", "C"}, report.Clusters[0].Others)
}

func TestRunDedup_ClustersOrderedBySnapshot(t *testing.T) {
	mem := storetest.NewMemory()
	threeClusters(mem)

	report, err := newService(t, mem).RunDedup(context.Background(), model.Options{})
	require.NoError(t, err)

	require.Len(t, report.Clusters, 3)
	assert.Equal(t, []string{"a1", "a2"}, report.Clusters[0].Group)
	assert.Equal(t, []string{"b1", "b2"}, report.Clusters[1].Group)
	assert.Equal(t, []string{"c1", "c2"}, report.Clusters[2].Group)
}

func TestRunDedup_KeeperPrefersMembershipId(t *testing.T) {
	mem := storetest.NewMemory()
	mem.Seed(
		memberModel.Member{Id: "old", FullName: "Nour", Email: "nour@example.com", CreatedAt: at(1)},
		memberModel.Member{Id: "new", FullName: "Nour", MembershipId: "42", CreatedAt: at(30)},
	)

	report, err := newService(t, mem).RunDedup(context.Background(), model.Options{})
	require.NoError(t, err)

	require.Len(t, report.Clusters, 1)
	assert.Equal(t, "new", report.Clusters[0].Keeper)
	assert.Equal(t, []string{"old"}, report.Clusters[0].Others)
}

func TestSelectKeeper_TieBreaks(t *testing.T) {
	joined := at(2)
	snapshot := []memberModel.Member{
		{Id: "no-dates"},
		{Id: "joined", JoinedAt: &joined},
		{Id: "created", CreatedAt: at(5)},
		{Id: "no-dates-2"},
	}

	// Members without any timestamp rank at epoch zero, ahead of dated members.
	assert.Equal(t, 0, selectKeeper(snapshot, []int{0, 1, 2, 3}))
	assert.Equal(t, 0, selectKeeper(snapshot, []int{1, 2}), "join date used when creation time is missing")
	assert.Equal(t, 1, selectKeeper(snapshot, []int{2, 3}))

	tied := []memberModel.Member{
		{Id: "first", MembershipId: "7", CreatedAt: at(1)},
		{Id: "second", MembershipId: "3", CreatedAt: at(1)},
	}
	assert.Equal(t, 0, selectKeeper(tied, []int{0, 1}), "equal ranks fall back to snapshot position")
}

func TestRunDedup_OverwriteIfEmpty(t *testing.T) {
	dob := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)
	mem := storetest.NewMemory()
	mem.Seed(
		memberModel.Member{Id: "k", FullName: "Rim", Email: "rim@example.com", Address: "Tunis", CreatedAt: at(1)},
		memberModel.Member{Id: "o1", FullName: "Rim", Address: "Sfax", CreatedAt: at(2)},
		memberModel.Member{Id: "o2", FullName: "Rim", Phone: "555", Occupation: "student", DateOfBirth: &dob,
			CreatedAt: at(3)},
		memberModel.Member{Id: "o3", FullName: "Rim", Phone: "777", CreatedAt: at(4)},
	)

	report, err := newService(t, mem).RunDedup(context.Background(), model.Options{Apply: true})
	require.NoError(t, err)
	require.Len(t, report.Clusters, 1)

	assert.Equal(t, []model.MergedField{
		{Field: memberModel.FieldPhone, From: "o2", Strategy: model.StrategyOverwriteIfEmpty},
		{Field: memberModel.FieldDateOfBirth, From: "o2", Strategy: model.StrategyOverwriteIfEmpty},
		{Field: memberModel.FieldOccupation, From: "o2", Strategy: model.StrategyOverwriteIfEmpty},
	}, report.Clusters[0].MergedFields)

	members := mem.Snapshot()
	require.Len(t, members, 1)
	assert.Equal(t, "Tunis", members[0].Address)
	assert.Equal(t, "555", members[0].Phone)
	assert.Equal(t, "student", members[0].Occupation)
	require.NotNil(t, members[0].DateOfBirth)
	assert.True(t, dob.Equal(*members[0].DateOfBirth))
	require.NotNil(t, report.Clusters[0].DeletedCount)
	assert.Equal(t, int64(3), *report.Clusters[0].DeletedCount)
}

func TestRunDedup_ConcatenationSkipsKnownText(t *testing.T) {
	mem := storetest.NewMemory()
	mem.Seed(
		memberModel.Member{Id: "k", FullName: "Hedi", Bio: "Teacher and activist", CreatedAt: at(1)},
		memberModel.Member{Id: "o1", FullName: "Hedi", Bio: "activist", CreatedAt: at(2)},
		memberModel.Member{Id: "o2", FullName: "Hedi", Bio: "Farmer", PreviousPartyExperiences: "Local cell",
			CreatedAt: at(3)},
	)

	report, err := newService(t, mem).RunDedup(context.Background(), model.Options{Apply: true})
	require.NoError(t, err)
	require.Len(t, report.Clusters, 1)

	assert.Equal(t, []model.MergedField{
		{Field: memberModel.FieldBio, From: "o2", Strategy: model.StrategyConcatenateUnique},
		{Field: memberModel.FieldPreviousPartyExperiences, From: "o2", Strategy: model.StrategyConcatenateUnique},
	}, report.Clusters[0].MergedFields)

	members := mem.Snapshot()
	require.Len(t, members, 1)
	assert.Equal(t, "Teacher and activist\nFarmer", members[0].Bio)
	assert.Equal(t, "Local cell", members[0].PreviousPartyExperiences)
}

func TestRunDedup_DryRunNeverMutates(t *testing.T) {
	mem := storetest.NewMemory()
	threeClusters(mem)
	before := mem.Snapshot()
	svc := newService(t, mem)

	for i := 0; i < 3; i++ {
		report, err := svc.RunDedup(context.Background(), model.Options{})
		require.NoError(t, err)
		assert.Len(t, report.Clusters, 3)
		for _, entry := range report.Clusters {
			assert.Nil(t, entry.DeletedCount)
		}
	}

	assert.Equal(t, before, mem.Snapshot())
	assert.Zero(t, mem.UpdateCalls)
	assert.Zero(t, mem.DeleteCalls)
	assert.Empty(t, mem.AuditLogs())
}

func TestRunDedup_DryRunIsByteIdentical(t *testing.T) {
	mem := storetest.NewMemory()
	threeClusters(mem)
	svc := newService(t, mem)

	first, err := svc.RunDedup(context.Background(), model.Options{Limit: 2})
	require.NoError(t, err)
	second, err := svc.RunDedup(context.Background(), model.Options{Limit: 2})
	require.NoError(t, err)

	a, err := dedupeStore.EncodeReport(first)
	require.NoError(t, err)
	b, err := dedupeStore.EncodeReport(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestRunDedup_ApplyIsIdempotent(t *testing.T) {
	mem := storetest.NewMemory()
	threeClusters(mem)
	svc := newService(t, mem)

	applied, err := svc.RunDedup(context.Background(), model.Options{Apply: true})
	require.NoError(t, err)
	assert.Equal(t, 3, applied.ClusterCount)
	assert.Zero(t, applied.FailedClusters)
	assert.Len(t, mem.Snapshot(), 4)

	again, err := svc.RunDedup(context.Background(), model.Options{Apply: true})
	require.NoError(t, err)
	assert.Zero(t, again.ClusterCount)
	assert.Empty(t, again.Clusters)
	assert.Len(t, mem.Snapshot(), 4)
}

func TestRunDedup_LimitAppliesOneCluster(t *testing.T) {
	mem := storetest.NewMemory()
	threeClusters(mem)
	svc := newService(t, mem)

	report, err := svc.RunDedup(context.Background(), model.Options{Apply: true, Limit: 1})
	require.NoError(t, err)
	require.Len(t, report.Clusters, 1)
	assert.Equal(t, 3, report.ClusterCount)
	assert.Equal(t, "a1", report.Clusters[0].Keeper)
	assert.Len(t, mem.Snapshot(), 6)

	remaining, err := svc.RunDedup(context.Background(), model.Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, remaining.ClusterCount)
}

func TestRunDedup_LimitCountsFailedClusters(t *testing.T) {
	mem := storetest.NewMemory()
	threeClusters(mem)
	mem.FailUpdate["a1"] = errors2.StorageUnavailable(errors.New("connection reset"))
	mem.Seed(memberModel.Member{Id: "a3", FullName: "Amina", Email: "amina@example.com", Bio: "x", CreatedAt: at(9)})

	report, err := newService(t, mem).RunDedup(context.Background(), model.Options{Apply: true, Limit: 2})
	require.NoError(t, err)
	require.Len(t, report.Clusters, 2)
	assert.Equal(t, errors2.KindStorageUnavailable, report.Clusters[0].ErrorCode)
	assert.Empty(t, report.Clusters[1].Error)
	assert.Equal(t, 1, report.FailedClusters)
}

func TestRunDedup_ClusterFailureIsIsolated(t *testing.T) {
	mem := storetest.NewMemory()
	threeClusters(mem)
	mem.FailDelete["b2"] = errors2.NotFound("member b2")

	report, err := newService(t, mem).RunDedup(context.Background(), model.Options{Apply: true})
	require.NoError(t, err)

	require.Len(t, report.Clusters, 3)
	assert.Equal(t, 1, report.FailedClusters)
	assert.Empty(t, report.Clusters[0].Error)
	assert.Equal(t, errors2.KindNotFound, report.Clusters[1].ErrorCode)
	assert.NotEmpty(t, report.Clusters[1].Error)
	assert.Nil(t, report.Clusters[1].DeletedCount)
	assert.Empty(t, report.Clusters[2].Error)

	ids := map[string]bool{}
	for _, member := range mem.Snapshot() {
		ids[member.Id] = true
	}
	assert.True(t, ids["b1"])
	assert.True(t, ids["b2"])
	assert.False(t, ids["a2"])
	assert.False(t, ids["c2"])
}

type vanishingKeeper struct {
	*storetest.Memory
	gone string
}

func (v vanishingKeeper) FindById(ctx context.Context, id string) (*memberModel.Member, error) {
	if id == v.gone {
		return nil, nil
	}
	return v.Memory.FindById(ctx, id)
}

func TestRunDedup_KeeperDeletedMidRun(t *testing.T) {
	mem := storetest.NewMemory()
	threeClusters(mem)
	extractors, err := ExtractorsFor(nil)
	require.NoError(t, err)
	svc := NewDedupeService(vanishingKeeper{Memory: mem, gone: "c1"}, extractors, nil, nil)

	report, err := svc.RunDedup(context.Background(), model.Options{Apply: true})
	require.NoError(t, err)

	require.Len(t, report.Clusters, 3)
	assert.Equal(t, errors2.KindNotFound, report.Clusters[2].ErrorCode)
	assert.Equal(t, 1, report.FailedClusters)
	assert.Len(t, mem.Snapshot(), 5)
}

func TestRunDedup_InvalidMergeIsNotApplied(t *testing.T) {
	mem := storetest.NewMemory()
	mem.Seed(
		memberModel.Member{Id: "k", FullName: "Omar", Email: "omar@example.com", CreatedAt: at(1)},
		memberModel.Member{Id: "o", FullName: "Omar", Gender: "X", CreatedAt: at(2)},
	)

	for _, apply := range []bool{false, true} {
		report, err := newService(t, mem).RunDedup(context.Background(), model.Options{Apply: apply})
		require.NoError(t, err)
		require.Len(t, report.Clusters, 1)
		assert.Equal(t, errors2.KindValidation, report.Clusters[0].ErrorCode)
		assert.Equal(t, 1, report.FailedClusters)
	}
	assert.Zero(t, mem.UpdateCalls)
	assert.Zero(t, mem.DeleteCalls)
	assert.Len(t, mem.Snapshot(), 2)
}

func TestRunDedup_AuditsMerges(t *testing.T) {
	mem := storetest.NewMemory()
	mem.Seed(
		memberModel.Member{Id: "k", FullName: "Ines", Email: "ines@example.com", CreatedAt: at(1)},
		memberModel.Member{Id: "o", FullName: "Ines", Phone: "99", CreatedAt: at(2)},
	)

	_, err := newService(t, mem).RunDedup(context.Background(), model.Options{Apply: true})
	require.NoError(t, err)

	logs := mem.AuditLogs()
	require.Len(t, logs, 2)
	assert.Equal(t, "update", logs[0].Action)
	assert.Equal(t, "Member", logs[0].ResourceType)
	assert.Equal(t, "k", logs[0].ResourceId)
	assert.Equal(t, "script", logs[0].Actor)
	assert.Equal(t, "delete", logs[1].Action)
	assert.Equal(t, "MemberBulk", logs[1].ResourceType)
	assert.Equal(t, map[string][]string{"deleted": {"o"}}, logs[1].Before)
}

func TestRunDedup_AuditFailureDoesNotFailMerge(t *testing.T) {
	mem := storetest.NewMemory()
	mem.Seed(
		memberModel.Member{Id: "k", FullName: "Ines", CreatedAt: at(1)},
		memberModel.Member{Id: "o", FullName: "Ines", CreatedAt: at(2)},
	)
	mem.FailAudit = errors.New("audit store down")

	report, err := newService(t, mem).RunDedup(context.Background(), model.Options{Apply: true})
	require.NoError(t, err)
	require.Len(t, report.Clusters, 1)
	assert.Empty(t, report.Clusters[0].Error)
	assert.Len(t, mem.Snapshot(), 1)
}

func TestRunDedup_LoadFailureAborts(t *testing.T) {
	mem := storetest.NewMemory()
	mem.FailFindAll = errors2.StorageUnavailable(errors.New("no reachable servers"))

	report, err := newService(t, mem).RunDedup(context.Background(), model.Options{})
	require.Error(t, err)
	assert.Nil(t, report)
	assert.True(t, errors.Is(err, errors2.ErrStorageUnavailable))
}

func TestRunDedup_NegativeLimitRejected(t *testing.T) {
	_, err := newService(t, storetest.NewMemory()).RunDedup(context.Background(), model.Options{Limit: -1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors2.ErrValidation))
}

func TestRunDedup_ConfiguredKeyKinds(t *testing.T) {
	mem := storetest.NewMemory()
	mem.Seed(
		memberModel.Member{Id: "a", FullName: "Same Name", Email: "a@example.com", CreatedAt: at(1)},
		memberModel.Member{Id: "b", FullName: "same  name", Email: "b@example.com", CreatedAt: at(2)},
	)
	emailOnly, err := ExtractorsFor([]string{KindEmail})
	require.NoError(t, err)

	report, err := NewDedupeService(mem, emailOnly, nil, nil).RunDedup(context.Background(), model.Options{})
	require.NoError(t, err)
	assert.Zero(t, report.ClusterCount)

	report, err = newService(t, mem).RunDedup(context.Background(), model.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.ClusterCount)
}

func TestRun_WritesReport(t *testing.T) {
	mem := storetest.NewMemory()
	threeClusters(mem)
	extractors, err := ExtractorsFor(nil)
	require.NoError(t, err)
	writer := dedupeStore.NewFileReportWriter(t.TempDir())
	writer.Now = func() time.Time { return time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC) }

	result, err := NewDedupeService(mem, extractors, nil, writer).Run(context.Background(), model.Options{})
	require.NoError(t, err)
	assert.Contains(t, result.Location, "duplicates-report-20250304T050607.000Z.json")

	data, err := os.ReadFile(result.Location)
	require.NoError(t, err)
	expected, err := dedupeStore.EncodeReport(result.Report)
	require.NoError(t, err)
	assert.Equal(t, string(expected), string(data))
}

func TestRunDedup_ApplyMovesNationalIdToKeeper(t *testing.T) {
	mem := storetest.NewMemory()
	mem.Seed(
		memberModel.Member{Id: "k", FullName: "Hedi", MembershipId: "7", Email: "hedi@example.com", CreatedAt: at(1)},
		memberModel.Member{Id: "d", FullName: "Hedi B.", NationalId: "07654321", Email: "hedi@example.com", CreatedAt: at(2)},
	)
	svc := newService(t, mem)

	report, err := svc.RunDedup(context.Background(), model.Options{Apply: true})
	require.NoError(t, err)
	require.Len(t, report.Clusters, 1)
	assert.Empty(t, report.Clusters[0].Error)
	assert.Zero(t, report.FailedClusters)

	members := mem.Snapshot()
	require.Len(t, members, 1)
	assert.Equal(t, "k", members[0].Id)
	assert.Equal(t, "07654321", members[0].NationalId)

	again, err := svc.RunDedup(context.Background(), model.Options{Apply: true})
	require.NoError(t, err)
	assert.Zero(t, again.ClusterCount)
}

func TestRunDedup_FailedKeeperUpdateRestoresNationalId(t *testing.T) {
	mem := storetest.NewMemory()
	mem.Seed(
		memberModel.Member{Id: "k", FullName: "Hedi", MembershipId: "7", Email: "hedi@example.com", CreatedAt: at(1)},
		memberModel.Member{Id: "d", FullName: "Hedi B.", NationalId: "07654321", Email: "hedi@example.com", CreatedAt: at(2)},
	)
	mem.FailUpdate["k"] = errors2.StorageUnavailable(errors.New("connection reset"))

	report, err := newService(t, mem).RunDedup(context.Background(), model.Options{Apply: true})
	require.NoError(t, err)
	require.Len(t, report.Clusters, 1)
	assert.Equal(t, errors2.KindStorageUnavailable, report.Clusters[0].ErrorCode)

	members := mem.Snapshot()
	require.Len(t, members, 2)
	assert.Empty(t, members[0].NationalId)
	assert.Equal(t, "07654321", members[1].NationalId)
}
