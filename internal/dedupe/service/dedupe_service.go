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
	"fmt"
	"net/http"
	"time"

	auditModel "github.com/pjdagdal/member-data-service/internal/audit/model"
	auditService "github.com/pjdagdal/member-data-service/internal/audit/service"
	"github.com/pjdagdal/member-data-service/internal/dedupe/model"
	dedupeStore "github.com/pjdagdal/member-data-service/internal/dedupe/store"
	memberModel "github.com/pjdagdal/member-data-service/internal/member/model"
	"github.com/pjdagdal/member-data-service/internal/member/store"
	errors2 "github.com/pjdagdal/member-data-service/internal/system/errors"
	"github.com/pjdagdal/member-data-service/internal/system/log"
	"github.com/pjdagdal/member-data-service/internal/system/metrics"
)

// DedupeServiceInterface defines the duplicate merge operations.
type DedupeServiceInterface interface {
	RunDedup(ctx context.Context, opts model.Options) (*model.Report, error)
	Run(ctx context.Context, opts model.Options) (*model.RunResult, error)
}

// DedupeService clusters members sharing identity keys and merges each cluster into one keeper.
// Runs must not overlap: two concurrent runs against the same members may delete or update the same
// records twice.
type DedupeService struct {
	members    store.MemberStore
	extractors []KeyExtractor
	recorder   *auditService.Recorder
	reports    dedupeStore.ReportWriter
}

// NewDedupeService creates the service. A nil report writer skips persisting reports.
func NewDedupeService(members store.MemberStore, extractors []KeyExtractor, recorder *auditService.Recorder,
	reports dedupeStore.ReportWriter) *DedupeService {
	return &DedupeService{
		members:    members,
		extractors: extractors,
		recorder:   recorder,
		reports:    reports,
	}
}

// Run executes RunDedup and persists the report.
func (s *DedupeService) Run(ctx context.Context, opts model.Options) (*model.RunResult, error) {

	report, err := s.RunDedup(ctx, opts)
	if err != nil {
		return nil, err
	}
	result := &model.RunResult{Report: report}
	if s.reports == nil {
		return result, nil
	}
	location, err := s.reports.Write(ctx, report)
	if err != nil {
		return result, err
	}
	result.Location = location
	return result, nil
}

// RunDedup loads every member once, clusters them and merges each cluster. Only loading the members can
// fail the run; failures inside a cluster are recorded on its report entry.
func (s *DedupeService) RunDedup(ctx context.Context, opts model.Options) (*model.Report, error) {

	if opts.Limit < 0 {
		return nil, errors2.NewClientErrorWithCause(errors2.ErrorMessage{
			Code:        errors2.INVALID_DEDUPE_OPTIONS.Code,
			Message:     errors2.INVALID_DEDUPE_OPTIONS.Message,
			Description: "Limit must not be negative.",
		}, http.StatusBadRequest, errors2.Validation(fmt.Errorf("negative limit %d", opts.Limit)))
	}

	logger := log.GetLogger()
	snapshot, err := s.members.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	metrics.DedupeRuns.WithLabelValues(metrics.Mode(opts.Apply)).Inc()

	clusters := s.cluster(snapshot)
	report := &model.Report{
		Apply:        opts.Apply,
		Limit:        opts.Limit,
		TotalMembers: len(snapshot),
		ClusterCount: len(clusters),
		Clusters:     []model.ClusterEntry{},
	}
	logger.Info("Dedupe scan complete",
		log.Int("members", len(snapshot)), log.Int("clusters", len(clusters)), log.Bool("apply", opts.Apply))

	for _, indices := range clusters {
		if opts.Limit > 0 && len(report.Clusters) >= opts.Limit {
			break
		}
		entry := s.processCluster(ctx, snapshot, indices, opts.Apply)
		if entry.Error != "" {
			report.FailedClusters++
		}
		report.Clusters = append(report.Clusters, entry)
	}
	logger.Info("Dedupe run finished",
		log.Int("processed", len(report.Clusters)), log.Int("failed", report.FailedClusters))
	return report, nil
}

// cluster links members sharing a key and returns the clusters of two or more, as snapshot indices.
func (s *DedupeService) cluster(snapshot []memberModel.Member) [][]int {

	ds := newDisjointSet(len(snapshot))
	firstByKey := map[string]int{}
	for i, member := range snapshot {
		for _, key := range IdentityKeys(member, s.extractors) {
			if first, ok := firstByKey[key]; ok {
				ds.union(first, i)
				continue
			}
			firstByKey[key] = i
		}
	}
	return ds.components(2)
}

func (s *DedupeService) processCluster(ctx context.Context, snapshot []memberModel.Member, indices []int,
	apply bool) model.ClusterEntry {

	keeperPos := selectKeeper(snapshot, indices)
	keeper := snapshot[indices[keeperPos]]
	group := make([]string, 0, len(indices))
	others := make([]string, 0, len(indices)-1)
	absorbed := make([]memberModel.Member, 0, len(indices)-1)
	for pos, index := range indices {
		group = append(group, snapshot[index].Id)
		if pos == keeperPos {
			continue
		}
		others = append(others, snapshot[index].Id)
		absorbed = append(absorbed, snapshot[index])
	}

	outcome := mergeCluster(keeper, absorbed)
	entry := model.ClusterEntry{
		Keeper:       keeper.Id,
		Group:        group,
		MergedFields: outcome.fields,
		Others:       others,
	}

	if err := memberModel.Validate(outcome.merged); err != nil {
		return failCluster(entry, err)
	}
	if !apply {
		metrics.DedupeClusters.WithLabelValues(metrics.ClusterPreviewed).Inc()
		return entry
	}
	deleted, err := s.applyCluster(ctx, outcome, absorbed, others)
	if err != nil {
		return failCluster(entry, err)
	}
	entry.DeletedCount = &deleted
	metrics.DedupeClusters.WithLabelValues(metrics.ClusterMerged).Inc()
	metrics.MembersDeleted.Add(float64(deleted))
	log.GetLogger().Info("Merged duplicate members",
		log.String("keeper", keeper.Id), log.Int("absorbed", len(others)), log.Int64("deleted", deleted))
	return entry
}

// applyCluster updates the keeper with the merged fields, then deletes the absorbed members. Unique values
// moving to the keeper are first cleared on the absorbed members holding them.
func (s *DedupeService) applyCluster(ctx context.Context, outcome mergeOutcome, absorbed []memberModel.Member,
	others []string) (int64, error) {

	keeperId := outcome.merged.Id
	current, err := s.members.FindById(ctx, keeperId)
	if err != nil {
		return 0, err
	}
	if current == nil {
		return 0, errors2.NotFound("keeper %s no longer exists", keeperId)
	}
	if len(outcome.updates) > 0 {
		released, err := s.releaseUniqueValues(ctx, outcome.updates, absorbed)
		if err != nil {
			s.restoreUniqueValues(ctx, released)
			return 0, err
		}
		if err := s.members.UpdateFields(ctx, keeperId, outcome.updates); err != nil {
			s.restoreUniqueValues(ctx, released)
			return 0, err
		}
	}
	s.recorder.Record(ctx, auditModel.AuditLog{
		Action:       auditModel.ActionUpdate,
		ResourceType: auditModel.ResourceMember,
		ResourceId:   keeperId,
		Before:       current,
		After:        outcome.merged,
	})

	deleted, err := s.members.DeleteMany(ctx, others)
	if err != nil {
		return 0, err
	}
	s.recorder.Record(ctx, auditModel.AuditLog{
		Action:       auditModel.ActionDelete,
		ResourceType: auditModel.ResourceMemberBulk,
		Before:       map[string][]string{"deleted": others},
	})
	return deleted, nil
}

// releasedValue is a unique value cleared on an absorbed member.
type releasedValue struct {
	memberId string
	field    string
	value    string
}

func (s *DedupeService) releaseUniqueValues(ctx context.Context, updates map[string]interface{},
	absorbed []memberModel.Member) ([]releasedValue, error) {

	var released []releasedValue
	for _, field := range uniqueFields {
		value, ok := updates[field].(string)
		if !ok || value == "" {
			continue
		}
		for i := range absorbed {
			holder := memberModel.StringField(&absorbed[i], field)
			if holder == nil || *holder != value {
				continue
			}
			err := s.members.UpdateFields(ctx, absorbed[i].Id, map[string]interface{}{field: ""})
			if err != nil {
				return released, err
			}
			released = append(released, releasedValue{memberId: absorbed[i].Id, field: field, value: value})
		}
	}
	return released, nil
}

// restoreUniqueValues puts released values back after a failed keeper update.
func (s *DedupeService) restoreUniqueValues(ctx context.Context, released []releasedValue) {
	for _, r := range released {
		if err := s.members.UpdateFields(ctx, r.memberId, map[string]interface{}{r.field: r.value}); err != nil {
			log.GetLogger().Warn("Failed to restore unique value on absorbed member",
				log.String("memberId", r.memberId), log.String("field", r.field), log.Error(err))
		}
	}
}

func failCluster(entry model.ClusterEntry, err error) model.ClusterEntry {
	entry.Error = describe(err)
	entry.ErrorCode = errors2.KindOf(err)
	metrics.DedupeClusters.WithLabelValues(metrics.ClusterFailed).Inc()
	log.GetLogger().Warn("Failed to merge duplicate cluster",
		log.String("keeper", entry.Keeper), log.String("errorCode", entry.ErrorCode), log.Error(err))
	return entry
}

func describe(err error) string {
	var clientError *errors2.ClientError
	if errors.As(err, &clientError) && clientError.Description != "" {
		return clientError.Description
	}
	var serverError *errors2.ServerError
	if errors.As(err, &serverError) && serverError.Description != "" {
		return serverError.Description
	}
	return err.Error()
}

// selectKeeper returns the position in indices of the surviving member: a member holding a membership
// id first, then the earliest creation (or join) time, then the earliest snapshot position.
func selectKeeper(snapshot []memberModel.Member, indices []int) int {
	best := 0
	for pos := 1; pos < len(indices); pos++ {
		if keeperBefore(snapshot[indices[pos]], snapshot[indices[best]]) {
			best = pos
		}
	}
	return best
}

func keeperBefore(a, b memberModel.Member) bool {
	aHas, bHas := a.MembershipId != "", b.MembershipId != ""
	if aHas != bHas {
		return aHas
	}
	return anchorTime(a).Before(anchorTime(b))
}

func anchorTime(m memberModel.Member) time.Time {
	if !m.CreatedAt.IsZero() {
		return m.CreatedAt
	}
	if m.JoinedAt != nil {
		return *m.JoinedAt
	}
	return time.Unix(0, 0)
}
