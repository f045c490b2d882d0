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
	"fmt"
	"net/http"
	"strconv"

	auditModel "github.com/pjdagdal/member-data-service/internal/audit/model"
	auditService "github.com/pjdagdal/member-data-service/internal/audit/service"
	memberModel "github.com/pjdagdal/member-data-service/internal/member/model"
	"github.com/pjdagdal/member-data-service/internal/member/store"
	"github.com/pjdagdal/member-data-service/internal/membership_ids/model"
	"github.com/pjdagdal/member-data-service/internal/system/constants"
	errors2 "github.com/pjdagdal/member-data-service/internal/system/errors"
	"github.com/pjdagdal/member-data-service/internal/system/log"
	"github.com/pjdagdal/member-data-service/internal/system/metrics"
)

const (
	minYear = 1
	maxYear = 9999
)

// MembershipIdServiceInterface defines the identifier allocation operations.
type MembershipIdServiceInterface interface {
	Allocate(ctx context.Context, counterName string) (int64, error)
	EnsureMembershipId(ctx context.Context, member *memberModel.Member) error
	PreviewAssignments(ctx context.Context, year int) (*model.PreviewResult, error)
	ApplyAssignments(ctx context.Context, year int, mode string) (*model.ApplyResult, error)
	BackfillMembershipIds(ctx context.Context) (int, error)
}

// MembershipIdService allocates identifiers from store backed counters. It keeps no counter state
// of its own; uniqueness comes from the atomic increment of the CounterStore.
type MembershipIdService struct {
	members  store.MemberStore
	counters store.CounterStore
	recorder *auditService.Recorder
}

// NewMembershipIdService creates the service.
func NewMembershipIdService(members store.MemberStore, counters store.CounterStore,
	recorder *auditService.Recorder) *MembershipIdService {
	return &MembershipIdService{
		members:  members,
		counters: counters,
		recorder: recorder,
	}
}

// FormatMembershipId renders M-<year>-<seq>, padding seq with zeros. Longer sequences are kept whole.
func FormatMembershipId(year int, seq int64) string {
	return fmt.Sprintf("M-%d-%0*d", year, constants.MembershipIdPadWidth, seq)
}

// CounterNameForYear returns the name of the counter scoped to year.
func CounterNameForYear(year int) string {
	return constants.YearCounterPrefix + strconv.Itoa(year)
}

// Allocate returns the next value of the named counter.
func (s *MembershipIdService) Allocate(ctx context.Context, counterName string) (int64, error) {

	if counterName == "" {
		return 0, errors2.NewClientErrorWithCause(errors2.ErrorMessage{
			Code:        errors2.INVALID_COUNTER_NAME.Code,
			Message:     errors2.INVALID_COUNTER_NAME.Message,
			Description: "Counter name must not be empty.",
		}, http.StatusBadRequest, errors2.Validation(fmt.Errorf("empty counter name")))
	}
	seq, err := s.counters.Increment(ctx, counterName)
	if err != nil {
		metrics.AllocationFailures.Inc()
		log.GetLogger().Debug("Failed to allocate identifier",
			log.String("counter", counterName), log.Error(err))
		return 0, err
	}
	metrics.IdentifiersAllocated.WithLabelValues(counterName).Inc()
	return seq, nil
}

// EnsureMembershipId gives member a global membership id when it has none.
func (s *MembershipIdService) EnsureMembershipId(ctx context.Context, member *memberModel.Member) error {

	if member.MembershipId != "" {
		return nil
	}
	seq, err := s.Allocate(ctx, constants.MembershipIdCounter)
	if err != nil {
		return err
	}
	member.MembershipId = strconv.FormatInt(seq, 10)
	return nil
}

// PreviewAssignments computes the fill mode assignments for year without touching storage state.
func (s *MembershipIdService) PreviewAssignments(ctx context.Context, year int) (*model.PreviewResult, error) {

	if err := validateYear(year); err != nil {
		return nil, err
	}
	current, err := s.counters.Current(ctx, CounterNameForYear(year))
	if err != nil {
		return nil, err
	}
	candidates, err := s.candidates(ctx, year, constants.AssignmentModeFill)
	if err != nil {
		return nil, err
	}

	result := &model.PreviewResult{
		Year:        year,
		StartingSeq: current + 1,
		Assignments: make([]model.Assignment, 0, len(candidates)),
	}
	next := current
	for _, member := range candidates {
		next++
		result.Assignments = append(result.Assignments, model.Assignment{
			MemberId:     member.Id,
			FullName:     member.FullName,
			MembershipId: FormatMembershipId(year, next),
		})
	}
	return result, nil
}

// ApplyAssignments persists year scoped ids. In fill mode the candidates are those of
// PreviewAssignments; in reassign mode every member of the year is renumbered, after their current ids
// are released so a new id may equal one held before. On a storage error the assignments made so far
// are returned with the error.
func (s *MembershipIdService) ApplyAssignments(ctx context.Context, year int, mode string) (*model.ApplyResult, error) {

	if mode == "" {
		mode = constants.AssignmentModeFill
	}
	if mode != constants.AssignmentModeFill && mode != constants.AssignmentModeReassign {
		return nil, errors2.NewClientErrorWithCause(errors2.ErrorMessage{
			Code:        errors2.INVALID_ASSIGNMENT_MODE.Code,
			Message:     errors2.INVALID_ASSIGNMENT_MODE.Message,
			Description: fmt.Sprintf("Mode '%s' is not one of fill, reassign.", mode),
		}, http.StatusBadRequest, errors2.Validation(fmt.Errorf("invalid mode %q", mode)))
	}
	if err := validateYear(year); err != nil {
		return nil, err
	}
	candidates, err := s.candidates(ctx, year, mode)
	if err != nil {
		return nil, err
	}

	logger := log.GetLogger()
	counterName := CounterNameForYear(year)
	result := &model.ApplyResult{Year: year, Mode: mode, Applied: make([]model.Assignment, 0, len(candidates))}
	if mode == constants.AssignmentModeReassign {
		if err := s.releaseMembershipIds(ctx, candidates); err != nil {
			return result, err
		}
	}
	for _, member := range candidates {
		seq, err := s.Allocate(ctx, counterName)
		if err != nil {
			return result, err
		}
		membershipId := FormatMembershipId(year, seq)
		err = s.members.UpdateFields(ctx, member.Id, map[string]interface{}{
			memberModel.FieldMembershipId: membershipId,
		})
		if err != nil {
			logger.Debug("Failed to store membership id",
				log.String("memberId", member.Id), log.String("membershipId", membershipId), log.Error(err))
			return result, err
		}
		assignment := model.Assignment{
			MemberId:             member.Id,
			FullName:             member.FullName,
			MembershipId:         membershipId,
			PreviousMembershipId: member.MembershipId,
		}
		result.Applied = append(result.Applied, assignment)
		result.AppliedCount++
		s.recorder.Record(ctx, auditModel.AuditLog{
			Action:       auditModel.ActionUpdate,
			ResourceType: auditModel.ResourceMember,
			ResourceId:   member.Id,
			Before:       map[string]string{memberModel.FieldMembershipId: member.MembershipId},
			After:        map[string]string{memberModel.FieldMembershipId: membershipId},
		})
	}
	logger.Info("Membership ids assigned",
		log.Int("year", year), log.String("mode", mode), log.Int("applied", result.AppliedCount))
	return result, nil
}

func (s *MembershipIdService) releaseMembershipIds(ctx context.Context, members []memberModel.Member) error {
	for _, member := range members {
		if member.MembershipId == "" {
			continue
		}
		err := s.members.UpdateFields(ctx, member.Id, map[string]interface{}{memberModel.FieldMembershipId: ""})
		if err != nil {
			return err
		}
	}
	return nil
}

// BackfillMembershipIds gives a global membership id to every member lacking one, in insertion order.
func (s *MembershipIdService) BackfillMembershipIds(ctx context.Context) (int, error) {

	members, err := s.members.FindWithoutMembershipId(ctx)
	if err != nil {
		return 0, err
	}
	assigned := 0
	for i := range members {
		member := &members[i]
		if err := s.EnsureMembershipId(ctx, member); err != nil {
			return assigned, err
		}
		err := s.members.UpdateFields(ctx, member.Id, map[string]interface{}{
			memberModel.FieldMembershipId: member.MembershipId,
		})
		if err != nil {
			return assigned, err
		}
		assigned++
	}
	log.GetLogger().Info("Backfilled membership ids", log.Int("assigned", assigned))
	return assigned, nil
}

// candidates lists the members to number for year, in insertion order. Members without a join date
// count for the requested year.
func (s *MembershipIdService) candidates(ctx context.Context, year int, mode string) ([]memberModel.Member, error) {

	var (
		members []memberModel.Member
		err     error
	)
	if mode == constants.AssignmentModeReassign {
		members, err = s.members.FindAll(ctx)
	} else {
		members, err = s.members.FindWithoutMembershipId(ctx)
	}
	if err != nil {
		return nil, err
	}
	out := make([]memberModel.Member, 0, len(members))
	for _, member := range members {
		if member.JoinedAt != nil && member.JoinedAt.UTC().Year() != year {
			continue
		}
		out = append(out, member)
	}
	return out, nil
}

func validateYear(year int) error {
	if year < minYear || year > maxYear {
		return errors2.NewClientErrorWithCause(errors2.ErrorMessage{
			Code:        errors2.INVALID_YEAR.Code,
			Message:     errors2.INVALID_YEAR.Message,
			Description: fmt.Sprintf("Year %d is out of range.", year),
		}, http.StatusBadRequest, errors2.Validation(fmt.Errorf("invalid year %d", year)))
	}
	return nil
}
