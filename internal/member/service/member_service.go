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
	"strings"
	"time"

	auditModel "github.com/pjdagdal/member-data-service/internal/audit/model"
	auditService "github.com/pjdagdal/member-data-service/internal/audit/service"
	"github.com/pjdagdal/member-data-service/internal/member/model"
	"github.com/pjdagdal/member-data-service/internal/member/store"
	"github.com/pjdagdal/member-data-service/internal/system/constants"
	errors2 "github.com/pjdagdal/member-data-service/internal/system/errors"
	"github.com/pjdagdal/member-data-service/internal/system/log"
)

const (
	defaultMemberType = "active"
	defaultStatus     = "active"
	maxListLimit      = 1000
)

// MembershipIdEnsurer assigns a membership id to a member about to be created.
type MembershipIdEnsurer interface {
	EnsureMembershipId(ctx context.Context, member *model.Member) error
}

// MemberServiceInterface defines the member operations.
type MemberServiceInterface interface {
	CreateMember(ctx context.Context, member model.Member) (*model.Member, error)
	GetMember(ctx context.Context, id string) (*model.Member, error)
	ListMembers(ctx context.Context, limit, offset int) ([]model.Member, error)
	ImportMembers(ctx context.Context, members []model.Member) (*model.ImportResult, error)
}

// MemberService is the default implementation of MemberServiceInterface.
type MemberService struct {
	members  store.MemberStore
	ids      MembershipIdEnsurer
	recorder *auditService.Recorder
	now      func() time.Time
}

// NewMemberService creates the service.
func NewMemberService(members store.MemberStore, ids MembershipIdEnsurer, recorder *auditService.Recorder) *MemberService {
	return &MemberService{
		members:  members,
		ids:      ids,
		recorder: recorder,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateMember validates and stores a new member. A member is never stored without a membership id:
// when allocation fails nothing is written.
func (s *MemberService) CreateMember(ctx context.Context, member model.Member) (*model.Member, error) {

	member.Id = ""
	member.FullName = strings.TrimSpace(member.FullName)
	member.Email = strings.TrimSpace(member.Email)
	if err := model.Validate(member); err != nil {
		return nil, err
	}
	if member.MemberType == "" {
		member.MemberType = defaultMemberType
	}
	if member.Status == "" {
		member.Status = defaultStatus
	}
	now := s.now()
	if member.JoinedAt == nil {
		member.JoinedAt = &now
	}
	member.CreatedAt = now
	member.UpdatedAt = now

	if err := s.ids.EnsureMembershipId(ctx, &member); err != nil {
		return nil, err
	}
	if err := s.members.Insert(ctx, &member); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, auditModel.AuditLog{
		Action:       auditModel.ActionCreate,
		ResourceType: auditModel.ResourceMember,
		ResourceId:   member.Id,
		After:        member,
	})
	log.GetLogger().Info("Member created",
		log.String("memberId", member.Id), log.String("membershipId", member.MembershipId))
	return &member, nil
}

// GetMember returns a member by id.
func (s *MemberService) GetMember(ctx context.Context, id string) (*model.Member, error) {

	member, err := s.members.FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, errors2.NewClientErrorWithCause(errors2.ErrorMessage{
			Code:        errors2.MEMBER_NOT_FOUND.Code,
			Message:     errors2.MEMBER_NOT_FOUND.Message,
			Description: fmt.Sprintf("Member '%s' does not exist.", id),
		}, http.StatusNotFound, errors2.NotFound("member %s", id))
	}
	return member, nil
}

// ListMembers returns a page of members in insertion order.
func (s *MemberService) ListMembers(ctx context.Context, limit, offset int) ([]model.Member, error) {

	if limit <= 0 {
		limit = constants.DefaultMemberListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		return nil, errors2.NewClientErrorWithCause(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: "Offset must not be negative.",
		}, http.StatusBadRequest, errors2.Validation(fmt.Errorf("negative offset %d", offset)))
	}
	members, err := s.members.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if members == nil {
		return []model.Member{}, nil
	}
	return members, nil
}

// ImportMembers creates each member in turn. Invalid items are counted and skipped; a storage failure
// stops the import and is returned with the result so far.
func (s *MemberService) ImportMembers(ctx context.Context, members []model.Member) (*model.ImportResult, error) {

	result := &model.ImportResult{}
	for i, member := range members {
		if strings.TrimSpace(member.FullName) == "" {
			member.FullName = fmt.Sprintf("Imported %d", i+1)
		}
		if _, err := s.CreateMember(ctx, member); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("item %d: %s", i+1, describe(err)))
			if errors.Is(err, errors2.ErrStorageUnavailable) {
				return result, err
			}
			continue
		}
		result.Created++
	}
	log.GetLogger().Info("Members imported",
		log.Int("created", result.Created), log.Int("failed", result.Failed))
	return result, nil
}

func describe(err error) string {
	var clientError *errors2.ClientError
	if errors.As(err, &clientError) && clientError.Description != "" {
		return clientError.Description
	}
	return err.Error()
}
