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
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	auditModel "github.com/pjdagdal/member-data-service/internal/audit/model"
	"github.com/pjdagdal/member-data-service/internal/member/model"
	"github.com/pjdagdal/member-data-service/internal/system/database/client"
	"github.com/pjdagdal/member-data-service/internal/system/database/scripts"
	errors2 "github.com/pjdagdal/member-data-service/internal/system/errors"
	"github.com/pjdagdal/member-data-service/internal/system/log"
)

const (
	postgres           = "postgres"
	uniqueViolationErr = "23505"
)

// postgresColumns lists the updatable member fields. Field names double as column names.
var postgresColumns = map[string]bool{
	model.FieldMembershipId:                 true,
	model.FieldFullName:                     true,
	model.FieldPhone:                        true,
	model.FieldEmail:                        true,
	model.FieldNationalId:                   true,
	model.FieldAddress:                      true,
	model.FieldDateOfBirth:                  true,
	model.FieldBio:                          true,
	model.FieldGender:                       true,
	model.FieldEducationLevel:               true,
	model.FieldOccupation:                   true,
	model.FieldMemberType:                   true,
	model.FieldRole:                         true,
	model.FieldPdfUrl:                       true,
	model.FieldMemberOfRegionalBodies:       true,
	model.FieldMemberOfRegionalBodiesDetail: true,
	model.FieldAssignedMission:              true,
	model.FieldAssignedMissionDetail:        true,
	model.FieldPreviousPartyExperiences:     true,
	model.FieldStatus:                       true,
	model.FieldJoinedAt:                     true,
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolationErr
}

// PostgresMemberStore is the PostgreSQL implementation of MemberStore.
type PostgresMemberStore struct {
	dbClient client.DBClientInterface
}

// NewPostgresMemberStore creates a member store over the members table.
func NewPostgresMemberStore(dbClient client.DBClientInterface) *PostgresMemberStore {
	return &PostgresMemberStore{dbClient: dbClient}
}

// Insert adds a new member row. New ids are UUIDv7 so they sort by creation time.
func (s *PostgresMemberStore) Insert(ctx context.Context, member *model.Member) error {

	if member.Id == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return serverError(errors2.ADD_MEMBER, "Failed to generate member id.", err)
		}
		member.Id = id.String()
	}
	now := time.Now().UTC()
	if member.CreatedAt.IsZero() {
		member.CreatedAt = now
	}
	if member.UpdatedAt.IsZero() {
		member.UpdatedAt = member.CreatedAt
	}

	_, err := s.dbClient.Execute(ctx, scripts.InsertMember[postgres],
		member.Id, member.MembershipId, member.FullName, member.Phone, member.Email, member.NationalId,
		member.Address, member.DateOfBirth, member.Bio, member.Gender, member.EducationLevel, member.Occupation,
		member.MemberType, member.Role, member.PdfUrl, member.MemberOfRegionalBodies,
		member.MemberOfRegionalBodiesDetail, member.AssignedMission, member.AssignedMissionDetail,
		member.PreviousPartyExperiences, member.Status, member.JoinedAt, member.CreatedAt, member.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return conflictError(fmt.Sprintf("Member '%s' conflicts with an existing member.", member.FullName), err)
		}
		return serverError(errors2.ADD_MEMBER, "Failed to insert member.", err)
	}
	log.GetLogger().Debug("Member inserted", log.String("memberId", member.Id))
	return nil
}

// FindAll returns every member ordered by insertion.
func (s *PostgresMemberStore) FindAll(ctx context.Context) ([]model.Member, error) {
	return s.query(ctx, scripts.GetAllMembers[postgres])
}

// FindWithoutMembershipId returns members lacking a membership id, ordered by insertion.
func (s *PostgresMemberStore) FindWithoutMembershipId(ctx context.Context) ([]model.Member, error) {
	return s.query(ctx, scripts.GetMembersWithoutMembershipId[postgres])
}

// List returns one page of members ordered by insertion.
func (s *PostgresMemberStore) List(ctx context.Context, limit, offset int) ([]model.Member, error) {
	return s.query(ctx, scripts.ListMembers[postgres], limit, offset)
}

// FindById fetches a member by id.
func (s *PostgresMemberStore) FindById(ctx context.Context, id string) (*model.Member, error) {

	members, err := s.query(ctx, scripts.GetMemberById[postgres], id)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, nil
	}
	return &members[0], nil
}

func (s *PostgresMemberStore) query(ctx context.Context, query string, args ...interface{}) ([]model.Member, error) {

	results, err := s.dbClient.ExecuteQuery(ctx, query, args...)
	if err != nil {
		return nil, serverError(errors2.FETCH_MEMBERS, "Failed to fetch members.", err)
	}
	members := make([]model.Member, 0, len(results))
	for _, row := range results {
		members = append(members, scanMember(row))
	}
	return members, nil
}

// UpdateFields sets the given fields on a member.
func (s *PostgresMemberStore) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {

	names := make([]string, 0, len(fields))
	for field := range fields {
		if !postgresColumns[field] {
			return unknownFieldError(field)
		}
		names = append(names, field)
	}
	// Stable statement text for a given field set.
	sort.Strings(names)

	assignments := make([]string, 0, len(names)+1)
	args := make([]interface{}, 0, len(names)+2)
	for i, name := range names {
		assignments = append(assignments, fmt.Sprintf("%s = $%d", name, i+1))
		args = append(args, columnValue(name, fields[name]))
	}
	assignments = append(assignments, fmt.Sprintf("updated_at = $%d", len(args)+1))
	args = append(args, time.Now().UTC())
	args = append(args, id)
	query := fmt.Sprintf("UPDATE members SET %s WHERE id = $%d", strings.Join(assignments, ", "), len(args))

	affected, err := s.dbClient.Execute(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return conflictError(fmt.Sprintf("Update of member '%s' conflicts with an existing member.", id), err)
		}
		return serverError(errors2.UPDATE_MEMBER, fmt.Sprintf("Failed to update member: %s", id), err)
	}
	if affected == 0 {
		return memberNotFoundError(id)
	}
	return nil
}

// columnValue converts empty unique values to NULL.
func columnValue(field string, value interface{}) interface{} {
	switch v := value.(type) {
	case string:
		if v == "" && (field == model.FieldMembershipId || field == model.FieldNationalId) {
			return nil
		}
	case *time.Time:
		if v == nil {
			return nil
		}
		return *v
	}
	return value
}

// DeleteMany removes the given members and reports how many were deleted.
func (s *PostgresMemberStore) DeleteMany(ctx context.Context, ids []string) (int64, error) {

	if len(ids) == 0 {
		return 0, nil
	}
	deleted, err := s.dbClient.Execute(ctx, scripts.DeleteMembers[postgres], pq.Array(ids))
	if err != nil {
		return 0, serverError(errors2.DELETE_MEMBERS, "Failed to delete members.", err)
	}
	return deleted, nil
}

// Ping checks that the database is reachable.
func (s *PostgresMemberStore) Ping(ctx context.Context) error {
	if err := s.dbClient.Ping(ctx); err != nil {
		return serverError(errors2.DATABASE_CONNECTION, "PostgreSQL is not reachable.", err)
	}
	return nil
}

// PostgresCounterStore is the PostgreSQL implementation of CounterStore.
type PostgresCounterStore struct {
	dbClient client.DBClientInterface
}

// NewPostgresCounterStore creates a counter store over the counters table.
func NewPostgresCounterStore(dbClient client.DBClientInterface) *PostgresCounterStore {
	return &PostgresCounterStore{dbClient: dbClient}
}

// Increment bumps the counter with a single upsert statement.
func (s *PostgresCounterStore) Increment(ctx context.Context, name string) (int64, error) {

	results, err := s.dbClient.ExecuteQuery(ctx, scripts.IncrementCounter[postgres], name)
	if err != nil {
		return 0, serverError(errors2.ALLOCATE_MEMBERSHIP_ID, fmt.Sprintf("Failed to increment counter: %s", name), err)
	}
	if len(results) == 0 {
		return 0, serverError(errors2.ALLOCATE_MEMBERSHIP_ID, fmt.Sprintf("Counter upsert returned no row: %s", name),
			fmt.Errorf("no row returned"))
	}
	return asInt64(results[0]["seq"]), nil
}

// Current reads the counter value.
func (s *PostgresCounterStore) Current(ctx context.Context, name string) (int64, error) {

	results, err := s.dbClient.ExecuteQuery(ctx, scripts.GetCounter[postgres], name)
	if err != nil {
		return 0, serverError(errors2.FETCH_COUNTER, fmt.Sprintf("Failed to read counter: %s", name), err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return asInt64(results[0]["seq"]), nil
}

// PostgresAuditStore is the PostgreSQL implementation of AuditStore.
type PostgresAuditStore struct {
	dbClient client.DBClientInterface
}

// NewPostgresAuditStore creates an audit store over the audit_logs table.
func NewPostgresAuditStore(dbClient client.DBClientInterface) *PostgresAuditStore {
	return &PostgresAuditStore{dbClient: dbClient}
}

// InsertAuditLog writes one audit entry.
func (s *PostgresAuditStore) InsertAuditLog(ctx context.Context, entry auditModel.AuditLog) error {

	if entry.Id == "" {
		entry.Id = uuid.NewString()
	}
	before, err := jsonOrNull(entry.Before)
	if err != nil {
		return serverError(errors2.ADD_AUDIT_LOG, "Failed to encode audit state.", err)
	}
	after, err := jsonOrNull(entry.After)
	if err != nil {
		return serverError(errors2.ADD_AUDIT_LOG, "Failed to encode audit state.", err)
	}
	_, err = s.dbClient.Execute(ctx, scripts.InsertAuditLog[postgres], entry.Id, entry.Actor, entry.Action,
		entry.ResourceType, entry.ResourceId, before, after, entry.Ip, entry.CreatedAt)
	if err != nil {
		return serverError(errors2.ADD_AUDIT_LOG, "Failed to insert audit log.", err)
	}
	return nil
}

// ListAuditLogs returns matching entries newest first.
func (s *PostgresAuditStore) ListAuditLogs(ctx context.Context, filter auditModel.AuditLogFilter,
	limit, skip int) ([]auditModel.AuditLog, error) {

	rows, err := s.dbClient.ExecuteQuery(ctx, scripts.ListAuditLogs[postgres],
		filter.Actor, filter.Action, filter.ResourceType, limit, skip)
	if err != nil {
		return nil, serverError(errors2.FETCH_AUDIT_LOGS, "Failed to list audit logs.", err)
	}
	logs := make([]auditModel.AuditLog, 0, len(rows))
	for _, row := range rows {
		logs = append(logs, auditModel.AuditLog{
			Id:           asString(row["id"]),
			Actor:        asString(row["actor"]),
			Action:       asString(row["action"]),
			ResourceType: asString(row["resource_type"]),
			ResourceId:   asString(row["resource_id"]),
			Before:       asJSON(row["before_state"]),
			After:        asJSON(row["after_state"]),
			Ip:           asString(row["ip"]),
			CreatedAt:    asTime(row["created_at"]),
		})
	}
	return logs, nil
}

func jsonOrNull(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func scanMember(row map[string]interface{}) model.Member {
	return model.Member{
		Id:                           asString(row["id"]),
		MembershipId:                 asString(row["membership_id"]),
		FullName:                     asString(row["full_name"]),
		Phone:                        asString(row["phone"]),
		Email:                        asString(row["email"]),
		NationalId:                   asString(row["national_id"]),
		Address:                      asString(row["address"]),
		DateOfBirth:                  asTimePtr(row["date_of_birth"]),
		Bio:                          asString(row["bio"]),
		Gender:                       asString(row["gender"]),
		EducationLevel:               asString(row["education_level"]),
		Occupation:                   asString(row["occupation"]),
		MemberType:                   asString(row["member_type"]),
		Role:                         asString(row["role"]),
		PdfUrl:                       asString(row["pdf_url"]),
		MemberOfRegionalBodies:       asBool(row["member_of_regional_bodies"]),
		MemberOfRegionalBodiesDetail: asString(row["member_of_regional_bodies_detail"]),
		AssignedMission:              asBool(row["assigned_mission"]),
		AssignedMissionDetail:        asString(row["assigned_mission_detail"]),
		PreviousPartyExperiences:     asString(row["previous_party_experiences"]),
		Status:                       asString(row["status"]),
		JoinedAt:                     asTimePtr(row["joined_at"]),
		CreatedAt:                    asTime(row["created_at"]),
		UpdatedAt:                    asTime(row["updated_at"]),
	}
}

func asString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	}
	return ""
}

// asJSON passes a JSONB column through unchanged, nil for SQL NULL.
func asJSON(v interface{}) interface{} {
	switch t := v.(type) {
	case []byte:
		return json.RawMessage(t)
	case string:
		return json.RawMessage(t)
	}
	return nil
}

func asBool(v interface{}) bool {
	b, _ := v.(bool)
	return b
}

func asTime(v interface{}) time.Time {
	t, _ := v.(time.Time)
	return t.UTC()
}

func asTimePtr(v interface{}) *time.Time {
	t, ok := v.(time.Time)
	if !ok {
		return nil
	}
	t = t.UTC()
	return &t
}

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int32:
		return int64(t)
	case []byte:
		n, _ := strconv.ParseInt(string(t), 10, 64)
		return n
	}
	return 0
}
