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

// Package storetest provides an in-memory backend for the member, counter and audit stores.
package storetest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	auditModel "github.com/pjdagdal/member-data-service/internal/audit/model"
	"github.com/pjdagdal/member-data-service/internal/member/model"
	"github.com/pjdagdal/member-data-service/internal/member/store"
	errors2 "github.com/pjdagdal/member-data-service/internal/system/errors"
)

// Memory keeps members in insertion order and counters in a map. The Fail* fields inject errors.
type Memory struct {
	mu       sync.Mutex
	members  []model.Member
	counters map[string]int64
	audits   []auditModel.AuditLog
	nextId   int

	// FailFindAll is returned by FindAll and FindWithoutMembershipId.
	FailFindAll error
	// FailInsert is returned by Insert.
	FailInsert error
	// FailUpdate maps member ids to the error UpdateFields returns for them.
	FailUpdate map[string]error
	// FailDelete is returned by DeleteMany when the batch contains one of its keys.
	FailDelete map[string]error
	// FailIncrement is returned by Increment once FailIncrementAfter calls have succeeded.
	FailIncrement      error
	FailIncrementAfter int
	// FailAudit is returned by InsertAuditLog.
	FailAudit error
	// FailPing is returned by Ping.
	FailPing error
	// FailListAudit is returned by ListAuditLogs.
	FailListAudit error

	IncrementCalls int
	UpdateCalls    int
	DeleteCalls    int
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{
		counters:   map[string]int64{},
		FailUpdate: map[string]error{},
		FailDelete: map[string]error{},
	}
}

// Stores exposes the backend through the store interfaces.
func (m *Memory) Stores() *store.Stores {
	return &store.Stores{Members: m, Counters: m, Audit: m}
}

// Seed inserts members as given, keeping their ids and timestamps.
func (m *Memory) Seed(members ...model.Member) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, member := range members {
		if member.Id == "" {
			m.nextId++
			member.Id = fmt.Sprintf("m%04d", m.nextId)
		}
		m.members = append(m.members, member)
	}
}

// SetCounter overwrites a counter value.
func (m *Memory) SetCounter(name string, value int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name] = value
}

// Snapshot returns a copy of the stored members in insertion order.
func (m *Memory) Snapshot() []model.Member {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Member(nil), m.members...)
}

// AuditLogs returns a copy of the recorded audit entries.
func (m *Memory) AuditLogs() []auditModel.AuditLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]auditModel.AuditLog(nil), m.audits...)
}

func (m *Memory) Insert(_ context.Context, member *model.Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailInsert != nil {
		return m.FailInsert
	}
	if err := m.checkUnique(*member); err != nil {
		return err
	}
	if member.Id == "" {
		m.nextId++
		member.Id = fmt.Sprintf("m%04d", m.nextId)
	}
	if member.CreatedAt.IsZero() {
		member.CreatedAt = time.Now().UTC()
	}
	if member.UpdatedAt.IsZero() {
		member.UpdatedAt = member.CreatedAt
	}
	m.members = append(m.members, *member)
	return nil
}

// checkUnique enforces the unique membership id and national id constraints of the real stores.
func (m *Memory) checkUnique(member model.Member) error {
	for _, existing := range m.members {
		if member.Id != "" && existing.Id == member.Id {
			continue
		}
		if member.MembershipId != "" && existing.MembershipId == member.MembershipId {
			return errors2.Validation(fmt.Errorf("duplicate membership id %s", member.MembershipId))
		}
		if member.NationalId != "" && existing.NationalId == member.NationalId {
			return errors2.Validation(fmt.Errorf("duplicate national id %s", member.NationalId))
		}
	}
	return nil
}

func (m *Memory) FindAll(_ context.Context) ([]model.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailFindAll != nil {
		return nil, m.FailFindAll
	}
	return append([]model.Member(nil), m.members...), nil
}

func (m *Memory) FindWithoutMembershipId(_ context.Context) ([]model.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailFindAll != nil {
		return nil, m.FailFindAll
	}
	var out []model.Member
	for _, member := range m.members {
		if member.MembershipId == "" {
			out = append(out, member)
		}
	}
	return out, nil
}

func (m *Memory) List(_ context.Context, limit, offset int) ([]model.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if offset >= len(m.members) {
		return []model.Member{}, nil
	}
	end := offset + limit
	if end > len(m.members) {
		end = len(m.members)
	}
	return append([]model.Member(nil), m.members[offset:end]...), nil
}

func (m *Memory) FindById(_ context.Context, id string) (*model.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, member := range m.members {
		if member.Id == id {
			found := member
			return &found, nil
		}
	}
	return nil, nil
}

func (m *Memory) UpdateFields(_ context.Context, id string, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls++
	if err, ok := m.FailUpdate[id]; ok {
		return err
	}
	for i := range m.members {
		if m.members[i].Id != id {
			continue
		}
		updated := m.members[i]
		for field, value := range fields {
			if !model.ApplyField(&updated, field, value) {
				return errors2.Validation(fmt.Errorf("unknown field %q", field))
			}
		}
		if err := m.checkUnique(updated); err != nil {
			return err
		}
		updated.UpdatedAt = time.Now().UTC()
		m.members[i] = updated
		return nil
	}
	return errors2.NotFound("member %s", id)
}

func (m *Memory) DeleteMany(_ context.Context, ids []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls++
	for _, id := range ids {
		if err, ok := m.FailDelete[id]; ok {
			return 0, err
		}
	}
	remove := map[string]bool{}
	for _, id := range ids {
		remove[id] = true
	}
	kept := m.members[:0]
	var deleted int64
	for _, member := range m.members {
		if remove[member.Id] {
			deleted++
			continue
		}
		kept = append(kept, member)
	}
	m.members = kept
	return deleted, nil
}

func (m *Memory) Ping(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.FailPing
}

func (m *Memory) Increment(_ context.Context, name string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailIncrement != nil && m.IncrementCalls >= m.FailIncrementAfter {
		return 0, m.FailIncrement
	}
	m.IncrementCalls++
	m.counters[name]++
	return m.counters[name], nil
}

func (m *Memory) Current(_ context.Context, name string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[name], nil
}

func (m *Memory) InsertAuditLog(_ context.Context, entry auditModel.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailAudit != nil {
		return m.FailAudit
	}
	m.audits = append(m.audits, entry)
	return nil
}

func (m *Memory) ListAuditLogs(_ context.Context, filter auditModel.AuditLogFilter,
	limit, skip int) ([]auditModel.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailListAudit != nil {
		return nil, m.FailListAudit
	}
	var matched []auditModel.AuditLog
	for i := len(m.audits) - 1; i >= 0; i-- {
		entry := m.audits[i]
		if (filter.Actor == "" || entry.Actor == filter.Actor) &&
			(filter.Action == "" || entry.Action == filter.Action) &&
			(filter.ResourceType == "" || entry.ResourceType == filter.ResourceType) {
			matched = append(matched, entry)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if skip >= len(matched) {
		return []auditModel.AuditLog{}, nil
	}
	matched = matched[skip:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}
