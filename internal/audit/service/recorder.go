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
	"time"

	"github.com/google/uuid"
	"github.com/pjdagdal/member-data-service/internal/audit/model"
	"github.com/pjdagdal/member-data-service/internal/member/store"
	"github.com/pjdagdal/member-data-service/internal/system/constants"
	traceCtx "github.com/pjdagdal/member-data-service/internal/system/context"
	"github.com/pjdagdal/member-data-service/internal/system/log"
)

var logActions = map[string]string{
	model.ActionCreate + model.ResourceMember:     log.ActionAddMember,
	model.ActionUpdate + model.ResourceMember:     log.ActionUpdateMember,
	model.ActionDelete + model.ResourceMember:     log.ActionDeleteMember,
	model.ActionDelete + model.ResourceMemberBulk: log.ActionDeleteMemberBulk,
	model.ActionUpdate + model.ResourceCounter:    log.ActionAssignMembershipIds,
}

// Recorder writes audit entries to the log and the audit store. Recording never fails the caller.
type Recorder struct {
	store store.AuditStore
	now   func() time.Time
}

// NewRecorder creates a recorder persisting to auditStore. A nil store only logs.
func NewRecorder(auditStore store.AuditStore) *Recorder {
	return &Recorder{
		store: auditStore,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Record emits the entry. Missing id, actor and timestamp are filled in.
func (r *Recorder) Record(ctx context.Context, entry model.AuditLog) {

	if r == nil {
		return
	}
	if entry.Id == "" {
		entry.Id = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.now()
	}
	entry.Actor = traceCtx.GetActor(ctx, entry.Actor)
	if entry.Actor == "" {
		entry.Actor = constants.ScriptActor
	}

	logger := log.GetLogger()
	actionId, ok := logActions[entry.Action+entry.ResourceType]
	if !ok {
		actionId = entry.Action
	}
	initiatorType := log.InitiatorTypeUser
	if entry.Actor == constants.ScriptActor {
		initiatorType = log.InitiatorTypeSystem
	}
	logger.Audit(log.AuditEvent{
		RecordedAt:    entry.CreatedAt.Format(time.RFC3339),
		InitiatorID:   entry.Actor,
		InitiatorType: initiatorType,
		TargetID:      entry.ResourceId,
		TargetType:    entry.ResourceType,
		ActionID:      actionId,
		TraceID:       traceCtx.GetTraceID(ctx),
	})

	if r.store == nil {
		return
	}
	if err := r.store.InsertAuditLog(ctx, entry); err != nil {
		logger.Warn("Failed to persist audit log",
			log.String("action", entry.Action),
			log.String("resourceId", entry.ResourceId),
			log.Error(err))
	}
}
