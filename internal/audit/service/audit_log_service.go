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

	"github.com/pjdagdal/member-data-service/internal/audit/model"
	"github.com/pjdagdal/member-data-service/internal/member/store"
	"github.com/pjdagdal/member-data-service/internal/system/constants"
	errors2 "github.com/pjdagdal/member-data-service/internal/system/errors"
)

type AuditLogServiceInterface interface {
	ListAuditLogs(ctx context.Context, filter model.AuditLogFilter, limit, skip int) (*model.AuditLogPage, error)
}

// AuditLogService reads the persisted audit trail.
type AuditLogService struct {
	store store.AuditStore
}

func NewAuditLogService(auditStore store.AuditStore) *AuditLogService {
	return &AuditLogService{store: auditStore}
}

// ListAuditLogs returns matching entries newest first. A zero limit selects the default page size and
// larger limits are capped.
func (s *AuditLogService) ListAuditLogs(ctx context.Context, filter model.AuditLogFilter,
	limit, skip int) (*model.AuditLogPage, error) {

	if limit < 0 || skip < 0 {
		return nil, errors2.NewClientErrorWithCause(errors2.ErrorMessage{
			Code:        errors2.INVALID_AUDIT_LOG_QUERY.Code,
			Message:     errors2.INVALID_AUDIT_LOG_QUERY.Message,
			Description: "Limit and skip must not be negative.",
		}, http.StatusBadRequest, errors2.Validation(fmt.Errorf("invalid page limit=%d skip=%d", limit, skip)))
	}
	if limit == 0 {
		limit = constants.DefaultAuditLogLimit
	}
	if limit > constants.MaxAuditLogLimit {
		limit = constants.MaxAuditLogLimit
	}

	logs, err := s.store.ListAuditLogs(ctx, filter, limit, skip)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}
	return &model.AuditLogPage{Count: len(logs), Data: logs}, nil
}
