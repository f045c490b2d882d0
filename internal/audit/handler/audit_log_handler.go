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

package handler

import (
	"net/http"

	"github.com/pjdagdal/member-data-service/internal/audit/model"
	"github.com/pjdagdal/member-data-service/internal/audit/provider"
	"github.com/pjdagdal/member-data-service/internal/system/constants"
	"github.com/pjdagdal/member-data-service/internal/system/security"
	"github.com/pjdagdal/member-data-service/internal/system/utils"
)

type AuditLogHandler struct {
	provider provider.AuditLogProviderInterface
}

func NewAuditLogHandler(auditProvider provider.AuditLogProviderInterface) *AuditLogHandler {
	return &AuditLogHandler{provider: auditProvider}
}

// ListAuditLogs handles GET /admin/audit-logs?actor=&action=&resourceType=&limit=&skip=
func (h *AuditLogHandler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {

	r, err := security.AuthnAndAuthz(r, constants.OperationViewAuditLogs)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	limit, err := utils.QueryInt(r, "limit", 0)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	skip, err := utils.QueryInt(r, "skip", 0)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	query := r.URL.Query()
	filter := model.AuditLogFilter{
		Actor:        query.Get("actor"),
		Action:       query.Get("action"),
		ResourceType: query.Get("resourceType"),
	}

	auditService := h.provider.GetAuditLogService()
	page, err := auditService.ListAuditLogs(r.Context(), filter, limit, skip)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, page)
}
