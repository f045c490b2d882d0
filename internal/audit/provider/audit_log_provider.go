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

package provider

import (
	"github.com/pjdagdal/member-data-service/internal/audit/service"
	"github.com/pjdagdal/member-data-service/internal/member/store"
)

// AuditLogProviderInterface defines the interface for the audit log provider.
type AuditLogProviderInterface interface {
	GetAuditLogService() service.AuditLogServiceInterface
}

// AuditLogProvider is the default implementation of the AuditLogProviderInterface.
type AuditLogProvider struct {
	stores *store.Stores
}

// NewAuditLogProvider creates a new instance of AuditLogProvider.
func NewAuditLogProvider(stores *store.Stores) AuditLogProviderInterface {
	return &AuditLogProvider{stores: stores}
}

// GetAuditLogService returns the audit log service instance.
func (p *AuditLogProvider) GetAuditLogService() service.AuditLogServiceInterface {
	return service.NewAuditLogService(p.stores.Audit)
}
