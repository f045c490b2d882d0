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

package managers

import (
	"net/http"

	auditProvider "github.com/pjdagdal/member-data-service/internal/audit/provider"
	dedupeProvider "github.com/pjdagdal/member-data-service/internal/dedupe/provider"
	healthProvider "github.com/pjdagdal/member-data-service/internal/health_check/provider"
	memberProvider "github.com/pjdagdal/member-data-service/internal/member/provider"
	"github.com/pjdagdal/member-data-service/internal/member/store"
	idProvider "github.com/pjdagdal/member-data-service/internal/membership_ids/provider"
	"github.com/pjdagdal/member-data-service/internal/system/config"
	"github.com/pjdagdal/member-data-service/internal/system/services"
)

type ServiceManagerInterface interface {
	RegisterServices(apiBasePath string) error
}

type ServiceManager struct {
	mux    *http.ServeMux
	stores *store.Stores
	dedupe config.DedupeConfig
}

// NewServiceManager creates a new instance of ServiceManager.
func NewServiceManager(mux *http.ServeMux, stores *store.Stores, dedupe config.DedupeConfig) ServiceManagerInterface {

	return &ServiceManager{
		mux:    mux,
		stores: stores,
		dedupe: dedupe,
	}
}

func (sm *ServiceManager) RegisterServices(apiBasePath string) error {

	services.NewMemberService(sm.mux, apiBasePath, memberProvider.NewMemberProvider(sm.stores))
	services.NewMembershipIdService(sm.mux, apiBasePath, idProvider.NewMembershipIdProvider(sm.stores))
	services.NewDedupeService(sm.mux, apiBasePath, dedupeProvider.NewDedupeProvider(sm.stores, sm.dedupe))
	services.NewAuditLogService(sm.mux, apiBasePath, auditProvider.NewAuditLogProvider(sm.stores))
	services.NewHealthService(sm.mux, healthProvider.NewHealthCheckProvider(sm.stores.Members))
	return nil
}
