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
	auditService "github.com/pjdagdal/member-data-service/internal/audit/service"
	"github.com/pjdagdal/member-data-service/internal/dedupe/service"
	dedupeStore "github.com/pjdagdal/member-data-service/internal/dedupe/store"
	"github.com/pjdagdal/member-data-service/internal/member/store"
	"github.com/pjdagdal/member-data-service/internal/system/config"
)

// DedupeProviderInterface defines the interface for the dedupe provider.
type DedupeProviderInterface interface {
	GetDedupeService() (service.DedupeServiceInterface, error)
}

// DedupeProvider is the default implementation of the DedupeProviderInterface.
type DedupeProvider struct {
	stores *store.Stores
	config config.DedupeConfig
}

// NewDedupeProvider creates a new instance of DedupeProvider.
func NewDedupeProvider(stores *store.Stores, cfg config.DedupeConfig) DedupeProviderInterface {
	return &DedupeProvider{stores: stores, config: cfg}
}

// GetDedupeService builds the dedupe service with the configured identity keys and report sink.
func (p *DedupeProvider) GetDedupeService() (service.DedupeServiceInterface, error) {
	extractors, err := service.ExtractorsFor(p.config.IdentityKeys)
	if err != nil {
		return nil, err
	}
	reports, err := dedupeStore.NewReportWriter(p.config.Report)
	if err != nil {
		return nil, err
	}
	return service.NewDedupeService(p.stores.Members, extractors, auditService.NewRecorder(p.stores.Audit), reports), nil
}
