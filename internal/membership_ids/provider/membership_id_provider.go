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
	"github.com/pjdagdal/member-data-service/internal/member/store"
	"github.com/pjdagdal/member-data-service/internal/membership_ids/service"
)

// MembershipIdProviderInterface defines the interface for the membership id provider.
type MembershipIdProviderInterface interface {
	GetMembershipIdService() service.MembershipIdServiceInterface
}

// MembershipIdProvider is the default implementation of the MembershipIdProviderInterface.
type MembershipIdProvider struct {
	stores *store.Stores
}

// NewMembershipIdProvider creates a new instance of MembershipIdProvider.
func NewMembershipIdProvider(stores *store.Stores) MembershipIdProviderInterface {
	return &MembershipIdProvider{stores: stores}
}

// GetMembershipIdService returns the membership id service instance.
func (p *MembershipIdProvider) GetMembershipIdService() service.MembershipIdServiceInterface {
	return service.NewMembershipIdService(p.stores.Members, p.stores.Counters, auditService.NewRecorder(p.stores.Audit))
}
