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
	"github.com/pjdagdal/member-data-service/internal/member/service"
	"github.com/pjdagdal/member-data-service/internal/member/store"
	idService "github.com/pjdagdal/member-data-service/internal/membership_ids/service"
)

// MemberProviderInterface defines the interface for the member provider.
type MemberProviderInterface interface {
	GetMemberService() service.MemberServiceInterface
}

// MemberProvider is the default implementation of the MemberProviderInterface.
type MemberProvider struct {
	stores *store.Stores
}

// NewMemberProvider creates a new instance of MemberProvider.
func NewMemberProvider(stores *store.Stores) MemberProviderInterface {
	return &MemberProvider{stores: stores}
}

// GetMemberService returns a member service bound to the configured stores.
func (mp *MemberProvider) GetMemberService() service.MemberServiceInterface {
	recorder := auditService.NewRecorder(mp.stores.Audit)
	ids := idService.NewMembershipIdService(mp.stores.Members, mp.stores.Counters, recorder)
	return service.NewMemberService(mp.stores.Members, ids, recorder)
}
