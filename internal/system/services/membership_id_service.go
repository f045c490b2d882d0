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

package services

import (
	"fmt"
	"net/http"

	"github.com/pjdagdal/member-data-service/internal/membership_ids/handler"
	"github.com/pjdagdal/member-data-service/internal/membership_ids/provider"
)

type MembershipIdService struct {
	handler *handler.MembershipIdHandler
}

func NewMembershipIdService(mux *http.ServeMux, apiBasePath string,
	idProvider provider.MembershipIdProviderInterface) *MembershipIdService {
	instance := &MembershipIdService{
		handler: handler.NewMembershipIdHandler(idProvider),
	}
	instance.RegisterRoutes(mux, apiBasePath)
	return instance
}

func (s *MembershipIdService) RegisterRoutes(mux *http.ServeMux, apiBasePath string) {
	mux.HandleFunc(fmt.Sprintf("GET %s/admin/membership-ids/preview", apiBasePath), s.handler.PreviewAssignments)
	mux.HandleFunc(fmt.Sprintf("POST %s/admin/membership-ids/preview", apiBasePath), s.handler.PreviewAssignments)
	mux.HandleFunc(fmt.Sprintf("POST %s/admin/membership-ids/apply", apiBasePath), s.handler.ApplyAssignments)
	mux.HandleFunc(fmt.Sprintf("POST %s/admin/membership-ids/backfill", apiBasePath), s.handler.BackfillMembershipIds)
}
