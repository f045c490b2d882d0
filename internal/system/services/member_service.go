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

	"github.com/pjdagdal/member-data-service/internal/member/handler"
	"github.com/pjdagdal/member-data-service/internal/member/provider"
)

type MemberService struct {
	handler *handler.MemberHandler
}

func NewMemberService(mux *http.ServeMux, apiBasePath string, memberProvider provider.MemberProviderInterface) *MemberService {
	instance := &MemberService{
		handler: handler.NewMemberHandler(memberProvider),
	}
	instance.RegisterRoutes(mux, apiBasePath)
	return instance
}

func (s *MemberService) RegisterRoutes(mux *http.ServeMux, apiBasePath string) {
	mux.HandleFunc(fmt.Sprintf("POST %s/members", apiBasePath), s.handler.CreateMember)
	mux.HandleFunc(fmt.Sprintf("POST %s/members/import", apiBasePath), s.handler.ImportMembers)
	mux.HandleFunc(fmt.Sprintf("GET %s/members", apiBasePath), s.handler.ListMembers)
	mux.HandleFunc(fmt.Sprintf("GET %s/members/{id}", apiBasePath), s.handler.GetMember)
}
