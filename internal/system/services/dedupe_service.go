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

	"github.com/pjdagdal/member-data-service/internal/dedupe/handler"
	"github.com/pjdagdal/member-data-service/internal/dedupe/provider"
)

type DedupeService struct {
	handler *handler.DedupeHandler
}

func NewDedupeService(mux *http.ServeMux, apiBasePath string, dedupeProvider provider.DedupeProviderInterface) *DedupeService {
	instance := &DedupeService{
		handler: handler.NewDedupeHandler(dedupeProvider),
	}
	instance.RegisterRoutes(mux, apiBasePath)
	return instance
}

func (s *DedupeService) RegisterRoutes(mux *http.ServeMux, apiBasePath string) {
	mux.HandleFunc(fmt.Sprintf("POST %s/admin/dedupe", apiBasePath), s.handler.RunDedupe)
}
