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
	"net/http"

	"github.com/pjdagdal/member-data-service/internal/health_check/handler"
	"github.com/pjdagdal/member-data-service/internal/health_check/provider"
	"github.com/pjdagdal/member-data-service/internal/system/metrics"
)

// HealthService handles routing for the health, readiness and metrics endpoints.
type HealthService struct {
	handler *handler.HealthHandler
}

// NewHealthService creates a new HealthService instance and registers its routes at the server root.
func NewHealthService(mux *http.ServeMux, healthProvider provider.HealthCheckProviderInterface) *HealthService {
	instance := &HealthService{
		handler: handler.NewHealthHandler(healthProvider),
	}
	instance.RegisterRoutes(mux)
	return instance
}

func (s *HealthService) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handler.HandleHealth)
	mux.HandleFunc("GET /ready", s.handler.HandleReadiness)
	mux.Handle("GET /metrics", metrics.Handler())
}
