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

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pjdagdal/member-data-service/internal/member/store"
	"github.com/pjdagdal/member-data-service/internal/system/log"
)

const readinessTimeout = 3 * time.Second

// HealthCheckServiceInterface defines the service interface.
type HealthCheckServiceInterface interface {
	CheckReadiness(ctx context.Context) error
}

// HealthCheckService is the default implementation.
type HealthCheckService struct {
	members store.MemberStore
}

// NewHealthCheckService returns a new instance checking the given member store.
func NewHealthCheckService(members store.MemberStore) HealthCheckServiceInterface {
	return &HealthCheckService{members: members}
}

func (h *HealthCheckService) CheckReadiness(ctx context.Context) error {
	if h.members == nil {
		return fmt.Errorf("member store not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()
	if err := h.members.Ping(ctx); err != nil {
		log.GetLogger().Debug("Readiness check failed", log.Error(err))
		return fmt.Errorf("database connectivity check failed: %w", err)
	}
	return nil
}
