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

package authz

import (
	"slices"

	"github.com/pjdagdal/member-data-service/internal/system/constants"
	"github.com/pjdagdal/member-data-service/internal/system/log"
)

// ValidatePermission reports whether role may perform operation.
func ValidatePermission(role string, operation string) bool {

	logger := log.GetLogger()
	if role == "" {
		logger.Debug("No role provided for operation", log.String("operation", operation))
		return false
	}
	allowed, ok := constants.OperationRoles[operation]
	if !ok {
		logger.Debug("No roles registered for operation", log.String("operation", operation))
		return false
	}
	return slices.Contains(allowed, role)
}
