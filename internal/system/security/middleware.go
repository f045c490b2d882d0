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

package security

import (
	"net/http"
	"strings"

	"github.com/pjdagdal/member-data-service/internal/system/authn"
	"github.com/pjdagdal/member-data-service/internal/system/authz"
	traceCtx "github.com/pjdagdal/member-data-service/internal/system/context"
	"github.com/pjdagdal/member-data-service/internal/system/errors"
	"github.com/pjdagdal/member-data-service/internal/system/log"
)

// AuthnAndAuthz authenticates the bearer token of r and checks its role against operation. The returned
// request carries the token subject as the acting principal.
func AuthnAndAuthz(r *http.Request, operation string) (*http.Request, error) {

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return r, errors.NewClientError(errors.ErrorMessage{
			Code:        errors.UN_AUTHORIZED.Code,
			Message:     errors.UN_AUTHORIZED.Message,
			Description: "Missing or invalid Authorization header",
		}, http.StatusUnauthorized)
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

	claims, err := authn.ValidateAuthenticationAndReturnClaims(token)
	if err != nil {
		log.GetLogger().Audit(log.AuditEvent{
			InitiatorType: log.InitiatorTypeUser,
			ActionID:      log.ActionAuthenticationFailure,
			TraceID:       traceCtx.GetTraceID(r.Context()),
		})
		return r, err
	}

	if !authz.ValidatePermission(claims.Role, operation) {
		log.GetLogger().Audit(log.AuditEvent{
			InitiatorID:   claims.Subject,
			InitiatorType: log.InitiatorTypeUser,
			ActionID:      log.ActionAuthorizationFailure,
			TraceID:       traceCtx.GetTraceID(r.Context()),
			Data:          map[string]string{"operation": operation, "role": claims.Role},
		})
		return r, errors.NewClientError(errors.ErrorMessage{
			Code:        errors.FORBIDDEN.Code,
			Message:     errors.FORBIDDEN.Message,
			Description: "Do not have permission to perform this operation",
		}, http.StatusForbidden)
	}

	actor := claims.Subject
	if actor == "" {
		actor = claims.Role
	}
	return r.WithContext(traceCtx.WithActor(r.Context(), actor)), nil
}
