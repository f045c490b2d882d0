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

// Package securitytest issues access tokens for handler tests.
package securitytest

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pjdagdal/member-data-service/internal/system/config"
)

const Secret = "handler-test-secret"

// Configure installs a runtime configuration whose tokens are signed with Secret.
func Configure() {
	config.OverrideRuntime(config.Config{Auth: config.AuthConfig{JWTSecret: Secret}})
}

// Token signs an access token for subject with the given role, valid for an hour.
func Token(subject, role string) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(Secret))
	if err != nil {
		panic(err)
	}
	return token
}

// Authorize sets the bearer token of r for subject and role.
func Authorize(r *http.Request, subject, role string) *http.Request {
	r.Header.Set("Authorization", "Bearer "+Token(subject, role))
	return r
}
