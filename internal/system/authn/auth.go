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

package authn

import (
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pjdagdal/member-data-service/internal/system/config"
	errors2 "github.com/pjdagdal/member-data-service/internal/system/errors"
	"github.com/pjdagdal/member-data-service/internal/system/log"
)

// Claims carried by access tokens.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// ValidateAuthenticationAndReturnClaims verifies an HS256 bearer token with the configured secret.
func ValidateAuthenticationAndReturnClaims(token string) (*Claims, error) {
	return ValidateToken(token, config.GetRuntime().Config.Auth)
}

// ValidateToken verifies the signature, expiry and, when configured, the issuer of token.
func ValidateToken(token string, auth config.AuthConfig) (*Claims, error) {

	logger := log.GetLogger()
	if auth.JWTSecret == "" {
		logger.Debug("No JWT secret configured; rejecting token.")
		return nil, unauthorizedError("Token verification is not configured.")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if auth.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(auth.Issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(auth.JWTSecret), nil
	}, opts...)
	if err != nil {
		description := "Invalid access token."
		if errors.Is(err, jwt.ErrTokenExpired) {
			description = "Access token has expired."
		}
		logger.Debug("Token validation failed.", log.Error(err))
		return nil, unauthorizedError(description)
	}
	if claims.Role == "" {
		logger.Debug("Token does not carry a role claim.")
		return nil, unauthorizedError("Access token has no role.")
	}
	return claims, nil
}

func unauthorizedError(description string) error {
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.UN_AUTHORIZED.Code,
		Message:     errors2.UN_AUTHORIZED.Message,
		Description: description,
	}, http.StatusUnauthorized)
}
