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

package utils

import (
	"encoding/json"
	"errors" // Standard Go errors package
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/pjdagdal/member-data-service/internal/system/constants"
	traceCtx "github.com/pjdagdal/member-data-service/internal/system/context"
	customerrors "github.com/pjdagdal/member-data-service/internal/system/errors"
	"github.com/pjdagdal/member-data-service/internal/system/log"
)

// HandleError sends an HTTP error response based on the provided error
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	traceID := traceCtx.GetTraceID(r.Context())
	w.Header().Set("Content-Type", "application/json")
	if traceID != "" {
		w.Header().Set(constants.TraceIDHeader, traceID)
	}

	var clientError *customerrors.ClientError
	if ok := errors.As(err, &clientError); ok {
		msg := clientError.ErrorMessage
		msg.TraceID = traceID
		w.WriteHeader(clientError.StatusCode)
		_ = json.NewEncoder(w).Encode(msg)
		return
	}

	logger := log.GetLogger()
	logger.Error(err.Error(), log.String("traceId", traceID))
	status := http.StatusInternalServerError
	if errors.Is(err, customerrors.ErrStorageUnavailable) {
		status = http.StatusServiceUnavailable
	}
	w.WriteHeader(status)

	var serverError *customerrors.ServerError
	if ok := errors.As(err, &serverError); ok {
		_ = json.NewEncoder(w).Encode(customerrors.ErrorMessage{
			Code:    serverError.Code,
			Message: serverError.Message,
			TraceID: traceID,
		})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":    "Internal server error",
		"trace_id": traceID,
	})
}

// RespondJSON writes body as JSON with the given status.
func RespondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.GetLogger().Debug("Failed to encode response", log.Error(err))
	}
}

// BadRequest builds a client error for a malformed request.
func BadRequest(description string) *customerrors.ClientError {
	return customerrors.NewClientErrorWithCause(customerrors.ErrorMessage{
		Code:        customerrors.BAD_REQUEST.Code,
		Message:     customerrors.BAD_REQUEST.Message,
		Description: description,
	}, http.StatusBadRequest, customerrors.Validation(errors.New(description)))
}

// DecodeJSON reads the request body into v. An empty body is accepted when allowEmpty is set.
func DecodeJSON(r *http.Request, v interface{}, resourceName string, allowEmpty bool) error {
	if r.Body == nil || (r.ContentLength == 0 && allowEmpty) {
		return nil
	}
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return nil
		}
		return BadRequest(HandleDecodeError(err, resourceName))
	}
	return nil
}

// QueryInt parses an optional integer query parameter.
func QueryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, BadRequest(fmt.Sprintf("Query parameter '%s' must be an integer.", name))
	}
	return value, nil
}

// QueryBool parses an optional boolean query parameter.
func QueryBool(r *http.Request, name string, fallback bool) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, BadRequest(fmt.Sprintf("Query parameter '%s' must be a boolean.", name))
	}
	return value, nil
}
