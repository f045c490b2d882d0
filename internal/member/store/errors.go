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

package store

import (
	"fmt"
	"net/http"

	errors2 "github.com/pjdagdal/member-data-service/internal/system/errors"
	"github.com/pjdagdal/member-data-service/internal/system/log"
)

// serverError logs the failure and wraps it as ErrStorageUnavailable.
func serverError(msg errors2.ErrorMessage, description string, err error) error {
	log.GetLogger().Debug(description, log.Error(err))
	return errors2.NewServerError(errors2.ErrorMessage{
		Code:        msg.Code,
		Message:     msg.Message,
		Description: description,
	}, errors2.StorageUnavailable(err))
}

// conflictError reports a unique constraint violation as a validation failure.
func conflictError(description string, err error) error {
	log.GetLogger().Debug(description, log.Error(err))
	return errors2.NewClientErrorWithCause(errors2.ErrorMessage{
		Code:        errors2.MEMBER_ALREADY_EXISTS.Code,
		Message:     errors2.MEMBER_ALREADY_EXISTS.Message,
		Description: description,
	}, http.StatusConflict, errors2.Validation(err))
}

func unknownFieldError(field string) error {
	return errors2.NewClientErrorWithCause(errors2.ErrorMessage{
		Code:        errors2.MEMBER_VALIDATION.Code,
		Message:     errors2.MEMBER_VALIDATION.Message,
		Description: fmt.Sprintf("Field '%s' cannot be updated.", field),
	}, http.StatusBadRequest, errors2.Validation(fmt.Errorf("unknown field %q", field)))
}

func memberNotFoundError(id string) error {
	return errors2.NewClientErrorWithCause(errors2.ErrorMessage{
		Code:        errors2.MEMBER_NOT_FOUND.Code,
		Message:     errors2.MEMBER_NOT_FOUND.Message,
		Description: fmt.Sprintf("Member '%s' does not exist.", id),
	}, http.StatusNotFound, errors2.NotFound("member %s", id))
}
