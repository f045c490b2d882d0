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

package handler

import (
	"net/http"

	"github.com/pjdagdal/member-data-service/internal/dedupe/model"
	"github.com/pjdagdal/member-data-service/internal/dedupe/provider"
	"github.com/pjdagdal/member-data-service/internal/system/constants"
	"github.com/pjdagdal/member-data-service/internal/system/errors"
	"github.com/pjdagdal/member-data-service/internal/system/log"
	"github.com/pjdagdal/member-data-service/internal/system/security"
	"github.com/pjdagdal/member-data-service/internal/system/utils"
)

type DedupeHandler struct {
	provider provider.DedupeProviderInterface
}

func NewDedupeHandler(dedupeProvider provider.DedupeProviderInterface) *DedupeHandler {
	return &DedupeHandler{provider: dedupeProvider}
}

// RunDedupe handles POST /admin/dedupe. Options come from the body, overridden by the apply and limit
// query parameters. Without apply the run is a dry run.
func (h *DedupeHandler) RunDedupe(w http.ResponseWriter, r *http.Request) {

	r, err := security.AuthnAndAuthz(r, constants.OperationRunDedupe)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	var opts model.Options
	if err := utils.DecodeJSON(r, &opts, "dedupe options", true); err != nil {
		utils.HandleError(w, r, err)
		return
	}
	if opts.Apply, err = utils.QueryBool(r, "apply", opts.Apply); err != nil {
		utils.HandleError(w, r, err)
		return
	}
	if opts.Limit, err = utils.QueryInt(r, "limit", opts.Limit); err != nil {
		utils.HandleError(w, r, err)
		return
	}

	dedupeService, err := h.provider.GetDedupeService()
	if err != nil {
		log.GetLogger().Error("Failed to build dedupe service", log.Error(err))
		utils.HandleError(w, r, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.RUN_DEDUPE.Code,
			Message:     errors.RUN_DEDUPE.Message,
			Description: err.Error(),
		}, err))
		return
	}
	result, err := dedupeService.Run(r.Context(), opts)
	if err != nil && result == nil {
		utils.HandleError(w, r, err)
		return
	}
	if err != nil {
		log.GetLogger().Warn("Dedupe report could not be persisted", log.Error(err))
	}
	utils.RespondJSON(w, http.StatusOK, result)
}
