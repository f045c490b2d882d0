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

	"github.com/pjdagdal/member-data-service/internal/membership_ids/model"
	"github.com/pjdagdal/member-data-service/internal/membership_ids/provider"
	"github.com/pjdagdal/member-data-service/internal/system/constants"
	"github.com/pjdagdal/member-data-service/internal/system/security"
	"github.com/pjdagdal/member-data-service/internal/system/utils"
)

type MembershipIdHandler struct {
	provider provider.MembershipIdProviderInterface
}

func NewMembershipIdHandler(idProvider provider.MembershipIdProviderInterface) *MembershipIdHandler {
	return &MembershipIdHandler{provider: idProvider}
}

// PreviewAssignments handles GET and POST /admin/membership-ids/preview. The year is read from the
// query string, or from the body on POST.
func (h *MembershipIdHandler) PreviewAssignments(w http.ResponseWriter, r *http.Request) {

	r, err := security.AuthnAndAuthz(r, constants.OperationManageMembershipIds)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	request, err := readAssignmentRequest(r)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	idService := h.provider.GetMembershipIdService()
	preview, err := idService.PreviewAssignments(r.Context(), request.Year)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, preview)
}

// ApplyAssignments handles POST /admin/membership-ids/apply
func (h *MembershipIdHandler) ApplyAssignments(w http.ResponseWriter, r *http.Request) {

	r, err := security.AuthnAndAuthz(r, constants.OperationManageMembershipIds)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	request, err := readAssignmentRequest(r)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	idService := h.provider.GetMembershipIdService()
	result, err := idService.ApplyAssignments(r.Context(), request.Year, request.Mode)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, result)
}

// BackfillMembershipIds handles POST /admin/membership-ids/backfill
func (h *MembershipIdHandler) BackfillMembershipIds(w http.ResponseWriter, r *http.Request) {

	r, err := security.AuthnAndAuthz(r, constants.OperationManageMembershipIds)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	idService := h.provider.GetMembershipIdService()
	assigned, err := idService.BackfillMembershipIds(r.Context())
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, model.BackfillResult{Assigned: assigned})
}

func readAssignmentRequest(r *http.Request) (model.AssignmentRequest, error) {
	var request model.AssignmentRequest
	if r.Method == http.MethodPost {
		if err := utils.DecodeJSON(r, &request, "membership id assignment", true); err != nil {
			return request, err
		}
	}
	year, err := utils.QueryInt(r, "year", request.Year)
	if err != nil {
		return request, err
	}
	request.Year = year
	if mode := r.URL.Query().Get("mode"); mode != "" {
		request.Mode = mode
	}
	return request, nil
}
