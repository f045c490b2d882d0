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

	"github.com/pjdagdal/member-data-service/internal/member/model"
	"github.com/pjdagdal/member-data-service/internal/member/provider"
	"github.com/pjdagdal/member-data-service/internal/system/constants"
	"github.com/pjdagdal/member-data-service/internal/system/security"
	"github.com/pjdagdal/member-data-service/internal/system/utils"
)

type MemberHandler struct {
	provider provider.MemberProviderInterface
}

func NewMemberHandler(memberProvider provider.MemberProviderInterface) *MemberHandler {
	return &MemberHandler{provider: memberProvider}
}

// CreateMember handles POST /members
func (h *MemberHandler) CreateMember(w http.ResponseWriter, r *http.Request) {

	r, err := security.AuthnAndAuthz(r, constants.OperationCreateMembers)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	var member model.Member
	if err := utils.DecodeJSON(r, &member, "member", false); err != nil {
		utils.HandleError(w, r, err)
		return
	}

	memberService := h.provider.GetMemberService()
	created, err := memberService.CreateMember(r.Context(), member)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, created)
}

// ImportMembers handles POST /members/import
func (h *MemberHandler) ImportMembers(w http.ResponseWriter, r *http.Request) {

	r, err := security.AuthnAndAuthz(r, constants.OperationCreateMembers)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	var members []model.Member
	if err := utils.DecodeJSON(r, &members, "member list", false); err != nil {
		utils.HandleError(w, r, err)
		return
	}

	memberService := h.provider.GetMemberService()
	result, err := memberService.ImportMembers(r.Context(), members)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, result)
}

// GetMember handles GET /members/{id}
func (h *MemberHandler) GetMember(w http.ResponseWriter, r *http.Request) {

	r, err := security.AuthnAndAuthz(r, constants.OperationViewMembers)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	memberId := r.PathValue("id")
	if memberId == "" {
		utils.HandleError(w, r, utils.BadRequest("Member id is required."))
		return
	}

	memberService := h.provider.GetMemberService()
	member, err := memberService.GetMember(r.Context(), memberId)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, member)
}

// ListMembers handles GET /members
func (h *MemberHandler) ListMembers(w http.ResponseWriter, r *http.Request) {

	r, err := security.AuthnAndAuthz(r, constants.OperationViewMembers)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	limit, err := utils.QueryInt(r, "limit", constants.DefaultMemberListLimit)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	offset, err := utils.QueryInt(r, "offset", 0)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	memberService := h.provider.GetMemberService()
	members, err := memberService.ListMembers(r.Context(), limit, offset)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, members)
}
