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

package model

import "time"

// Member is the canonical per-person record tracked by the organization.
type Member struct {
	Id                           string     `json:"id"`
	MembershipId                 string     `json:"membership_id,omitempty" validate:"omitempty,max=64"`
	FullName                     string     `json:"full_name" validate:"notblank,max=255"`
	Phone                        string     `json:"phone,omitempty" validate:"omitempty,max=64"`
	Email                        string     `json:"email,omitempty" validate:"omitempty,email"`
	NationalId                   string     `json:"national_id,omitempty" validate:"omitempty,max=64"`
	Address                      string     `json:"address,omitempty"`
	DateOfBirth                  *time.Time `json:"date_of_birth,omitempty"`
	Bio                          string     `json:"bio,omitempty"`
	Gender                       string     `json:"gender,omitempty" validate:"omitempty,oneof=M F"`
	EducationLevel               string     `json:"education_level,omitempty" validate:"omitempty,oneof=none primary secondary bachelor master phd other"`
	Occupation                   string     `json:"occupation,omitempty" validate:"omitempty,oneof=unemployed student private public self_employed retired other"`
	MemberType                   string     `json:"member_type,omitempty" validate:"omitempty,oneof=bureau active sympathizer"`
	Role                         string     `json:"role,omitempty"`
	PdfUrl                       string     `json:"pdf_url,omitempty" validate:"omitempty,url"`
	MemberOfRegionalBodies       bool       `json:"member_of_regional_bodies"`
	MemberOfRegionalBodiesDetail string     `json:"member_of_regional_bodies_detail,omitempty"`
	AssignedMission              bool       `json:"assigned_mission"`
	AssignedMissionDetail        string     `json:"assigned_mission_detail,omitempty"`
	PreviousPartyExperiences     string     `json:"previous_party_experiences,omitempty"`
	Status                       string     `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
	JoinedAt                     *time.Time `json:"joined_at,omitempty"`
	CreatedAt                    time.Time  `json:"created_at"`
	UpdatedAt                    time.Time  `json:"updated_at"`
}

// Field names accepted by MemberStore.UpdateFields. They match the JSON names of Member.
const (
	FieldMembershipId                 = "membership_id"
	FieldFullName                     = "full_name"
	FieldPhone                        = "phone"
	FieldEmail                        = "email"
	FieldNationalId                   = "national_id"
	FieldAddress                      = "address"
	FieldDateOfBirth                  = "date_of_birth"
	FieldBio                          = "bio"
	FieldGender                       = "gender"
	FieldEducationLevel               = "education_level"
	FieldOccupation                   = "occupation"
	FieldMemberType                   = "member_type"
	FieldRole                         = "role"
	FieldPdfUrl                       = "pdf_url"
	FieldMemberOfRegionalBodies       = "member_of_regional_bodies"
	FieldMemberOfRegionalBodiesDetail = "member_of_regional_bodies_detail"
	FieldAssignedMission              = "assigned_mission"
	FieldAssignedMissionDetail        = "assigned_mission_detail"
	FieldPreviousPartyExperiences     = "previous_party_experiences"
	FieldStatus                       = "status"
	FieldJoinedAt                     = "joined_at"
)

// ImportResult summarizes a bulk import.
type ImportResult struct {
	Created int      `json:"created"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// ApplyField sets a single named field on m. It returns false for names that are not updatable.
func ApplyField(m *Member, field string, value interface{}) bool {
	switch field {
	case FieldDateOfBirth, FieldJoinedAt:
		var t *time.Time
		switch v := value.(type) {
		case time.Time:
			t = &v
		case *time.Time:
			t = v
		case nil:
		default:
			return false
		}
		if field == FieldDateOfBirth {
			m.DateOfBirth = t
		} else {
			m.JoinedAt = t
		}
		return true
	case FieldMemberOfRegionalBodies, FieldAssignedMission:
		b, ok := value.(bool)
		if !ok {
			return false
		}
		if field == FieldAssignedMission {
			m.AssignedMission = b
		} else {
			m.MemberOfRegionalBodies = b
		}
		return true
	}

	s, ok := value.(string)
	if !ok {
		return false
	}
	target := stringField(m, field)
	if target == nil {
		return false
	}
	*target = s
	return true
}

// StringField exposes a pointer to a string field by name, or nil for non string fields.
func StringField(m *Member, field string) *string {
	return stringField(m, field)
}

func stringField(m *Member, field string) *string {
	switch field {
	case FieldMembershipId:
		return &m.MembershipId
	case FieldFullName:
		return &m.FullName
	case FieldPhone:
		return &m.Phone
	case FieldEmail:
		return &m.Email
	case FieldNationalId:
		return &m.NationalId
	case FieldAddress:
		return &m.Address
	case FieldBio:
		return &m.Bio
	case FieldGender:
		return &m.Gender
	case FieldEducationLevel:
		return &m.EducationLevel
	case FieldOccupation:
		return &m.Occupation
	case FieldMemberType:
		return &m.MemberType
	case FieldRole:
		return &m.Role
	case FieldPdfUrl:
		return &m.PdfUrl
	case FieldMemberOfRegionalBodiesDetail:
		return &m.MemberOfRegionalBodiesDetail
	case FieldAssignedMissionDetail:
		return &m.AssignedMissionDetail
	case FieldPreviousPartyExperiences:
		return &m.PreviousPartyExperiences
	case FieldStatus:
		return &m.Status
	}
	return nil
}
