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

// Assignment is one membership id given, or to be given, to a member.
type Assignment struct {
	MemberId             string `json:"member_id"`
	FullName             string `json:"full_name"`
	MembershipId         string `json:"membership_id"`
	PreviousMembershipId string `json:"previous_membership_id,omitempty"`
}

// PreviewResult lists the assignments an apply in fill mode would make.
type PreviewResult struct {
	Year        int          `json:"year"`
	StartingSeq int64        `json:"starting_seq"`
	Assignments []Assignment `json:"assignments"`
}

// ApplyResult lists the assignments that were persisted.
type ApplyResult struct {
	Year         int          `json:"year"`
	Mode         string       `json:"mode"`
	AppliedCount int          `json:"applied_count"`
	Applied      []Assignment `json:"applied"`
}

// AssignmentRequest is the body accepted by the preview and apply endpoints.
type AssignmentRequest struct {
	Year int    `json:"year"`
	Mode string `json:"mode,omitempty"`
}

// BackfillResult reports how many members received a global membership id.
type BackfillResult struct {
	Assigned int `json:"assigned"`
}
