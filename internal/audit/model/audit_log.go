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

// Audit actions persisted to the audit trail.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Resource types persisted to the audit trail.
const (
	ResourceMember     = "Member"
	ResourceMemberBulk = "MemberBulk"
	ResourceCounter    = "Counter"
)

// AuditLog is a single persisted audit entry.
type AuditLog struct {
	Id           string      `json:"id"`
	Actor        string      `json:"actor"`
	Action       string      `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceId   string      `json:"resource_id,omitempty"`
	Before       interface{} `json:"before,omitempty"`
	After        interface{} `json:"after,omitempty"`
	Ip           string      `json:"ip,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

// AuditLogFilter narrows an audit log listing. Empty fields match everything.
type AuditLogFilter struct {
	Actor        string
	Action       string
	ResourceType string
}

// AuditLogPage is one page of audit entries, newest first.
type AuditLogPage struct {
	Count int        `json:"count"`
	Data  []AuditLog `json:"data"`
}
