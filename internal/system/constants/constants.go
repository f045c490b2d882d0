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

package constants

type contextKey string

const (
	TraceIDContextKey contextKey = "traceID"
	ActorContextKey   contextKey = "actor"
	TraceIDHeader                = "X-Trace-Id"
)

const ApiBasePath = "/api/v1"

// Collection and table names.
const (
	MemberCollection   = "members"
	CounterCollection  = "counters"
	AuditLogCollection = "auditlogs"
)

// Counter names.
const (
	MembershipIdCounter = "membershipId"
	YearCounterPrefix   = "memberId-"
)

// MembershipIdPadWidth is the zero padding width of the sequence part of M-<year>-<seq>.
const MembershipIdPadWidth = 5

// Membership id assignment modes.
const (
	AssignmentModeFill     = "fill"
	AssignmentModeReassign = "reassign"
)

// Roles, as issued in the "role" claim of access tokens.
const (
	RoleAdmin       = "admin"
	RoleSecretary   = "secretary"
	RoleResponsible = "responsible"
	RoleViewer      = "viewer"
)

// Operations checked by the authorization layer.
const (
	OperationViewMembers         = "members:view"
	OperationCreateMembers       = "members:create"
	OperationManageMembershipIds = "membership_ids:manage"
	OperationRunDedupe           = "dedupe:run"
	OperationViewAuditLogs       = "audit:view"
)

// OperationRoles maps each operation to the roles allowed to perform it.
var OperationRoles = map[string][]string{
	OperationViewMembers:         {RoleAdmin, RoleSecretary, RoleResponsible, RoleViewer},
	OperationCreateMembers:       {RoleAdmin, RoleSecretary},
	OperationManageMembershipIds: {RoleAdmin},
	OperationRunDedupe:           {RoleAdmin},
	OperationViewAuditLogs:       {RoleAdmin},
}

// ScriptActor is the audit actor for work triggered from the CLI.
const ScriptActor = "script"

const DefaultMemberListLimit = 100

// Audit log listing page sizes.
const (
	DefaultAuditLogLimit = 100
	MaxAuditLogLimit     = 1000
)
