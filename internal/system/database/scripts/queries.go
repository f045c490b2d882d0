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

package scripts

// Schema lists the DDL statements for the postgres backend, in execution order.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS members (
		id VARCHAR(36) PRIMARY KEY,
		row_order BIGSERIAL NOT NULL,
		membership_id VARCHAR(64) UNIQUE,
		full_name TEXT NOT NULL,
		phone VARCHAR(64),
		email VARCHAR(255),
		national_id VARCHAR(64) UNIQUE,
		address TEXT,
		date_of_birth TIMESTAMPTZ,
		bio TEXT,
		gender VARCHAR(1),
		education_level VARCHAR(32),
		occupation VARCHAR(32),
		member_type VARCHAR(32),
		role VARCHAR(64),
		pdf_url TEXT,
		member_of_regional_bodies BOOLEAN NOT NULL DEFAULT FALSE,
		member_of_regional_bodies_detail TEXT,
		assigned_mission BOOLEAN NOT NULL DEFAULT FALSE,
		assigned_mission_detail TEXT,
		previous_party_experiences TEXT,
		status VARCHAR(16),
		joined_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_members_row_order ON members (row_order)`,
	`CREATE TABLE IF NOT EXISTS counters (
		name VARCHAR(255) PRIMARY KEY,
		seq BIGINT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
		id VARCHAR(36) PRIMARY KEY,
		actor VARCHAR(255),
		action VARCHAR(64) NOT NULL,
		resource_type VARCHAR(64),
		resource_id VARCHAR(64),
		before_state JSONB,
		after_state JSONB,
		ip VARCHAR(64),
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_logs_created_at ON audit_logs (created_at DESC)`,
}

const memberColumns = `id, membership_id, full_name, phone, email, national_id, address, date_of_birth, bio, gender,
	education_level, occupation, member_type, role, pdf_url, member_of_regional_bodies,
	member_of_regional_bodies_detail, assigned_mission, assigned_mission_detail, previous_party_experiences,
	status, joined_at, created_at, updated_at`

var InsertMember = map[string]string{
	"postgres": `INSERT INTO members (` + memberColumns + `) VALUES
	($1, NULLIF($2, ''), $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19,
	 $20, $21, $22, $23, $24)`,
}

var GetAllMembers = map[string]string{
	"postgres": `SELECT ` + memberColumns + ` FROM members ORDER BY row_order ASC`,
}

var GetMembersWithoutMembershipId = map[string]string{
	"postgres": `SELECT ` + memberColumns + ` FROM members WHERE membership_id IS NULL OR membership_id = ''
	ORDER BY row_order ASC`,
}

var GetMemberById = map[string]string{
	"postgres": `SELECT ` + memberColumns + ` FROM members WHERE id = $1`,
}

var ListMembers = map[string]string{
	"postgres": `SELECT ` + memberColumns + ` FROM members ORDER BY row_order ASC LIMIT $1 OFFSET $2`,
}

var DeleteMembers = map[string]string{
	"postgres": `DELETE FROM members WHERE id = ANY($1)`,
}

// IncrementCounter creates the counter at 1 or bumps it by one in a single statement.
var IncrementCounter = map[string]string{
	"postgres": `INSERT INTO counters (name, seq) VALUES ($1, 1)
	ON CONFLICT (name) DO UPDATE SET seq = counters.seq + 1 RETURNING seq`,
}

var GetCounter = map[string]string{
	"postgres": `SELECT seq FROM counters WHERE name = $1`,
}

var InsertAuditLog = map[string]string{
	"postgres": `INSERT INTO audit_logs (id, actor, action, resource_type, resource_id, before_state, after_state, ip,
	created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
}

// ListAuditLogs treats an empty filter argument as a wildcard.
var ListAuditLogs = map[string]string{
	"postgres": `SELECT id, actor, action, resource_type, resource_id, before_state, after_state, ip, created_at
	FROM audit_logs
	WHERE ($1 = '' OR actor = $1) AND ($2 = '' OR action = $2) AND ($3 = '' OR resource_type = $3)
	ORDER BY created_at DESC, id DESC LIMIT $4 OFFSET $5`,
}
