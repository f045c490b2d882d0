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

package errors

const errorPrefix = "MDS-"

var (
	// Server error codes

	ALLOCATE_MEMBERSHIP_ID = ErrorMessage{
		Code:    errorPrefix + "15001",
		Message: "Error while allocating a membership id.",
	}

	FETCH_COUNTER = ErrorMessage{
		Code:    errorPrefix + "15002",
		Message: "Error while fetching counter.",
	}

	ADD_MEMBER = ErrorMessage{
		Code:    errorPrefix + "15003",
		Message: "Error while adding member.",
	}

	FETCH_MEMBERS = ErrorMessage{
		Code:    errorPrefix + "15004",
		Message: "Error while fetching member(s).",
	}

	UPDATE_MEMBER = ErrorMessage{
		Code:    errorPrefix + "15005",
		Message: "Error while updating member.",
	}

	DELETE_MEMBERS = ErrorMessage{
		Code:    errorPrefix + "15006",
		Message: "Error while deleting members.",
	}

	RUN_DEDUPE = ErrorMessage{
		Code:    errorPrefix + "15008",
		Message: "Error while running member deduplication.",
	}

	WRITE_DEDUPE_REPORT = ErrorMessage{
		Code:    errorPrefix + "15009",
		Message: "Error while writing deduplication report.",
	}

	ADD_AUDIT_LOG = ErrorMessage{
		Code:    errorPrefix + "15010",
		Message: "Error while adding audit log.",
	}

	DATABASE_CONNECTION = ErrorMessage{
		Code:    errorPrefix + "15011",
		Message: "Error while connecting to the database.",
	}

	FETCH_AUDIT_LOGS = ErrorMessage{
		Code:    errorPrefix + "15012",
		Message: "Error while fetching audit logs.",
	}

	// Client error codes

	BAD_REQUEST = ErrorMessage{
		Code:    errorPrefix + "10001",
		Message: "Bad request.",
	}

	MEMBER_NOT_FOUND = ErrorMessage{
		Code:    errorPrefix + "10002",
		Message: "Member not found.",
	}

	MEMBER_VALIDATION = ErrorMessage{
		Code:    errorPrefix + "10003",
		Message: "Invalid member.",
	}

	MEMBER_ALREADY_EXISTS = ErrorMessage{
		Code:    errorPrefix + "10004",
		Message: "Member with the same unique attribute already exists.",
	}

	INVALID_COUNTER_NAME = ErrorMessage{
		Code:    errorPrefix + "10005",
		Message: "Invalid counter name.",
	}

	INVALID_YEAR = ErrorMessage{
		Code:    errorPrefix + "10006",
		Message: "Invalid year.",
	}

	INVALID_ASSIGNMENT_MODE = ErrorMessage{
		Code:    errorPrefix + "10007",
		Message: "Invalid assignment mode.",
	}

	INVALID_DEDUPE_OPTIONS = ErrorMessage{
		Code:    errorPrefix + "10008",
		Message: "Invalid deduplication options.",
	}

	UN_AUTHORIZED = ErrorMessage{
		Code:    errorPrefix + "10009",
		Message: "Unauthorized.",
	}

	FORBIDDEN = ErrorMessage{
		Code:    errorPrefix + "10010",
		Message: "Forbidden.",
	}

	INVALID_AUDIT_LOG_QUERY = ErrorMessage{
		Code:    errorPrefix + "10011",
		Message: "Invalid audit log query.",
	}
)
