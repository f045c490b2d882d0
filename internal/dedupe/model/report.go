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

// Merge strategies applied to member fields.
const (
	StrategyOverwriteIfEmpty  = "overwriteIfEmpty"
	StrategyConcatenateUnique = "concatenateUnique"
)

// Options controls a dedupe run. A Limit of 0 processes every cluster.
type Options struct {
	Apply bool `json:"apply"`
	Limit int  `json:"limit"`
}

// MergedField records one field taken from an absorbed member.
type MergedField struct {
	Field    string `json:"field"`
	From     string `json:"from"`
	Strategy string `json:"strategy"`
}

// ClusterEntry describes one duplicate cluster and what was, or would be, done with it.
type ClusterEntry struct {
	Keeper       string        `json:"keeper"`
	Group        []string      `json:"group"`
	MergedFields []MergedField `json:"merged_fields"`
	Others       []string      `json:"others"`
	DeletedCount *int64        `json:"deleted_count,omitempty"`
	Error        string        `json:"error,omitempty"`
	ErrorCode    string        `json:"error_code,omitempty"`
}

// Report is the outcome of a dedupe run. It carries no timestamps so equal inputs give equal JSON.
type Report struct {
	Apply          bool           `json:"apply"`
	Limit          int            `json:"limit"`
	TotalMembers   int            `json:"total_members"`
	ClusterCount   int            `json:"cluster_count"`
	FailedClusters int            `json:"failed_clusters"`
	Clusters       []ClusterEntry `json:"clusters"`
}

// RunResult is returned by the admin surfaces: the report and where it was written.
type RunResult struct {
	Report   *Report `json:"report"`
	Location string  `json:"location,omitempty"`
}
