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

package service

import (
	"strings"
	"time"

	"github.com/pjdagdal/member-data-service/internal/dedupe/model"
	memberModel "github.com/pjdagdal/member-data-service/internal/member/model"
)

// mergeRule folds one field of an absorbed member into the keeper.
type mergeRule struct {
	field    string
	strategy string
	// merge updates dst from src and reports whether dst changed.
	merge func(dst, src *memberModel.Member) bool
	value func(m *memberModel.Member) interface{}
}

// mergePolicy lists the mergeable fields. Ids, timestamps and flags are never merged.
var mergePolicy = []mergeRule{
	overwriteText(memberModel.FieldFullName),
	overwriteText(memberModel.FieldPhone),
	overwriteText(memberModel.FieldEmail),
	overwriteText(memberModel.FieldNationalId),
	overwriteText(memberModel.FieldAddress),
	overwriteDate(memberModel.FieldDateOfBirth, func(m *memberModel.Member) **time.Time { return &m.DateOfBirth }),
	concatenateText(memberModel.FieldBio),
	overwriteText(memberModel.FieldGender),
	overwriteText(memberModel.FieldEducationLevel),
	overwriteText(memberModel.FieldOccupation),
	overwriteText(memberModel.FieldMemberType),
	overwriteText(memberModel.FieldRole),
	overwriteText(memberModel.FieldPdfUrl),
	overwriteText(memberModel.FieldMemberOfRegionalBodiesDetail),
	overwriteText(memberModel.FieldAssignedMissionDetail),
	concatenateText(memberModel.FieldPreviousPartyExperiences),
	overwriteText(memberModel.FieldStatus),
}

func overwriteText(field string) mergeRule {
	return mergeRule{
		field:    field,
		strategy: model.StrategyOverwriteIfEmpty,
		merge: func(dst, src *memberModel.Member) bool {
			to, from := memberModel.StringField(dst, field), memberModel.StringField(src, field)
			if strings.TrimSpace(*to) != "" || strings.TrimSpace(*from) == "" {
				return false
			}
			*to = *from
			return true
		},
		value: func(m *memberModel.Member) interface{} { return *memberModel.StringField(m, field) },
	}
}

func concatenateText(field string) mergeRule {
	return mergeRule{
		field:    field,
		strategy: model.StrategyConcatenateUnique,
		merge: func(dst, src *memberModel.Member) bool {
			to, from := memberModel.StringField(dst, field), memberModel.StringField(src, field)
			if strings.TrimSpace(*from) == "" {
				return false
			}
			if strings.TrimSpace(*to) == "" {
				*to = *from
				return true
			}
			if strings.Contains(*to, *from) {
				return false
			}
			*to = *to + "\n" + *from
			return true
		},
		value: func(m *memberModel.Member) interface{} { return *memberModel.StringField(m, field) },
	}
}

func overwriteDate(field string, get func(m *memberModel.Member) **time.Time) mergeRule {
	return mergeRule{
		field:    field,
		strategy: model.StrategyOverwriteIfEmpty,
		merge: func(dst, src *memberModel.Member) bool {
			to, from := get(dst), get(src)
			if *to != nil || *from == nil {
				return false
			}
			t := **from
			*to = &t
			return true
		},
		value: func(m *memberModel.Member) interface{} { return *get(m) },
	}
}

// mergeOutcome is the keeper after absorbing the rest of its cluster.
// uniqueFields are the member fields the stores keep unique when set.
var uniqueFields = []string{memberModel.FieldMembershipId, memberModel.FieldNationalId}

type mergeOutcome struct {
	merged  memberModel.Member
	fields  []model.MergedField
	updates map[string]interface{}
}

// mergeCluster folds absorbed into keeper, visiting absorbed members in order and fields in policy order.
func mergeCluster(keeper memberModel.Member, absorbed []memberModel.Member) mergeOutcome {

	out := mergeOutcome{
		merged:  keeper,
		fields:  []model.MergedField{},
		updates: map[string]interface{}{},
	}
	changed := map[string]mergeRule{}
	for i := range absorbed {
		src := &absorbed[i]
		for _, rule := range mergePolicy {
			if !rule.merge(&out.merged, src) {
				continue
			}
			out.fields = append(out.fields, model.MergedField{Field: rule.field, From: src.Id, Strategy: rule.strategy})
			changed[rule.field] = rule
		}
	}
	for field, rule := range changed {
		out.updates[field] = rule.value(&out.merged)
	}
	return out
}
