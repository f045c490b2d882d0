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
	"fmt"
	"strings"
	"unicode"

	memberModel "github.com/pjdagdal/member-data-service/internal/member/model"
)

// Identity key kinds.
const (
	KindEmail        = "email"
	KindPhone        = "phone"
	KindName         = "name"
	KindMembershipId = "membershipId"
	KindNationalId   = "nationalId"
)

// KeyExtractor derives the normalized value of one identity key kind. An empty value contributes no key.
type KeyExtractor struct {
	Kind    string
	Extract func(m memberModel.Member) string
}

var extractors = map[string]KeyExtractor{
	KindEmail:        {Kind: KindEmail, Extract: func(m memberModel.Member) string { return NormalizeEmail(m.Email) }},
	KindPhone:        {Kind: KindPhone, Extract: func(m memberModel.Member) string { return NormalizePhone(m.Phone) }},
	KindName:         {Kind: KindName, Extract: func(m memberModel.Member) string { return NormalizeName(m.FullName) }},
	KindMembershipId: {Kind: KindMembershipId, Extract: func(m memberModel.Member) string { return strings.TrimSpace(m.MembershipId) }},
	KindNationalId:   {Kind: KindNationalId, Extract: func(m memberModel.Member) string { return NormalizeNationalId(m.NationalId) }},
}

// DefaultKinds is the extractor set used when none is configured.
var DefaultKinds = []string{KindEmail, KindPhone, KindName, KindMembershipId, KindNationalId}

// ExtractorsFor resolves configured kind names. An empty list selects DefaultKinds.
func ExtractorsFor(kinds []string) ([]KeyExtractor, error) {

	if len(kinds) == 0 {
		kinds = DefaultKinds
	}
	out := make([]KeyExtractor, 0, len(kinds))
	seen := map[string]bool{}
	for _, kind := range kinds {
		extractor, ok := extractors[kind]
		if !ok {
			return nil, fmt.Errorf("unknown identity key kind: %s", kind)
		}
		if seen[kind] {
			continue
		}
		seen[kind] = true
		out = append(out, extractor)
	}
	return out, nil
}

// IdentityKeys returns the <kind>:<value> keys of m.
func IdentityKeys(m memberModel.Member, keyExtractors []KeyExtractor) []string {
	keys := make([]string, 0, len(keyExtractors))
	for _, extractor := range keyExtractors {
		if value := extractor.Extract(m); value != "" {
			keys = append(keys, extractor.Kind+":"+value)
		}
	}
	return keys
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeName lowercases and collapses runs of whitespace.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// NormalizePhone drops whitespace and the separators - ( ) . , /
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || strings.ContainsRune("-().,/", r) {
			return -1
		}
		return r
	}, phone)
}

func NormalizeNationalId(id string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, strings.ToUpper(id))
}
