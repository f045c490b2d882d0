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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pjdagdal/member-data-service/internal/dedupe/model"
	"github.com/pjdagdal/member-data-service/internal/dedupe/provider"
	memberModel "github.com/pjdagdal/member-data-service/internal/member/model"
	"github.com/pjdagdal/member-data-service/internal/member/store/storetest"
	"github.com/pjdagdal/member-data-service/internal/system/config"
	"github.com/pjdagdal/member-data-service/internal/system/constants"
	"github.com/pjdagdal/member-data-service/internal/system/log"
	"github.com/pjdagdal/member-data-service/internal/system/security/securitytest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	securitytest.Configure()
	os.Exit(m.Run())
}

func setup(t *testing.T) (*storetest.Memory, *http.ServeMux, string) {
	t.Helper()
	mem := storetest.NewMemory()
	mem.Seed(
		memberModel.Member{Id: "k", FullName: "Hedi Gharbi", Email: "hedi@example.com", MembershipId: "12"},
		memberModel.Member{Id: "d", FullName: "H. Gharbi", Email: "HEDI@example.com", Address: "Sfax"},
		memberModel.Member{Id: "u", FullName: "Nour Jaziri"},
	)
	dir := t.TempDir()
	cfg := config.DedupeConfig{Report: config.ReportConfig{Sink: "file", Dir: dir}}
	h := NewDedupeHandler(provider.NewDedupeProvider(mem.Stores(), cfg))
	mux := http.NewServeMux()
	mux.HandleFunc("POST /admin/dedupe", h.RunDedupe)
	return mem, mux, dir
}

func run(mux *http.ServeMux, target, body, role string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	securitytest.Authorize(r, "root", role)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	return w
}

func TestRunDedupe_DryRunByDefault(t *testing.T) {
	mem, mux, dir := setup(t)

	w := run(mux, "/admin/dedupe", "", constants.RoleAdmin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result model.RunResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.NotNil(t, result.Report)
	assert.False(t, result.Report.Apply)
	assert.Equal(t, 1, result.Report.ClusterCount)
	assert.Equal(t, "k", result.Report.Clusters[0].Keeper)
	assert.Equal(t, dir, filepath.Dir(result.Location))
	assert.FileExists(t, result.Location)
	assert.Len(t, mem.Snapshot(), 3)
}

func TestRunDedupe_Apply(t *testing.T) {
	mem, mux, _ := setup(t)

	w := run(mux, "/admin/dedupe?apply=true", `{"limit":5}`, constants.RoleAdmin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result model.RunResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Report.Apply)
	assert.Equal(t, 5, result.Report.Limit)

	members := mem.Snapshot()
	require.Len(t, members, 2)
	assert.Equal(t, "Sfax", members[0].Address)
}

func TestRunDedupe_Rejections(t *testing.T) {
	_, mux, _ := setup(t)

	assert.Equal(t, http.StatusForbidden, run(mux, "/admin/dedupe", "", constants.RoleSecretary).Code)
	assert.Equal(t, http.StatusBadRequest, run(mux, "/admin/dedupe?limit=-1", "", constants.RoleAdmin).Code)
	assert.Equal(t, http.StatusBadRequest, run(mux, "/admin/dedupe?apply=maybe", "", constants.RoleAdmin).Code)
	assert.Equal(t, http.StatusBadRequest, run(mux, "/admin/dedupe", `{"dry":true}`, constants.RoleAdmin).Code)
}
