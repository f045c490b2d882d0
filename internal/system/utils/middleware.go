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

package utils

import (
	"net/http"
	"slices"
	"time"

	"github.com/pjdagdal/member-data-service/internal/system/constants"
	traceCtx "github.com/pjdagdal/member-data-service/internal/system/context"
	"github.com/pjdagdal/member-data-service/internal/system/log"
)

// WithTrace attaches the incoming X-Trace-Id, or a fresh one, to the request context and echoes it back.
func WithTrace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(constants.TraceIDHeader)
		if traceID == "" {
			traceID = traceCtx.GenerateTraceID()
		}
		w.Header().Set(constants.TraceIDHeader, traceID)

		start := time.Now()
		next.ServeHTTP(w, r.WithContext(traceCtx.WithTraceID(r.Context(), traceID)))
		log.GetLogger().Debug("Request served",
			log.String("method", r.Method), log.String("path", r.URL.Path),
			log.String("traceId", traceID), log.Duration("duration", time.Since(start)))
	})
}

// EnableCORS answers preflight requests and allows the configured origins. An empty list or "*"
// allows any origin.
func EnableCORS(allowedOrigins []string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*"):
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(allowedOrigins, origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, "+constants.TraceIDHeader)
		w.Header().Set("Access-Control-Expose-Headers", constants.TraceIDHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
