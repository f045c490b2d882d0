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

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "member_data"

// Outcomes recorded for dedupe clusters.
const (
	ClusterPreviewed = "previewed"
	ClusterMerged    = "merged"
	ClusterFailed    = "failed"
)

var (
	registry = prometheus.NewRegistry()

	// IdentifiersAllocated counts successful counter increments by counter name.
	IdentifiersAllocated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "allocator",
		Name:      "identifiers_allocated_total",
		Help:      "number of identifiers handed out per counter",
	}, []string{"counter"})

	// AllocationFailures counts failed counter increments.
	AllocationFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "allocator",
		Name:      "failures_total",
		Help:      "number of failed identifier allocations",
	})

	// DedupeRuns counts dedupe runs by mode.
	DedupeRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "dedupe",
		Name:      "runs_total",
		Help:      "number of dedupe runs",
	}, []string{"mode"})

	// DedupeClusters counts processed clusters by outcome.
	DedupeClusters = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "dedupe",
		Name:      "clusters_total",
		Help:      "number of duplicate clusters processed",
	}, []string{"outcome"})

	// MembersDeleted counts records absorbed and deleted by dedupe.
	MembersDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "dedupe",
		Name:      "members_deleted_total",
		Help:      "number of absorbed member records deleted",
	})
)

func init() {
	registry.MustRegister(
		IdentifiersAllocated,
		AllocationFailures,
		DedupeRuns,
		DedupeClusters,
		MembersDeleted,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Registry returns the registry holding the service metrics.
func Registry() *prometheus.Registry {
	return registry
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.InstrumentMetricHandler(registry, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}

// Mode names a dedupe run mode for labels.
func Mode(apply bool) string {
	if apply {
		return "apply"
	}
	return "dry_run"
}
