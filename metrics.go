// Copyright 2025 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package osmsync

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"

	outcomeDuplicate = "duplicate"
	outcomeUnique    = "unique"

	outcomeComplete = "complete"
	outcomeDegraded = "degraded"
)

type metrics struct {
	publishes       *prometheus.CounterVec
	duplicateChecks *prometheus.CounterVec
	enrichments     *prometheus.CounterVec
}

// newMetrics creates the client's counters and registers them with reg when
// it is not nil.
func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		publishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "osmsync",
			Name:      "publishes_total",
			Help:      "Publish runs by strategy and outcome",
		}, []string{"strategy", "outcome"}),
		duplicateChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "osmsync",
			Name:      "duplicate_checks_total",
			Help:      "Duplicate checks by outcome (duplicate, unique, failure)",
		}, []string{"outcome"}),
		enrichments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "osmsync",
			Name:      "candidate_enrichments_total",
			Help:      "Duplicate candidates enriched, complete or degraded to query data",
		}, []string{"outcome"}),
	}

	if reg != nil {
		reg.MustRegister(m.publishes, m.duplicateChecks, m.enrichments)
	}

	return m
}
