/*
Copyright 2025 The llm-d Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package metrics defines the Prometheus collectors describing equilibrium runs
// and writes them out in the text exposition format.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const namespace = "mecgame"

// Label names.
const (
	LabelState = "state"
	LabelKind  = "kind"
)

// Collectors groups the run metrics. Create it once per registry.
type Collectors struct {
	Runs          *prometheus.CounterVec
	Sweeps        prometheus.Histogram
	PoF           prometheus.Gauge
	BestResponses *prometheus.CounterVec
	RunDuration   prometheus.Histogram
}

// NewCollectors creates the run collectors and registers them on reg.
func NewCollectors(reg prometheus.Registerer) (*Collectors, error) {
	c := &Collectors{
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Equilibrium runs by terminal state.",
		}, []string{LabelState}),
		Sweeps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sweeps",
			Help:      "Best-response sweeps performed per run.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		PoF: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "probability_of_failure",
			Help:      "Server probability of failure at the last strategy vector.",
		}),
		BestResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "best_responses_total",
			Help:      "Final per-user best responses by kind.",
		}, []string{LabelKind}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of equilibrium runs.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
	}

	for _, col := range []prometheus.Collector{c.Runs, c.Sweeps, c.PoF, c.BestResponses, c.RunDuration} {
		if err := reg.Register(col); err != nil {
			return nil, fmt.Errorf("registering run metrics: %w", err)
		}
	}
	return c, nil
}

// RunObservation is what a finished run reports.
type RunObservation struct {
	State    string
	Sweeps   int
	PoF      float64
	Kinds    []string
	Duration time.Duration
}

// ObserveRun records one finished run.
func (c *Collectors) ObserveRun(o RunObservation) {
	c.Runs.WithLabelValues(o.State).Inc()
	c.Sweeps.Observe(float64(o.Sweeps))
	c.PoF.Set(o.PoF)
	for _, k := range o.Kinds {
		c.BestResponses.WithLabelValues(k).Inc()
	}
	c.RunDuration.Observe(o.Duration.Seconds())
}

// WriteTextfile gathers g and atomically writes the families to path in the
// Prometheus text format, for node-exporter style textfile collection.
func WriteTextfile(g prometheus.Gatherer, path string) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating metrics file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(tmp, mf); err != nil {
			tmp.Close() //nolint:errcheck
			return fmt.Errorf("encoding metric family %s: %w", mf.GetName(), err)
		}
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing metrics file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("writing metrics file %s: %w", path, err)
	}
	return nil
}
