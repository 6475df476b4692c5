// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/soulmate/matching"
)

const namespace = "soulmate"

var (
	matchRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_runs_total",
			Help:      "Matching runs by outcome.",
		},
		[]string{"status"},
	)
	matchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_duration_seconds",
			Help:      "Time spent computing soulmates for the whole roster.",
			Buckets:   prometheus.DefBuckets,
		},
	)
	groupSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "group_participants",
			Help:      "Participants in each level group of the latest run.",
		},
		[]string{"level"},
	)
	trios = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "group_trios",
			Help:      "Trios formed per level group and day in the latest run.",
		},
		[]string{"level", "day"},
	)
	importedRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_records_total",
			Help:      "Roster records processed by import, by result.",
		},
		[]string{"result"},
	)
	emails = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_total",
			Help:      "Access code emails by result.",
		},
		[]string{"result"},
	)
)

// ObserveRun records a matching run. results is ignored when err is set.
func ObserveRun(elapsed time.Duration, results []matching.GroupResult, err error) {
	matchDuration.Observe(elapsed.Seconds())
	if err != nil {
		matchRuns.WithLabelValues("error").Inc()
		return
	}
	matchRuns.WithLabelValues("success").Inc()

	groupSize.Reset()
	trios.Reset()
	for _, res := range results {
		groupSize.WithLabelValues(res.Level).Set(float64(len(res.Participants)))
		for day, round := range []matching.Round{res.Day1, res.Day2} {
			n := 0
			if len(round.Trio) > 0 {
				n = 1
			}
			trios.WithLabelValues(res.Level, strconv.Itoa(day+1)).Set(float64(n))
		}
	}
}

// RecordImport counts the outcome of one import request.
func RecordImport(imported, skipped int) {
	importedRecords.WithLabelValues("imported").Add(float64(imported))
	importedRecords.WithLabelValues("skipped").Add(float64(skipped))
}

// RecordEmail counts one email outcome: "sent", "failed" or "skipped".
func RecordEmail(result string) {
	emails.WithLabelValues(result).Inc()
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
