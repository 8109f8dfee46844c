// Package metrics exposes the engine's Prometheus instrumentation.
// All collectors are registered on the default registry and served at
// /metrics when the API server has metrics enabled.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DonationsTotal counts accepted donations.
	DonationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "donorx_donations_total",
		Help: "Number of donations recorded in the ledger.",
	})

	// DonationsRejected counts donations rejected by validation.
	DonationsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "donorx_donations_rejected_total",
		Help: "Number of donations rejected before any state change.",
	})

	// XPAwarded accumulates XP granted, labeled by award reason.
	XPAwarded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "donorx_xp_awarded_total",
		Help: "Total XP granted to donors.",
	}, []string{"reason"})

	// BadgesGranted counts badge grants, labeled by badge id.
	BadgesGranted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "donorx_badges_granted_total",
		Help: "Number of badges newly granted.",
	}, []string{"badge"})

	// StreakResets counts streaks that restarted after a missed day.
	StreakResets = promauto.NewCounter(prometheus.CounterOpts{
		Name: "donorx_streak_resets_total",
		Help: "Number of donor streaks reset to 1 after a 48h+ gap.",
	})

	// StoreConflicts counts optimistic-lock CAS retries in the store.
	StoreConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "donorx_store_conflicts_total",
		Help: "Number of donor-record compare-and-swap conflicts.",
	})
)
