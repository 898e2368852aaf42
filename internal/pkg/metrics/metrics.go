// Package metrics defines and registers the custom Prometheus metrics of the
// rental API. It is the single source of truth for metric names, labels and
// help strings.
//
// Metrics are registered with the default registry on package init through
// promauto; HTTP request metrics come from echoprometheus in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rental"

// ── Auth ─────────────────────────────────────────────────────────────────────

// RegistrationsTotal counts account creations.
// Label:
//   - method: "local" or "google"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts created, by method.",
	},
	[]string{"method"},
)

// LoginsTotal counts login attempts.
// Labels:
//   - method: "local" or "google"
//   - result: "success", "not_found", "bad_password", "conflict", "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by method and result.",
	},
	[]string{"method", "result"},
)

// ── Listings & bookings ──────────────────────────────────────────────────────

// ListingMutationsTotal counts successful listing writes.
// Label:
//   - op: "create", "replace" or "delete"
var ListingMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listing_mutations_total",
		Help:      "Total number of listing writes, by operation.",
	},
	[]string{"op"},
)

// ListingCacheTotal counts read-through cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var ListingCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listing_cache_total",
		Help:      "Total number of listing cache lookups, by result.",
	},
	[]string{"result"},
)

// BookingsCreatedTotal counts stored bookings.
var BookingsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_created_total",
		Help:      "Total number of bookings created.",
	},
)

// ── Media ────────────────────────────────────────────────────────────────────

// MediaUploadsTotal counts photo uploads.
// Labels:
//   - backend: "disk", "s3" or "cloudinary"
//   - result: "success" or "error"
var MediaUploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "media_uploads_total",
		Help:      "Total number of photo uploads, by backend and result.",
	},
	[]string{"backend", "result"},
)

// MediaDeletionsTotal counts photo deletion attempts.
// Labels:
//   - source: "request" (explicit delete) or "cleanup" (listing removal)
//   - result: "success", "error" or "dropped" (cleanup queue full or closed)
var MediaDeletionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "media_deletions_total",
		Help:      "Total number of photo deletion attempts, by source and result.",
	},
	[]string{"source", "result"},
)

// CleanupQueueDepth tracks pending photo references per cleanup worker.
// Label:
//   - worker_id: numeric worker index
var CleanupQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "photo_cleanup_queue_depth",
		Help:      "Current number of photo references pending in each cleanup worker channel.",
	},
	[]string{"worker_id"},
)

// EventsPublishedTotal counts domain events handed to the broker.
// Labels:
//   - subject: event subject without prefix
//   - result: "success" or "error"
var EventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Total number of domain events published, by subject and result.",
	},
	[]string{"subject", "result"},
)
