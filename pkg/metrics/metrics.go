// Package metrics exposes Prometheus counters for the rewards ledger.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager holds the service's Prometheus collectors. A single instance is
// shared by all services; the hosting process decides where to mount
// Handler().
type Manager struct {
	registry *prometheus.Registry

	ClaimsGranted   prometheus.Counter
	ClaimsDuplicate prometheus.Counter
	CoinsCredited   prometheus.Counter
	CoinsSpent      prometheus.Counter
	PointsAwarded   prometheus.Counter
	BadgesUnlocked  prometheus.Counter
	EventJoins      prometheus.Counter
	EventsFull      prometheus.Counter
	TxRetries       prometheus.Counter
}

func NewManager(namespace string) *Manager {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Manager{
		registry: registry,
		ClaimsGranted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "daily_claims_granted_total",
			Help:      "Daily reward claims that credited coins.",
		}),
		ClaimsDuplicate: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "daily_claims_duplicate_total",
			Help:      "Daily reward claims rejected as already claimed.",
		}),
		CoinsCredited: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coins_credited_total",
			Help:      "Total coins credited across all accounts.",
		}),
		CoinsSpent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coins_spent_total",
			Help:      "Total coins debited across all accounts.",
		}),
		PointsAwarded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_awarded_total",
			Help:      "Total progression points awarded.",
		}),
		BadgesUnlocked: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "badges_unlocked_total",
			Help:      "Badges unlocked across all accounts.",
		}),
		EventJoins: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_joins_total",
			Help:      "Successful event roster joins.",
		}),
		EventsFull: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_joins_rejected_full_total",
			Help:      "Join attempts rejected because the roster was full.",
		}),
		TxRetries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "write_conflict_retries_total",
			Help:      "Atomic operations retried after a write conflict.",
		}),
	}
}

// Handler returns an http.Handler serving the scrape endpoint for this
// manager's registry.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
