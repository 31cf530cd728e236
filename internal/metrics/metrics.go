package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CheckoutTransitions counts state transitions by resulting state.
	CheckoutTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_state_transitions_total",
		Help: "Checkout state transitions by resulting state.",
	}, []string{"state"})

	// LocalizationResolutions counts resolutions by the tier that
	// produced the country (geo, language, default).
	LocalizationResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "localization_resolutions_total",
		Help: "Localization resolutions by fallback tier.",
	}, []string{"tier"})

	// ExchangeRateLookups counts rate acquisitions by source
	// (live, cache, fallback, default, identity).
	ExchangeRateLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "exchange_rate_lookups_total",
		Help: "Exchange rate lookups by rate source.",
	}, []string{"source"})

	AlertsEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "security_alerts_emitted_total",
		Help: "Security alerts emitted after debounce.",
	})

	AlertsSuppressed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "security_alerts_suppressed_total",
		Help: "Security alert triggers dropped inside a debounce window.",
	})

	NotificationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notification_dispatch_failures_total",
		Help: "Post-success notification calls that failed.",
	})
)
