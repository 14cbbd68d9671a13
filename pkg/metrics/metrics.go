package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	Logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "orgvault", Name: "logins_total", Help: "Number of completed logins by flow (cli|browser)."},
		[]string{"flow"},
	)
	BridgeTokensIssued = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "orgvault", Name: "bridge_tokens_issued_total", Help: "Number of CLI bridge tokens issued."},
	)
	BridgeTokensResolved = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "orgvault", Name: "bridge_tokens_resolved_total", Help: "Number of successful bridge token resolutions."},
	)
	BridgeTokensExpired = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "orgvault", Name: "bridge_tokens_expired_total", Help: "Number of bridge tokens reclaimed after their TTL."},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "orgvault", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "orgvault", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(Logins)
	reg.MustRegister(BridgeTokensIssued)
	reg.MustRegister(BridgeTokensResolved)
	reg.MustRegister(BridgeTokensExpired)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
