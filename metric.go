package assetdiscovery

import (
	"github.com/everFinance/assetdiscovery/schema"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	MetricNameSpace = "assetdiscovery"
)

var (
	commandCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricNameSpace,
			Name:      "commands_total",
			Help:      "commands applied to the ledger",
		},
		[]string{"kind", "result"},
	)
	resolveCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricNameSpace,
			Name:      "resolve_total",
			Help:      "remote domain resolutions by outcome",
		},
		[]string{"outcome"},
	)
	epochGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: MetricNameSpace,
			Name:      "epoch",
			Help:      "current ledger epoch",
		},
	)
	peerCacheGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: MetricNameSpace,
			Name:      "peer_cache_size",
			Help:      "peers held in the node local cache",
		},
	)
	pendingGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: MetricNameSpace,
			Name:      "pending_requests",
			Help:      "asset requests awaiting verification",
		},
	)
)

func init() {
	prometheus.MustRegister(
		commandCounter,
		resolveCounter,
		epochGauge,
		peerCacheGauge,
		pendingGauge,
	)
}

func metricCommand(kind schema.CommandKind, result string) {
	commandCounter.WithLabelValues(string(kind), result).Inc()
}

func metricResolve(outcome string) {
	resolveCounter.WithLabelValues(outcome).Inc()
}

func metricEpoch(epoch uint64) {
	epochGauge.Set(float64(epoch))
}

func metricPeerCache(n int) {
	peerCacheGauge.Set(float64(n))
}

func metricPending(n int) {
	pendingGauge.Set(float64(n))
}
