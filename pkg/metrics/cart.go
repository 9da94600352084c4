package metrics

import "github.com/prometheus/client_golang/prometheus"

// CartMetrics records cart store activity.
type CartMetrics struct {
	mutations        *prometheus.CounterVec
	persistFailures  *prometheus.CounterVec
	restoreFallbacks *prometheus.CounterVec
}

// NewCartMetrics registers the cart metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "polly_cart_mutations_total",
		Help: "Cart mutations applied, by operation.",
	}, []string{"op"})
	persistFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "polly_cart_persist_failures_total",
		Help: "Cart writes that failed to reach the key-value store, by operation.",
	}, []string{"op"})
	restoreFallbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "polly_cart_restore_fallbacks_total",
		Help: "Cart loads that fell back to an empty cart, by reason.",
	}, []string{"reason"})
	reg.MustRegister(mutations, persistFailures, restoreFallbacks)
	return &CartMetrics{
		mutations:        mutations,
		persistFailures:  persistFailures,
		restoreFallbacks: restoreFallbacks,
	}
}

// IncMutation counts an applied cart mutation.
func (c *CartMetrics) IncMutation(op string) {
	if c == nil || c.mutations == nil {
		return
	}
	c.mutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncPersistFailure counts a failed cart write.
func (c *CartMetrics) IncPersistFailure(op string) {
	if c == nil || c.persistFailures == nil {
		return
	}
	c.persistFailures.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncRestoreFallback counts a load that produced an empty cart instead of the stored one.
func (c *CartMetrics) IncRestoreFallback(reason string) {
	if c == nil || c.restoreFallbacks == nil {
		return
	}
	c.restoreFallbacks.WithLabelValues(normalizeLabel(reason)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
