// Package metrics collects and exposes Prometheus metrics for the auth
// service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the interface the handlers and services record through.
type Recorder interface {
	RecordSignup()
	RecordLoginSuccess()
	RecordLoginFailure(reason string)
	RecordApproval(outcome string)
	RecordRedemption(result string)
	RecordModeSwitch(mode string)
}

// Login failure reasons as recorded on the counter.
const (
	LoginFailureUnknownUsername = "unknown-username"
	LoginFailureWrongPassword   = "wrong-password"
	LoginFailureValidation      = "validation"
)

// Approval outcomes as recorded on the counter.
const (
	ApprovalOutcomeApproved       = "approved"
	ApprovalOutcomeDeliveryFailed = "delivery-failed"
	ApprovalOutcomeRejected       = "rejected"
)

// Collector implements Recorder on top of Prometheus.
type Collector struct {
	signups      prometheus.Counter
	loginSuccess prometheus.Counter
	loginFailure *prometheus.CounterVec
	approvals    *prometheus.CounterVec
	redemptions  *prometheus.CounterVec
	modeSwitches *prometheus.CounterVec
}

var _ Recorder = (*Collector)(nil)

// NewCollector creates and registers the collector on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		signups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_auth_signups_total",
			Help: "Successful account registrations",
		}),
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_auth_login_success_total",
			Help: "Successful credential checks",
		}),
		loginFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_auth_login_failure_total",
			Help: "Failed login attempts by reason",
		}, []string{"reason"}),
		approvals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_auth_approvals_total",
			Help: "Minor-admin request reviews by outcome",
		}, []string{"outcome"}),
		redemptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_auth_redemptions_total",
			Help: "Approval code redemptions by result",
		}, []string{"result"}),
		modeSwitches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_auth_mode_switches_total",
			Help: "Session mode switches by target mode",
		}, []string{"mode"}),
	}

	reg.MustRegister(
		c.signups,
		c.loginSuccess,
		c.loginFailure,
		c.approvals,
		c.redemptions,
		c.modeSwitches,
	)

	return c
}

func (c *Collector) RecordSignup() {
	c.signups.Inc()
}

func (c *Collector) RecordLoginSuccess() {
	c.loginSuccess.Inc()
}

func (c *Collector) RecordLoginFailure(reason string) {
	c.loginFailure.WithLabelValues(reason).Inc()
}

func (c *Collector) RecordApproval(outcome string) {
	c.approvals.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordRedemption(result string) {
	c.redemptions.WithLabelValues(result).Inc()
}

func (c *Collector) RecordModeSwitch(mode string) {
	c.modeSwitches.WithLabelValues(mode).Inc()
}

// Handler returns the Prometheus scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Noop discards every recording. Used where metrics are optional.
type Noop struct{}

var _ Recorder = Noop{}

func (Noop) RecordSignup()             {}
func (Noop) RecordLoginSuccess()       {}
func (Noop) RecordLoginFailure(string) {}
func (Noop) RecordApproval(string)     {}
func (Noop) RecordRedemption(string)   {}
func (Noop) RecordModeSwitch(string)   {}
