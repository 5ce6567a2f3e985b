package services

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	MetricAIRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "legal_ai_requests_total",
		Help: "Language model calls by interaction type and outcome.",
	}, []string{"interaction", "outcome"})

	MetricAITokens = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "legal_ai_tokens_total",
		Help: "Tokens reported by the language model provider.",
	}, []string{"interaction"})

	MetricSubmissions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "legal_submissions_total",
		Help: "Demand letter deliveries and court filing submissions by outcome.",
	}, []string{"channel", "outcome"})
)

// RegisterMetrics adds the service counters to reg.
func RegisterMetrics(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{MetricAIRequests, MetricAITokens, MetricSubmissions} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func recordSubmission(channel string, success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	MetricSubmissions.With(prometheus.Labels{"channel": channel, "outcome": outcome}).Inc()
}
