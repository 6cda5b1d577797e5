package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ActivationsInitiated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "membership_activations_initiated_total",
			Help: "Total number of activation handshakes initiated, by outcome",
		},
		[]string{"outcome"},
	)

	ActivationsFinalized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "membership_activations_finalized_total",
			Help: "Total number of activation finalize attempts, by outcome",
		},
		[]string{"outcome"},
	)

	FollowupEmailsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "membership_followup_emails_sent_total",
			Help: "Total number of follow-up emails dispatched",
		},
	)

	FollowupEmailsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "membership_followup_emails_failed_total",
			Help: "Total number of follow-up email dispatch failures",
		},
	)

	FollowupEvaluationsSuppressed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "membership_followup_suppressed_total",
			Help: "Total number of follow-up evaluations that did not send, by reason",
		},
		[]string{"reason"},
	)
)
