// Package metrics holds the Prometheus counters for domain events.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	SignUps = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "challenge_signups_total",
		Help: "Accounts created through sign-up",
	})
	SignIns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "challenge_signins_total",
			Help: "Sign-in attempts by result",
		},
		[]string{"result"},
	)
	ChallengeJoins = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "challenge_joins_total",
		Help: "First-time joins of a challenge",
	})
	LogsSaved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "challenge_daily_logs_saved_total",
			Help: "Daily log saves by completion state",
		},
		[]string{"completed"},
	)
	PushesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "challenge_push_notifications_total",
			Help: "Push notification deliveries by result",
		},
		[]string{"result"},
	)
)

// Register adds the domain counters to reg. Call once from main.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(SignUps, SignIns, ChallengeJoins, LogsSaved, PushesSent)
}

func BoolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
