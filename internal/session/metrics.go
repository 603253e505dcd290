package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "termcalc_sessions_active",
		Help: "Number of live calculator sessions.",
	})
	sessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "termcalc_sessions_created_total",
		Help: "Total number of calculator sessions created.",
	})
	sessionsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "termcalc_sessions_expired_total",
		Help: "Total number of calculator sessions removed for being idle.",
	})
)
