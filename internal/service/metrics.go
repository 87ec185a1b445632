package service

import "github.com/prometheus/client_golang/prometheus"

var (
	likesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "confession_likes_total", Help: "Like attempts by outcome"},
		[]string{"result"},
	)
	confessionsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "confessions_created_total", Help: "Confessions posted"},
	)
	authFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "auth_failures_total", Help: "Rejected logins and refreshes"},
		[]string{"reason"},
	)
)

func init() { prometheus.MustRegister(likesTotal, confessionsCreated, authFailures) }
