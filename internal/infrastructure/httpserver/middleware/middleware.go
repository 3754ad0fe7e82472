package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/chatly/user-service/internal/core/ports"
)

// Collection bundles the session-token guard and the request metrics
// recorder so the server wires them as one dependency.
type Collection struct {
	Auth    *AuthMiddleware
	Metrics *MetricsMiddleware
}

func NewCollection(
	tokens ports.TokenIssuer,
	logger *logrus.Logger,
	requestsTotal *prometheus.CounterVec,
	requestDuration *prometheus.HistogramVec,
) *Collection {
	return &Collection{
		Auth:    NewAuthMiddleware(tokens, logger),
		Metrics: NewMetricsMiddleware(requestsTotal, requestDuration),
	}
}
