package service

import (
	"Lotus/pkg/log"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

var operationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "lotus_economy_operations_total",
		Help: "Economy engine operations by outcome",
	},
	[]string{"op", "result"},
)

func init() {
	prometheus.MustRegister(operationsTotal)
}

// observe 记录一次操作结果；基础设施错误额外打错误日志
func observe(op, userID string, err error) {
	switch {
	case err == nil:
		operationsTotal.WithLabelValues(op, "ok").Inc()
	case IsBusinessError(err):
		operationsTotal.WithLabelValues(op, "rejected").Inc()
	default:
		operationsTotal.WithLabelValues(op, "error").Inc()
		log.L.Error("economy operation failed",
			zap.String("op", op),
			zap.String("user_id", userID),
			zap.Error(err))
	}
}
