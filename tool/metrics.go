package tool

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Labels: tool, result ("ok", "error")
var callsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ndspace_tool_calls_total",
	Help: "Tool calls by tool and result",
}, []string{"tool", "result"})
