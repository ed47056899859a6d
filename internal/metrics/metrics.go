package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	BotUpdates = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "coursebot", Name: "updates_total", Help: "Processed telegram updates",
	})
	HandlerErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "coursebot", Name: "handler_errors_total", Help: "Handler errors",
	})
	SheetCalls = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "coursebot", Name: "sheet_call_seconds", Help: "Google Sheets call latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	Submissions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coursebot", Name: "submissions_total", Help: "Graded homework submissions",
	}, []string{"result"}) // accepted|rejected|late
	BroadcastSent = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "coursebot", Name: "broadcast_sent_total", Help: "Broadcast messages delivered",
	})
	BroadcastFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "coursebot", Name: "broadcast_failed_total", Help: "Broadcast messages failed",
	})
)

func init() {
	prometheus.MustRegister(BotUpdates, HandlerErrors, SheetCalls, Submissions, BroadcastSent, BroadcastFailed)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveSheetCall(op string, d time.Duration) { SheetCalls.WithLabelValues(op).Observe(d.Seconds()) }
