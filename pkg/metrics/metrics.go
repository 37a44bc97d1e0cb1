// Package metrics, Prometheus sayaçlarını ve HTTP ölçüm middleware'ini tanımlar.
//
// Tüm metrikler "fireshield_" önekiyle varsayılan registry'ye kaydedilir ve
// /metrics endpoint'inden promhttp.Handler ile sunulur.
package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fireshield_http_requests_total",
		Help: "HTTP requests by method, route pattern and status code.",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fireshield_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route pattern.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	authEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fireshield_auth_events_total",
		Help: "Authentication events by kind and outcome.",
	}, []string{"event", "outcome"})

	emailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fireshield_emails_sent_total",
		Help: "Transactional emails handed to the provider, by template.",
	}, []string{"template"})

	emailFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fireshield_email_failures_total",
		Help: "Transactional emails that failed to send, by template.",
	}, []string{"template"})

	wsConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fireshield_ws_connections",
		Help: "Currently open websocket connections.",
	})
)

// AuthEvent, bir kimlik doğrulama olayını sayar (ör. "login", "failure").
func AuthEvent(event, outcome string) {
	authEvents.WithLabelValues(event, outcome).Inc()
}

// EmailSent, başarılı gönderimi sayar.
func EmailSent(template string) {
	emailsSent.WithLabelValues(template).Inc()
}

// EmailFailed, başarısız gönderimi sayar.
func EmailFailed(template string) {
	emailFailures.WithLabelValues(template).Inc()
}

// WSConnected / WSDisconnected, açık websocket bağlantı sayısını günceller.
func WSConnected()    { wsConnections.Inc() }
func WSDisconnected() { wsConnections.Dec() }

// statusRecorder, yazılan status kodunu yakalar.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// Unwrap, http.ResponseController'ın alttaki writer'a ulaşmasını sağlar.
func (sr *statusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}

// Hijack, websocket upgrade'i için alttaki bağlantıyı devreder.
func (sr *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := sr.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("metrics: underlying ResponseWriter does not support hijacking")
	}
	sr.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

// Middleware, her isteği sayar ve süresini ölçer.
// Route etiketi chi'nin route pattern'idir ("/api/v1/courses/{id}"); böylece
// ID'ler etiket kardinalitesini patlatmaz.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
