package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	WsConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "skillswap_ws_connections",
		Help: "Current number of open websocket connections",
	})
	OnlineIdentities = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "skillswap_online_identities",
		Help: "Identities with a routable realtime session",
	})
	ChatMessagesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "skillswap_chat_messages_total",
		Help: "Chat messages persisted and broadcast",
	})
	ChatRejectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "skillswap_chat_rejections_total",
		Help: "Rejected join-chat and send-message requests",
	}, []string{"event", "reason"})
	NotificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "skillswap_notifications_total",
		Help: "Notifications persisted",
	}, []string{"type"})
	NotificationPushesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "skillswap_notification_pushes_total",
		Help: "Realtime notification push attempts",
	}, []string{"result"})
	HttpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
	HttpRateLimitedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_rate_limited_total",
		Help: "Requests refused by the per-client rate limiter",
	}, []string{"path"})
	HttpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

func init() {
	prometheus.MustRegister(
		WsConnections, OnlineIdentities, ChatMessagesTotal, ChatRejectionsTotal,
		NotificationsTotal, NotificationPushesTotal, HttpRequestsTotal, HttpRateLimitedTotal, HttpRequestDuration,
	)
}

// GinMiddleware records request counts and latency per route.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		labels := prometheus.Labels{"method": c.Request.Method, "path": path, "status": status}
		HttpRequestsTotal.With(labels).Inc()
		HttpRequestDuration.With(labels).Observe(time.Since(start).Seconds())
	}
}
