package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// 数据库查询延迟（秒）
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"operation", "table"},
	)

	// 慢查询计数
	SlowQueryCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_slow_query_total",
			Help: "Total number of queries slower than the configured threshold",
		},
		[]string{"operation", "table"},
	)

	// HTTP 请求延迟（秒）
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// GraphQL 操作延迟（秒）
	GraphQLOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphql_operation_duration_seconds",
			Help:    "GraphQL operation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"operation", "status"}, // status: ok, error
	)

	// 会话中间件结果
	SessionOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_session_outcomes_total",
			Help: "Session middleware outcomes per request",
		},
		[]string{"outcome"}, // anonymous, access, refreshed, rejected
	)

	// 登录失败计数
	LoginFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_login_failures_total",
			Help: "Total number of failed logins",
		},
		[]string{"reason"}, // invalid, throttled
	)

	// 打卡切换计数
	EntryToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entry_toggles_total",
			Help: "Total number of entry toggles",
		},
		[]string{"state"}, // ADDED, REMOVED
	)

	// 事件发布计数
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Domain events handed to the broker",
		},
		[]string{"routing_key", "status"}, // status: success, failed, skipped
	)
)

// RecordDBQueryDuration 记录数据库查询延迟
func RecordDBQueryDuration(operation, table string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

// IncrementSlowQuery 增加慢查询计数
func IncrementSlowQuery(operation, table string) {
	SlowQueryCount.WithLabelValues(operation, table).Inc()
}

// RecordHTTPRequestDuration 记录 HTTP 请求延迟
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordGraphQLOperation 记录 GraphQL 操作延迟
func RecordGraphQLOperation(operation string, failed bool, duration time.Duration) {
	status := "ok"
	if failed {
		status = "error"
	}
	if operation == "" {
		operation = "anonymous"
	}
	GraphQLOperationDuration.WithLabelValues(operation, status).Observe(duration.Seconds())
}

func IncrementSessionOutcome(outcome string) {
	SessionOutcomes.WithLabelValues(outcome).Inc()
}

func IncrementLoginFailure(reason string) {
	LoginFailures.WithLabelValues(reason).Inc()
}

func IncrementEntryToggle(state string) {
	EntryToggles.WithLabelValues(state).Inc()
}

func IncrementEventPublished(routingKey, status string) {
	EventsPublished.WithLabelValues(routingKey, status).Inc()
}
