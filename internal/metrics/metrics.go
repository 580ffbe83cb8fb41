// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラーやサービス層から利用する。
type MetricsCollector interface {
	RecordGenerationSuccess(platformCount int)
	RecordGenerationFailure(reason string)
	RecordGenerationLatency(duration time.Duration)
	RecordHTTPStatus(statusCode int)
	RecordContentsSaved(count int)
	RecordContentsLoaded(count int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	generationSuccess prometheus.Counter
	generationFail    *prometheus.CounterVec
	generationLatency prometheus.Histogram
	httpStatus        *prometheus.CounterVec
	contentsSaved     prometheus.Counter
	contentsLoaded    prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		generationSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "whirl_generation_success_total",
			Help: "コンテンツ生成成功の合計数",
		}),
		generationFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "whirl_generation_fail_total",
			Help: "コンテンツ生成失敗の合計数（失敗理由別）",
		}, []string{"reason"}),
		generationLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "whirl_generation_latency_seconds",
			Help:    "コンテンツ生成のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "whirl_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		contentsSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "whirl_contents_saved_total",
			Help: "保存されたコンテンツの合計数",
		}),
		contentsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "whirl_contents_loaded_total",
			Help: "ロードされたコンテンツの合計数",
		}),
	}

	reg.MustRegister(
		c.generationSuccess,
		c.generationFail,
		c.generationLatency,
		c.httpStatus,
		c.contentsSaved,
		c.contentsLoaded,
	)

	return c
}

// RecordGenerationSuccess は生成成功を記録する。
func (c *Collector) RecordGenerationSuccess(platformCount int) {
	c.generationSuccess.Inc()
}

// RecordGenerationFailure は生成失敗を理由付きで記録する。
func (c *Collector) RecordGenerationFailure(reason string) {
	c.generationFail.WithLabelValues(reason).Inc()
}

// RecordGenerationLatency は生成処理のレイテンシを記録する。
func (c *Collector) RecordGenerationLatency(duration time.Duration) {
	c.generationLatency.Observe(duration.Seconds())
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordContentsSaved は保存されたコンテンツ数を記録する。
func (c *Collector) RecordContentsSaved(count int) {
	c.contentsSaved.Add(float64(count))
}

// RecordContentsLoaded はロードされたコンテンツ数を記録する。
func (c *Collector) RecordContentsLoaded(count int) {
	c.contentsLoaded.Add(float64(count))
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
