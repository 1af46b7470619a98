// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder はメトリクス収集のインターフェース。
// サービス層とミドルウェアから利用する。
type Recorder interface {
	RecordIdeaCreated()
	RecordVoteCast()
	RecordNotesUpdated()
	RecordFileUploaded()
	RecordStoreSaveFailure()
	RecordSaveLatency(duration time.Duration)
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	ideasCreated  prometheus.Counter
	votesCast     prometheus.Counter
	notesUpdated  prometheus.Counter
	filesUploaded prometheus.Counter
	storeSaveFail prometheus.Counter
	saveLatency   prometheus.Histogram
	httpStatus    *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		ideasCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ideaboard_ideas_created_total",
			Help: "作成されたアイデアの合計数",
		}),
		votesCast: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ideaboard_votes_cast_total",
			Help: "投票の合計数",
		}),
		notesUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ideaboard_notes_updated_total",
			Help: "メモ更新の合計数",
		}),
		filesUploaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ideaboard_files_uploaded_total",
			Help: "アップロードされたファイルの合計数",
		}),
		storeSaveFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ideaboard_store_save_fail_total",
			Help: "コレクション保存失敗の合計数",
		}),
		saveLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ideaboard_store_save_latency_seconds",
			Help:    "コレクション保存のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ideaboard_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.ideasCreated,
		c.votesCast,
		c.notesUpdated,
		c.filesUploaded,
		c.storeSaveFail,
		c.saveLatency,
		c.httpStatus,
	)

	return c
}

// RecordIdeaCreated はアイデア作成を記録する。
func (c *Collector) RecordIdeaCreated() {
	c.ideasCreated.Inc()
}

// RecordVoteCast は投票を記録する。
func (c *Collector) RecordVoteCast() {
	c.votesCast.Inc()
}

// RecordNotesUpdated はメモ更新を記録する。
func (c *Collector) RecordNotesUpdated() {
	c.notesUpdated.Inc()
}

// RecordFileUploaded はファイルアップロードを記録する。
func (c *Collector) RecordFileUploaded() {
	c.filesUploaded.Inc()
}

// RecordStoreSaveFailure はコレクション保存失敗を記録する。
func (c *Collector) RecordStoreSaveFailure() {
	c.storeSaveFail.Inc()
}

// RecordSaveLatency はコレクション保存のレイテンシを記録する。
func (c *Collector) RecordSaveLatency(duration time.Duration) {
	c.saveLatency.Observe(duration.Seconds())
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// NopRecorder は何も記録しないRecorder実装。テスト用。
type NopRecorder struct{}

// RecordIdeaCreated は何もしない。
func (NopRecorder) RecordIdeaCreated() {}

// RecordVoteCast は何もしない。
func (NopRecorder) RecordVoteCast() {}

// RecordNotesUpdated は何もしない。
func (NopRecorder) RecordNotesUpdated() {}

// RecordFileUploaded は何もしない。
func (NopRecorder) RecordFileUploaded() {}

// RecordStoreSaveFailure は何もしない。
func (NopRecorder) RecordStoreSaveFailure() {}

// RecordSaveLatency は何もしない。
func (NopRecorder) RecordSaveLatency(duration time.Duration) {}

// RecordHTTPStatus は何もしない。
func (NopRecorder) RecordHTTPStatus(statusCode int) {}

// --- compile-time interface checks ---

var _ Recorder = (*Collector)(nil)
var _ Recorder = NopRecorder{}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
