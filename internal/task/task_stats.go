package task

import (
	"context"
	"time"

	"github.com/haierkeys/ya-note-service/internal/app"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	notesTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "ya_note",
		Name:      "notes_total",
		Help:      "Stored notes across all authors.",
	})

	writeQueuesActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "ya_note",
		Name:      "write_queues_active",
		Help:      "Per-author write queues currently held open.",
	})
)

func init() {
	prometheus.MustRegister(notesTotal, writeQueuesActive)
}

// StatsTask 定时刷新存储相关的指标
type StatsTask struct {
	app      *app.App
	interval time.Duration
}

// NewStatsTask 创建统计任务
func NewStatsTask(appContainer *app.App) *StatsTask {
	return &StatsTask{app: appContainer, interval: time.Minute}
}

func (t *StatsTask) Name() string {
	return "NoteStats"
}

func (t *StatsTask) LoopInterval() time.Duration {
	return t.interval
}

func (t *StatsTask) IsStartupRun() bool {
	return true
}

// Run 执行统计
func (t *StatsTask) Run(ctx context.Context) error {
	if t.app.IsShuttingDown() {
		return nil
	}

	n, err := t.app.NoteService.Count(ctx)
	if err != nil {
		return err
	}
	notesTotal.Set(float64(n))

	if wq := t.app.WriteQueueManager(); wq != nil {
		writeQueuesActive.Set(float64(wq.QueueCount()))
	}
	return nil
}
