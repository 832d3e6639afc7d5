package task

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/haierkeys/ya-note-service/internal/app"
	"github.com/haierkeys/ya-note-service/internal/dao"
	"github.com/haierkeys/ya-note-service/internal/dto"
	"github.com/haierkeys/ya-note-service/pkg/safe_close"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingTask struct {
	runs     atomic.Int32
	interval time.Duration
	startup  bool
	fail     bool
	panics   bool
}

func (t *countingTask) Name() string                { return "counting" }
func (t *countingTask) LoopInterval() time.Duration { return t.interval }
func (t *countingTask) IsStartupRun() bool          { return t.startup }
func (t *countingTask) Run(ctx context.Context) error {
	t.runs.Add(1)
	if t.panics {
		panic("boom")
	}
	if t.fail {
		return errors.New("failed")
	}
	return nil
}

func TestScheduler_StartupAndLoop(t *testing.T) {
	sc := safe_close.NewSafeClose()
	s := NewScheduler(zap.NewNop(), sc, time.Second)

	task := &countingTask{interval: 10 * time.Millisecond, startup: true, fail: true}
	s.AddTask(task)
	s.Start()

	assert.Eventually(t, func() bool { return task.runs.Load() >= 3 }, time.Second, 5*time.Millisecond)

	sc.SendCloseSignal(nil)
	require.NoError(t, sc.WaitClosed())

	stopped := task.runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, task.runs.Load())
}

func TestScheduler_StartupOnlyAndPanic(t *testing.T) {
	sc := safe_close.NewSafeClose()
	s := NewScheduler(zap.NewNop(), sc, 0)

	task := &countingTask{startup: true, panics: true}
	s.AddTask(task)
	s.Start()

	// the worker returns right after the startup pass
	require.NoError(t, sc.WaitClosed())
	assert.EqualValues(t, 1, task.runs.Load())
}

func TestScheduler_Empty(t *testing.T) {
	sc := safe_close.NewSafeClose()
	NewScheduler(zap.NewNop(), sc, 0).Start()
	assert.NoError(t, sc.WaitClosed())
}

func TestStatsTask(t *testing.T) {
	cfg := &app.AppConfig{}
	cfg.Database.Path = dao.MemoryPath
	cfg.Database.AutoMigrate = true
	cfg.User.RegisterIsEnable = true
	cfg.Security.AuthTokenKey = "task-test"

	db, err := dao.NewDBEngineWithConfig(cfg.GetDatabaseConfig(), zap.NewNop())
	require.NoError(t, err)
	a, err := app.NewApp(cfg, zap.NewNop(), db)
	require.NoError(t, err)

	ctx := context.Background()
	user, err := a.UserService.Register(ctx, &dto.UserCreateRequest{
		Username: "author", Password: "secret123", ConfirmPassword: "secret123",
	})
	require.NoError(t, err)
	for _, title := range []string{"One", "Two"} {
		_, err := a.NoteService.Create(ctx, user.UID, &dto.NoteForm{Title: title, Text: "text"})
		require.NoError(t, err)
	}

	sc := safe_close.NewSafeClose()
	m := NewManager(zap.NewNop(), sc, a)
	require.NoError(t, m.RegisterTasks())
	m.Start()

	assert.Eventually(t, func() bool { return testutil.ToFloat64(notesTotal) == 2 }, time.Second, 5*time.Millisecond)

	sc.SendCloseSignal(nil)
	require.NoError(t, sc.WaitClosed())

	require.NoError(t, a.Shutdown(ctx))
	// a stopped container is skipped
	assert.NoError(t, NewStatsTask(a).Run(ctx))
}
