package cmd

import (
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/haierkeys/ya-note-service/pkg/fileurl"
	"github.com/haierkeys/ya-note-service/pkg/util"

	"github.com/pkg/errors"
	"github.com/radovskyb/watcher"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// defaultTokenKey 默认配置中的密钥占位符，自动创建配置时替换为随机值
const defaultTokenKey = "ya-note-Auth-Token"

// 配置文件查找顺序
var configCandidates = []string{
	"config/config-dev.yaml",
	"config.yaml",
	"config/config.yaml",
}

type runFlags struct {
	dir     string // 项目根目录
	port    string // 启动端口
	runMode string // 启动模式
	config  string // 指定要使用的配置文件路径
}

// ensureConfig returns the config file to use, writing the default one to
// config/config.yaml when nothing is found.
func ensureConfig(path, content string) (string, bool, error) {
	if path != "" {
		return path, false, nil
	}
	for _, candidate := range configCandidates {
		if fileurl.IsExist(candidate) {
			return candidate, false, nil
		}
	}

	path = "config/config.yaml"
	content = strings.Replace(content, defaultTokenKey, util.GetRandomString(32), 1)

	if err := fileurl.CreatePath(path, os.ModePerm); err != nil {
		return "", false, errors.Wrap(err, "config file auto create")
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", false, errors.Wrap(err, "config file auto create writing")
	}
	return path, true, nil
}

// serverHolder keeps the running server across config reloads.
type serverHolder struct {
	mu sync.Mutex
	s  *Server
}

func (h *serverHolder) get() *Server {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.s
}

func (h *serverHolder) set(s *Server) {
	h.mu.Lock()
	h.s = s
	h.mu.Unlock()
}

// watchConfig restarts the server in process whenever the config file is written.
func watchConfig(runEnv *runFlags, holder *serverHolder) {
	w := watcher.New()

	// 每个监听周期至多接收 1 个事件，只关心写入
	w.SetMaxEvents(1)
	w.FilterOps(watcher.Write)

	go func() {
		for {
			select {
			case event := <-w.Event:
				old := holder.get()
				old.logger.Info("config watcher change", zap.String("event", event.Op.String()), zap.String("file", event.Path))

				old.sc.SendCloseSignal(nil)
				if err := old.sc.WaitClosed(); err != nil {
					old.logger.Warn("server stopped with error before reload", zap.Error(err))
				}
				_ = old.logger.Sync()

				s, err := NewServer(runEnv)
				if err != nil {
					// keep the stopped server so the signal handler still has something to close
					bootstrapLogger.Error("service restart err", zap.Error(err))
					continue
				}
				holder.set(s)

			case err := <-w.Error:
				bootstrapLogger.Error("config watcher error", zap.Error(err))
			case <-w.Closed:
				bootstrapLogger.Info("config watcher closed")
				return
			}
		}
	}()

	if err := w.Add(runEnv.config); err != nil {
		bootstrapLogger.Error("config watcher file error", zap.Error(err))
		return
	}

	if err := w.Start(time.Second * 5); err != nil {
		bootstrapLogger.Error("config watcher start error", zap.Error(err))
	}
}

func init() {
	runEnv := new(runFlags)

	var runCommand = &cobra.Command{
		Use:   "run [-c config_file] [-d working_dir] [-p port]",
		Short: "Run service",
		Run: func(cmd *cobra.Command, args []string) {
			if len(runEnv.dir) > 0 {
				if err := os.Chdir(runEnv.dir); err != nil {
					bootstrapLogger.Error("failed to change the current working directory", zap.Error(err))
					return
				}
				bootstrapLogger.Info("working directory changed", zap.String("dir", runEnv.dir))
			}

			path, created, err := ensureConfig(runEnv.config, configDefault)
			if err != nil {
				bootstrapLogger.Error("config file error", zap.Error(err))
				return
			}
			if created {
				bootstrapLogger.Info("config file auto create successfully", zap.String("path", path))
			}
			runEnv.config = path

			s, err := NewServer(runEnv)
			if err != nil {
				bootstrapLogger.Error("api service start err", zap.Error(err))
				return
			}
			holder := &serverHolder{s: s}

			go watchConfig(runEnv, holder)

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			s = holder.get()
			s.logger.Info("Received shutdown signal, initiating graceful shutdown...")
			s.sc.SendCloseSignal(nil)

			// 等待所有关闭处理器完成（包括 App Container 的优雅关闭）
			if err := s.sc.WaitClosed(); err != nil {
				s.logger.Error("Shutdown completed with error", zap.Error(err))
			} else {
				s.logger.Info("Service has been shut down gracefully.")
			}
			_ = s.logger.Sync()
		},
	}

	rootCmd.AddCommand(runCommand)
	fs := runCommand.Flags()
	fs.StringVarP(&runEnv.dir, "dir", "d", "", "run dir")
	fs.StringVarP(&runEnv.port, "port", "p", "", "run port")
	fs.StringVarP(&runEnv.runMode, "mode", "m", "", "run mode")
	fs.StringVarP(&runEnv.config, "config", "c", "", "config file")
}
