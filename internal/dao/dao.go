// Package dao 实现数据访问层
package dao

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/haierkeys/ya-note-service/internal/model"
	"github.com/haierkeys/ya-note-service/pkg/util"
	"github.com/haierkeys/ya-note-service/pkg/writequeue"

	"github.com/avast/retry-go/v4"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// MemoryPath opens a private in-memory sqlite database.
const MemoryPath = ":memory:"

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Type            string // sqlite, mysql, postgres
	Path            string // sqlite file path
	UserName        string
	Password        string
	Host            string // host or host:port
	Name            string
	TablePrefix     string
	AutoMigrate     bool
	Charset         string
	ParseTime       bool
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime string
	ConnMaxIdleTime string
	ConnectAttempts uint
	RunMode         string
}

// Dao bundles the connection with the per-author write queue.
type Dao struct {
	DB         *gorm.DB
	logger     *zap.Logger
	writeQueue *writequeue.Manager
}

type Option func(*Dao)

func WithLogger(lg *zap.Logger) Option {
	return func(d *Dao) { d.logger = lg }
}

func WithWriteQueue(m *writequeue.Manager) Option {
	return func(d *Dao) { d.writeQueue = m }
}

func New(db *gorm.DB, opts ...Option) *Dao {
	d := &Dao{DB: db, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ExecuteWrite runs fn on the write queue of uid, or inline when no queue is set.
func (d *Dao) ExecuteWrite(ctx context.Context, uid int64, fn func() error) error {
	if d.writeQueue == nil {
		return fn()
	}
	return d.writeQueue.Execute(ctx, uid, fn)
}

// NewDBEngineWithConfig opens the database, tunes the pool, waits until it
// answers and migrates the schema when AutoMigrate is set.
func NewDBEngineWithConfig(c DatabaseConfig, lg *zap.Logger) (*gorm.DB, error) {
	if lg == nil {
		lg = zap.NewNop()
	}

	dialector, err := userDialector(c)
	if err != nil {
		return nil, err
	}

	logMode := logger.Silent
	if c.RunMode == "debug" {
		logMode = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logMode),
		TranslateError: true,
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   c.TablePrefix, // 表名前缀
			SingularTable: true,          // 使用单数表名，`Note` 的表名为 `note`
		},
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if isMemory(c) {
		// every new connection would see an empty database
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		if c.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(c.MaxIdleConns)
		}
		if c.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(c.MaxOpenConns)
		}
		if d, err := parseDuration(c.ConnMaxLifetime); err != nil {
			return nil, fmt.Errorf("database conn-max-lifetime: %w", err)
		} else if d > 0 {
			sqlDB.SetConnMaxLifetime(d)
		}
		if d, err := parseDuration(c.ConnMaxIdleTime); err != nil {
			return nil, fmt.Errorf("database conn-max-idle-time: %w", err)
		} else if d > 0 {
			sqlDB.SetConnMaxIdleTime(d)
		}
	}

	attempts := c.ConnectAttempts
	if attempts == 0 {
		attempts = 5
	}
	err = retry.Do(
		sqlDB.Ping,
		retry.Attempts(attempts),
		retry.Delay(300*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			lg.Warn("database ping failed, retrying", zap.Uint("attempt", n+1), zap.String("type", c.Type), zap.Error(err))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("database ping: %w", err)
	}

	if c.AutoMigrate {
		if err := model.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
	}

	lg.Info("database connected", zap.String("type", c.Type))
	return db, nil
}

func userDialector(c DatabaseConfig) (gorm.Dialector, error) {
	switch strings.ToLower(c.Type) {
	case "", "sqlite":
		if c.Path == "" {
			return nil, errors.New("database path is required for sqlite")
		}
		if !isMemory(c) {
			if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil {
				return nil, err
			}
		}
		return sqlite.Open(c.Path), nil
	case "mysql":
		charset := c.Charset
		if charset == "" {
			charset = "utf8mb4"
		}
		dsn := fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=%s&parseTime=%t&loc=Local",
			c.UserName, c.Password, c.Host, c.Name, charset, c.ParseTime)
		return mysql.Open(dsn), nil
	case "postgres", "postgresql":
		host, port := splitHostPort(c.Host, "5432")
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			host, port, c.UserName, c.Password, c.Name)
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.Type)
	}
}

func isMemory(c DatabaseConfig) bool {
	return (c.Type == "" || strings.EqualFold(c.Type, "sqlite")) && c.Path == MemoryPath
}

func splitHostPort(hostport, defaultPort string) (string, string) {
	host, port, err := net.SplitHostPort(hostport)
	if err != nil {
		return hostport, defaultPort
	}
	return host, port
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return util.ParseDuration(s)
}

// isUniqueViolation recognises duplicate key errors of every supported driver.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "duplicate key")
}
