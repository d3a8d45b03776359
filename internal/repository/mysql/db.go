package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to the MySQL database that owns the user table. Dialing and
// the initial ping are bounded by ctx; when the dsn carries no timeout the
// ctx deadline becomes the driver dial timeout.
func Open(ctx context.Context, dsn string, logger *logrus.Logger) (*gorm.DB, error) {
	cfg, err := parseDSN(ctx, dsn)
	if err != nil {
		return nil, err
	}

	connector, err := gomysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("mysql connector: %w", err)
	}
	sqlDB := sql.OpenDB(connector)
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping mysql db: %w", err)
	}

	db, err := OpenConn(sqlDB, logger)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// OpenConn wraps an already established connection pool, skipping the server
// version query and the automatic ping.
func OpenConn(conn gorm.ConnPool, logger *logrus.Logger) (*gorm.DB, error) {
	if logger == nil {
		logger = logrus.New()
	}

	// gorm's default logger writes to stdout, which is reserved for the result line.
	db, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: gormlogger.New(warnWriter{logger}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("open mysql db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("mysql connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	return db, nil
}

// RedactDSN returns dsn with its password masked, or a placeholder when the
// dsn cannot be parsed.
func RedactDSN(dsn string) string {
	cfg, err := gomysql.ParseDSN(dsn)
	if err != nil {
		return "<invalid dsn>"
	}
	if cfg.Passwd != "" {
		cfg.Passwd = "***"
	}
	return cfg.FormatDSN()
}

func parseDSN(ctx context.Context, dsn string) (*gomysql.Config, error) {
	cfg, err := gomysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	if cfg.Timeout == 0 {
		if deadline, ok := ctx.Deadline(); ok {
			if remaining := time.Until(deadline); remaining > 0 {
				cfg.Timeout = remaining
			}
		}
	}
	return cfg, nil
}

// warnWriter routes gorm's slow query and error traces to logrus at warn level.
type warnWriter struct {
	logger logrus.FieldLogger
}

func (w warnWriter) Printf(format string, args ...interface{}) {
	w.logger.Warnf(format, args...)
}
