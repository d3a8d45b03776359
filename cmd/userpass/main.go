package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"userpass/internal/config"
	"userpass/internal/lookup"
	"userpass/internal/repository"
	"userpass/internal/repository/mysql"
	"userpass/internal/repository/sqlite"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit code. Only the result
// line goes to stdout; logs and usage go to stderr.
func run(args []string, stdout, stderr io.Writer) int {
	logger := logrus.New()
	logger.SetOutput(stderr)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Stays zero when cobra only prints help.
	code := lookup.ExitOK
	cmd := newRootCmd(logger, stdout, &code)
	cmd.SetArgs(args)
	cmd.SetOut(stderr)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		logger.Error(err)
		return lookup.ExitFailure
	}
	return code
}

func newRootCmd(logger *logrus.Logger, stdout io.Writer, code *int) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "userpass [flags] <username>",
		Short: "Print the stored password hash of a user",
		Long: `Look up a user account by name in the user store and print its stored
password hash as "PASS: <hash>". Unknown users print
"ERR: user[<username>] is unknown! " and exit with status 1.`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath, cmd.Flags())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			level, err := logrus.ParseLevel(cfg.Log.Level)
			if err != nil {
				return fmt.Errorf("parse log level: %w", err)
			}
			logger.SetLevel(level)

			if len(args) > 1 {
				logger.Warn("second argument is ignored; passwords are never changed")
			}

			// The timeout covers connecting as well as the query.
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithTimeout(ctx, cfg.Store.Timeout)
			defer cancel()

			repo, closeStore, err := openStore(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := closeStore(); err != nil {
					logger.Warnf("close store: %v", err)
				}
			}()

			*code = lookup.Run(ctx, repo.GetByUsername, args[0], stdout, logger)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (default ./config.*)")
	cmd.Flags().String("driver", "", "user store driver: sqlite or mysql")
	cmd.Flags().String("dsn", "", "user store sqlite path or mysql dsn")
	cmd.Flags().String("log-level", "", "log level written to stderr")
	return cmd
}

func openStore(ctx context.Context, cfg config.Config, logger *logrus.Logger) (repository.UserRepository, func() error, error) {
	schema := repository.Schema{
		Table:          cfg.Store.Table,
		UsernameColumn: cfg.Store.UsernameColumn,
		HashColumn:     cfg.Store.HashColumn,
	}

	var (
		db       *sql.DB
		repo     repository.UserRepository
		location = cfg.Store.DSN
	)

	switch cfg.Store.Driver {
	case config.DriverSQLite:
		sqlDB, err := sqlite.Open(cfg.Store.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		db = sqlDB
		repo, err = sqlite.NewUserRepository(db, schema)
		if err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("init user repository: %w", err)
		}
	case config.DriverMySQL:
		location = mysql.RedactDSN(cfg.Store.DSN)
		gormDB, err := mysql.Open(ctx, cfg.Store.DSN, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		if db, err = gormDB.DB(); err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		repo, err = mysql.NewUserRepository(gormDB, schema)
		if err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("init user repository: %w", err)
		}
	default:
		return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}

	logger.WithFields(logrus.Fields{
		"driver": cfg.Store.Driver,
		"table":  cfg.Store.Table,
	}).Debugf("user store ready at %s", location)
	return repo, db.Close, nil
}
