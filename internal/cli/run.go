package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/nsqlite/sqlabstract"
	"github.com/nsqlite/sqlabstract/internal/cli/config"
	"github.com/nsqlite/sqlabstract/internal/cli/repl"
	"github.com/nsqlite/sqlabstract/internal/log"
	"github.com/nsqlite/sqlabstract/internal/version"
	"github.com/nsqlite/sqlabstract/storage"
)

// Run runs the sqlabstract shell.
func Run(ctx context.Context) error {
	conf := config.MustParse(os.Args)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(version.ShellVersion())

	var logWriter io.Writer
	if conf.LogFile != "" {
		file, err := os.OpenFile(conf.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer file.Close()
		logWriter = file
	}

	logger := log.NewLogger(logWriter)
	if conf.Verbose {
		logger = log.NewDebugLogger(logWriter)
	}

	db, err := sqlabstract.OpenConfig(ctx, storage.Config{
		Filename:             conf.Filename,
		LogWriter:            logWriter,
		Debug:                conf.Verbose,
		DisableOptimizations: conf.DisableOptimizations,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.ErrorNs(log.NsCLI, "failed to close database", log.KV{
				"filename": conf.Filename,
				"error":    err.Error(),
			})
		}
	}()

	rp, err := repl.NewRepl(ctx, stop, db, logger, os.Stdout)
	if err != nil {
		return err
	}
	defer rp.Shutdown()
	go func() {
		if err := rp.Start(); err != nil {
			fmt.Println(err)
			stop()
		}
	}()

	<-ctx.Done()
	fmt.Printf("\nGoodbye!\n\n")
	return nil
}
