package config

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/nsqlite/sqlabstract/internal/version"
)

// Config represents the configuration for the sqlabstract shell.
type Config struct {
	Filename             string `arg:"positional" help:"SQLite database file, created if absent (use :memory: for a throwaway database)" default:"database.db"`
	LogFile              string `arg:"--log-file,env:SQLABSTRACT_LOG_FILE" help:"Write JSON logs to this file; logs are discarded when empty"`
	Verbose              bool   `arg:"-v,--verbose,env:SQLABSTRACT_VERBOSE" help:"Also log every executed statement" default:"false"`
	DisableOptimizations bool   `arg:"--disable-optimizations,env:SQLABSTRACT_DISABLE_OPTIMIZATIONS" help:"Disable the WAL and cache pragmas applied when opening the database" default:"false"`
}

func (Config) Version() string {
	return fmt.Sprintf("%s\n", version.ShellVersion())
}

func (Config) Description() string {
	return "Interactive shell for sqlabstract databases"
}

// MustParse parses and validates the configuration from the command
// line arguments. It returns a Config struct or exits the program
// with an error.
func MustParse(args []string) Config {
	cfg := Config{}

	parser, err := arg.NewParser(
		arg.Config{Program: "sqlabstract"},
		&cfg,
	)
	if err != nil {
		log.Fatal(err)
	}
	parser.MustParse(args[1:])

	if err := validateFilename(cfg.Filename); err != nil {
		log.Fatal(err)
	}

	if err := validateLogFile(cfg.LogFile, cfg.Filename); err != nil {
		log.Fatal(err)
	}

	return cfg
}

// validateFilename validates that filename can name a database file.
func validateFilename(filename string) error {
	if strings.TrimSpace(filename) == "" {
		return errors.New("database filename is required")
	}
	if strings.ContainsAny(filename, "?#") {
		return errors.New("database filename must not contain '?' or '#'")
	}
	if filename != ":memory:" && strings.HasSuffix(filename, string(filepath.Separator)) {
		return errors.New("database filename must not be a directory")
	}
	return nil
}

// validateLogFile validates that the log file does not clobber the database.
func validateLogFile(logFile string, filename string) error {
	if logFile == "" {
		return nil
	}
	if filepath.Clean(logFile) == filepath.Clean(filename) {
		return errors.New("log file must be different from the database file")
	}
	return nil
}
