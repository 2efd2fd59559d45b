package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/retail/backoffice/internal/infrastructure/config"
	"github.com/retail/backoffice/internal/infrastructure/logger"
	"github.com/retail/backoffice/internal/infrastructure/migration"
)

func main() {
	var (
		dir      string
		logLevel string
	)
	flag.StringVar(&dir, "path", "migrations", "path to the migrations directory")
	flag.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}

	command, rest := args[0], args[1:]
	switch command {
	// create and list work on files only, no database needed.
	case "create":
		runCreate(log, dir, rest)
	case "list":
		runList(log, dir)
	default:
		runAgainstDB(log, dir, command, rest)
	}
}

func runCreate(log *zap.Logger, dir string, args []string) {
	if len(args) == 0 {
		log.Fatal("Migration name required. Usage: migrate create <name> [description]")
	}
	description := ""
	if len(args) > 1 {
		description = args[1]
	}

	pair, err := migration.Create(dir, args[0], description)
	if err != nil {
		log.Fatal("Failed to create migration", zap.Error(err))
	}

	log.Info("Migration created",
		zap.String("version", pair.Version),
		zap.String("up", pair.UpPath),
		zap.String("down", pair.DownPath),
	)
}

func runList(log *zap.Logger, dir string) {
	names, err := migration.List(dir)
	if err != nil {
		log.Fatal("Failed to list migrations", zap.Error(err))
	}
	if len(names) == 0 {
		log.Info("No migrations found", zap.String("path", dir))
		return
	}
	for _, name := range names {
		fmt.Println(name)
	}
}

func runAgainstDB(log *zap.Logger, dir, command string, args []string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	m, err := migration.New(db, dir, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer m.Close()

	switch command {
	case "up":
		err = m.Up()

	case "down":
		err = m.Down()

	case "step":
		n, argErr := intArg(args, "step count")
		if argErr != nil {
			log.Fatal(argErr.Error())
		}
		err = m.Steps(n)

	case "goto":
		n, argErr := intArg(args, "target version")
		if argErr != nil || n < 0 {
			log.Fatal("Version required. Usage: migrate goto <version>")
		}
		err = m.GoTo(uint(n))

	case "version":
		version, dirty, verErr := m.Version()
		if verErr != nil {
			log.Fatal("Failed to read schema version", zap.Error(verErr))
		}
		if version == 0 {
			log.Info("No migrations applied")
		} else {
			log.Info("Schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		}

	case "force":
		n, argErr := intArg(args, "version")
		if argErr != nil {
			log.Fatal(argErr.Error())
		}
		err = m.Force(n)

	case "drop":
		if !confirmed(args) {
			log.Fatal("Drop removes every database object. Re-run with -confirm to proceed.")
		}
		err = m.Drop()

	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		log.Fatal("Migration failed", zap.String("command", command), zap.Error(err))
	}
}

func intArg(args []string, what string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%s required", what)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", what, args[0])
	}
	return n, nil
}

func confirmed(args []string) bool {
	for _, arg := range args {
		if arg == "-confirm" || arg == "--confirm" {
			return true
		}
	}
	return false
}

func printUsage() {
	fmt.Println(`Schema migration tool for the back office database.

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    apply every pending migration
  down                  roll back every migration
  step <n>              apply n migrations (negative rolls back)
  goto <version>        migrate to a specific version
  version               print the current schema version
  force <version>       overwrite the recorded version (recovery only)
  drop -confirm         drop every database object
  create <name> [desc]  write a new up/down migration pair
  list                  list migrations in the directory

Flags:
  -path string          migrations directory (default "migrations")
  -log-level string     debug, info, warn or error (default "info")

The database connection is read from config.toml and the
BACKOFFICE_DATABASE_* environment variables.`)
}
