package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/resellernumbers-backend/pkg/config"
	"github.com/angelmondragon/resellernumbers-backend/pkg/db"
	"github.com/angelmondragon/resellernumbers-backend/pkg/logger"
	"github.com/angelmondragon/resellernumbers-backend/pkg/migrate"
)

type options struct {
	dir     string
	name    string
	version string
}

type offlineCommand func(opts options) error

type dbCommand func(ctx context.Context, sqlDB *sql.DB, opts options) error

var offlineCommands = map[string]offlineCommand{
	"create": func(opts options) error {
		if opts.name == "" {
			return errors.New("-name is required for create")
		}
		target := opts.dir
		if target == "" {
			target = migrate.DefaultDir
		}
		path, err := migrate.CreateSQLMigration(target, opts.name)
		if err != nil {
			return err
		}
		fmt.Println("created", path)
		return nil
	},
	"validate": func(opts options) error {
		if err := migrate.ValidateDir(opts.dir); err != nil {
			return err
		}
		fmt.Println("migrations valid")
		return nil
	},
}

var dbCommands = map[string]dbCommand{
	"up":     gooseCommand("up"),
	"down":   gooseCommand("down"),
	"status": gooseCommand("status"),
	"redo":   gooseCommand("redo"),
	"version": func(ctx context.Context, sqlDB *sql.DB, opts options) error {
		if opts.version == "" {
			return errors.New("-version is required for version")
		}
		return migrate.MigrateToVersion(ctx, sqlDB, opts.dir, opts.version)
	},
}

func gooseCommand(name string) dbCommand {
	return func(ctx context.Context, sqlDB *sql.DB, opts options) error {
		return migrate.Run(ctx, sqlDB, opts.dir, name)
	}
}

func main() {
	var opts options
	cmd := flag.String("cmd", "up", "one of: "+strings.Join(commandNames(), "|"))
	flag.StringVar(&opts.dir, "dir", "", "migrations directory; empty uses the set compiled into the binary")
	flag.StringVar(&opts.name, "name", "", "migration title for -cmd=create")
	flag.StringVar(&opts.version, "version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "migrate"})
	_ = godotenv.Load()

	if run, ok := offlineCommands[*cmd]; ok {
		exitOnErr(logg, *cmd+" failed", run(opts))
		return
	}
	run, ok := dbCommands[*cmd]
	if !ok {
		exitOnErr(logg, "unknown command", fmt.Errorf("%q is not one of %s", *cmd, strings.Join(commandNames(), ", ")))
	}

	cfg, err := config.Load()
	exitOnErr(logg, "failed to load config", err)
	cfg.Service.Kind = "migrate"

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Env:         cfg.App.Env,
		WarnStack:   cfg.App.LogWarnStack,
	})
	source := opts.dir
	if source == "" {
		source = "embedded"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"cmd":    *cmd,
		"source": source,
	})

	if cfg.DB.IsSQLite() {
		exitOnErr(logg, "unsupported database", errors.New("goose migrations target postgres; sqlite schemas come from auto-migrate"))
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	exitOnErr(logg, "failed to bootstrap database", err)
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	exitOnErr(logg, "failed to extract sql.DB", err)

	if err := run(ctx, sqlDB, opts); err != nil {
		logg.Error(ctx, "migration command failed", err)
		dbClient.Close()
		os.Exit(1)
	}
	logg.Info(ctx, "migration command finished")
}

func commandNames() []string {
	names := make([]string, 0, len(offlineCommands)+len(dbCommands))
	for name := range offlineCommands {
		names = append(names, name)
	}
	for name := range dbCommands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func exitOnErr(logg *logger.Logger, msg string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), msg, err)
	os.Exit(1)
}
