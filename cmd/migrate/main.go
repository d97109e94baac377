package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/vtps-backend/pkg/config"
	"github.com/angelmondragon/vtps-backend/pkg/db"
	"github.com/angelmondragon/vtps-backend/pkg/logger"
	"github.com/angelmondragon/vtps-backend/pkg/migrate"
)

func main() {
	cmd := flag.String("cmd", "up", "up|down|status|version|create|validate")
	dir := flag.String("dir", "", "migrations directory on disk (default: the set compiled into this binary)")
	name := flag.String("name", "", "migration name for -cmd=create")
	version := flag.String("version", "", "target YYYYMMDDHHMMSS for -cmd=version")
	flag.Parse()

	_ = godotenv.Load()
	logg := logger.New(logger.Options{ServiceName: "migrate"})
	ctx := logg.WithField(context.Background(), "cmd", *cmd)

	// create and validate work on files only
	switch *cmd {
	case "create":
		target := *dir
		if target == "" {
			target = migrate.DefaultDir
		}
		path, err := migrate.Create(target, *name, time.Now())
		exitOn(ctx, logg, "create migration", err)
		fmt.Println("created", path)
		return
	case "validate":
		var err error
		if *dir == "" {
			err = migrate.ValidateEmbedded()
		} else {
			err = migrate.ValidateDir(*dir)
		}
		exitOn(ctx, logg, "validate migrations", err)
		fmt.Println("migrations ok")
		return
	}

	cfg, err := config.Load()
	exitOn(ctx, logg, "load config", err)
	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
		Fields:      map[string]any{"env": cfg.App.Env},
	})
	dialect := migrate.Dialect(cfg.DB.Driver)
	ctx = logg.WithFields(context.Background(), map[string]any{"cmd": *cmd, "dialect": dialect})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	exitOn(ctx, logg, "connect database", err)
	defer dbClient.Close()

	sqlDB, err := dbClient.SQL()
	exitOn(ctx, logg, "open sql handle", err)

	switch *cmd {
	case "up", "down", "status":
		err = migrate.Run(ctx, sqlDB, dialect, *dir, *cmd)
	case "version":
		if *version == "" {
			err = fmt.Errorf("-version is required")
			break
		}
		err = migrate.MigrateToVersion(ctx, sqlDB, dialect, *dir, *version)
	default:
		err = fmt.Errorf("unknown -cmd %q", *cmd)
	}
	exitOn(ctx, logg, "goose "+*cmd, err)
	logg.Info(ctx, "migrate finished")
}

func exitOn(ctx context.Context, logg *logger.Logger, step string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, step+" failed", err)
	os.Exit(1)
}
