// main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"movie-catalog/cmd"
	"movie-catalog/internal/data/repository"
	"movie-catalog/internal/wire"
	"movie-catalog/pkg/database"
	"movie-catalog/pkg/utils"

	"go.uber.org/zap"
)

const usage = `Usage: movie-catalog [-config path] [serve|seed]

Commands:
  serve   run the HTTP API (default)
  seed    create the admin user and load the demo catalog
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Printf("%v", err)
		os.Exit(1)
	}
}

var errUsage = errors.New("usage")

// run returns instead of exiting so deferred cleanup always happens.
func run(args []string) error {
	defaultConfig := os.Getenv("CONFIG_FILE")
	if defaultConfig == "" {
		defaultConfig = ".env"
	}

	flags := flag.NewFlagSet("movie-catalog", flag.ContinueOnError)
	configPath := flags.String("config", defaultConfig, "path to the env config file")
	flags.Usage = func() {
		fmt.Fprint(flags.Output(), usage)
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return err
	}

	command := "serve"
	if flags.NArg() > 0 {
		command = flags.Arg(0)
	}
	if command != "serve" && command != "seed" {
		flags.Usage()
		return errUsage
	}

	// Load config
	config, err := utils.LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("command", command),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.InitDB(ctx, config.Database)
	if err != nil {
		logger.Error("Failed to connect to database", zap.Error(err))
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		logger.Error("Failed to migrate database", zap.Error(err))
		return err
	}

	logger.Info("Database connected successfully")

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, config, logger)

	switch command {
	case "seed":
		err = cmd.Seed(ctx, app.Service.Seed, logger)
	default:
		err = cmd.APIServer(ctx, app.Router, config.App.Port, logger)
	}
	if err != nil {
		logger.Error("Command failed", zap.String("command", command), zap.Error(err))
		return err
	}
	return nil
}
