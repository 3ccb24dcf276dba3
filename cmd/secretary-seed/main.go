package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/secretary/internal/common"
	"github.com/ternarybob/secretary/internal/seed"
	"github.com/ternarybob/secretary/internal/storage"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles configPaths
	profilePath = flag.String("profile", "", "Profile YAML file (defaults to the built-in profile)")
	collection  = flag.String("collection", "", "Target collection (defaults to analyzer.profile_collection)")
	database    = flag.String("database", "", "Database name (overrides config)")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	common.InstallCrashHandler("logs")
	defer common.RecoverWithCrashFile()

	flag.Parse()

	if len(configFiles) == 0 {
		if path, ok := common.DiscoverConfigFile(); ok {
			configFiles = append(configFiles, path)
		}
	}

	config, err := common.LoadFromFiles(configFiles...)
	if err != nil {
		arbor.NewLogger().Fatal().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}
	if *database != "" {
		config.Storage.MongoDB.Database = *database
	}

	logger := common.SetupLogger(config)

	target := *collection
	if target == "" {
		target = config.Analyzer.ProfileCollection
	}

	profile, err := seed.Load(*profilePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load profile")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := storage.NewDocumentStorage(ctx, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer store.Close()

	id, err := seed.NewSeeder(store, target, logger).Seed(ctx, profile)
	if err != nil {
		logger.Error().Err(err).Str("collection", target).Msg("Failed to seed profile")
		store.Close()
		os.Exit(1)
	}

	fmt.Printf("%s collection initialized successfully (id %s)\n", target, id)
}
