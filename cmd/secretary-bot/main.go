package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/secretary/internal/app"
	"github.com/ternarybob/secretary/internal/bot"
	"github.com/ternarybob/secretary/internal/common"
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
	showVersion = flag.Bool("version", false, "Print version information")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	common.InstallCrashHandler("logs")
	defer common.RecoverWithCrashFile()

	flag.Parse()

	if *showVersion {
		fmt.Printf("Secretary bot version %s\n", common.GetFullVersion())
		os.Exit(0)
	}

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

	logger := common.SetupLogger(config)
	common.PrintBanner("secretary-bot", config, logger)

	// The token and the LLM credential are the only fatal start-up checks
	token, err := common.ResolveAPIKey("telegram_bot_token", config.Telegram.Token)
	if err != nil {
		logger.Fatal().Err(err).Msg("No bot token provided")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer application.Close()

	if err := application.ValidateCredentials(); err != nil {
		logger.Fatal().Err(err).Msg("No LLM credential provided")
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Telegram")
	}

	sender := bot.NewTelegramSender(api, config.Telegram.SendRate, config.Telegram.SendBurst)
	chatBot := bot.New(bot.Dependencies{
		Sender:   sender,
		Analyzer: application.AnalyzerService,
		Parser:   application.TaskParser,
		Entries:  application.EntryService,
		Sessions: application.Sessions,
	}, config.Telegram.AllowedChatIDs, config.Telegram.DefaultCollection, logger)

	if len(config.Telegram.AllowedChatIDs) == 0 {
		logger.Info().Msg("Allowed chat IDs: all (no restrictions)")
	} else {
		ids := make([]string, 0, len(config.Telegram.AllowedChatIDs))
		for _, id := range config.Telegram.AllowedChatIDs {
			ids = append(ids, fmt.Sprintf("%d", id))
		}
		logger.Info().Strs("allowed_chat_ids", ids).Msg("Allowed chat IDs")
	}

	logger.Info().Str("bot", api.Self.UserName).Msg("Starting bot...")

	poller := bot.NewPoller(api, chatBot, &config.Telegram, logger)
	if err := poller.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("Bot stopped with error")
		return
	}

	logger.Info().Int64("goroutines_spawned", common.GetGoroutineCount()).Msg("Bot stopped")
}
