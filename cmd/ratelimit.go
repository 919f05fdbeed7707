package cmd

import (
	"context"
	"log"

	"github.com/oss-mentor/issue-scout/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var rateLimitCmd = &cobra.Command{
	Use:   "ratelimit",
	Short: "Show the current github api rate limit for the configured credential",
	Run: func(_ *cobra.Command, _ []string) {
		ctx := context.Background()

		logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
		if err != nil {
			log.Fatalf("creating a logger: %s", err)
		}

		config, err := getConfig()
		if err != nil {
			logger.Fatal("getting a config", zap.Error(err))
		}
		if config == nil {
			config = &Config{}
		}

		gh := newGithubClient(ctx, config, logger)

		limit, err := gh.CheckRateLimit()
		if err != nil {
			logger.Fatal("checking rate limit", zap.Error(err))
		}

		logger.Info("github api rate limit",
			zap.Int("limit", limit.Limit),
			zap.Int("remaining", limit.Remaining),
			zap.Int("reset", limit.Reset),
		)
	},
}

func init() {
	rootCmd.AddCommand(rateLimitCmd)
}
