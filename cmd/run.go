package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/oss-mentor/issue-scout/internal/ai"
	"github.com/oss-mentor/issue-scout/internal/ai/gemini"
	"github.com/oss-mentor/issue-scout/internal/cache"
	"github.com/oss-mentor/issue-scout/internal/finder"
	"github.com/oss-mentor/issue-scout/internal/github"
	"github.com/oss-mentor/issue-scout/internal/logger"
	"github.com/oss-mentor/issue-scout/internal/recommend"
	"github.com/oss-mentor/issue-scout/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptReport       = "Report by repository"
	PromptIssuesToFile = "Dump issues to file"
	PromptExit         = "Exit"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptReport, PromptIssuesToFile, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the issue-scout main command",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("auto-approve", "y", false, "do not prompt after the search, just print the report")
	runCmd.Flags().IntP("max-results", "n", 0, "result budget for the ranked list")

	viper.BindPFlag("max-results", runCmd.Flags().Lookup("max-results"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the issue-scout", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	if config.Profile == nil {
		logger.Fatal("a contributor profile is required under the profile key")
	}

	gh := newGithubClient(ctx, config, logger)

	scorer := prepareScorer(ctx, config.AI, logger)

	f := finder.New(finder.Config{
		CacheTTL: cacheTTL(config),
	}, finder.Deps{
		Source: gh,
		Scorer: scorer,
		Cache:  prepareCache(config),
		Logger: logger,
	})

	logger.Info("starting the search",
		zap.String("experience", config.Profile.Experience),
		zap.Strings("skills", config.Profile.Skills),
	)

	issues, err := f.FindIssues(ctx, config.Profile, viper.GetInt("max-results"))
	if err != nil {
		logger.Fatal("finding issues", zap.Error(err))
	}

	if issues.Len() == 0 {
		logger.Warn("no issues found, showing built-in samples",
			zap.String("hint", "the search api may be unavailable or rate limited"),
		)
		issues = recommend.SampleIssues(config.Profile)
	}

	logger.Info("ranked issues ready", zap.Int("count", issues.Len()))

	if cmd.Flag("auto-approve").Value.String() == "true" {
		if err := handleAction(PromptReport, logger, issues); err != nil && !errors.Is(err, errExit) {
			logger.Fatal("exiting", zap.Error(err))
		}
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, logger, issues); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, issues *recommend.Issues) error {
	switch action {
	case PromptReport:
		pretty, _ := json.MarshalIndent(issues.ReportByRepository(), "", "  ")
		logger.Info(string(pretty), zap.Int("issues count", issues.Len()))
		return nil
	case PromptIssuesToFile:
		filename, err := issues.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// newGithubClient builds the search client. The token is optional: without it
// the client works against the lower unauthenticated budget.
func newGithubClient(ctx context.Context, config *Config, logger *zap.Logger) *github.Client {
	token, err := resolveToken(config)
	if err != nil {
		logger.Fatal("loading github token", zap.Error(err))
	}

	gh := github.New(ctx, logger, token)
	if config.UserAgent != "" {
		gh.UserAgent = config.UserAgent
	}

	logger.Info("github client ready", zap.Int("hourly_budget", gh.RateBudget()))
	if token == "" {
		logger.Warn("no github token configured, using the unauthenticated rate budget",
			zap.String("hint", "set GITHUB_TOKEN_FILE or the 'token-file' key in the configuration file"),
		)
	}

	return gh
}

func resolveToken(config *Config) (string, error) {
	tokenFile := strings.TrimSpace(config.TokenFile)
	if tokenFile == "" {
		tokenFile = strings.TrimSpace(viper.GetString("token-file"))
	}

	if tokenFile == "" {
		return "", nil
	}

	return secrets.Load(secrets.Source{
		Name: "github token",
		File: tokenFile,
	})
}

// prepareScorer builds the AI scorer when configured. Any setup problem is
// logged and the pipeline continues with fallback scoring only.
func prepareScorer(ctx context.Context, cfg *AIConfig, log *zap.Logger) ai.Scorer {
	if cfg == nil || !cfg.Enabled {
		log.Info("ai scoring disabled, using fallback scoring")
		return nil
	}

	scorer, err := newGeminiScorer(ctx, cfg, log)
	if err != nil {
		log.Warn("skipping ai scoring", zap.Error(err))
		return nil
	}

	return scorer
}

func newGeminiScorer(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Scorer, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, fmt.Errorf("gemini configuration is required when ai scoring is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}

	scorerLogger := logger.WithAIFields(log, "gemini", generator.Model())

	return gemini.NewScorer(generator, scorerLogger, cfg.Gemini.MaxLogLength), nil
}

func prepareCache(config *Config) cache.Cache {
	if config.Cache == nil || !config.Cache.Enabled {
		return nil
	}

	return cache.NewMemory(cacheTTL(config))
}

func cacheTTL(config *Config) (ttl time.Duration) {
	if config.Cache != nil {
		ttl = config.Cache.TTL
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return ttl
}
