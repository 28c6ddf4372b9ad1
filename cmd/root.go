package cmd

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/jatinkmr/ai-candidate-analysis/internal/ai"
	"github.com/jatinkmr/ai-candidate-analysis/internal/ai/gemini"
	"github.com/jatinkmr/ai-candidate-analysis/internal/github"
	logutil "github.com/jatinkmr/ai-candidate-analysis/internal/logger"
	"github.com/jatinkmr/ai-candidate-analysis/internal/pipeline"
	"github.com/jatinkmr/ai-candidate-analysis/internal/secrets"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	app = "ai-candidate-analysis"
)

type Config struct {
	Server *ServerConfig `mapstructure:"server"`
	Github *GithubConfig `mapstructure:"github"`
	AI     *AIConfig     `mapstructure:"ai"`
}

type ServerConfig struct {
	Listen string `mapstructure:"listen"`
}

type GithubConfig struct {
	Token             string `mapstructure:"token"`
	TokenFile         string `mapstructure:"token-file"`
	FetchTimeout      string `mapstructure:"fetch-timeout"`
	MaxCommitsPerRepo int    `mapstructure:"max-commits-per-repo"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
	Timeout      string `mapstructure:"timeout"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "ai-candidate-analysis verifies resume claims against public GitHub activity",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is "+app+".yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// A .env file supplements the process environment for local runs.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)

		// We can't proceed if an explicitly given config file parsed with error.
		if err := viper.ReadInConfig(); err != nil {
			log.Fatal(err)
		}
		return
	}

	viper.AddConfigPath(".")
	viper.SetConfigName(app + ".yaml")

	// Without a config file everything comes from flags and environment.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Server == nil {
		config.Server = &ServerConfig{}
	}
	if config.Github == nil {
		config.Github = &GithubConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}

	return config, nil
}

func resolveGithubToken(config *Config) (string, error) {
	return secrets.Load(secrets.Source{
		Name:  "github token",
		Value: config.Github.Token,
		File:  config.Github.TokenFile,
		Env:   "GITHUB_TOKEN",
	})
}

func resolveGeminiKey(config *Config) (string, error) {
	return secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: config.AI.Gemini.APIKey,
		File:  config.AI.Gemini.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
}

// newAnalyzer builds the configured analysis backend. Gemini is the only
// provider for now; the provider key exists so a second backend can slot in
// without a config break.
func newAnalyzer(ctx context.Context, config *Config, logger *zap.Logger) (ai.Analyzer, error) {
	provider := config.AI.Provider
	if provider != "" && provider != gemini.Provider {
		return nil, errors.New("unsupported ai provider: " + provider)
	}

	apiKey, err := resolveGeminiKey(config)
	if err != nil {
		return nil, err
	}

	genLogger := logutil.WithAIFields(logger, gemini.Provider, config.AI.Gemini.Model)

	generator, err := gemini.NewGenerator(ctx, apiKey, config.AI.Gemini.Model, genLogger)
	if err != nil {
		return nil, err
	}

	analyzer := gemini.NewAnalyzer(generator, genLogger, config.AI.Gemini.MaxLogLength)

	if config.AI.Gemini.Timeout != "" {
		d, err := time.ParseDuration(config.AI.Gemini.Timeout)
		if err != nil {
			return nil, err
		}
		analyzer.SetTimeout(d)
	}

	return analyzer, nil
}

// newPipeline wires the fetcher and analyzer into a ready pipeline.
func newPipeline(ctx context.Context, config *Config, logger *zap.Logger) (*pipeline.Pipeline, error) {
	// The token is optional: unauthenticated requests work against public
	// profiles within GitHub's anonymous rate limits.
	token, err := resolveGithubToken(config)
	if err != nil {
		logger.Debug("proceeding without a github token", zap.Error(err))
		token = ""
	}

	fetcher := github.New(token, logger)
	if config.Github.MaxCommitsPerRepo > 0 {
		fetcher.MaxCommitsPerRepo = config.Github.MaxCommitsPerRepo
	}

	analyzer, err := newAnalyzer(ctx, config, logger)
	if err != nil {
		return nil, err
	}

	p := pipeline.New(fetcher, analyzer, logger)

	if config.Github.FetchTimeout != "" {
		d, err := time.ParseDuration(config.Github.FetchTimeout)
		if err != nil {
			return nil, err
		}
		p.SetFetchTimeout(d)
	}

	return p, nil
}
