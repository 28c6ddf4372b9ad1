package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/jatinkmr/ai-candidate-analysis/internal/github"
	"github.com/jatinkmr/ai-candidate-analysis/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var profileCmd = &cobra.Command{
	Use:   "profile <github-username>",
	Short: "Fetch a GitHub profile and print its AI activity summary",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		profile(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)

	profileCmd.Flags().Bool("raw", false, "print the fetched profile without the AI summary")
}

func profile(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	username := args[0]

	token, err := resolveGithubToken(config)
	if err != nil {
		logger.Debug("proceeding without a github token", zap.Error(err))
		token = ""
	}

	fetcher := github.New(token, logger)
	if config.Github.MaxCommitsPerRepo > 0 {
		fetcher.MaxCommitsPerRepo = config.Github.MaxCommitsPerRepo
	}

	fetched, err := fetcher.FetchProfile(ctx, username)
	if err != nil {
		logger.Fatal("fetching the profile", zap.Error(err))
	}

	logger.Info("profile fetched",
		zap.String("github_user", username),
		zap.Int("total_repos", fetched.TotalRepos),
		zap.Int("total_commits", fetched.TotalCommits),
	)

	out := map[string]any{"profile": fetched}

	if cmd.Flag("raw").Value.String() == "false" {
		analyzer, err := newAnalyzer(ctx, config, logger)
		if err != nil {
			logger.Fatal("building the analyzer", zap.Error(err))
		}

		summary, err := analyzer.AnalyzeProfile(ctx, fetched)
		if err != nil {
			logger.Fatal("analyzing the profile", zap.Error(err))
		}

		out["analysis"] = summary
	}

	pretty, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		logger.Fatal("rendering the profile", zap.Error(err))
	}

	fmt.Println(string(pretty))
}
