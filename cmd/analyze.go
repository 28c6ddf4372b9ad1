package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/jatinkmr/ai-candidate-analysis/internal/document"
	"github.com/jatinkmr/ai-candidate-analysis/internal/logger"
	"github.com/jatinkmr/ai-candidate-analysis/internal/pipeline"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <resume-file> <github-username>",
	Short: "Run a single candidate analysis and print the report",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		analyze(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation before spending model calls")
}

func analyze(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	path, username := args[0], args[1]

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Fatal("reading the resume file", zap.Error(err))
	}

	filename := filepath.Base(path)

	contentType, err := document.ContentTypeFor(filename)
	if err != nil {
		logger.Fatal("unsupported resume file", zap.Error(err))
	}

	if cmd.Flag("yes").Value.String() == "false" {
		prompt := promptui.Select{
			Label: fmt.Sprintf("Analyze %s against github user %s?", filename, username),
			Items: []string{PromptYes, PromptNo},
		}

		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if action == PromptNo {
			logger.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}
	}

	p, err := newPipeline(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the pipeline", zap.Error(err))
	}

	report, err := p.Run(ctx, &pipeline.Request{
		Upload: &document.Upload{
			Filename:    filename,
			ContentType: contentType,
			Data:        data,
		},
		Username: username,
	})
	if err != nil {
		logger.Fatal("analysis failed", zap.Error(err))
	}

	pretty, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		logger.Fatal("rendering the report", zap.Error(err))
	}

	fmt.Println(string(pretty))
}
