package main

import (
	"encoding/json"
	"fmt"

	"github.com/GreenShard-market/JC-detector/internal/config"
	"github.com/GreenShard-market/JC-detector/internal/detector_client"
	"github.com/GreenShard-market/JC-detector/internal/groq"
	"github.com/GreenShard-market/JC-detector/internal/handler"
	"github.com/GreenShard-market/JC-detector/internal/models"
	"github.com/GreenShard-market/JC-detector/internal/service"
	"github.com/GreenShard-market/JC-detector/internal/similarity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	configPath string
	verbose    bool
	offline    bool
	server     string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:          "jcctl",
		Short:        "Operator tool for the JC detector",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "configs/config.yml", "path to config.yml")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log pipeline decisions to stderr")

	checkCmd := &cobra.Command{
		Use:   "check [username]",
		Short: "Classify a username with the configured pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts, args[0])
		},
	}
	checkCmd.Flags().BoolVar(&opts.offline, "offline", false, "skip the AI fallback, unmatched usernames get the fail-open result")
	checkCmd.Flags().StringVar(&opts.server, "server", "", "ask a running detector at this URL instead of the local pipeline")

	healthCmd := &cobra.Command{
		Use:   "health [url]",
		Short: "Check that a running detector is healthy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			health, err := detector_client.NewClient(args[0]).HealthCheck(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (model %s)\n", health.Service, health.Status, health.Model)
			return nil
		},
	}

	distanceCmd := &cobra.Command{
		Use:   "distance [a] [b]",
		Short: "Print the normalized edit distance between two strings",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "%.4f\n", similarity.NormalizedDistance(args[0], args[1]))
			return nil
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Load and validate config.yml and the detection config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, det, err := loadConfigs(opts.configPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d direct patterns, %d known alts, max distance %.2f, model %s\n",
				len(det.DirectPatterns), len(det.KnownAlts), det.MaxEditDistance, det.AIModel)
			return nil
		},
	}

	rootCmd.AddCommand(checkCmd, distanceCmd, validateCmd, healthCmd)

	return rootCmd
}

func loadConfigs(path string) (*config.Config, *config.Detection, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, nil, err
	}

	det, err := config.LoadDetection(cfg.Detection.Path)
	if err != nil {
		return nil, nil, err
	}

	return cfg, det, nil
}

func runCheck(cmd *cobra.Command, opts *options, username string) error {
	if opts.server != "" {
		resp, err := detector_client.NewClient(opts.server).Check(cmd.Context(), username)
		if err != nil {
			return err
		}
		return printJSON(cmd, resp)
	}

	logger := zap.NewNop()
	if opts.verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		logger = l
		defer logger.Sync()
	}

	cfg, det, err := loadConfigs(opts.configPath)
	if err != nil {
		return err
	}

	var ai service.AIClient
	if !opts.offline {
		if cfg.AI.APIKey == "" {
			return fmt.Errorf("GROQ_API_KEY is not set, use --offline to skip the AI fallback")
		}
		client, err := groq.NewClient(groq.Config{
			APIKey:  cfg.AI.APIKey,
			BaseURL: cfg.AI.BaseURL,
			Prompt:  det.AIPrompt,
			Timeout: cfg.AI.Timeout,
		}, logger)
		if err != nil {
			return err
		}
		ai = client
	}

	classifier := service.NewClassifier(*det, ai, logger)

	result, err := classifier.Classify(cmd.Context(), username)
	if err != nil {
		return fmt.Errorf("classification failed: %w", err)
	}

	out := struct {
		models.CheckResponse
		Stage models.Stage `json:"stage"`
		Match string       `json:"match,omitempty"`
	}{
		CheckResponse: models.CheckResponse{
			Username:   username,
			Decision:   result.Decision,
			Confidence: handler.RoundConfidence(result.Confidence),
			Model:      classifier.Model(),
		},
		Stage: result.Stage,
		Match: result.Match,
	}

	return printJSON(cmd, out)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
