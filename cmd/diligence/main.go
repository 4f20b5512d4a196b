package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dealsense/diligence/internal/app"
	"github.com/dealsense/diligence/internal/config"
)

var (
	version      = "0.1.0"
	cfgFile      string
	knowledgeDir string
	model        string
	noEmail      bool
	verbose      bool
	listenAddr   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "diligence [query]",
		Short:   "Due Diligence Agent - M&A analysis on your knowledge base",
		Long:    `diligence runs multi-domain M&A due diligence (financial, legal, HR, strategic) against a local knowledge base, aggregates the results into a weighted risk score, and produces a GO/CONDITIONAL/CAUTION/NO-GO recommendation.`,
		Version: version,
		Args:    cobra.MinimumNArgs(1),
		RunE:    runAnalyze,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to config file (default: ~/.config/diligence/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&knowledgeDir, "knowledge", "k", "", "Knowledge base directory (default: ./knowledge)")
	rootCmd.PersistentFlags().StringVarP(&model, "model", "m", "", "Override the configured LLM model")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.Flags().BoolVar(&noEmail, "no-email", false, "Run the analysis but don't send email")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVarP(&listenAddr, "listen", "l", "", "Listen address (default: :8080)")

	ingestCmd := &cobra.Command{
		Use:   "ingest",
		Short: "Index the knowledge base and print stats",
		RunE:  runIngest,
	}

	rootCmd.AddCommand(serveCmd, ingestCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with CLI flags
	if knowledgeDir != "" {
		cfg.KnowledgeDir = knowledgeDir
	}
	if model != "" {
		cfg.LLM.Model = model
	}
	if noEmail {
		cfg.Email.Enabled = false
	}
	cfg.Verbose = verbose

	return cfg, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	runner := app.NewRunner(cfg)
	return runner.Run(cmd.Context(), query)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if listenAddr != "" {
		cfg.Server.ListenAddr = listenAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := app.NewRunner(cfg)
	return runner.Serve(ctx)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	runner := app.NewRunner(cfg)
	return runner.Ingest()
}
