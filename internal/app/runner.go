package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/dealsense/diligence/internal/agent"
	"github.com/dealsense/diligence/internal/config"
	"github.com/dealsense/diligence/internal/domain"
	"github.com/dealsense/diligence/internal/intent"
	"github.com/dealsense/diligence/internal/notify"
	"github.com/dealsense/diligence/internal/planner"
	"github.com/dealsense/diligence/internal/rag"
	"github.com/dealsense/diligence/internal/report"
	"github.com/dealsense/diligence/internal/server"
	"github.com/dealsense/diligence/internal/supervisor"
)

// Runner wires configuration into the analysis pipeline
type Runner struct {
	config *config.Config
	logger *log.Logger
	report *report.Formatter
}

// NewRunner creates a new Runner instance
func NewRunner(cfg *config.Config) *Runner {
	logger := log.New(os.Stdout, "[DD] ", log.LstdFlags)

	return &Runner{
		config: cfg,
		logger: logger,
		report: report.NewFormatter(cfg.Reports.OutputDir),
	}
}

// Run executes one query end to end: analyze, persist the report, and
// email it when configured.
func (r *Runner) Run(ctx context.Context, query string) error {
	startTime := time.Now()

	if err := r.config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	sup, err := r.buildSupervisor()
	if err != nil {
		return err
	}

	r.log("Analyzing: %s", query)
	rpt, err := sup.Run(ctx, query)
	if err != nil {
		return fmt.Errorf("running analysis: %w", err)
	}

	reportPath, err := r.report.Write(rpt)
	if err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	r.log("Report saved to %s", reportPath)

	if r.config.Email.Enabled && !rpt.NothingToNote {
		r.log("Sending email notification...")
		notifier, err := notify.NewService(r.config.Email, r.logger)
		if err != nil {
			return fmt.Errorf("initializing email service: %w", err)
		}
		if err := notifier.SendReport(ctx, rpt); err != nil {
			return fmt.Errorf("sending email: %w", err)
		}
		r.log("Email sent successfully")
	}

	fmt.Println(rpt.Summary)

	r.log("Analysis complete in %s", time.Since(startTime).Round(time.Millisecond))
	return nil
}

// Serve starts the HTTP API and blocks until ctx is cancelled
func (r *Runner) Serve(ctx context.Context) error {
	if err := r.config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	sup, err := r.buildSupervisor()
	if err != nil {
		return err
	}

	registry := domain.NewRegistry(r.config.Companies)
	srv := server.New(sup, registry, r.logger, r.config.Server.Workers)
	srv.Start(ctx)

	httpServer := &http.Server{
		Addr:    r.config.Server.ListenAddr,
		Handler: srv.Routes(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	r.logger.Printf("Listening on %s", r.config.Server.ListenAddr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Ingest loads the knowledge directory and prints indexing stats
func (r *Runner) Ingest() error {
	if err := r.config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	store := rag.NewStore(r.logger)
	stats, err := store.IngestDir(r.config.KnowledgeDir)
	if err != nil {
		return fmt.Errorf("ingesting knowledge base: %w", err)
	}

	fmt.Printf("Indexed %d documents into %d chunks (%d duplicates skipped)\n",
		stats.Documents, stats.Chunks, stats.Duplicates)
	return nil
}

func (r *Runner) buildSupervisor() (*supervisor.Supervisor, error) {
	// Step 1: Load and index the knowledge base
	r.log("Indexing knowledge base at %s...", r.config.KnowledgeDir)
	store := rag.NewStore(r.logger)
	stats, err := store.IngestDir(r.config.KnowledgeDir)
	if err != nil {
		return nil, fmt.Errorf("ingesting knowledge base: %w", err)
	}
	r.log("Indexed %d documents (%d chunks)", stats.Documents, stats.Chunks)

	// Step 2: Initialize the LLM client
	r.log("Initializing LLM client...")
	llm, err := agent.NewClient(agent.LLMConfig{
		Provider: r.config.LLM.Provider,
		Model:    r.config.LLM.Model,
		APIKey:   r.config.LLM.APIKey,
		BaseURL:  r.config.LLM.BaseURL,
	}, r.logger)
	if err != nil {
		return nil, fmt.Errorf("initializing LLM client: %w", err)
	}

	// Step 3: Assemble agents and supervisor
	agents := map[string]agent.Agent{
		planner.FinanceAgent: agent.NewFinance(llm, store, r.logger),
		planner.LegalAgent:   agent.NewLegal(llm, store, r.logger),
		planner.HRAgent:      agent.NewHR(llm, store, r.logger),
		planner.AnalystAgent: agent.NewAnalyst(llm, store, r.logger),
	}
	classifier := intent.New(domain.NewRegistry(r.config.Companies))

	return supervisor.New(classifier, agents, r.logger, r.config.Verbose, llm.ModelID()), nil
}

func (r *Runner) log(format string, args ...interface{}) {
	if r.config.Verbose {
		r.logger.Printf(format, args...)
	}
}
