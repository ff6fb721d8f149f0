package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jonathan/skill-matcher/internal/ingestion"
	"github.com/jonathan/skill-matcher/internal/observability"
	"github.com/jonathan/skill-matcher/internal/pipeline"
	"github.com/jonathan/skill-matcher/internal/schemas"
	"github.com/jonathan/skill-matcher/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a job description against a resume and/or CV",
	Long:  "Read a job description and candidate documents (plain text or HTML), extract their skills and print the match report.",
	RunE:  runAnalyze,
}

var (
	analyzeJobFile    string
	analyzeJobURL     string
	analyzeResumeFile string
	analyzeCVFile     string
	analyzeConfigFile string
	analyzeJSON       bool
	analyzeVerbose    bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeJobFile, "job", "j", "", "Path to job description file")
	analyzeCmd.Flags().StringVar(&analyzeJobURL, "job-url", "", "URL of a job posting to fetch instead of --job")
	analyzeCmd.Flags().StringVarP(&analyzeResumeFile, "resume", "r", "", "Path to resume file")
	analyzeCmd.Flags().StringVar(&analyzeCVFile, "cv", "", "Path to CV file")
	analyzeCmd.Flags().StringVarP(&analyzeConfigFile, "config", "c", "", "Path to JSON config file (weights, registry_file)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the report as JSON")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print extracted skills and category scores")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	if analyzeJobFile == "" && analyzeJobURL == "" {
		return errors.New("--job or --job-url is required")
	}
	if analyzeJobFile != "" && analyzeJobURL != "" {
		return errors.New("cannot use --job with --job-url")
	}
	if analyzeResumeFile == "" && analyzeCVFile == "" {
		return errors.New("at least one of --resume or --cv is required")
	}

	cfg, err := loadSettings(analyzeConfigFile)
	if err != nil {
		return err
	}
	registry, err := loadRegistry(cfg.RegistryFile)
	if err != nil {
		return err
	}

	var job *ingestion.Document
	if analyzeJobURL != "" {
		job, err = ingestion.Fetch(cmd.Context(), analyzeJobURL, nil)
	} else {
		job, err = ingestion.ReadFile(analyzeJobFile)
	}
	if err != nil {
		return fmt.Errorf("job: %w", err)
	}
	resume, err := ingestion.ReadFile(analyzeResumeFile)
	if err != nil {
		return fmt.Errorf("resume: %w", err)
	}
	cv, err := ingestion.ReadFile(analyzeCVFile)
	if err != nil {
		return fmt.Errorf("cv: %w", err)
	}

	out := cmd.OutOrStdout()
	opts := []pipeline.Option{}
	if analyzeVerbose {
		logger, err := observability.NewLogger(cfg.LogJSON, cfg.LogDebug)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()
		opts = append(opts, pipeline.WithLogger(logger), pipeline.WithProgress(func(ev pipeline.ProgressEvent) {
			logger.Debug(ev.Message, zap.String("step", ev.Step))
		}))
	}

	analyzer := pipeline.NewAnalyzer(registry, opts...)
	detail := analyzer.AnalyzeDetailed(pipeline.Input{Job: job.Text, Resume: resume.Text, CV: cv.Text}, cfg.Weights)

	if analyzeJSON {
		data, err := json.MarshalIndent(detail.Report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		if err := schemas.ValidateReport(data); err != nil {
			return fmt.Errorf("report does not match schema: %w", err)
		}
		if _, err := fmt.Fprintln(out, string(data)); err != nil {
			return err
		}
	} else {
		printer := observability.NewPrinter(out)
		if analyzeVerbose && detail.Report.MatchLevel != types.MatchError {
			printer.PrintExtractedSkills("Job skills", detail.Job)
			printer.PrintExtractedSkills("Candidate skills", detail.Candidate)
			printer.PrintCategoryScores(detail.Result)
		}
		printer.PrintReport(detail.Report)
	}

	if detail.Report.MatchLevel == types.MatchError {
		return errors.New(detail.Report.Error)
	}
	return nil
}
