// Copyright 2025 Docucore Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/docucore/docucore"
	"github.com/docucore/docucore/ai"
	"github.com/docucore/docucore/core"
	"github.com/docucore/docucore/pipeline"
	"github.com/docucore/docucore/queue"
)

func main() {
	app := &cli.App{
		Name:  "docucore",
		Usage: "Document understanding pipeline runtime",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:      "process",
				Usage:     "Run documents through a pipeline and print their reports",
				Action:    processCommand,
				ArgsUsage: "FILE [FILE...]",
				Flags: append(systemFlags(),
					&cli.StringFlag{
						Name:  "pipeline",
						Usage: "Pipeline to run",
						Value: "standard",
					},
					&cli.StringFlag{
						Name:  "definitions",
						Usage: "Path to a JSON pipeline definitions file",
					},
					&cli.DurationFlag{
						Name:  "poll-interval",
						Usage: "How often to poll job status",
						Value: 250 * time.Millisecond,
					},
				),
			},
			{
				Name:      "watch",
				Usage:     "Watch a directory and process every document dropped into it",
				Action:    watchCommand,
				ArgsUsage: "DIR",
				Flags: append(systemFlags(),
					&cli.StringFlag{
						Name:  "pipeline",
						Usage: "Pipeline to run",
						Value: "standard",
					},
					&cli.StringFlag{
						Name:  "definitions",
						Usage: "Path to a JSON pipeline definitions file",
					},
					&cli.DurationFlag{
						Name:  "scan-interval",
						Usage: "How often to scan the directory for new files",
						Value: 2 * time.Second,
					},
				),
			},
			{
				Name:   "jobs",
				Usage:  "List stored jobs by status",
				Action: jobsCommand,
				Flags: append(systemFlags(),
					&cli.StringFlag{
						Name:  "status",
						Usage: "Job status to list (pending, running, completed, failed, cancelled)",
						Value: "completed",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of jobs to list",
						Value: 20,
					},
				),
			},
			{
				Name:      "report",
				Usage:     "Print the consolidated report for a stored job",
				Action:    reportCommand,
				ArgsUsage: "JOB_ID",
				Flags:     systemFlags(),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func systemFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "model-host",
			Usage:   "Model service host URL",
			Value:   "http://localhost:11434/v1",
			EnvVars: []string{"DOCUCORE_MODEL_HOST"},
		},
		&cli.StringFlag{
			Name:    "model-token",
			Usage:   "Model service API token",
			Value:   "none",
			EnvVars: []string{"DOCUCORE_MODEL_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "model",
			Usage:   "Model id the built-in stages call",
			Value:   "gpt-4o-mini",
			EnvVars: []string{"DOCUCORE_MODEL"},
		},
		&cli.StringSliceFlag{
			Name:  "question",
			Usage: "Question the qa stage answers for every document (repeatable)",
		},
		&cli.IntFlag{
			Name:  "max-concurrent-jobs",
			Usage: "Maximum number of jobs executing at once",
		},
		&cli.IntFlag{
			Name:  "queue-capacity",
			Usage: "Maximum number of jobs waiting for a worker",
		},
		&cli.IntFlag{
			Name:  "memory-budget",
			Usage: "Model memory budget in model units",
		},
		&cli.DurationFlag{
			Name:  "batch-window",
			Usage: "Batching window for batch-capable models",
		},
		&cli.IntFlag{
			Name:  "retry-limit",
			Usage: "Maximum attempts per stage",
		},
		&cli.DurationFlag{
			Name:  "stage-timeout",
			Usage: "Timeout per stage execution attempt",
		},
	}
}

func buildSystem(c *cli.Context) (*docucore.System, error) {
	config := ai.NewConfig(
		ai.WithHost(c.String("model-host")),
		ai.WithToken(c.String("model-token")),
	)

	opts := []docucore.SystemOption{
		docucore.WithAIConfig(config),
		docucore.WithModel(c.String("model")),
	}
	if questions := c.StringSlice("question"); len(questions) > 0 {
		opts = append(opts, docucore.WithQuestions(questions))
	}
	if n := c.Int("max-concurrent-jobs"); n > 0 {
		opts = append(opts, docucore.WithMaxConcurrentJobs(n))
	}
	if n := c.Int("queue-capacity"); n > 0 {
		opts = append(opts, docucore.WithQueueCapacity(n))
	}
	if n := c.Int("memory-budget"); n > 0 {
		opts = append(opts, docucore.WithModelMemoryBudget(n))
	}
	if d := c.Duration("batch-window"); d > 0 {
		opts = append(opts, docucore.WithBatchWindow(d))
	}
	if n := c.Int("retry-limit"); n > 0 {
		opts = append(opts, docucore.WithStageRetryLimit(n))
	}
	if d := c.Duration("stage-timeout"); d > 0 {
		opts = append(opts, docucore.WithStageTimeout(d))
	}

	if c.IsSet("definitions") {
		definitions, err := pipeline.LoadDefinitions(c.String("definitions"))
		if err != nil {
			return nil, err
		}
		opts = append(opts, docucore.WithDefinitions(definitions))
	}

	return docucore.NewSystem(c.String("db"), opts...)
}

func processCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one input file is required")
	}

	system, err := buildSystem(c)
	if err != nil {
		return fmt.Errorf("failed to initialize system: %w", err)
	}
	defer system.Close()

	ctx := context.Background()
	pipelineName := c.String("pipeline")

	var jobIDs []string
	for _, path := range c.Args().Slice() {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		format, err := formatForFile(path)
		if err != nil {
			return err
		}

		job, err := system.SubmitDocument(ctx, raw, format, pipelineName)
		if err != nil {
			return fmt.Errorf("failed to submit %s: %w", path, err)
		}

		slog.Info("document submitted", "file", path, "job", job.Id)
		jobIDs = append(jobIDs, job.Id)
	}

	interval := c.Duration("poll-interval")
	for _, jobID := range jobIDs {
		if err := waitForJob(ctx, system, jobID, interval); err != nil {
			return err
		}
		if err := printReport(ctx, system, jobID); err != nil {
			return err
		}
	}

	return nil
}

func watchCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one directory to watch")
	}
	dir := c.Args().First()
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	system, err := buildSystem(c)
	if err != nil {
		return fmt.Errorf("failed to initialize system: %w", err)
	}
	defer system.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipelineName := c.String("pipeline")
	ticker := time.NewTicker(c.Duration("scan-interval"))
	defer ticker.Stop()

	slog.Info("watching for documents", "dir", dir, "pipeline", pipelineName)

	submitted := make(map[string]bool)
	for {
		if err := scanDirectory(ctx, system, dir, pipelineName, submitted); err != nil {
			slog.Error("directory scan failed", "dir", dir, "err", err)
		}

		select {
		case <-ctx.Done():
			slog.Info("shutting down, draining queued jobs")
			return nil
		case <-ticker.C:
		}
	}
}

// scanDirectory submits every not-yet-seen supported file in dir. Files
// with unknown extensions are skipped silently so the watched directory
// can hold reports or notes alongside the inputs.
func scanDirectory(ctx context.Context, system *docucore.System, dir, pipelineName string, submitted map[string]bool) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if submitted[path] {
			continue
		}

		format, err := formatForFile(path)
		if err != nil {
			submitted[path] = true
			continue
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			slog.Error("failed to read document", "file", path, "err", err)
			continue
		}

		job, err := system.SubmitDocument(ctx, raw, format, pipelineName)
		if err != nil {
			if errors.Is(err, queue.ErrQueueSaturated) {
				// Leave the file unmarked; the next scan retries it.
				slog.Warn("queue saturated, deferring document", "file", path)
				continue
			}
			slog.Error("failed to submit document", "file", path, "err", err)
			submitted[path] = true
			continue
		}

		slog.Info("document submitted", "file", path, "job", job.Id)
		submitted[path] = true
	}

	return nil
}

func jobsCommand(c *cli.Context) error {
	status, err := parseJobStatus(c.String("status"))
	if err != nil {
		return err
	}

	system, err := buildSystem(c)
	if err != nil {
		return fmt.Errorf("failed to initialize system: %w", err)
	}
	defer system.Close()

	jobs, err := system.ListJobsByStatus(context.Background(), status, c.Int("limit"))
	if err != nil {
		return err
	}

	for _, job := range jobs {
		fmt.Printf("%s  %-10s  %s  pipeline=%s  progress=%d%%\n",
			job.Id, job.Status, job.CreatedAt.Format(time.RFC3339), job.Pipeline, job.Progress)
	}

	return nil
}

func reportCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one job id")
	}

	system, err := buildSystem(c)
	if err != nil {
		return fmt.Errorf("failed to initialize system: %w", err)
	}
	defer system.Close()

	return printReport(context.Background(), system, c.Args().First())
}

func waitForJob(ctx context.Context, system *docucore.System, jobID string, interval time.Duration) error {
	for {
		job, err := system.GetJob(ctx, jobID)
		if err != nil {
			return err
		}
		if job.Status.Terminal() {
			slog.Info("job finished", "job", jobID, "status", job.Status)
			return nil
		}
		time.Sleep(interval)
	}
}

func printReport(ctx context.Context, system *docucore.System, jobID string) error {
	rep, err := system.BuildReport(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to build report for job %s: %w", jobID, err)
	}

	out, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	return nil
}

func formatForFile(path string) (core.FormatType, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return core.FormatPDF, nil
	case ".docx":
		return core.FormatDOCX, nil
	case ".txt", ".text", ".md":
		return core.FormatTXT, nil
	default:
		return 0, fmt.Errorf("cannot infer document format from %s", path)
	}
}

func parseJobStatus(s string) (core.JobStatus, error) {
	switch strings.ToLower(s) {
	case "pending":
		return core.JobPending, nil
	case "running":
		return core.JobRunning, nil
	case "completed":
		return core.JobCompleted, nil
	case "failed":
		return core.JobFailed, nil
	case "cancelled":
		return core.JobCancelled, nil
	default:
		return 0, fmt.Errorf("invalid job status %q", s)
	}
}

func setup(c *cli.Context) error {
	// Environment files are optional; missing ones are not an error.
	_ = godotenv.Load()

	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
