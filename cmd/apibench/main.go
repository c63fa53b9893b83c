// Command apibench benchmarks a REST API client against a live
// service. Configuration comes from the environment (see
// internal/config for the required variables); flags tune execution.
//
// For each non-filtered catalog action the harness runs setup, the
// warmup loop, and the measured loop, prints one line per measured
// repetition ("<action>: <duration>ns") plus any accumulated errors,
// and publishes the records to the report endpoint. Per-action
// failures never fail the process; only invalid configuration does.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"apibench/internal/actions"
	"apibench/internal/bench"
	"apibench/internal/client"
	"apibench/internal/config"
	"apibench/internal/ratelimit"
	"apibench/internal/report"
)

const (
	ExitSuccess = 0
	ExitError   = 2
)

func main() {
	tuningPath := flag.String("config", "", "path to optional YAML action-tuning file")
	timeout := flag.Duration("timeout", 30*time.Second, "per-invocation deadline (0 disables)")
	maxRPS := flag.Int("max-rps", 0, "max invocations per second against the target (0 = unpaced)")
	verbose := flag.Bool("verbose", false, "log every request and response to stderr")
	noReport := flag.Bool("no-report", false, "skip publishing records to the report endpoint")
	flag.Parse()

	var clientOpts []client.Option
	if *verbose {
		clientOpts = append(clientOpts, client.WithDebug(client.NewDebugLogger(os.Stderr)))
	}

	cfg, err := config.FromEnv(clientOpts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(ExitError)
	}

	catalog := actions.Catalog()
	if *tuningPath != "" {
		tuning, err := config.LoadTuning(*tuningPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(ExitError)
		}
		if err := tuning.Apply(catalog); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(ExitError)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	limiter := ratelimit.New(*maxRPS)
	sink := report.NewSink(cfg.ReportClient)
	meta := report.Meta{
		BuildID:    cfg.BuildID,
		DataSource: cfg.DataSource,
		Target:     cfg.Target,
		Runner:     cfg.Runner,
	}

	for _, action := range catalog {
		if actions.Filtered(action, cfg.Filter) {
			continue
		}

		runner := bench.NewRunner(action, cfg.TargetClient,
			bench.WithDefaults(bench.Defaults{
				Category:    cfg.Category,
				Environment: cfg.Environment,
			}),
			bench.WithTimeout(*timeout),
			bench.WithLimiter(limiter),
		)

		if err := runner.Run(ctx); err != nil {
			fmt.Println(err)
		}

		for _, rec := range runner.Records() {
			fmt.Printf("%s: %dns\n", action.Name, rec.Duration.Nanoseconds())
		}

		if !*noReport {
			if err := sink.Publish(ctx, meta, action, runner.Category(), runner.Environment(), runner.Records()); err != nil {
				fmt.Fprintf(os.Stderr, "report: %s: %v\n", action.Name, err)
			}
		}

		if ctx.Err() != nil {
			break
		}
	}

	os.Exit(ExitSuccess)
}
