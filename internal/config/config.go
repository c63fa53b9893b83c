// Package config assembles the process-wide benchmark configuration
// from the environment. Every required input is validated
// independently and all violations are reported together; a Config is
// only ever fully populated.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"apibench/internal/client"
	"apibench/internal/core"
)

// Env looks up one named configuration input, reporting whether it is
// set at all. os.LookupEnv satisfies it.
type Env func(key string) (string, bool)

// requiredKeys enumerates the inputs a run cannot start without, in
// the order their violations are reported.
var requiredKeys = []string{
	"BUILD_ID",
	"DATA_SOURCE",
	"CLIENT_BRANCH",
	"CLIENT_COMMIT",
	"CLIENT_BENCHMARK_ENVIRONMENT",
	"BENCHMARK_TARGET_URL",
	"BENCHMARK_REPORT_URL",
	"TARGET_SERVICE_TYPE",
	"TARGET_SERVICE_NAME",
	"TARGET_SERVICE_VERSION",
	"TARGET_SERVICE_OS_FAMILY",
}

// Git identifies the client checkout being benchmarked.
type Git struct {
	Branch string
	Commit string
}

// Service identifies a service build.
type Service struct {
	Type    string
	Name    string
	Version string
	Git     Git
}

// OS identifies the operating system family a service runs on.
type OS struct {
	Family string
}

// Target describes the system under test.
type Target struct {
	Service Service
	OS      OS
}

// Runtime identifies the harness's own language runtime.
type Runtime struct {
	Name    string
	Version string
}

// Runner describes the benchmark harness itself.
type Runner struct {
	Service Service
	Runtime Runtime
	OS      OS
}

// Config is the validated, immutable process configuration.
type Config struct {
	BuildID     string
	DataSource  string
	Environment string

	// Category is the default benchmark category applied to actions
	// without their own; empty unless CLIENT_BENCHMARK_CATEGORY is set.
	Category string
	// Filter skips any action whose name occurs within it; empty unless
	// FILTER is set.
	Filter string

	Target Target
	Runner Runner

	// TargetClient sends requests against the system under test.
	TargetClient *client.Client
	// ReportClient sends requests against the results endpoint.
	ReportClient *client.Client
}

// FromEnv validates the process environment and assembles the Config.
func FromEnv(opts ...client.Option) (*Config, error) {
	return Load(os.LookupEnv, opts...)
}

// Load checks every required input independently, collecting all
// violations before failing; a missing input and a present-but-empty
// one are distinct violations. Client options apply to both
// constructed clients. No network traffic occurs here.
func Load(env Env, opts ...client.Option) (*Config, error) {
	vars := make(map[string]string, len(requiredKeys))
	var violations []string

	for _, key := range requiredKeys {
		v, ok := env(key)
		switch {
		case !ok:
			violations = append(violations, fmt.Sprintf("%s environment variable is not set", key))
		case v == "":
			violations = append(violations, fmt.Sprintf("%s environment variable is empty", key))
		default:
			vars[key] = v
		}
	}
	if len(violations) > 0 {
		return nil, core.ConfigError(strings.Join(violations, "\n"))
	}

	targetClient, err := client.New(vars["BENCHMARK_TARGET_URL"], opts...)
	if err != nil {
		violations = append(violations, fmt.Sprintf("BENCHMARK_TARGET_URL: %v", err))
	}
	reportClient, err := client.New(vars["BENCHMARK_REPORT_URL"], opts...)
	if err != nil {
		violations = append(violations, fmt.Sprintf("BENCHMARK_REPORT_URL: %v", err))
	}
	if len(violations) > 0 {
		return nil, core.ConfigError(strings.Join(violations, "\n"))
	}

	service := Service{
		Type:    vars["TARGET_SERVICE_TYPE"],
		Name:    vars["TARGET_SERVICE_NAME"],
		Version: vars["TARGET_SERVICE_VERSION"],
		Git: Git{
			Branch: vars["CLIENT_BRANCH"],
			Commit: vars["CLIENT_COMMIT"],
		},
	}
	osInfo := OS{Family: vars["TARGET_SERVICE_OS_FAMILY"]}

	category, _ := env("CLIENT_BENCHMARK_CATEGORY")
	filter, _ := env("FILTER")

	return &Config{
		BuildID:     vars["BUILD_ID"],
		DataSource:  vars["DATA_SOURCE"],
		Environment: vars["CLIENT_BENCHMARK_ENVIRONMENT"],
		Category:    category,
		Filter:      filter,
		Target: Target{
			Service: service,
			OS:      osInfo,
		},
		Runner: Runner{
			Service: service,
			Runtime: Runtime{
				Name:    "go",
				Version: runtime.Version(),
			},
			OS: osInfo,
		},
		TargetClient: targetClient,
		ReportClient: reportClient,
	}, nil
}
