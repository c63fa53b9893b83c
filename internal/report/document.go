package report

import (
	"time"

	"apibench/internal/config"
	"apibench/internal/core"
)

// Meta labels every published document with the run's identity.
type Meta struct {
	BuildID    string
	DataSource string
	Target     config.Target
	Runner     config.Runner
}

type gitInfo struct {
	Branch string `json:"branch"`
	Commit string `json:"commit"`
}

type serviceInfo struct {
	Type    string  `json:"type"`
	Name    string  `json:"name"`
	Version string  `json:"version"`
	Git     gitInfo `json:"git"`
}

type osInfo struct {
	Family string `json:"family"`
}

type runtimeInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type targetInfo struct {
	Service serviceInfo `json:"service"`
	OS      osInfo      `json:"os"`
}

type runnerInfo struct {
	Service serviceInfo `json:"service"`
	Runtime runtimeInfo `json:"runtime"`
	OS      osInfo      `json:"os"`
}

// document is the wire shape of one measured repetition.
type document struct {
	RunID       string     `json:"run_id"`
	BuildID     string     `json:"build_id"`
	DataSource  string     `json:"data_source"`
	Environment string     `json:"environment"`
	Category    string     `json:"category,omitempty"`
	Action      string     `json:"action"`
	Operations  int        `json:"operations"`
	Target      targetInfo `json:"target"`
	Runner      runnerInfo `json:"runner"`
	Start       time.Time  `json:"start"`
	DurationNs  int64      `json:"duration_ns"`
	Outcome     string     `json:"outcome"`
	StatusCode  int        `json:"status_code,omitempty"`
}

func newDocument(runID string, meta Meta, action core.Action, category, environment string, rec core.Record) document {
	return document{
		RunID:       runID,
		BuildID:     meta.BuildID,
		DataSource:  meta.DataSource,
		Environment: environment,
		Category:    category,
		Action:      action.Name,
		Operations:  action.Ops(),
		Target:      newTargetInfo(meta.Target),
		Runner:      newRunnerInfo(meta.Runner),
		Start:       rec.Start,
		DurationNs:  rec.Duration.Nanoseconds(),
		Outcome:     string(rec.Outcome),
		StatusCode:  rec.StatusCode,
	}
}

func newServiceInfo(s config.Service) serviceInfo {
	return serviceInfo{
		Type:    s.Type,
		Name:    s.Name,
		Version: s.Version,
		Git: gitInfo{
			Branch: s.Git.Branch,
			Commit: s.Git.Commit,
		},
	}
}

func newTargetInfo(t config.Target) targetInfo {
	return targetInfo{
		Service: newServiceInfo(t.Service),
		OS:      osInfo{Family: t.OS.Family},
	}
}

func newRunnerInfo(r config.Runner) runnerInfo {
	return runnerInfo{
		Service: newServiceInfo(r.Service),
		Runtime: runtimeInfo{Name: r.Runtime.Name, Version: r.Runtime.Version},
		OS:      osInfo{Family: r.OS.Family},
	}
}
