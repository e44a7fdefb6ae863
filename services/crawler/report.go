package crawler

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/jedib0t/go-pretty/v6/table"
)

type Stage string

const (
	StageRequest Stage = "request"
	StageFetch   Stage = "fetch"
	StageExtract Stage = "extract"
	StageWrite   Stage = "write"
)

type Failure struct {
	Target string
	Stage  Stage
	Err    error
}

// Report accumulates the outcome of a batch run. Individual failures
// never abort the batch, they are collected here and surfaced at the
// end so a transient error does not lose a multi-hour crawl.
type Report struct {
	mu       sync.Mutex
	Written  []string
	Warnings []string
	Failures []Failure
}

func newReport() *Report {
	return &Report{}
}

func (r *Report) wrote(path string) {
	slog.Info("saved", "path", path)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Written = append(r.Written, path)
}

func (r *Report) fail(target string, stage Stage, err error) {
	slog.Error("combination failed", "target", target, "stage", string(stage), "err", err)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Failures = append(r.Failures, Failure{Target: target, Stage: stage, Err: err})
}

func (r *Report) warn(message string) {
	slog.Warn(message)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Warnings = append(r.Warnings, message)
}

func (r *Report) HasFailures() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Failures) > 0
}

// Render prints a human readable summary, including one row per
// failed combination.
func (r *Report) Render(w io.Writer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.Failures) > 0 {
		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.SetOutputMirror(w)
		t.AppendHeader(table.Row{"target", "stage", "error"})
		for _, f := range r.Failures {
			t.AppendRow(table.Row{f.Target, string(f.Stage), f.Err.Error()})
		}
		t.Render()
	}

	fmt.Fprintf(
		w, "wrote %d files, %d warnings, %d failures\n",
		len(r.Written), len(r.Warnings), len(r.Failures),
	)
}
