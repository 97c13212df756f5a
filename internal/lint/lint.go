// Package lint drives the pipeline: parse and elaborate the Verilog
// sources, run the usage pass, apply severity policy, validate the
// report contract, render.
//
// THE PIPELINE:
//  1. participle parses each .v file into a syntax tree
//  2. the elaborator resolves ranges and builds the netlist
//  3. the undriven pass marks per-bit usage and emits findings
//  4. OPA maps finding codes to configured severities
//  5. the CUE validator enforces the report contract
//
// When investigating a false positive, start at the beginning of the
// pipeline, not the end: grammar issues, then elaboration issues, then
// policy issues.
package lint

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/robert-at-pretension-io/vlog-lint/internal/ast"
	"github.com/robert-at-pretension-io/vlog-lint/internal/config"
	"github.com/robert-at-pretension-io/vlog-lint/internal/diag"
	"github.com/robert-at-pretension-io/vlog-lint/internal/frontend"
	"github.com/robert-at-pretension-io/vlog-lint/internal/policy"
	"github.com/robert-at-pretension-io/vlog-lint/internal/undriven"
	"github.com/robert-at-pretension-io/vlog-lint/internal/validator"
)

// Report is the JSON output contract. Its shape is mirrored by the
// embedded CUE schema in internal/validator.
type Report struct {
	Findings []diag.Finding `json:"findings"`
	Summary  policy.Summary `json:"summary"`
}

// Runner executes the lint pipeline over a file or directory tree.
type Runner struct {
	Config *config.Config
	Log    hclog.Logger

	// JSONOutput switches the rendered report from human text to the
	// machine-readable JSON contract
	JSONOutput bool

	// Out receives the rendered report (default os.Stdout)
	Out io.Writer
}

// NewRunner creates a Runner with the given configuration
func NewRunner(cfg *config.Config, log hclog.Logger) *Runner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Runner{
		Config: cfg,
		Log:    log,
		Out:    os.Stdout,
	}
}

// Run lints the Verilog sources under path and renders the report.
// The returned Report carries the policy-adjusted findings; callers
// decide the exit status from Summary.Errors.
func (r *Runner) Run(path string) (*Report, error) {
	files, err := r.collectFiles(path)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no Verilog files found under %s", path)
	}

	parser, err := frontend.NewParser()
	if err != nil {
		return nil, fmt.Errorf("building parser: %w", err)
	}

	netlist := &ast.Netlist{}
	for _, file := range files {
		r.Log.Debug("parsing", "file", file)
		src, err := parser.ParseFile(file)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", file, err)
		}
		design, err := frontend.Elaborate(src)
		if err != nil {
			return nil, fmt.Errorf("elaborating %s: %w", file, err)
		}
		netlist.Modules = append(netlist.Modules, design.Modules...)
	}
	r.Log.Debug("elaborated design", "files", len(files), "modules", len(netlist.Modules))

	collector := &diag.Collector{}
	undriven.Check(netlist, collector, r.Log)
	r.Log.Debug("usage pass complete", "raw_findings", len(collector.Findings))

	engine, err := policy.New(r.Config.PolicyDir)
	if err != nil {
		return nil, fmt.Errorf("loading policy: %w", err)
	}
	result, err := engine.Evaluate(policy.Input{
		Findings: collector.Findings,
		Rules:    r.Config.Rules,
	})
	if err != nil {
		return nil, fmt.Errorf("evaluating policy: %w", err)
	}

	report := &Report{
		Findings: result.Findings,
		Summary:  result.Summary,
	}
	if report.Findings == nil {
		report.Findings = []diag.Finding{}
	}

	v, err := validator.New()
	if err != nil {
		return nil, fmt.Errorf("loading report schema: %w", err)
	}
	if err := v.Validate(report); err != nil {
		// A failure here is a bug in the tool, not in the user's code.
		return nil, fmt.Errorf("internal report contract violation: %w", err)
	}

	if err := r.render(report); err != nil {
		return nil, err
	}
	return report, nil
}

// collectFiles returns the .v files under path, sorted, with configured
// ignore patterns applied. A direct file path bypasses the extension
// check so odd suffixes can still be linted explicitly.
func (r *Runner) collectFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	if !info.IsDir() {
		if r.Config.ShouldIgnoreFile(path) {
			return nil, nil
		}
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !strings.HasSuffix(p, ".v") {
			return nil
		}
		if r.Config.ShouldIgnoreFile(p) {
			r.Log.Debug("ignoring", "file", p)
			return nil
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", path, err)
	}
	sort.Strings(files)
	return files, nil
}

func (r *Runner) render(report *Report) error {
	out := r.Out
	if out == nil {
		out = os.Stdout
	}

	if r.JSONOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	for _, f := range report.Findings {
		fmt.Fprintf(out, "%s:%d: %s: %s [%s]\n", f.File, f.Line, f.Severity, f.Message, f.Code)
	}
	if report.Summary.Total == 0 {
		fmt.Fprintln(out, "No problems found.")
	} else {
		fmt.Fprintf(out, "%d problem(s): %d error(s), %d warning(s)\n",
			report.Summary.Total, report.Summary.Errors, report.Summary.Warnings)
	}
	return nil
}
