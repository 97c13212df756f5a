package policy

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/open-policy-agent/opa/v1/rego"

	"github.com/robert-at-pretension-io/vlog-lint/internal/diag"
)

// The built-in policy maps finding codes to severities from the config
// and drops anything configured "off". User policies layered on top can
// waive findings or escalate them; the lint pass itself never decides
// severity.
//
//go:embed severity.rego
var defaultPolicy string

// Engine evaluates severity/waiver policies over lint findings
type Engine struct {
	queries map[string]rego.PreparedEvalQuery
}

// Input is the data structure passed to OPA
type Input struct {
	Findings []diag.Finding    `json:"findings"`
	Rules    map[string]string `json:"rules"`
}

// Result contains the evaluation results
type Result struct {
	Findings []diag.Finding
	Summary  Summary
}

// Summary provides aggregate counts
type Summary struct {
	Total    int `json:"total"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

// New creates a policy engine from the built-in policy plus any .rego
// files in policyDir (empty means built-in only)
func New(policyDir string) (*Engine, error) {
	engine := &Engine{
		queries: make(map[string]rego.PreparedEvalQuery),
	}

	modules := []func(*rego.Rego){rego.Module("severity.rego", defaultPolicy)}
	if policyDir != "" {
		files, err := filepath.Glob(filepath.Join(policyDir, "*.rego"))
		if err != nil {
			return nil, fmt.Errorf("finding policy files: %w", err)
		}
		for _, f := range files {
			content, err := os.ReadFile(f)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", f, err)
			}
			modules = append(modules, rego.Module(f, string(content)))
		}
	}

	opts := append(append([]func(*rego.Rego){}, modules...), rego.Query("data.vlog.lint.all_findings"))
	query, err := rego.New(opts...).PrepareForEval(context.Background())
	if err != nil {
		return nil, fmt.Errorf("preparing findings query: %w", err)
	}
	engine.queries["findings"] = query

	opts = append(append([]func(*rego.Rego){}, modules...), rego.Query("data.vlog.lint.summary"))
	query, err = rego.New(opts...).PrepareForEval(context.Background())
	if err != nil {
		return nil, fmt.Errorf("preparing summary query: %w", err)
	}
	engine.queries["summary"] = query

	return engine, nil
}

// Evaluate runs the policies against the input data
func (e *Engine) Evaluate(input Input) (*Result, error) {
	ctx := context.Background()

	inputMap, err := structToMap(input)
	if err != nil {
		return nil, fmt.Errorf("converting input: %w", err)
	}

	result := &Result{}

	rs, err := e.queries["findings"].Eval(ctx, rego.EvalInput(inputMap))
	if err != nil {
		return nil, fmt.Errorf("evaluating findings: %w", err)
	}

	if len(rs) > 0 && len(rs[0].Expressions) > 0 {
		findings, ok := rs[0].Expressions[0].Value.([]interface{})
		if ok {
			for _, f := range findings {
				fmap, ok := f.(map[string]interface{})
				if !ok {
					continue
				}
				result.Findings = append(result.Findings, diag.Finding{
					Code:     getString(fmap, "code"),
					Severity: getString(fmap, "severity"),
					Signal:   getString(fmap, "signal"),
					File:     getString(fmap, "file"),
					Line:     getInt(fmap, "line"),
					Message:  getString(fmap, "message"),
				})
			}
		}
	}

	rs, err = e.queries["summary"].Eval(ctx, rego.EvalInput(inputMap))
	if err != nil {
		return nil, fmt.Errorf("evaluating summary: %w", err)
	}

	if len(rs) > 0 && len(rs[0].Expressions) > 0 {
		smap, ok := rs[0].Expressions[0].Value.(map[string]interface{})
		if ok {
			result.Summary = Summary{
				Total:    getInt(smap, "total"),
				Errors:   getInt(smap, "errors"),
				Warnings: getInt(smap, "warnings"),
			}
		}
	}

	return result, nil
}

// Helper functions
func structToMap(v interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var result map[string]interface{}
	err = json.Unmarshal(data, &result)
	return result, err
}

func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func getInt(m map[string]interface{}, key string) int {
	if v, ok := m[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case float64:
			return int(n)
		case json.Number:
			i, _ := n.Int64()
			return int(i)
		}
	}
	return 0
}
