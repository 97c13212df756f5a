package validator

import (
	"strings"
	"testing"
)

func validReport() map[string]interface{} {
	return map[string]interface{}{
		"findings": []map[string]interface{}{
			{
				"code":     "UNUSED",
				"severity": "warning",
				"signal":   "tmp",
				"file":     "top.v",
				"line":     12,
				"message":  "Signal is not used: tmp",
			},
			{
				"code":     "UNDRIVEN",
				"severity": "error",
				"signal":   "rd",
				"file":     "top.v",
				"line":     4,
				"message":  "Signal is not driven: rd",
			},
		},
		"summary": map[string]interface{}{
			"total":    2,
			"errors":   1,
			"warnings": 1,
		},
	}
}

func TestValidReport(t *testing.T) {
	v, err := New()
	if err != nil {
		t.Fatalf("New failed: %+v", err)
	}

	if err := v.Validate(validReport()); err != nil {
		t.Fatalf("expected valid report to pass: %+v", err)
	}
}

func TestEmptyReport(t *testing.T) {
	v, err := New()
	if err != nil {
		t.Fatalf("New failed: %+v", err)
	}

	report := map[string]interface{}{
		"findings": []interface{}{},
		"summary": map[string]interface{}{
			"total":    0,
			"errors":   0,
			"warnings": 0,
		},
	}
	if err := v.Validate(report); err != nil {
		t.Fatalf("expected empty report to pass: %+v", err)
	}
}

func TestUnknownCode(t *testing.T) {
	v, err := New()
	if err != nil {
		t.Fatalf("New failed: %+v", err)
	}

	report := validReport()
	report["findings"].([]map[string]interface{})[0]["code"] = "MULTIDRIVEN"

	if err := v.Validate(report); err == nil {
		t.Fatal("expected unknown finding code to fail validation")
	}
}

func TestMissingSummary(t *testing.T) {
	v, err := New()
	if err != nil {
		t.Fatalf("New failed: %+v", err)
	}

	report := validReport()
	delete(report, "summary")

	if err := v.Validate(report); err == nil {
		t.Fatal("expected report without summary to fail validation")
	}
}

func TestNegativeLine(t *testing.T) {
	v, err := New()
	if err != nil {
		t.Fatalf("New failed: %+v", err)
	}

	report := validReport()
	report["findings"].([]map[string]interface{})[1]["line"] = -3

	if err := v.Validate(report); err == nil {
		t.Fatal("expected negative line number to fail validation")
	}
}

func TestValidateJSON(t *testing.T) {
	v, err := New()
	if err != nil {
		t.Fatalf("New failed: %+v", err)
	}

	good := `{"findings":[],"summary":{"total":0,"errors":0,"warnings":0}}`
	if err := v.ValidateJSON([]byte(good)); err != nil {
		t.Fatalf("expected JSON report to pass: %+v", err)
	}

	bad := `{"findings":[{"code":"UNUSED"}],"summary":{"total":1,"errors":0,"warnings":1}}`
	if err := v.ValidateJSON([]byte(bad)); err == nil {
		t.Fatal("expected incomplete finding to fail validation")
	}
}

func TestValidationErrors(t *testing.T) {
	v, err := New()
	if err != nil {
		t.Fatalf("New failed: %+v", err)
	}

	report := validReport()
	report["findings"].([]map[string]interface{})[0]["severity"] = "fatal"

	errs := v.ValidationErrors(report)
	if len(errs) == 0 {
		t.Fatal("expected at least one validation error")
	}
	joined := strings.Join(errs, "\n")
	if !strings.Contains(joined, "severity") {
		t.Errorf("expected errors to mention severity, got:\n%s", joined)
	}

	if errs := v.ValidationErrors(validReport()); errs != nil {
		t.Errorf("expected no errors for valid report, got %v", errs)
	}
}
