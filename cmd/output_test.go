package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"safetrack/internal/usecase/dashboard"
	"safetrack/internal/usecase/importer"
)

func TestCheckFormat(t *testing.T) {
	for _, in := range []string{"", "text", " TEXT "} {
		got, err := checkFormat(in)
		if err != nil || got != formatText {
			t.Fatalf("checkFormat(%q) = %q, %v", in, got, err)
		}
	}
	if got, err := checkFormat("json"); err != nil || got != formatJSON {
		t.Fatalf("checkFormat(json) = %q, %v", got, err)
	}
	if _, err := checkFormat("xml"); err == nil {
		t.Fatalf("checkFormat(xml) expected error")
	}
}

func TestWriteImportResultListsRowErrors(t *testing.T) {
	var out bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&out)

	err := writeImportResult(c, importer.Result{
		RunID:     "run-1",
		Source:    "staff.csv",
		Processed: 3,
		Errored:   1,
		Errors:    []importer.RowError{{Line: 4, Registration: "77", Message: "employee name is required"}},
	})
	if err != nil {
		t.Fatalf("writeImportResult() error = %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "processed=3 errored=1") {
		t.Fatalf("summary line missing: %q", got)
	}
	if !strings.Contains(got, "line 4 (registration 77): employee name is required") {
		t.Fatalf("row error missing: %q", got)
	}
}

func TestWriteDashboardPrintsEveryBucket(t *testing.T) {
	board := dashboard.Dashboard{
		Today:         "2024-06-15",
		Horizon:       "2024-07-15",
		LookaheadDays: 30,
		Summary:       dashboard.Summary{Expired: 1},
		Licenses: dashboard.Bucket{
			Expired: []dashboard.Item{{EmployeeName: "Dora", RegistrationNumber: "1", Role: "Driver", Detail: "D", ExpiresOn: "2024-06-01", DaysLeft: -14}},
		},
	}

	var out bytes.Buffer
	if err := writeDashboard(&out, board); err != nil {
		t.Fatalf("writeDashboard() error = %v", err)
	}

	got := out.String()
	for _, want := range []string{"role=all", "training expired (0)", "exam expiring soon (0)", "license expired (1)", "Dora", "-14"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
}
