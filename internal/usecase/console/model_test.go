package console

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"safetrack/internal/domain/safety"
	"safetrack/internal/usecase/dashboard"
)

type fakeDashboards struct {
	roles []string
}

func (f *fakeDashboards) Build(_ context.Context, role string) (dashboard.Dashboard, error) {
	f.roles = append(f.roles, role)
	if role == "Broken" {
		return dashboard.Dashboard{}, errors.New("boom")
	}
	return dashboard.Dashboard{
		Today:         "2024-06-15",
		Horizon:       "2024-07-15",
		LookaheadDays: 30,
		Role:          role,
		Summary:       dashboard.Summary{Expired: 1, ExpiringSoon: 0, Incidents: 2},
		Licenses: dashboard.Bucket{
			Expired: []dashboard.Item{{Kind: safety.KindLicense, EmployeeName: "Dora", Role: "Driver", Detail: "D", ExpiresOn: "2024-06-14", DaysLeft: -1}},
		},
		Incidents: dashboard.Incidents{Total: 2, BySeverity: []dashboard.Count{{Key: "minor", Count: 2}}},
	}, nil
}

type fakeRoles []string

func (f fakeRoles) ListRoles(context.Context) ([]string, error) {
	return f, nil
}

func runCmd(t *testing.T, m tea.Model, cmd tea.Cmd) tea.Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	next, _ := m.Update(cmd())
	return next
}

func TestRoleOptions(t *testing.T) {
	got := roleOptions([]string{"Driver", " ", "Manager", "Driver"}, "Welder")
	want := []string{"all", "Driver", "Manager", "Welder"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("roleOptions() = %v, want %v", got, want)
	}

	got = roleOptions(nil, "all")
	if len(got) != 1 || got[0] != "all" {
		t.Fatalf("roleOptions(all) = %v", got)
	}
}

func TestCycleWraps(t *testing.T) {
	testCases := []struct {
		index, delta, size, want int
	}{
		{0, 1, 3, 1},
		{2, 1, 3, 0},
		{0, -1, 3, 2},
		{5, 0, 0, 0},
	}
	for _, tc := range testCases {
		if got := cycle(tc.index, tc.delta, tc.size); got != tc.want {
			t.Fatalf("cycle(%d, %d, %d) = %d, want %d", tc.index, tc.delta, tc.size, got, tc.want)
		}
	}
}

func TestFormatDaysLeft(t *testing.T) {
	if got := formatDaysLeft(-3); got != "[3 days ago]" {
		t.Fatalf("formatDaysLeft(-3) = %q", got)
	}
	if got := formatDaysLeft(0); got != "[today]" {
		t.Fatalf("formatDaysLeft(0) = %q", got)
	}
	if got := formatDaysLeft(12); got != "[in 12 days]" {
		t.Fatalf("formatDaysLeft(12) = %q", got)
	}
}

func TestModelCyclesRolesAndRenders(t *testing.T) {
	source := &fakeDashboards{}
	var m tea.Model = NewModel(context.Background(), source, fakeRoles{"Driver", "Manager"}, Options{})
	inner := m.(*model)

	m = runCmd(t, m, inner.loadRolesCmd())
	m = runCmd(t, m, inner.loadDashboardCmd())
	if len(source.roles) != 1 || source.roles[0] != "" {
		t.Fatalf("initial build roles = %v, want unfiltered", source.roles)
	}

	view := m.View()
	for _, want := range []string{"Safety Dashboard", "expired: 1", "minor=2", "all"} {
		if !strings.Contains(view, want) {
			t.Fatalf("View() missing %q:\n%s", want, view)
		}
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = runCmd(t, next, cmd)
	if inner.currentRole() != "Driver" {
		t.Fatalf("currentRole() = %q, want Driver", inner.currentRole())
	}
	if source.roles[len(source.roles)-1] != "Driver" {
		t.Fatalf("last build role = %q", source.roles[len(source.roles)-1])
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if inner.currentRole() != "Manager" {
		t.Fatalf("currentRole() after wrap = %q, want Manager", inner.currentRole())
	}

	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyTab})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyTab})
	if inner.currentKind() != safety.KindLicense {
		t.Fatalf("currentKind() = %q, want license", inner.currentKind())
	}
	if !strings.Contains(next.View(), "Dora") {
		t.Fatalf("license tab should list Dora:\n%s", next.View())
	}

	_, quit := next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if quit == nil {
		t.Fatalf("q should return a quit command")
	}
}

func TestModelIgnoresStaleAndReportsErrors(t *testing.T) {
	source := &fakeDashboards{}
	var m tea.Model = NewModel(context.Background(), source, nil, Options{Role: "Broken"})
	inner := m.(*model)

	m, _ = m.Update(dashboardLoadedMsg{role: "Other", board: dashboard.Dashboard{Today: "x"}})
	if inner.hasBoard {
		t.Fatalf("stale dashboard should be ignored")
	}

	m = runCmd(t, m, inner.loadDashboardCmd())
	if !strings.Contains(inner.status, "refresh failed") {
		t.Fatalf("status = %q", inner.status)
	}
	_ = m
}
