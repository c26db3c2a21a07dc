// Package console is the interactive terminal view of the dashboard.
package console

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"safetrack/internal/bootstrap/logging"
	"safetrack/internal/domain/safety"
	"safetrack/internal/usecase/dashboard"
)

const allRoles = safety.AllRoles
const maxShownItems = 12

// DashboardSource is satisfied by *dashboard.Aggregator.
type DashboardSource interface {
	Build(ctx context.Context, role string) (dashboard.Dashboard, error)
}

// RoleSource is satisfied by *records.Service.
type RoleSource interface {
	ListRoles(ctx context.Context) ([]string, error)
}

type Options struct {
	Role            string
	RefreshInterval time.Duration
}

type model struct {
	ctx             context.Context
	dashboards      DashboardSource
	roles           RoleSource
	refreshInterval time.Duration

	roleOptions []string
	roleIndex   int
	kindIndex   int

	board    dashboard.Dashboard
	hasBoard bool
	status   string
}

type dashboardLoadedMsg struct {
	role  string
	board dashboard.Dashboard
	err   error
}

type rolesLoadedMsg struct {
	roles []string
	err   error
}

type tickMsg struct{}

func NewModel(ctx context.Context, dashboards DashboardSource, roles RoleSource, options Options) tea.Model {
	interval := options.RefreshInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	initial := normalizeRole(options.Role)
	opts := roleOptions(nil, initial)

	return &model{
		ctx:             ctx,
		dashboards:      dashboards,
		roles:           roles,
		refreshInterval: interval,
		roleOptions:     opts,
		roleIndex:       indexOf(opts, initial),
		status:          "loading",
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.loadRolesCmd(), m.loadDashboardCmd(), m.tickCmd())
}

func (m *model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := message.(type) {
	case tickMsg:
		return m, tea.Batch(m.loadDashboardCmd(), m.tickCmd())
	case rolesLoadedMsg:
		if msg.err != nil {
			m.status = "load roles failed: " + msg.err.Error()
			return m, nil
		}
		current := m.currentRole()
		m.roleOptions = roleOptions(msg.roles, current)
		m.roleIndex = indexOf(m.roleOptions, current)
		return m, nil
	case dashboardLoadedMsg:
		if msg.role != m.currentRole() {
			return m, nil
		}
		if msg.err != nil {
			m.status = "refresh failed: " + msg.err.Error()
			logging.Warn(m.ctx, "console refresh failed", slog.String("role", msg.role), slog.Any("err", msg.err))
			return m, nil
		}
		m.board = msg.board
		m.hasBoard = true
		m.status = fmt.Sprintf("refreshed %s", time.Now().Format("15:04:05"))
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "g":
			m.status = "refreshing"
			return m, tea.Batch(m.loadRolesCmd(), m.loadDashboardCmd())
		case "right", "l":
			m.roleIndex = cycle(m.roleIndex, 1, len(m.roleOptions))
			m.status = "role " + m.currentRole()
			return m, m.loadDashboardCmd()
		case "left", "h":
			m.roleIndex = cycle(m.roleIndex, -1, len(m.roleOptions))
			m.status = "role " + m.currentRole()
			return m, m.loadDashboardCmd()
		case "tab":
			m.kindIndex = cycle(m.kindIndex, 1, len(safety.RecordKinds()))
			return m, nil
		case "shift+tab":
			m.kindIndex = cycle(m.kindIndex, -1, len(safety.RecordKinds()))
			return m, nil
		}
	}
	return m, nil
}

func (m *model) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	expiredStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	soonStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("62"))

	var builder strings.Builder
	builder.WriteString(titleStyle.Render("Safety Dashboard"))
	builder.WriteString("\n")

	roleLine := make([]string, 0, len(m.roleOptions))
	for i, role := range m.roleOptions {
		if i == m.roleIndex {
			roleLine = append(roleLine, selectedStyle.Render(" "+role+" "))
		} else {
			roleLine = append(roleLine, " "+role+" ")
		}
	}
	builder.WriteString("Role:" + strings.Join(roleLine, ""))
	builder.WriteString("\n")

	if !m.hasBoard {
		builder.WriteString(dimStyle.Render("- no data"))
		builder.WriteString("\n\n")
	} else {
		board := m.board
		builder.WriteString(dimStyle.Render(fmt.Sprintf("today=%s horizon=%s (%d days)", board.Today, board.Horizon, board.LookaheadDays)))
		builder.WriteString("\n\n")

		builder.WriteString(sectionStyle.Render("Summary"))
		builder.WriteString("\n")
		builder.WriteString(expiredStyle.Render(fmt.Sprintf("expired: %d", board.Summary.Expired)))
		builder.WriteString("  ")
		builder.WriteString(soonStyle.Render(fmt.Sprintf("expiring soon: %d", board.Summary.ExpiringSoon)))
		builder.WriteString(fmt.Sprintf("  incidents: %d\n\n", board.Summary.Incidents))

		tabs := make([]string, 0, len(safety.RecordKinds()))
		for i, kind := range safety.RecordKinds() {
			bucket := board.Bucket(kind)
			label := fmt.Sprintf("%s (%d/%d)", kind, len(bucket.Expired), len(bucket.ExpiringSoon))
			if i == m.kindIndex {
				tabs = append(tabs, selectedStyle.Render(" "+label+" "))
			} else {
				tabs = append(tabs, " "+label+" ")
			}
		}
		builder.WriteString(strings.Join(tabs, "|"))
		builder.WriteString("\n")

		bucket := board.Bucket(m.currentKind())
		builder.WriteString(sectionStyle.Render("Expired"))
		builder.WriteString("\n")
		writeItems(&builder, bucket.Expired, expiredStyle, dimStyle)
		builder.WriteString(sectionStyle.Render(fmt.Sprintf("Expiring within %d days", board.LookaheadDays)))
		builder.WriteString("\n")
		writeItems(&builder, bucket.ExpiringSoon, soonStyle, dimStyle)

		builder.WriteString(sectionStyle.Render("Incidents"))
		builder.WriteString("\n")
		builder.WriteString("by severity: " + formatCounts(board.Incidents.BySeverity) + "\n")
		builder.WriteString("by type: " + formatCounts(board.Incidents.ByType) + "\n\n")
	}

	builder.WriteString(sectionStyle.Render("Status"))
	builder.WriteString("\n")
	builder.WriteString("- " + firstNonEmpty(m.status, "ready"))
	builder.WriteString("\n\n")

	builder.WriteString(dimStyle.Render("Keys: ←/h →/l role  tab kind  g refresh  q quit"))
	return builder.String()
}

func (m *model) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m *model) loadRolesCmd() tea.Cmd {
	if m.roles == nil {
		return nil
	}
	return func() tea.Msg {
		roles, err := m.roles.ListRoles(m.ctx)
		return rolesLoadedMsg{roles: roles, err: err}
	}
}

func (m *model) loadDashboardCmd() tea.Cmd {
	role := m.currentRole()
	filter := role
	if filter == allRoles {
		filter = ""
	}
	return func() tea.Msg {
		board, err := m.dashboards.Build(m.ctx, filter)
		return dashboardLoadedMsg{role: role, board: board, err: err}
	}
}

func (m *model) currentRole() string {
	if m.roleIndex < 0 || m.roleIndex >= len(m.roleOptions) {
		return allRoles
	}
	return m.roleOptions[m.roleIndex]
}

func (m *model) currentKind() safety.RecordKind {
	kinds := safety.RecordKinds()
	return kinds[cycle(m.kindIndex, 0, len(kinds))]
}

func writeItems(builder *strings.Builder, items []dashboard.Item, style lipgloss.Style, dimStyle lipgloss.Style) {
	if len(items) == 0 {
		builder.WriteString(dimStyle.Render("- none"))
		builder.WriteString("\n\n")
		return
	}
	shown := items
	if len(shown) > maxShownItems {
		shown = shown[:maxShownItems]
	}
	for _, item := range shown {
		builder.WriteString(style.Render(formatItem(item)))
		builder.WriteString("\n")
	}
	if hidden := len(items) - len(shown); hidden > 0 {
		builder.WriteString(dimStyle.Render(fmt.Sprintf("... %d more", hidden)))
		builder.WriteString("\n")
	}
	builder.WriteString("\n")
}

func formatItem(item dashboard.Item) string {
	return fmt.Sprintf("- %s %s (%s) %s %s",
		item.ExpiresOn,
		item.EmployeeName,
		firstNonEmpty(item.Role, "-"),
		firstNonEmpty(item.Detail, "-"),
		formatDaysLeft(item.DaysLeft),
	)
}

func formatDaysLeft(days int) string {
	switch {
	case days < 0:
		return fmt.Sprintf("[%d days ago]", -days)
	case days == 0:
		return "[today]"
	default:
		return fmt.Sprintf("[in %d days]", days)
	}
}

func formatCounts(items []dashboard.Count) string {
	if len(items) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%s=%d", item.Key, item.Count))
	}
	return strings.Join(parts, " ")
}

// roleOptions puts "all" first, followed by the known roles; current is kept
// even when it no longer appears in roles.
func roleOptions(roles []string, current string) []string {
	out := []string{allRoles}
	seen := map[string]struct{}{allRoles: {}}
	for _, role := range append(append([]string{}, roles...), current) {
		role = strings.TrimSpace(role)
		if role == "" {
			continue
		}
		if _, ok := seen[role]; ok {
			continue
		}
		seen[role] = struct{}{}
		out = append(out, role)
	}
	return out
}

func normalizeRole(input string) string {
	value := strings.TrimSpace(input)
	if value == "" || value == "*" || value == allRoles {
		return allRoles
	}
	return value
}

func indexOf(values []string, target string) int {
	for i, value := range values {
		if value == target {
			return i
		}
	}
	return 0
}

func cycle(index int, delta int, size int) int {
	if size <= 0 {
		return 0
	}
	return ((index+delta)%size + size) % size
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		normalized := strings.TrimSpace(value)
		if normalized != "" {
			return normalized
		}
	}
	return ""
}
