package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/inovacc/pollo/internal/core"
	"github.com/inovacc/pollo/internal/model"
	"github.com/inovacc/pollo/internal/stats"
	"github.com/spf13/cobra"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	statusStyles = map[model.ApplicationStatus]lipgloss.Style{
		model.StatusOpen:        lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		model.StatusPending:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		model.StatusCompleted:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		model.StatusUnavailable: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
)

// render prints v as indented JSON with --json, otherwise calls text.
func render(cmd *cobra.Command, v any, text func(w io.Writer)) error {
	w := cmd.OutOrStdout()

	if svc != nil && svc.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(v)
	}

	text(w)

	return nil
}

func parseID(raw, what string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, raw)
	}

	return id, nil
}

func field(w io.Writer, label string, value any) {
	_, _ = fmt.Fprintf(w, "  %s %v\n", labelStyle.Render(fmt.Sprintf("%-14s", label+":")), value)
}

func statusText(s model.ApplicationStatus) string {
	if style, ok := statusStyles[s]; ok {
		return style.Render(s.String())
	}

	return s.String()
}

func yesNo(b bool, yes, no string) string {
	if b {
		return okStyle.Render(yes)
	}

	return warnStyle.Render(no)
}

func printUser(w io.Writer, u *model.User) {
	_, _ = fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("User #%d", u.ID)))
	field(w, "Name", u.FullName())
	field(w, "Email", u.Email)
	field(w, "Role", u.Role)

	if u.Country != "" {
		field(w, "Country", u.Country)
	}
}

func printApplication(w io.Writer, a *model.Application) {
	_, _ = fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Application #%d", a.ID)))
	field(w, "Status", statusText(a.Status))
	field(w, "Receiver", a.ReceiverID)
	field(w, "Product", a.ProductID)
	field(w, "Motivation", a.Motivation)
	field(w, "Created", a.CreatedAt.Format("2006-01-02 15:04"))
	field(w, "Modified", a.LastModified.Format("2006-01-02 15:04"))

	if a.HasDonation() {
		field(w, "Donated on", a.DonationDate)
	}
}

func printApplications(w io.Writer, apps []model.Application) {
	if len(apps) == 0 {
		_, _ = fmt.Fprintln(w, "No applications.")
		return
	}

	_, _ = fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-6s %-12s %-9s %-8s %s", "ID", "STATUS", "RECEIVER", "PRODUCT", "MOTIVATION")))

	for _, a := range apps {
		status := statusText(a.Status) + strings.Repeat(" ", max(0, 12-len(a.Status.String())))
		_, _ = fmt.Fprintf(w, "%-6d %s %-9d %-8d %s\n", a.ID, status, a.ReceiverID, a.ProductID, truncate(a.Motivation, 48))
	}
}

func printProduct(w io.Writer, v *core.ProductView) {
	_, _ = fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Product #%d  %s", v.ID, v.Title)))
	field(w, "Producer", v.ProducerID)
	field(w, "Price", fmt.Sprintf("$%d", v.Price))
	field(w, "Rank", v.Rank)
	field(w, "Available", yesNo(v.Available, "yes", "no"))

	if v.Location != "" || v.Country != "" {
		field(w, "Location", strings.Trim(v.Location+", "+v.Country, ", "))
	}

	field(w, "Applications", fmt.Sprintf("%d open, %d pending, %d closed", len(v.Open), len(v.Pending), len(v.Closed)))
	printSummary(w, v.Stats)
}

func printProducts(w io.Writer, views []core.ProductView) {
	if len(views) == 0 {
		_, _ = fmt.Fprintln(w, "No products.")
		return
	}

	_, _ = fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-6s %-30s %-7s %-5s %-9s %s", "ID", "TITLE", "PRICE", "RANK", "AVAILABLE", "OPEN/PENDING/CLOSED")))

	for _, v := range views {
		available := "no"
		if v.Available {
			available = "yes"
		}

		_, _ = fmt.Fprintf(w, "%-6d %-30s %-7d %-5d %-9s %d/%d/%d\n",
			v.ID, truncate(v.Title, 30), v.Price, v.Rank, available, len(v.Open), len(v.Pending), len(v.Closed))
	}
}

func printSummary(w io.Writer, s stats.Summary) {
	field(w, "Completed", fmt.Sprintf("%d week, %d month, %d total", s.CompletedLastWeek, s.CompletedLastMonth, s.CompletedAllTime))
	field(w, "Pending", fmt.Sprintf("%d week, %d month, %d total", s.PendingLastWeek, s.PendingLastMonth, s.PendingAllTime))

	last := s.LastDonation
	if last == "" {
		last = "never"
	}

	field(w, "Last donation", last)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	if n <= 3 {
		return string(r[:n])
	}

	return string(r[:n-3]) + "..."
}
