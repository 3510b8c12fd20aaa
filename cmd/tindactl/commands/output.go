package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tindaph/tinda-backend/internal/model"
)

var (
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
	colorPrimary = lipgloss.Color("#0038A8")

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	titleStyle   = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	cardStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)
)

func Success(format string, args ...any) {
	fmt.Print(successStyle.Render("✓ "))
	fmt.Printf(format+"\n", args...)
}

func Warning(format string, args ...any) {
	fmt.Print(warningStyle.Render("⚠ "))
	fmt.Printf(format+"\n", args...)
}

func Error(format string, args ...any) {
	fmt.Print(errorStyle.Render("✗ "))
	fmt.Printf(format+"\n", args...)
}

func Muted(format string, args ...any) {
	fmt.Println(mutedStyle.Render(fmt.Sprintf(format, args...)))
}

func card(label, value string) string {
	return cardStyle.Render(mutedStyle.Render(label) + "\n" + titleStyle.Render(value))
}

func breakdown(title string, buckets []model.CountBucket) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	if len(buckets) == 0 {
		b.WriteString(mutedStyle.Render("  no active listings"))
		return b.String()
	}
	for _, bk := range buckets {
		fmt.Fprintf(&b, "  %-32s %d\n", bk.Label, bk.Total)
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderStats lays the dashboard out as a row of cards over two tables.
func renderStats(s *model.MarketStats) string {
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Users", fmt.Sprint(s.TotalUsers)),
		card("Listings", fmt.Sprint(s.TotalListings)),
		card("Pending", fmt.Sprint(s.PendingApprovals)),
		card("Views", fmt.Sprint(s.TotalViews)),
		card("Sold volume", "₱"+s.TotalVolume.StringFixed(2)),
	)
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("TindaPH marketplace"),
		cards,
		"",
		breakdown("Active listings by region", s.ListingsByRegion),
		"",
		breakdown("Active listings by category", s.ListingsByCategory),
	)
}
