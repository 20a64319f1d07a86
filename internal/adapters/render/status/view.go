package status

import (
	"fmt"

	"github.com/bnema/wallet-bridge-cli/internal/application"
	"github.com/bnema/wallet-bridge-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

func Render(status application.Status) string {
	return renderView(status, newStyles())
}

func renderView(status application.Status, s styles) string {
	lines := []string{s.title.Render("Wallet session")}

	switch status.Phase {
	case domain.PhaseConnected:
		lines = append(lines,
			s.connected.Render("connected"),
			s.header.Render(fmt.Sprintf("account: %s", status.AccountID)),
		)
	case domain.PhaseConnecting:
		lines = append(lines, s.pending.Render("connecting..."))
	case domain.PhaseError:
		lines = append(lines, s.warning.Render("error"))
		if status.Reason != "" {
			lines = append(lines, s.detail.Render(status.Reason))
		}
	default:
		lines = append(lines, s.empty.Render("disconnected"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
