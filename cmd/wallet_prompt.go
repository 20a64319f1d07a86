package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/wallet-bridge-cli/internal/domain"
)

var (
	promptSpinnerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	promptApprovedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	promptFailedStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
)

type walletOutcomeMsg struct {
	err error
}

// walletPromptModel shows a spinner while a wallet request is pending
// in the extension, then replaces it with the request's outcome.
type walletPromptModel struct {
	spinner  spinner.Model
	waiting  string
	approved string

	request tea.Cmd
	outcome *walletOutcomeMsg
}

func newWalletPromptModel(waiting, approved string, request tea.Cmd) walletPromptModel {
	return walletPromptModel{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(promptSpinnerStyle),
		),
		waiting:  waiting,
		approved: approved,
		request:  request,
	}
}

func (m walletPromptModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.request)
}

func (m walletPromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case walletOutcomeMsg:
		m.outcome = &msg
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m walletPromptModel) View() string {
	if m.outcome == nil {
		return fmt.Sprintf("%s %s", m.spinner.View(), m.waiting)
	}
	if m.outcome.err != nil {
		return promptFailedStyle.Render("✗ "+walletOutcomeText(m.outcome.err)) + "\n"
	}
	return promptApprovedStyle.Render("✓ "+m.approved) + "\n"
}

func walletOutcomeText(err error) string {
	switch {
	case errors.Is(err, domain.ErrDenied):
		return "declined in the wallet"
	case errors.Is(err, domain.ErrTimeout):
		return "timed out waiting for the wallet"
	case errors.Is(err, domain.ErrNotInstalled):
		return "wallet extension not found"
	default:
		return "wallet request failed"
	}
}

// runWalletPrompt drives the prompt on output while request runs, and
// returns the request's error once the program exits.
func runWalletPrompt(ctx context.Context, output io.Writer, waiting, approved string, request func(context.Context) error) error {
	requestCmd := func() tea.Msg {
		return walletOutcomeMsg{err: request(ctx)}
	}

	p := tea.NewProgram(
		newWalletPromptModel(waiting, approved, requestCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	model, ok := finalModel.(walletPromptModel)
	if !ok {
		return fmt.Errorf("unexpected final prompt model type %T", finalModel)
	}
	if model.outcome == nil {
		return nil
	}
	return model.outcome.err
}
