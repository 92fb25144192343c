// Package display defines the status surface the session reports to, plus a
// styled console implementation.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Display receives the session's discrete status events. Implementations
// decide how to render them; the session never assumes a terminal.
type Display interface {
	Instructions()
	Recording()
	Transcribing()
	Processing()
	Progress(done, total int)
	Question(text string)
	Fragment(text string)
	AnswerDone()
	Error(msg string)
}

const rule = "──────────────────────────────────────────────────────────────────────────"

// Console renders session events to a terminal.
type Console struct {
	out io.Writer

	status   lipgloss.Style
	question lipgloss.Style
	answer   lipgloss.Style
	errStyle lipgloss.Style
	ruleLine lipgloss.Style
	footer   lipgloss.Style
}

func NewConsole(out io.Writer) *Console {
	return &Console{
		out:      out,
		status:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		question: lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		answer:   lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
		errStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		ruleLine: lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		footer:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
}

func (c *Console) Instructions() {
	fmt.Fprintln(c.out, "\nPress and hold the hotkey to record a segment of your interview.")
	fmt.Fprintln(c.out, "Release the key to stop recording and get insights.")
	fmt.Fprintln(c.out, c.ruleLine.Render("\n"+rule))
}

func (c *Console) Recording() {
	fmt.Fprintln(c.out, c.status.Render("\n[STATUS] Recording..."))
}

func (c *Console) Transcribing() {
	fmt.Fprintln(c.out, c.status.Render("[STATUS] Transcribing..."))
}

func (c *Console) Processing() {
	fmt.Fprintln(c.out, c.status.Render("[STATUS] Fetching AI Response..."))
}

func (c *Console) Progress(done, total int) {
	fmt.Fprintf(c.out, "\rEmbedding sections... %d/%d", done, total)
	if done >= total {
		fmt.Fprintln(c.out)
	}
}

func (c *Console) Question(text string) {
	fmt.Fprintln(c.out, c.ruleLine.Render("\n"+rule))
	fmt.Fprintf(c.out, "%s\n%s\n", c.question.Render("Question:"), text)
	fmt.Fprintln(c.out, c.answer.Render("\nAI Response:"))
}

func (c *Console) Fragment(text string) {
	fmt.Fprint(c.out, text)
}

func (c *Console) AnswerDone() {
	fmt.Fprintln(c.out, c.ruleLine.Render("\n"+rule))
	fmt.Fprintln(c.out, c.footer.Render("\nPress and hold the hotkey again to record another segment."))
}

func (c *Console) Error(msg string) {
	fmt.Fprintln(c.out, c.ruleLine.Render("\n"+rule))
	fmt.Fprintln(c.out, c.errStyle.Render("Error: "+strings.TrimSpace(msg)))
}
