package ui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/josephgoksu/seiton/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// ContextTitle turns a context id into a display name ("context-a" -> "Context A").
func ContextTitle(c models.Context) string {
	return titleCaser.String(strings.ReplaceAll(string(c), "-", " "))
}

// Panel is a bordered box with an optional bold title.
type Panel struct {
	Title       string
	Content     string
	BorderColor lipgloss.Color
	Width       int
}

// Render returns the styled panel as a string.
func (p *Panel) Render() string {
	border := p.BorderColor
	if border == "" {
		border = ColorSecondary
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
	if p.Width > 0 {
		style = style.Width(p.Width)
	}

	content := p.Content
	if p.Title != "" {
		content = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary).Render(p.Title) + "\n" + p.Content
	}
	return style.Render(content)
}

// RenderWarningPanel renders a panel with a yellow border.
func RenderWarningPanel(title, content string) string {
	return (&Panel{Title: title, Content: content, BorderColor: ColorWarning}).Render()
}

// RenderErrorPanel renders a panel with a red border.
func RenderErrorPanel(title, content string) string {
	return (&Panel{Title: title, Content: content, BorderColor: ColorError}).Render()
}

// Truncate shortens s to maxLen runes, adding "..." when it cuts.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// FirstLine returns the first non-empty line of s.
func FirstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if l := strings.TrimSpace(line); l != "" {
			return l
		}
	}
	return ""
}

// FormatDue describes a task's due date and deadline for a single table cell.
func FormatDue(t models.Task) string {
	var parts []string
	if t.Due != nil {
		switch {
		case t.Due.String != "":
			parts = append(parts, t.Due.String)
		case t.Due.Date != "":
			parts = append(parts, t.Due.Date)
		}
	}
	if t.Deadline != nil && t.Deadline.Date != "" {
		parts = append(parts, "deadline "+t.Deadline.Date)
	}
	return strings.Join(parts, ", ")
}

// FormatAgo renders a past time as a short relative phrase.
func FormatAgo(at, now time.Time) string {
	d := now.Sub(at)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 48*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return at.Format("Jan 2")
	}
}
