package tui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"yatra/internal/domain"
)

var (
	boxStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	headerStyle    = lipgloss.NewStyle().Bold(true)
	labelStyle     = lipgloss.NewStyle().Width(12)
	focusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	unicodeWordRe  = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
	sentenceRe     = regexp.MustCompile(`(?m)[^.!?\n]+(?:[.!?]+|$)`)
)

var labels = [fieldCount]string{
	fieldBudget:    "Budget",
	fieldInterests: "Interests",
	fieldDuration:  "Duration",
	fieldStyle:     "Style",
	fieldCity:      "From city",
}

// View renders the current screen.
func (m Model) View() string {
	header := headerStyle.Render("Yatra Travel Planner")
	status := statusStyle.Render(m.status)
	switch m.state {
	case stateForm:
		return header + "\n\n" + boxStyle.Render(m.renderForm()) + "\n" + status
	case statePlanning:
		return header + "\n\n" + m.spinner.View() + " " + status
	case stateDone:
		return status + "\n"
	}
	if !m.ready {
		m.viewport.SetContent(m.renderTranscript())
	}
	line := status
	if m.waiting {
		line = m.spinner.View() + " " + status
	}
	return header + "\n" + boxStyle.Render(m.viewport.View()) + "\n" + boxStyle.Render(m.chat.View()) + "\n" + line
}

func (m Model) renderForm() string {
	var b strings.Builder
	for i := 0; i < fieldCount; i++ {
		label := labelStyle.Render(labels[i])
		if i == m.focus {
			label = focusStyle.Render(labelStyle.Render(labels[i]))
		}
		var value string
		if i == fieldStyle {
			value = m.renderStyles()
		} else {
			value = m.inputs[i].View()
		}
		fmt.Fprintf(&b, "%s %s\n", label, value)
	}
	b.WriteString(dimStyle.Render("ctrl+s submits from any field"))
	return b.String()
}

func (m Model) renderStyles() string {
	parts := make([]string, len(domain.Styles))
	for i, st := range domain.Styles {
		if i == m.styleIdx {
			parts[i] = focusStyle.Render("[" + string(st) + "]")
		} else {
			parts[i] = dimStyle.Render(string(st))
		}
	}
	return strings.Join(parts, " ")
}

// renderTranscript shows the plan followed by every chat turn. Each answer
// has the sentence closest to its question highlighted.
func (m Model) renderTranscript() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Your Tour Plan"))
	b.WriteString("\n\n")
	if m.plan.FinalText == "" {
		b.WriteString(dimStyle.Render("No plan yet."))
	} else {
		b.WriteString(m.plan.FinalText)
	}
	b.WriteString("\n")

	var lastQuestion string
	for _, t := range m.session.History() {
		b.WriteString("\n")
		switch t.Role {
		case domain.RoleUser:
			lastQuestion = t.Content
			b.WriteString(userStyle.Render("You: ") + t.Content)
		default:
			b.WriteString(assistantStyle.Render("Guide: ") + highlightBestSentence(t.Content, lastQuestion))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func highlightBestSentence(text, query string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	sentences := sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		sentences = []string{strings.TrimSpace(text)}
	}
	qTokens := toTokenSet(query)
	if len(qTokens) == 0 {
		return strings.Join(sentences, " ")
	}
	bestIdx := 0
	bestScore := -1
	for i, s := range sentences {
		score := tokenOverlapScore(qTokens, s)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	for i := range sentences {
		sent := strings.TrimSpace(sentences[i])
		if i == bestIdx && bestScore > 0 {
			sentences[i] = highlightStyle.Render(sent)
		} else {
			sentences[i] = sent
		}
	}
	return strings.Join(sentences, " ")
}

func toTokenSet(s string) map[string]struct{} {
	tokens := unicodeWordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func tokenOverlapScore(queryTokens map[string]struct{}, sentence string) int {
	score := 0
	tokens := unicodeWordRe.FindAllString(strings.ToLower(sentence), -1)
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := queryTokens[t]; ok {
			score++
		}
	}
	return score
}
