package insightlens

import (
	"strings"

	"insightlens/internal/models"
)

// Card titles as shown on the page.
const (
	coreConceptTitle     = "🧠 Core Concept (Feynman Technique)"
	firstPrinciplesTitle = "🧱 First Principles"
	keyTakeawaysTitle    = "🔑 Key Takeaways"
	analogiesTitle       = "💡 Simple Analogies"
)

// Card is one section of the summary display.
type Card struct {
	Title      string
	CopyText   string
	Paragraph  string
	Principles []models.FirstPrinciple
	Items      []string
}

type SummaryView struct {
	VideoTitle string
	Cards      []Card
}

// PageView is the data handed to the page template.
type PageView struct {
	State          ViewState
	Summary        *SummaryView
	RefreshSeconds int
}

func (p PageView) ButtonLabel() string {
	if p.State.Loading {
		return "Summarizing..."
	}
	return "Summarize Video"
}

func NewPageView(state ViewState, refreshSeconds int) PageView {
	view := PageView{
		State:          state,
		RefreshSeconds: refreshSeconds,
	}
	if state.Summary != nil {
		view.Summary = NewSummaryView(state.Summary)
	}
	return view
}

func NewSummaryView(s *models.VideoSummary) *SummaryView {
	return &SummaryView{
		VideoTitle: s.VideoTitle,
		Cards: []Card{
			{
				Title:     coreConceptTitle,
				CopyText:  FormatCoreConceptToCopy(s.CoreConcept),
				Paragraph: s.CoreConcept,
			},
			{
				Title:      firstPrinciplesTitle,
				CopyText:   FormatPrinciplesToCopy("First Principles", s.FirstPrinciples),
				Principles: s.FirstPrinciples,
			},
			{
				Title:    keyTakeawaysTitle,
				CopyText: FormatListToCopy("Key Takeaways", s.SummaryPoints),
				Items:    s.SummaryPoints,
			},
			{
				Title:    analogiesTitle,
				CopyText: FormatListToCopy("Simple Analogies", s.Analogies),
				Items:    s.Analogies,
			},
		},
	}
}

func FormatCoreConceptToCopy(coreConcept string) string {
	return "Core Concept\n\n" + coreConcept
}

// FormatListToCopy renders a titled bullet list, one "- item" per line.
func FormatListToCopy(title string, items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + item
	}
	return title + "\n\n" + strings.Join(lines, "\n")
}

func FormatPrinciplesToCopy(title string, items []models.FirstPrinciple) string {
	blocks := make([]string, len(items))
	for i, item := range items {
		blocks[i] = "Principle: " + item.Principle + "\nExplanation: " + item.Explanation
	}
	return title + "\n\n" + strings.Join(blocks, "\n\n")
}
