package models

// FirstPrinciple is one fundamental truth the video builds on.
type FirstPrinciple struct {
	Principle   string `json:"principle"`
	Explanation string `json:"explanation"`
}

// VideoSummary is the structured summary generated for a single video URL.
// A new summary replaces the previous one; it is never merged or mutated.
type VideoSummary struct {
	VideoTitle      string           `json:"videoTitle"`
	CoreConcept     string           `json:"coreConcept"` // Feynman explanation
	FirstPrinciples []FirstPrinciple `json:"firstPrinciples"`
	SummaryPoints   []string         `json:"summaryPoints"`
	Analogies       []string         `json:"analogies"`
}
