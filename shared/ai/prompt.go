package ai

import (
	"fmt"

	"google.golang.org/genai"
)

const summaryPromptTemplate = `You are an expert educator and content analyst. Your task is to analyze a hypothetical YouTube video based on its URL and produce a structured summary.

The user has provided this URL: "%s".

Even though you cannot access the URL, act as if you have watched the video. Infer the likely topic and content from a typical video that might have such a URL or title. Generate a plausible, high-quality summary that helps a user deeply understand the content.

The summary must be structured using these two techniques:
1.  **The Feynman Technique:** Explain concepts in simple, clear language, avoiding jargon.
2.  **First-Principles Thinking:** Break down the topic into its most fundamental truths or elements.

The output must be a JSON object that strictly follows the provided schema.`

// Field names shared by the response schema and the decoder.
const (
	fieldVideoTitle      = "videoTitle"
	fieldCoreConcept     = "coreConcept"
	fieldFirstPrinciples = "firstPrinciples"
	fieldSummaryPoints   = "summaryPoints"
	fieldAnalogies       = "analogies"
	fieldPrinciple       = "principle"
	fieldExplanation     = "explanation"
)

var summaryFields = []string{
	fieldVideoTitle,
	fieldCoreConcept,
	fieldFirstPrinciples,
	fieldSummaryPoints,
	fieldAnalogies,
}

func buildSummaryPrompt(videoURL string) string {
	return fmt.Sprintf(summaryPromptTemplate, videoURL)
}

// summarySchema constrains the model reply to the VideoSummary shape.
func summarySchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			fieldVideoTitle: {
				Type:        genai.TypeString,
				Description: "A plausible title for a video at the given URL. Be creative and relevant.",
			},
			fieldCoreConcept: {
				Type:        genai.TypeString,
				Description: "The central idea of the video, explained in the simplest possible terms as if explaining it to a complete beginner (Feynman Technique).",
			},
			fieldFirstPrinciples: {
				Type:        genai.TypeArray,
				Description: "A list of fundamental truths or basic principles discussed in the video.",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						fieldPrinciple: {
							Type:        genai.TypeString,
							Description: "The name of the fundamental principle.",
						},
						fieldExplanation: {
							Type:        genai.TypeString,
							Description: "A simple explanation of this principle.",
						},
					},
					Required:         []string{fieldPrinciple, fieldExplanation},
					PropertyOrdering: []string{fieldPrinciple, fieldExplanation},
				},
			},
			fieldSummaryPoints: {
				Type:        genai.TypeArray,
				Description: "A bulleted list of the key takeaways or main points from the video.",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
			fieldAnalogies: {
				Type:        genai.TypeArray,
				Description: "A list of simple analogies used to explain complex topics in the video.",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
		},
		Required:         summaryFields,
		PropertyOrdering: summaryFields,
	}
}
