package analyze

import (
	"fmt"
	"time"

	"github.com/ppiankov/verinews/internal/extract"
	"github.com/ppiankov/verinews/internal/model"
)

const systemPromptTemplate = `Today's date is %s.

You are an expert fact-checking analyst. Your task is to evaluate the following claim using the provided article. Consider the context and category of the article, and determine whether the article supports, refutes, partially supports, or does not address the claim.

Note: The claim and article may be in any language. Respond in the same language as the claim if possible.

Instructions:
- Carefully read the claim and the article.
- Assess if the article is relevant to the claim.
- Judge the level of support the article provides for the claim:
    - "True": The article clearly supports the claim.
    - "False": The article clearly refutes the claim.
    - "Partial": The article provides partial or ambiguous support/refutation.
    - "Unknown": The article does not address the claim or is irrelevant.
- Assign a confidence score (0-100) based on the strength and clarity of the evidence.
- Briefly explain your reasoning in 1-2 sentences.
- Mark the article as "authoritative" if it is from a well-known, official, or primary source (e.g., NASA, WHO, Reuters, government agencies, peer-reviewed journals).

Your response MUST be ONLY the following JSON structure, with no extra text, markdown, or explanation:
{
  "relevant": boolean,
  "support": "True"|"False"|"Partial"|"Unknown",
  "confidence": integer,
  "reason": "string",
  "authoritative": boolean
}`

// jsonOnlySuffix is appended to the user prompt when the first reply had no usable JSON
const jsonOnlySuffix = "\n\nYou MUST return only JSON. No markdown or extra explanation."

// SystemPrompt returns the judging instructions dated at now
func SystemPrompt(now time.Time) string {
	return fmt.Sprintf(systemPromptTemplate, now.Format("2006-01-02"))
}

// BuildPrompt renders the per-article user prompt. Article text is cut to
// contentChars runes.
func BuildPrompt(claim string, article model.EvidenceArticle, contentChars int) string {
	title := article.Title
	if title == "" {
		title = "Untitled"
	}
	date := article.PublishedDate
	if date == "" {
		date = "Unknown"
	}
	source := article.Source
	if source == "" {
		source = "Unknown"
	}

	return fmt.Sprintf("### CLAIM:\n%s\n\n### ARTICLE:\nTitle: %s\nDate: %s\nSource: %s\n### CONTENT:\n%s",
		claim, title, date, source, extract.Truncate(article.Text(), contentChars))
}
