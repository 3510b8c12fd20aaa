package ai

import (
	"fmt"
	"strings"
)

type DescriptionInput struct {
	Title     string
	Category  string
	Condition string
}

const descriptionPrompt = `Write a catchy, short, and professional sales description for a marketplace listing in the Philippines.
Item: %s
Category: %s
Condition: %s

Tone: friendly and trustworthy, the way local sellers write.
Keep it to at most 3 sentences and include a few relevant emojis.
Return only the description text.`

// BuildDescriptionPrompt fills the listing fields into the prompt. Blank
// category or condition are left out of the sentence rather than sent empty.
func BuildDescriptionPrompt(in DescriptionInput) string {
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = "General"
	}
	condition := strings.TrimSpace(in.Condition)
	if condition == "" {
		condition = "Not specified"
	}
	return fmt.Sprintf(descriptionPrompt, strings.TrimSpace(in.Title), category, condition)
}
