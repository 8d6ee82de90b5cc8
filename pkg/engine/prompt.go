package engine

import "fmt"

// systemPrompt is the fixed instruction given to the remote model. The model
// interprets help-desk analytics only and never gives medical advice.
const systemPrompt = `You are an expert AI Analytics Assistant for the Saylani Medical Help Desk.

Your job is to interpret medical analytics data and explain visualizations to administrators.

RULES:
- Use exact numbers from context (never generate new ones)
- Interpret trends, patterns, peaks, changes
- Use percentages & numeric comparisons where relevant
- Professional, clear tone
- No medical advice
- Only explain analytics that exist in the data

FORMAT:
- Bullets for lists
- Bold important metrics
- End with a 1-2 line insight summary`

// BuildPrompt assembles the remote prompt: system instruction, the context
// document bounded by explicit delimiters, then the question. The delimiters
// keep the model from reading analytics data as instructions.
func BuildPrompt(query, contextText string) string {
	return fmt.Sprintf(`%s

=== ANALYTICS DATA START ===
%s
=== ANALYTICS DATA END ===

ADMIN QUESTION:
%s

ANSWER (interpret analytics only):`, systemPrompt, contextText, query)
}
