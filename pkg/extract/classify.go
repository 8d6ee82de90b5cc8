package extract

import "strings"

// QueryKind classifies what a question is about, using fixed keyword
// membership only.
type QueryKind string

const (
	KindAnalytics QueryKind = "analytics"
	KindMedical   QueryKind = "medical_question"
)

var analyticsKeywords = []string{
	"trend", "workload", "busy", "most common", "prevalent",
	"distribution", "geographic", "branch", "area", "location",
	"summary", "analytics", "dashboard", "statistics", "data",
	"how many", "total", "count", "patients", "visits", "cases",
	"top", "highest", "lowest", "average", "comparison", "compare",
}

var medicalKeywords = []string{
	"symptom", "treatment", "cure", "medicine", "diagnosis",
	"difference between", "what is", "how to treat", "causes of",
	"prevent", "contagious", "infection", "disease information",
	"sinus", "cold", "flu", "fever", "pain", "ache",
}

// Classify labels a question as an analytics query or a request for medical
// advice. Questions matching both keyword sets count as analytics, so
// "most common flu cases" is still answered from the data.
func Classify(query string) QueryKind {
	q := strings.ToLower(query)
	if containsAny(q, medicalKeywords) && !containsAny(q, analyticsKeywords) {
		return KindMedical
	}
	return KindAnalytics
}

// MedicalNotice is the fixed response for medical-advice questions. The
// assistant interprets help-desk analytics and never gives medical guidance.
const MedicalNotice = `**Medical Information Notice**

I'm an **Analytics Assistant** for the Saylani Medical Help Desk, designed to provide insights about:
- Disease trends and statistics
- Doctor workload and availability
- Geographic distribution of patients
- Help desk performance metrics

**I cannot provide medical advice or information about diseases, symptoms, or treatments.**

For medical questions like yours, please:
1. **Consult a qualified healthcare professional**
2. **Visit a Saylani Medical Help Desk branch**
3. **Call our medical hotline for professional advice**

However, I can help you with questions like:
- "What are the most common diseases in our help desk?"
- "Which doctors are available in Gulshan area?"
- "What is the patient volume trend this month?"
- "Which branch has the highest workload?"

Would you like to ask an analytics-related question instead?`
