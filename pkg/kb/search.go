package kb

import "strings"

// SearchResult is one structured match returned by Search.
type SearchResult struct {
	Type           string `json:"type"`
	Data           any    `json:"data"`
	Interpretation string `json:"interpretation"`
}

// Search matches a question against the knowledge base topics by fixed
// keyword membership and returns the structured data for every matching
// topic. With no topic match, the executive summary is returned so the result
// set is never empty.
func (p *Provider) Search(query string) []SearchResult {
	q := strings.ToLower(query)
	var results []SearchResult

	if containsAny(q, []string{"disease", "illness", "condition", "common", "prevalent"}) {
		dt := p.DiseaseTrends()
		results = append(results, SearchResult{
			Type:           "disease_trends",
			Data:           dt,
			Interpretation: dt.Interpretation,
		})
	}

	if containsAny(q, []string{"doctor", "physician", "workload", "busy", "staff"}) {
		dw := p.DoctorWorkload()
		results = append(results, SearchResult{
			Type:           "doctor_workload",
			Data:           dw,
			Interpretation: dw.Interpretation,
		})
	}

	if containsAny(q, []string{"area", "location", "geographic", "where", "branch", "region"}) {
		geo := p.Geographic()
		results = append(results, SearchResult{
			Type:           "geographic_distribution",
			Data:           geo,
			Interpretation: geo.Interpretation,
		})
	}

	if len(results) == 0 {
		results = append(results, SearchResult{
			Type:           "summary",
			Data:           p.Summary(),
			Interpretation: "General analytics summary",
		})
	}

	return results
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
