// Package kb loads the structured analytics knowledge base and renders the
// fixed-header context document consumed by the answer engine.
package kb

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// KnowledgeBase is the structured analytics document produced by the
// knowledge-base generator.
type KnowledgeBase struct {
	Metadata  Metadata  `json:"metadata"`
	Analytics Analytics `json:"analytics"`
	Entities  Entities  `json:"entities"`
	Summary   Summary   `json:"summary"`
}

// Metadata describes when and how the knowledge base was generated.
type Metadata struct {
	GeneratedAt string `json:"generated_at"`
	Version     string `json:"version"`
	Format      string `json:"format"`
	Description string `json:"description"`
}

// Analytics holds the per-topic aggregations.
type Analytics struct {
	DiseaseTrends    DiseaseTrends    `json:"disease_trends"`
	DoctorWorkload   DoctorWorkload   `json:"doctor_workload"`
	Geographic       Geographic       `json:"geographic_distribution"`
	TemporalPatterns TemporalPatterns `json:"temporal_patterns"`
}

// DiseaseTrends aggregates case counts per disease.
type DiseaseTrends struct {
	Overview       json.RawMessage `json:"overview"`
	TopDiseases    []DiseaseRank   `json:"top_10_diseases"`
	Interpretation string          `json:"interpretation"`
}

// DiseaseRank is one row of the top-diseases table.
type DiseaseRank struct {
	Rank       int     `json:"rank"`
	Name       string  `json:"disease_name"`
	CaseCount  int     `json:"case_count"`
	Percentage float64 `json:"percentage"`
}

// DoctorWorkload aggregates patient counts per doctor.
type DoctorWorkload struct {
	Overview       json.RawMessage `json:"overview"`
	TopDoctors     []DoctorRank    `json:"top_10_busiest_doctors"`
	Interpretation string          `json:"interpretation"`
}

// DoctorRank is one row of the busiest-doctors table.
type DoctorRank struct {
	Rank         int    `json:"rank"`
	Name         string `json:"doctor_name"`
	Specialty    string `json:"specialty"`
	PatientCount int    `json:"patient_count"`
}

// Geographic aggregates patient counts per area.
type Geographic struct {
	Overview       json.RawMessage `json:"overview"`
	TopAreas       []AreaRank      `json:"top_10_areas"`
	Interpretation string          `json:"interpretation"`
}

// AreaRank is one row of the top-areas table.
type AreaRank struct {
	Rank         int     `json:"rank"`
	Name         string  `json:"area_name"`
	PatientCount int     `json:"patient_count"`
	Percentage   float64 `json:"percentage"`
}

// TemporalPatterns aggregates visit counts over time.
type TemporalPatterns struct {
	Overview       json.RawMessage `json:"overview"`
	Interpretation string          `json:"interpretation"`
}

// Entities lists the reference data the analytics were built from.
type Entities struct {
	Doctors  []Doctor  `json:"doctors"`
	Branches []Branch  `json:"branches"`
	Diseases []Disease `json:"diseases"`
}

// Doctor is a reference entry for one doctor.
type Doctor struct {
	ID        string `json:"doctor_id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
}

// Branch is a reference entry for one help-desk branch.
type Branch struct {
	ID   string `json:"branch_id"`
	Name string `json:"branch_name"`
	Area string `json:"area"`
}

// Disease is a reference entry for one canonical disease name.
type Disease struct {
	Name     string `json:"disease_name"`
	Category string `json:"category"`
}

// Summary is the executive summary block.
type Summary struct {
	TotalPatients         int      `json:"total_patients"`
	TotalDoctors          int      `json:"total_doctors"`
	TotalBranches         int      `json:"total_branches"`
	TotalDiseasesRecorded int      `json:"total_diseases_recorded"`
	KeyInsights           []string `json:"key_insights"`
}

// Provider loads the knowledge base once and serves context documents and
// section queries. Read-only after Load.
type Provider struct {
	path string
	kb   *KnowledgeBase
	log  *zap.Logger
}

// Load reads the knowledge base at path. A missing file yields an empty
// provider, not an error; a present but unparseable file is an error.
func Load(path string, log *zap.Logger) (*Provider, error) {
	if log == nil {
		log = zap.NewNop()
	}
	p := &Provider{path: path, log: log}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("knowledge base not found", zap.String("path", path))
			return p, nil
		}
		return nil, fmt.Errorf("read knowledge base: %w", err)
	}

	var kb KnowledgeBase
	if err := json.Unmarshal(data, &kb); err != nil {
		return nil, fmt.Errorf("parse knowledge base: %w", err)
	}
	p.kb = &kb

	log.Info("knowledge base loaded",
		zap.String("path", path),
		zap.String("generated_at", kb.Metadata.GeneratedAt),
		zap.Int("total_patients", kb.Summary.TotalPatients))
	return p, nil
}

// Loaded reports whether a knowledge base is available.
func (p *Provider) Loaded() bool {
	return p.kb != nil
}

// Summary returns the executive summary block.
func (p *Provider) Summary() Summary {
	if p.kb == nil {
		return Summary{}
	}
	return p.kb.Summary
}

// DiseaseTrends returns the disease trends aggregation.
func (p *Provider) DiseaseTrends() DiseaseTrends {
	if p.kb == nil {
		return DiseaseTrends{}
	}
	return p.kb.Analytics.DiseaseTrends
}

// DoctorWorkload returns the doctor workload aggregation.
func (p *Provider) DoctorWorkload() DoctorWorkload {
	if p.kb == nil {
		return DoctorWorkload{}
	}
	return p.kb.Analytics.DoctorWorkload
}

// Geographic returns the geographic distribution aggregation.
func (p *Provider) Geographic() Geographic {
	if p.kb == nil {
		return Geographic{}
	}
	return p.kb.Analytics.Geographic
}

// FormatContext renders the knowledge base as the fixed-header context
// document. Headers are emitted even when their section is sparse, so the
// extractor sees a stable document shape.
func (p *Provider) FormatContext() string {
	if p.kb == nil {
		return "Knowledge base is empty or not loaded."
	}

	var b strings.Builder

	b.WriteString("=== ANALYTICS SUMMARY ===\n")
	s := p.kb.Summary
	fmt.Fprintf(&b, "Total Patients: %d\n", s.TotalPatients)
	fmt.Fprintf(&b, "Total Doctors: %d\n", s.TotalDoctors)
	fmt.Fprintf(&b, "Total Branches: %d\n", s.TotalBranches)
	fmt.Fprintf(&b, "Total Diseases Recorded: %d\n", s.TotalDiseasesRecorded)
	if len(s.KeyInsights) > 0 {
		b.WriteString("\nKey Insights:\n")
		for _, insight := range s.KeyInsights {
			fmt.Fprintf(&b, "  - %s\n", insight)
		}
	}

	b.WriteString("\n=== DISEASE TRENDS ===\n")
	dt := p.kb.Analytics.DiseaseTrends
	fmt.Fprintf(&b, "Interpretation: %s\n", dt.Interpretation)
	if len(dt.TopDiseases) > 0 {
		b.WriteString("\nTop 10 Diseases:\n")
		for _, d := range dt.TopDiseases {
			fmt.Fprintf(&b, "  %d. %s: %d cases (%.2f%%)\n", d.Rank, d.Name, d.CaseCount, d.Percentage)
		}
	}

	b.WriteString("\n=== DOCTOR WORKLOAD ===\n")
	dw := p.kb.Analytics.DoctorWorkload
	fmt.Fprintf(&b, "Interpretation: %s\n", dw.Interpretation)
	if len(dw.TopDoctors) > 0 {
		b.WriteString("\nTop 10 Busiest Doctors:\n")
		for _, d := range dw.TopDoctors {
			fmt.Fprintf(&b, "  %d. Dr. %s (%s): %d patients\n", d.Rank, d.Name, d.Specialty, d.PatientCount)
		}
	}

	b.WriteString("\n=== GEOGRAPHIC DISTRIBUTION ===\n")
	geo := p.kb.Analytics.Geographic
	fmt.Fprintf(&b, "Interpretation: %s\n", geo.Interpretation)
	if len(geo.TopAreas) > 0 {
		b.WriteString("\nTop 10 Areas:\n")
		for _, a := range geo.TopAreas {
			fmt.Fprintf(&b, "  %d. %s: %d patients (%.2f%%)\n", a.Rank, a.Name, a.PatientCount, a.Percentage)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
