package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReportData is the validated upstream payload a report is assembled from.
// Business semantics are the upstream pipeline's concern; this engine only
// cares that string fields are present-or-absent and lists are iterable.
type ReportData struct {
	Patient       Patient        `json:"patient"`
	TriageSummary string         `json:"triage_summary,omitempty"`
	Hypotheses    []Hypothesis   `json:"hypotheses,omitempty"`
	Interventions []Intervention `json:"interventions,omitempty"`
	Behavioral    []Provider     `json:"behavioral_providers,omitempty"`
	Speech        []Provider     `json:"speech_providers,omitempty"`

	// Notes is a free-form markdown narrative appended at the end.
	Notes string `json:"notes,omitempty"`
}

// Patient carries report metadata. Every field is optional; absent fields
// are elided from the document rather than rendered as placeholders.
type Patient struct {
	ParentName      string `json:"parent_name,omitempty"`
	Email           string `json:"email,omitempty"`
	DateSubmitted   string `json:"date_submitted,omitempty"`
	Zipcode         string `json:"zipcode,omitempty"`
	Age             string `json:"patient_age,omitempty"`
	Sex             string `json:"patient_sex,omitempty"`
	DiagnosisStatus string `json:"diagnosis_status,omitempty"`
}

// Hypothesis is one ranked root-cause hypothesis.
type Hypothesis struct {
	Name             string   `json:"name"`
	Rationale        string   `json:"rationale,omitempty"`
	TalkingPoints    []string `json:"talking_points,omitempty"`
	RecommendedTests []string `json:"recommended_tests,omitempty"`
}

// Intervention is one recommended approach with its evidence lists. The
// list fields become the rows of the intervention's table.
type Intervention struct {
	Name            string   `json:"intervention_name"`
	Rationale       string   `json:"why_this_may_help,omitempty"`
	OthersHaveDone  []string `json:"what_others_have_done,omitempty"`
	FamiliesTracked []string `json:"what_families_tracked,omitempty"`
	DecisionPoints  []string `json:"common_decision_points,omitempty"`
	Considerations  []string `json:"considerations,omitempty"`
}

// Provider is one local provider listing.
type Provider struct {
	Name          string   `json:"name"`
	Rating        *float64 `json:"rating,omitempty"`
	ReviewCount   int      `json:"review_count,omitempty"`
	DistanceMiles *float64 `json:"distance_miles,omitempty"`
	Address       string   `json:"address,omitempty"`
	Phone         string   `json:"phone,omitempty"`
	Website       string   `json:"website,omitempty"`
	Specialties   []string `json:"specialties,omitempty"`
}

// Read decodes report data from JSON.
func Read(r io.Reader) (ReportData, error) {
	// Unknown fields pass through untouched; upstream owns the payload's
	// business semantics.
	var data ReportData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return ReportData{}, fmt.Errorf("decode report data: %w", err)
	}
	return data, nil
}

// ReadFile decodes report data from a JSON file.
func ReadFile(path string) (ReportData, error) {
	f, err := os.Open(path)
	if err != nil {
		return ReportData{}, fmt.Errorf("open report data: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Title builds the document title, eliding absent fields instead of
// substituting placeholders.
func Title(data ReportData) string {
	parts := []string{"Informational Report"}
	if data.Patient.ParentName != "" {
		parts = append(parts, data.Patient.ParentName)
	}
	if data.Patient.DateSubmitted != "" {
		parts = append(parts, data.Patient.DateSubmitted)
	}
	return strings.Join(parts, " - ")
}
