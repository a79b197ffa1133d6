package report

import (
	"fmt"
	"strings"

	"github.com/BrooklynCarly/kindroot/internal/content"
)

// Section headings. The hypotheses heading is the reader-facing framing of
// the ranked hypothesis list.
const (
	headingDemographics  = "Demographic Information"
	headingTriage        = "Safety & Triage Summary"
	headingHypotheses    = "Top 3 Potential Root Causes"
	headingInterventions = "Recommended Interventions"
	headingResources     = "Local Resources"
	headingBehavioral    = "Behavioral Providers"
	headingSpeech        = "Speech Providers"
	headingNotes         = "Additional Notes"
)

// Build assembles the content model for one report: a deterministic,
// index-free node sequence ordered intro, patient info, triage, hypotheses,
// interventions, resources, notes. Absent fields are elided entirely; no
// placeholder text is ever emitted.
func Build(data ReportData, layout Layout) ([]content.Node, error) {
	b := &builder{}

	b.intro()
	b.demographics(data.Patient)
	b.triage(data.TriageSummary)
	b.hypotheses(data.Hypotheses, layout.MaxHypotheses)
	if err := b.interventions(data.Interventions, layout.MaxInterventions); err != nil {
		return nil, err
	}
	b.resources(data, layout.MaxProvidersPerCategory)
	b.notes(data.Notes)

	return b.nodes, nil
}

type builder struct {
	nodes []content.Node
}

func (b *builder) para(text string) {
	b.nodes = append(b.nodes, content.Paragraph{Text: text})
}

func (b *builder) h(level int, text string) {
	b.nodes = append(b.nodes, content.Heading{Level: level, Text: text})
}

func (b *builder) link(label, url string) {
	b.nodes = append(b.nodes, content.Link{Label: label, URL: url})
}

// paraIf emits "label: value" only when the value is present.
func (b *builder) paraIf(label, value string) {
	if value == "" {
		return
	}
	b.para(label + ": " + value)
}

func (b *builder) intro() {
	b.para("Welcome to KindRoot, we're glad you found us. We're hoping this is your start to feeling supported along the evolving journey of helping your kiddo experience their best self possible.")
	b.h(2, "What this is—and isn't")
	b.para("This report shares general information to help parents and caregivers learn about autism spectrum disorder (ASD) and find resources. It is not medical advice, a diagnosis, or a treatment plan.")
	b.h(2, "What to know")
	b.para("Every child with ASD is unique. What helps one child may not fit another.")
	b.para("")
	b.para("You'll see ideas from reputable clinical sources and from families who've been there. Use these insights to prepare for conversations with your child's clinician.")
	b.para("")
}

func (b *builder) demographics(p Patient) {
	b.h(1, headingDemographics)
	b.paraIf("Date Submitted", p.DateSubmitted)
	b.paraIf("Parent Name", p.ParentName)
	b.paraIf("Email", p.Email)
	b.paraIf("Zipcode", p.Zipcode)
	b.paraIf("Child's Age", p.Age)
	b.paraIf("Sex", p.Sex)
	b.paraIf("Diagnosis Status", p.DiagnosisStatus)
	b.para("")
}

func (b *builder) triage(summary string) {
	if summary == "" {
		return
	}
	b.h(1, headingTriage)
	b.nodes = append(b.nodes, content.FromMarkdown([]byte(summary))...)
	b.para("")
}

func (b *builder) hypotheses(hyps []Hypothesis, limit int) {
	b.h(1, headingHypotheses)
	if len(hyps) == 0 {
		b.para("No hypotheses available")
		b.para("")
		return
	}
	if len(hyps) > limit {
		hyps = hyps[:limit]
	}
	for i, hyp := range hyps {
		b.h(3, fmt.Sprintf("%d. %s", i+1, hyp.Name))
		b.paraIf("Rationale", hyp.Rationale)
		b.bullets("Talking points", hyp.TalkingPoints)
		b.bullets("Recommended tests", hyp.RecommendedTests)
		b.para("")
	}
}

func (b *builder) bullets(label string, items []string) {
	if len(items) == 0 {
		return
	}
	b.para(label + ":")
	for _, item := range items {
		b.para("• " + item)
	}
}

// interventions renders each recommended approach as a heading plus a 6x2
// label/content table. Cells are populated in a later phase; here the table
// is pure structure with a correlation key.
func (b *builder) interventions(items []Intervention, limit int) error {
	if len(items) == 0 {
		return nil
	}
	if len(items) > limit {
		items = items[:limit]
	}
	b.h(1, headingInterventions)
	for i, item := range items {
		b.h(3, fmt.Sprintf("%d. %s", i+1, item.Name))
		table, err := content.NewTable(fmt.Sprintf("intervention/%d", i+1), [][]content.Cell{
			{content.LabelCell("Intervention"), content.TextCell(item.Name)},
			{content.LabelCell("Why This May Help"), content.TextCell(item.Rationale)},
			{content.LabelCell("What Others Have Done"), content.TextCell(strings.Join(item.OthersHaveDone, "\n"))},
			{content.LabelCell("What Families Tracked"), content.TextCell(strings.Join(item.FamiliesTracked, "\n"))},
			{content.LabelCell("Common Decision Points"), content.TextCell(strings.Join(item.DecisionPoints, "\n"))},
			{content.LabelCell("Considerations"), content.TextCell(strings.Join(item.Considerations, "\n"))},
		})
		if err != nil {
			return err
		}
		b.nodes = append(b.nodes, table)
		b.para("")
	}
	return nil
}

func (b *builder) resources(data ReportData, limit int) {
	if len(data.Behavioral) == 0 && len(data.Speech) == 0 {
		return
	}
	b.nodes = append(b.nodes, content.PageBreak{})
	b.h(1, headingResources)
	b.providers(headingBehavioral, data.Behavioral, limit)
	b.providers(headingSpeech, data.Speech, limit)
}

func (b *builder) providers(heading string, providers []Provider, limit int) {
	if len(providers) == 0 {
		return
	}
	if len(providers) > limit {
		providers = providers[:limit]
	}
	b.h(2, heading)
	for i, p := range providers {
		b.h(3, fmt.Sprintf("%d. %s", i+1, p.Name))
		if p.Rating != nil {
			rating := fmt.Sprintf("Rating: %.1f/5.0", *p.Rating)
			if p.ReviewCount > 0 {
				rating += fmt.Sprintf(" (%d reviews)", p.ReviewCount)
			}
			b.para(rating)
		}
		if p.DistanceMiles != nil {
			b.para(fmt.Sprintf("Distance: %.1f miles", *p.DistanceMiles))
		}
		b.paraIf("Address", p.Address)
		b.paraIf("Phone", p.Phone)
		if p.Website != "" {
			b.link("Website", p.Website)
		}
		if len(p.Specialties) > 0 {
			b.para("Specialties: " + strings.Join(p.Specialties, ", "))
		}
		b.para("")
	}
}

func (b *builder) notes(notes string) {
	if notes == "" {
		return
	}
	b.h(2, headingNotes)
	b.nodes = append(b.nodes, content.FromMarkdown([]byte(notes))...)
}
