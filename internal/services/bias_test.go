package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"evalyn/hr-agent/internal/models"
)

func TestMaskPersonalData(t *testing.T) {
	cv := `John Smith
Email: john.smith@example.com
Phone: +1 (555) 123-4567
LinkedIn: https://linkedin.com/in/johnsmith
Gender: Male
Age: 34
Marital Status: Married
Nationality: Canadian

Mr. Smith has 8 years of Go experience. John led a platform team.`

	masked := MaskPersonalData(cv, "John Smith")

	for _, leaked := range []string{
		"John", "Smith", "john.smith@example.com", "555",
		"linkedin.com", "Male", "Married", "Canadian", "Mr.",
	} {
		if strings.Contains(masked, leaked) {
			t.Errorf("masked CV still contains %q:\n%s", leaked, masked)
		}
	}

	for _, kept := range []string{"8 years of Go experience", "[CANDIDATE]", "[EMAIL REDACTED]"} {
		if !strings.Contains(masked, kept) {
			t.Errorf("masked CV missing %q:\n%s", kept, masked)
		}
	}
}

func TestMaskPersonalData_ShortNamePartsSurvive(t *testing.T) {
	cv := "Jo Yu built an A/B testing framework in Go."
	masked := MaskPersonalData(cv, "Jo Yu")

	// Two-letter name parts are too ambiguous to mask word by word, but the
	// full name is still replaced.
	if strings.Contains(masked, "Jo Yu") {
		t.Errorf("full name survived masking: %s", masked)
	}
	if !strings.Contains(masked, "Go") {
		t.Errorf("language name was over-masked: %s", masked)
	}
}

func TestClassifyBias(t *testing.T) {
	tests := []struct {
		delta float64
		want  string
	}{
		{0, "negligible"},
		{2.9, "negligible"},
		{-5, "low"},
		{8, "moderate"},
		{-15, "high"},
	}

	for _, tt := range tests {
		severity, interpretation := classifyBias(tt.delta)
		if severity != tt.want {
			t.Errorf("classifyBias(%v) = %q, want %q", tt.delta, severity, tt.want)
		}
		if interpretation == "" {
			t.Errorf("classifyBias(%v) returned empty interpretation", tt.delta)
		}
	}
}

func TestBiasCheck(t *testing.T) {
	job := testJob()
	app := testApplication(job.ID, "John Smith", "john@example.com", time.Now())
	app.CVText = "John Smith, Gender: Male. 8 years of Go."

	// The fake scores the full text at 85 and anything else (the masked
	// variant) at 75, a 10-point drift.
	scorer := &scoreByMatch{fullText: app.CVText, fullScore: 85, otherScore: 75}
	svc := NewBiasService(scorer)

	report, err := svc.Check(context.Background(), app, job)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}

	if report.OriginalScore != 85 || report.BlindScore != 75 {
		t.Errorf("scores = %v/%v, want 85/75", report.OriginalScore, report.BlindScore)
	}
	if report.Delta != 10 {
		t.Errorf("Delta = %v, want 10", report.Delta)
	}
	if report.Severity != "moderate" {
		t.Errorf("Severity = %q, want moderate", report.Severity)
	}
}

func TestBiasCheck_RequiresCVText(t *testing.T) {
	job := testJob()
	app := testApplication(job.ID, "John Smith", "john@example.com", time.Now())

	svc := NewBiasService(&fakeScorer{})
	if _, err := svc.Check(context.Background(), app, job); err == nil {
		t.Error("Check() succeeded without CV text")
	}
}

type scoreByMatch struct {
	fullText   string
	fullScore  float64
	otherScore float64
}

func (s *scoreByMatch) Score(ctx context.Context, cvText string, job *models.Job) models.ScreeningAnnotation {
	score := s.otherScore
	if cvText == s.fullText {
		score = s.fullScore
	}
	return models.ScreeningAnnotation{Score: score, SkillsMatched: []string{}}
}
