package services

import (
	"strings"
	"testing"
)

func TestBuildScreeningPrompt(t *testing.T) {
	pb := NewPromptBuilder()
	job := testJob()

	prompt := pb.BuildScreeningPrompt("ten years of Go", job)

	for _, want := range []string{job.Title, job.Requirements, "ten years of Go", `"score"`} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	// Blank optional fields render as a placeholder, not emptiness.
	if !strings.Contains(prompt, "Not specified") {
		t.Error("prompt missing placeholder for unset responsibilities")
	}
}

func TestBuildScreeningPrompt_TruncatesLongCVs(t *testing.T) {
	pb := NewPromptBuilder()

	longCV := strings.Repeat("x", cvTruncateLimit+500)
	prompt := pb.BuildScreeningPrompt(longCV, testJob())

	if strings.Contains(prompt, strings.Repeat("x", cvTruncateLimit+1)) {
		t.Errorf("CV text not truncated to %d characters", cvTruncateLimit)
	}
	if !strings.Contains(prompt, strings.Repeat("x", cvTruncateLimit)) {
		t.Error("truncation removed too much CV text")
	}
}

func TestBuildSkillGapFeedbackPrompt(t *testing.T) {
	pb := NewPromptBuilder()

	prompt := pb.BuildSkillGapFeedbackPrompt("Jane", []string{"go", "sql"}, nil, 67)

	if !strings.Contains(prompt, "go, sql") {
		t.Error("prompt missing matched skills")
	}
	if !strings.Contains(prompt, "missing: none") {
		t.Error("empty missing list should render as none")
	}
	if !strings.Contains(prompt, "67%") {
		t.Error("prompt missing match percentage")
	}
}
