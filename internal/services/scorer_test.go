package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestScorer(gemini *fakeGemini, maxAttempts int, baseDelay time.Duration, slept *[]time.Duration) *scorerService {
	return &scorerService{
		gemini:        gemini,
		promptBuilder: NewPromptBuilder(),
		maxAttempts:   maxAttempts,
		baseDelay:     baseDelay,
		sleep: func(d time.Duration) {
			if slept != nil {
				*slept = append(*slept, d)
			}
		},
	}
}

func TestScore_EmptyCVSkipsProvider(t *testing.T) {
	gemini := &fakeGemini{}
	scorer := newTestScorer(gemini, 3, time.Second, nil)

	ann := scorer.Score(context.Background(), "   \n ", testJob())

	if ann.Score != 0 {
		t.Errorf("Score = %v, want 0", ann.Score)
	}
	if ann.Summary != "Could not read CV content" {
		t.Errorf("Summary = %q", ann.Summary)
	}
	if gemini.calls != 0 {
		t.Errorf("provider called %d times for empty CV, want 0", gemini.calls)
	}
}

func TestScore_ParsesFencedResponse(t *testing.T) {
	tests := []struct {
		name      string
		response  string
		wantScore float64
	}{
		{
			name:      "plain JSON",
			response:  `{"score": 85, "summary": "strong", "strengths": "Go", "weaknesses": "none", "skills_matched": ["go"]}`,
			wantScore: 85,
		},
		{
			name:      "markdown fenced",
			response:  "```json\n{\"score\": 72, \"summary\": \"ok\", \"skills_matched\": []}\n```",
			wantScore: 72,
		},
		{
			name:      "prose around the object",
			response:  "Here is my assessment:\n{\"score\": 91, \"summary\": \"excellent\"}\nHope this helps!",
			wantScore: 91,
		},
		{
			name:      "score above range is clamped",
			response:  `{"score": 130, "summary": "overflow"}`,
			wantScore: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gemini := &fakeGemini{responses: []string{tt.response}}
			scorer := newTestScorer(gemini, 3, time.Second, nil)

			ann := scorer.Score(context.Background(), "some cv text", testJob())

			if ann.Score != tt.wantScore {
				t.Errorf("Score = %v, want %v", ann.Score, tt.wantScore)
			}
			if ann.SkillsMatched == nil {
				t.Error("SkillsMatched is nil, want empty slice")
			}
		})
	}
}

func TestScore_SalvagesScoreFromBrokenJSON(t *testing.T) {
	gemini := &fakeGemini{responses: []string{`The candidate rates "score": 67.5 overall but {broken`}}
	scorer := newTestScorer(gemini, 3, time.Second, nil)

	ann := scorer.Score(context.Background(), "cv", testJob())

	if ann.Score != 67.5 {
		t.Errorf("Score = %v, want 67.5", ann.Score)
	}
}

func TestScore_UnparseableFallsBackToNeutral(t *testing.T) {
	gemini := &fakeGemini{responses: []string{"I cannot evaluate this candidate."}}
	scorer := newTestScorer(gemini, 3, time.Second, nil)

	ann := scorer.Score(context.Background(), "cv", testJob())

	if ann.Score != parseFallbackScore {
		t.Errorf("Score = %v, want %v", ann.Score, float64(parseFallbackScore))
	}
}

func TestScore_RetriesRateLimitWithLinearBackoff(t *testing.T) {
	rateErr := errors.New("googleapi: Error 429: quota exceeded")
	gemini := &fakeGemini{
		errs:      []error{rateErr, rateErr, nil},
		responses: []string{"", "", `{"score": 80, "summary": "good"}`},
	}

	var slept []time.Duration
	scorer := newTestScorer(gemini, 3, 2*time.Second, &slept)

	ann := scorer.Score(context.Background(), "cv", testJob())

	if ann.Score != 80 {
		t.Errorf("Score = %v, want 80", ann.Score)
	}
	if gemini.calls != 3 {
		t.Errorf("provider called %d times, want 3", gemini.calls)
	}
	want := []time.Duration{2 * time.Second, 4 * time.Second}
	if len(slept) != len(want) {
		t.Fatalf("slept %d times, want %d", len(slept), len(want))
	}
	for i := range want {
		if slept[i] != want[i] {
			t.Errorf("backoff[%d] = %s, want %s", i, slept[i], want[i])
		}
	}
}

func TestScore_RateLimitExhaustedScoresZero(t *testing.T) {
	rateErr := errors.New("RESOURCE EXHAUSTED: rate limit")
	gemini := &fakeGemini{errs: []error{rateErr, rateErr, rateErr}}

	var slept []time.Duration
	scorer := newTestScorer(gemini, 3, time.Second, &slept)

	ann := scorer.Score(context.Background(), "cv", testJob())

	if ann.Score != 0 {
		t.Errorf("Score = %v, want 0", ann.Score)
	}
	if !strings.Contains(ann.Summary, "Rate limit exceeded") {
		t.Errorf("Summary = %q", ann.Summary)
	}
	// No sleep after the final attempt.
	if len(slept) != 2 {
		t.Errorf("slept %d times, want 2", len(slept))
	}
}

func TestScore_NonRetryableErrorFailsFast(t *testing.T) {
	gemini := &fakeGemini{errs: []error{errors.New("invalid API key")}}
	scorer := newTestScorer(gemini, 3, time.Second, nil)

	ann := scorer.Score(context.Background(), "cv", testJob())

	if ann.Score != 0 {
		t.Errorf("Score = %v, want 0", ann.Score)
	}
	if gemini.calls != 1 {
		t.Errorf("provider called %d times, want 1 (no retry)", gemini.calls)
	}
	if !strings.Contains(ann.Summary, "Error during AI analysis") {
		t.Errorf("Summary = %q", ann.Summary)
	}
}

func TestIsRateLimited(t *testing.T) {
	tests := []struct {
		err  string
		want bool
	}{
		{"Error 429: too many requests", true},
		{"quota exceeded for project", true},
		{"Rate Limit hit", true},
		{"RESOURCE EXHAUSTED", true},
		{"connection refused", false},
		{"invalid API key", false},
	}

	for _, tt := range tests {
		if got := isRateLimited(errors.New(tt.err)); got != tt.want {
			t.Errorf("isRateLimited(%q) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "fenced object",
			input: "```json\n{\"a\": 1}\n```",
			want:  `{"a": 1}`,
		},
		{
			name:  "array response",
			input: "Skills:\n[\"go\", \"sql\"]\ndone",
			want:  `["go", "sql"]`,
		},
		{
			name:  "object before array wins",
			input: `{"skills": ["go"]}`,
			want:  `{"skills": ["go"]}`,
		},
		{
			name:  "no JSON returns input",
			input: "nothing here",
			want:  "nothing here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := strings.TrimSpace(extractJSON(tt.input)); got != tt.want {
				t.Errorf("extractJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}
