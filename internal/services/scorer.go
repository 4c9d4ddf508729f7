package services

import (
	"context"
	"encoding/json"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"evalyn/hr-agent/internal/models"
)

// parseFallbackScore is assigned when the model answers but the answer cannot
// be parsed at all. Neutral middle of the partial-match band: the candidate
// stays out of the shortlist without being buried at the bottom.
const parseFallbackScore = 50

// ScorerService produces a 0-100 match score plus rationale for one
// candidate. It never returns an error: provider failures degrade to a zero
// score so one bad CV cannot abort a screening batch.
type ScorerService interface {
	Score(ctx context.Context, cvText string, job *models.Job) models.ScreeningAnnotation
}

type scorerService struct {
	gemini        GeminiService
	promptBuilder *PromptBuilder
	maxAttempts   int
	baseDelay     time.Duration
	sleep         func(time.Duration)
}

func NewScorerService(gemini GeminiService, maxAttempts int, baseDelay time.Duration) ScorerService {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &scorerService{
		gemini:        gemini,
		promptBuilder: NewPromptBuilder(),
		maxAttempts:   maxAttempts,
		baseDelay:     baseDelay,
		sleep:         time.Sleep,
	}
}

func (s *scorerService) Score(ctx context.Context, cvText string, job *models.Job) models.ScreeningAnnotation {
	if strings.TrimSpace(cvText) == "" {
		return models.ScreeningAnnotation{
			Score:         0,
			Summary:       "Could not read CV content",
			Weaknesses:    "No CV content available",
			SkillsMatched: []string{},
		}
	}

	prompt := s.promptBuilder.BuildScreeningPrompt(cvText, job)

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		response, err := s.gemini.GenerateText(ctx, prompt, 0.3)
		if err == nil {
			return s.parseAnnotation(response)
		}

		if !isRateLimited(err) {
			log.Printf("❌ AI analysis error: %v", err)
			return models.ScreeningAnnotation{
				Score:         0,
				Summary:       "Error during AI analysis: " + truncate(err.Error(), 200),
				SkillsMatched: []string{},
			}
		}

		if attempt == s.maxAttempts {
			break
		}

		wait := s.baseDelay * time.Duration(attempt)
		log.Printf("⚠️  Rate limited. Waiting %s... (attempt %d/%d)", wait, attempt, s.maxAttempts)
		s.sleep(wait)
	}

	return models.ScreeningAnnotation{
		Score:         0,
		Summary:       "Rate limit exceeded after retries",
		SkillsMatched: []string{},
	}
}

var scorePattern = regexp.MustCompile(`"score"\s*:\s*(\d+(?:\.\d+)?)`)

func (s *scorerService) parseAnnotation(response string) models.ScreeningAnnotation {
	jsonStr := extractJSON(response)

	var ann models.ScreeningAnnotation
	if err := json.Unmarshal([]byte(jsonStr), &ann); err == nil {
		ann.Score = clampScore(ann.Score)
		if ann.SkillsMatched == nil {
			ann.SkillsMatched = []string{}
		}
		return ann
	}

	// Salvage a numeric score from an otherwise unparseable response.
	if m := scorePattern.FindStringSubmatch(response); m != nil {
		score, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			log.Printf("⚠️  Recovered score %.0f from unparseable model response", score)
			return models.ScreeningAnnotation{
				Score:         clampScore(score),
				Summary:       "Score recovered from a malformed model response",
				SkillsMatched: []string{},
			}
		}
	}

	log.Printf("⚠️  Model response could not be parsed, assigning neutral score")
	return models.ScreeningAnnotation{
		Score:         parseFallbackScore,
		Summary:       "Model response could not be parsed; assigned neutral score",
		SkillsMatched: []string{},
	}
}

// isRateLimited classifies provider errors that are worth retrying. The
// Gemini API surfaces quota exhaustion as HTTP 429 with "quota" wording.
func isRateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "resource exhausted")
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// extractJSON strips markdown code fences and slices out the first JSON
// object or array. LLMs wrap JSON in fences despite instructions not to.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	if startObj != -1 && endObj != -1 && endObj > startObj {
		if startArr == -1 || startObj < startArr {
			return text[startObj : endObj+1]
		}
	}
	if startArr != -1 && endArr != -1 && endArr > startArr {
		return text[startArr : endArr+1]
	}

	return text
}
