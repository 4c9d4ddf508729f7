package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"regexp"
	"strings"

	"evalyn/hr-agent/internal/models"
)

// SkillGapService compares a job's required skills with what the candidate's
// CV shows and produces a candidate-facing gap report.
type SkillGapService interface {
	Analyze(ctx context.Context, app *models.Application, job *models.Job) (*models.SkillGapReport, error)
}

type skillGapService struct {
	gemini        GeminiService
	promptBuilder *PromptBuilder
}

func NewSkillGapService(gemini GeminiService) SkillGapService {
	return &skillGapService{
		gemini:        gemini,
		promptBuilder: NewPromptBuilder(),
	}
}

func (s *skillGapService) Analyze(ctx context.Context, app *models.Application, job *models.Job) (*models.SkillGapReport, error) {
	if strings.TrimSpace(app.CVText) == "" {
		return nil, fmt.Errorf("application has no extracted CV text")
	}

	required := s.extractJobSkills(ctx, job)
	if len(required) == 0 {
		return nil, fmt.Errorf("no required skills could be derived from the job posting")
	}

	matched, missing := matchSkills(required, app.CVText)

	percent := 0.0
	if len(required) > 0 {
		percent = math.Round(float64(len(matched)) / float64(len(required)) * 100)
	}

	report := &models.SkillGapReport{
		ApplicationID: app.ID.String(),
		Matched:       matched,
		Missing:       missing,
		MatchPercent:  percent,
	}

	// Feedback is a nicety: skip it rather than fail the report.
	prompt := s.promptBuilder.BuildSkillGapFeedbackPrompt(app.FullName, matched, missing, percent)
	if feedback, err := s.gemini.GenerateText(ctx, prompt, 0.5); err == nil {
		report.Feedback = strings.TrimSpace(feedback)
	} else {
		log.Printf("⚠️  Skill gap feedback generation failed: %v", err)
		report.Feedback = fmt.Sprintf("You match %d of %d required skills (%.0f%%).",
			len(matched), len(required), percent)
	}

	return report, nil
}

// extractJobSkills asks the model for the job's skill list and falls back to
// splitting the requirements text when the model is unavailable.
func (s *skillGapService) extractJobSkills(ctx context.Context, job *models.Job) []string {
	prompt := s.promptBuilder.BuildSkillExtractionPrompt(job)

	response, err := s.gemini.GenerateText(ctx, prompt, 0.2)
	if err == nil {
		var skills []string
		if jsonErr := json.Unmarshal([]byte(extractJSON(response)), &skills); jsonErr == nil && len(skills) > 0 {
			return normalizeSkills(skills)
		}
	} else {
		log.Printf("⚠️  Skill extraction failed, falling back to text split: %v", err)
	}

	return fallbackSkillSplit(job.Requirements)
}

var skillSplitPattern = regexp.MustCompile(`[,;\n•·\-]+`)

// fallbackSkillSplit derives a crude skill list from free-text requirements.
func fallbackSkillSplit(requirements string) []string {
	parts := skillSplitPattern.Split(requirements, -1)

	var skills []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || len(p) > 40 {
			continue
		}
		skills = append(skills, p)
	}
	return normalizeSkills(skills)
}

func normalizeSkills(skills []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// skillAliases maps canonical skill names to the spellings CVs actually use.
var skillAliases = map[string][]string{
	"javascript": {"js", "ecmascript"},
	"python":     {"py"},
	"postgresql": {"postgres", "psql"},
	"kubernetes": {"k8s"},
	"docker":     {"containerization"},
	"aws":        {"amazon web services"},
	"gcp":        {"google cloud platform", "google cloud"},
	"azure":      {"microsoft azure"},
	"go":         {"golang"},
}

// matchSkills splits the required list into skills found in the CV text and
// skills absent from it. Matching is case-insensitive on word boundaries,
// with the alias table covering common alternate spellings.
func matchSkills(required []string, cvText string) (matched, missing []string) {
	matched = []string{}
	missing = []string{}

	for _, skill := range required {
		if skillInText(skill, cvText) {
			matched = append(matched, skill)
			continue
		}

		found := false
		for canonical, aliases := range skillAliases {
			if !aliasGroupContains(canonical, aliases, skill) {
				continue
			}
			for _, variant := range append([]string{canonical}, aliases...) {
				if variant != skill && skillInText(variant, cvText) {
					found = true
					break
				}
			}
			break
		}

		if found {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}
	return matched, missing
}

func aliasGroupContains(canonical string, aliases []string, skill string) bool {
	if skill == canonical {
		return true
	}
	for _, a := range aliases {
		if skill == a {
			return true
		}
	}
	return false
}

func skillInText(skill, text string) bool {
	pattern, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(skill) + `\b`)
	if err != nil {
		return strings.Contains(strings.ToLower(text), strings.ToLower(skill))
	}
	return pattern.MatchString(text)
}
