package services

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"

	"evalyn/hr-agent/internal/models"
)

// BiasService re-scores a candidate on a PII-masked copy of their CV and
// reports how far the blind score drifts from the full-CV score.
type BiasService interface {
	Check(ctx context.Context, app *models.Application, job *models.Job) (*models.BiasReport, error)
}

type biasService struct {
	scorer ScorerService
}

func NewBiasService(scorer ScorerService) BiasService {
	return &biasService{scorer: scorer}
}

func (b *biasService) Check(ctx context.Context, app *models.Application, job *models.Job) (*models.BiasReport, error) {
	if strings.TrimSpace(app.CVText) == "" {
		return nil, fmt.Errorf("application has no extracted CV text")
	}

	full := b.scorer.Score(ctx, app.CVText, job)
	blind := b.scorer.Score(ctx, MaskPersonalData(app.CVText, app.FullName), job)

	delta := full.Score - blind.Score
	severity, interpretation := classifyBias(delta)

	return &models.BiasReport{
		ApplicationID:  app.ID.String(),
		OriginalScore:  full.Score,
		BlindScore:     blind.Score,
		Delta:          delta,
		Severity:       severity,
		Interpretation: interpretation,
	}, nil
}

func classifyBias(delta float64) (severity, interpretation string) {
	switch abs := math.Abs(delta); {
	case abs < 3:
		return "negligible", "Very minimal difference between blind and full evaluation. No significant bias detected."
	case abs < 7:
		return "low", "Small difference detected, likely normal variation in evaluation."
	case abs < 12:
		return "moderate", "Moderate bias detected. Personal information may have influenced scoring."
	default:
		return "high", "Significant bias detected. Strong influence from personal data; prefer the blind score."
	}
}

var (
	emailPattern   = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phonePattern   = regexp.MustCompile(`\+?\d[\d\s().\-]{7,}\d`)
	urlPattern     = regexp.MustCompile(`https?://\S+`)
	nameLinePat    = regexp.MustCompile(`(?i)\b(full name|name)\s*:\s*[^\n]+`)
	genderLinePat  = regexp.MustCompile(`(?i)\b(gender|sex)\s*:\s*[^\n]+`)
	honorificPat   = regexp.MustCompile(`\b(Mr\.|Mrs\.|Ms\.|Miss)\s+`)
	ageLinePat     = regexp.MustCompile(`(?i)\b(age|dob|date of birth|born)\s*:\s*[^\n]+`)
	agedPat        = regexp.MustCompile(`(?i)\b(aged|age)\s+\d+`)
	maritalPat     = regexp.MustCompile(`(?i)\b(marital status|married|single|divorced)\s*:?\s*[^\n]*`)
	nationalityPat = regexp.MustCompile(`(?i)\b(nationality|ethnicity|race)\s*:\s*[^\n]+`)
	blankRunPat    = regexp.MustCompile(`\n\s*\n\s*\n`)
)

// MaskPersonalData strips the personal identifiers a blind evaluation must
// not see: the candidate's name, contact details, and demographic lines.
func MaskPersonalData(cvText, candidateName string) string {
	masked := cvText

	// Contact details go first: masking the name earlier would mangle the
	// address the email pattern is looking for.
	masked = emailPattern.ReplaceAllString(masked, "[EMAIL REDACTED]")
	masked = phonePattern.ReplaceAllString(masked, "[PHONE REDACTED]")
	masked = urlPattern.ReplaceAllString(masked, "[URL REDACTED]")
	masked = nameLinePat.ReplaceAllString(masked, "Name: [CANDIDATE]")
	masked = genderLinePat.ReplaceAllString(masked, "[REDACTED]")
	masked = honorificPat.ReplaceAllString(masked, "")
	masked = ageLinePat.ReplaceAllString(masked, "[AGE REDACTED]")
	masked = agedPat.ReplaceAllString(masked, "[AGE REDACTED]")
	masked = maritalPat.ReplaceAllString(masked, "[REDACTED]")
	masked = nationalityPat.ReplaceAllString(masked, "[REDACTED]")

	if candidateName != "" {
		namePat, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(candidateName))
		if err == nil {
			masked = namePat.ReplaceAllString(masked, "[CANDIDATE]")
		}
		// First and last name can appear on their own too. Short parts are
		// skipped so common two-letter words survive.
		for _, part := range strings.Fields(candidateName) {
			if len(part) <= 2 {
				continue
			}
			partPat, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(part) + `\b`)
			if err == nil {
				masked = partPat.ReplaceAllString(masked, "[CANDIDATE]")
			}
		}
	}

	masked = blankRunPat.ReplaceAllString(masked, "\n\n")
	return strings.TrimSpace(masked)
}
