package services

import (
	"fmt"
	"strings"

	"evalyn/hr-agent/internal/models"
)

// cvTruncateLimit keeps the candidate text inside the model's context window.
const cvTruncateLimit = 8000

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildScreeningPrompt creates the CV screening prompt for one candidate.
func (pb *PromptBuilder) BuildScreeningPrompt(cvText string, job *models.Job) string {
	return fmt.Sprintf(`You are an expert HR recruiter AI. Analyze this candidate's CV against the job requirements and provide a detailed assessment.

JOB DETAILS:
Title: %s
Department: %s
Experience Required: %d-%d years
Level: %s

JOB DESCRIPTION:
%s

REQUIREMENTS:
%s

RESPONSIBILITIES:
%s

---

CANDIDATE CV:
%s

---

Analyze the candidate and provide a comprehensive evaluation:

1. MATCH SCORE (0-100): Calculate how well this candidate matches the job requirements. Be objective and precise.
   - 90-100: Exceptional match, exceeds all requirements
   - 75-89: Strong match, meets or exceeds most requirements
   - 60-74: Good match, meets basic requirements with some gaps
   - 40-59: Partial match, has some relevant skills but significant gaps
   - 0-39: Poor match, lacks key requirements

2. SUMMARY: A brief 2-3 sentence summary of the candidate's profile and overall fit

3. STRENGTHS: Key matching qualifications and skills (provide as bullet points, be specific)

4. WEAKNESSES/GAPS: What's missing or concerning (provide as bullet points, be specific)

5. SKILLS MATCHED: List of specific technical skills, tools, or qualifications from the job requirements that the candidate has

Respond in this exact JSON format (no markdown, just pure JSON):
{
    "score": <number 0-100>,
    "summary": "<summary text>",
    "strengths": "<bullet points of strengths>",
    "weaknesses": "<bullet points of weaknesses/gaps>",
    "skills_matched": ["skill1", "skill2", "skill3"]
}

Be objective, thorough, and fair in your assessment. Focus on technical skills, experience level, and relevant background.`,
		job.Title,
		orNotSpecified(job.Department),
		job.MinExperienceYears, job.MaxExperienceYears,
		orNotSpecified(job.ExperienceLevel),
		job.Description,
		job.Requirements,
		orNotSpecified(job.Responsibilities),
		truncate(cvText, cvTruncateLimit),
	)
}

// BuildSkillExtractionPrompt asks for the distinct technical skills a job
// requires as a flat JSON array.
func (pb *PromptBuilder) BuildSkillExtractionPrompt(job *models.Job) string {
	return fmt.Sprintf(`You are a technical recruiter. Extract the distinct technical skills, tools, and qualifications required by this job posting.

JOB TITLE: %s

REQUIREMENTS:
%s

DESCRIPTION:
%s

Respond with ONLY a JSON array of short skill names, lowercase, no duplicates. Example:
["python", "postgresql", "docker"]`,
		job.Title,
		job.Requirements,
		truncate(job.Description, 3000),
	)
}

// BuildSkillGapFeedbackPrompt asks for a short candidate-facing paragraph
// about their skill gaps.
func (pb *PromptBuilder) BuildSkillGapFeedbackPrompt(candidateName string, matched, missing []string, matchPercent float64) string {
	return fmt.Sprintf(`You are an encouraging HR advisor. Write a short feedback paragraph (3-4 sentences) for a job candidate about their skill fit.

Candidate: %s
Skill match: %.0f%%
Skills they have: %s
Skills they are missing: %s

Be constructive and specific. Mention one or two of the missing skills worth learning. Return ONLY the paragraph, no JSON, no headings.`,
		candidateName,
		matchPercent,
		joinOrNone(matched),
		joinOrNone(missing),
	)
}

func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Not specified"
	}
	return s
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
