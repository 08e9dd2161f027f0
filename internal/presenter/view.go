package presenter

import (
	"math"
	"strconv"
	"strings"

	"github.com/raflytch/resume-analyzer/internal/domain"

	"github.com/tidwall/gjson"
)

const (
	NotAvailable   = "N/A"
	ChartSkillsMax = 8
)

type PersonalDetails struct {
	Name     string      `json:"name"`
	Phone    string      `json:"phone"`
	Location string      `json:"location"`
	Email    string      `json:"email"`
	GitHub   *GitHubLink `json:"github,omitempty"`
}

type SkillsScores struct {
	SoftSkills float64 `json:"soft_skills_score"`
	HardSkills float64 `json:"hard_skills_score"`
}

type ScoreBreakdown struct {
	Formatting float64 `json:"formatting_score"`
	Experience float64 `json:"experience_score"`
	Skills     float64 `json:"skills_score"`
	Education  float64 `json:"education_score"`
}

type Project struct {
	Name        string   `json:"name"`
	Link        string   `json:"link"`
	Description string   `json:"description"`
	Tech        []string `json:"tech"`
}

type SWOT struct {
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
}

type Skill struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence_score"`
}

// View is an analysis result with every optional field resolved to a value.
// Scores default to 0, text to "N/A" and sequences to empty slices.
type View struct {
	Score           float64         `json:"score"`
	PersonalDetails PersonalDetails `json:"personal_details"`
	SkillsScores    SkillsScores    `json:"skills_scores"`
	ScoreBreakdown  ScoreBreakdown  `json:"score_breakdown"`
	Projects        []Project       `json:"github_projects"`
	SWOT            SWOT            `json:"swot_analysis"`
	Skills          []Skill         `json:"skills"`
}

// ChartSkills returns the skills plotted on the confidence chart.
func (v View) ChartSkills() []Skill {
	if len(v.Skills) <= ChartSkillsMax {
		return v.Skills
	}
	return v.Skills[:ChartSkillsMax]
}

func Decode(result *domain.AnalysisResult) View {
	var feedback gjson.Result
	if raw := result.Raw(); len(raw) > 0 {
		feedback = gjson.GetBytes(raw, "feedback")
	}

	details := feedback.Get("personal_details")
	view := View{
		Score: number(feedback.Get("score")),
		PersonalDetails: PersonalDetails{
			Name:     text(details.Get("name")),
			Phone:    text(details.Get("phone")),
			Location: text(details.Get("location")),
			Email:    text(details.Get("email")),
		},
		SkillsScores: SkillsScores{
			SoftSkills: number(feedback.Get("skills_scores.soft_skills_score")),
			HardSkills: number(feedback.Get("skills_scores.hard_skills_score")),
		},
		ScoreBreakdown: ScoreBreakdown{
			Formatting: number(feedback.Get("score_breakdown.formatting_score")),
			Experience: number(feedback.Get("score_breakdown.experience_score")),
			Skills:     number(feedback.Get("score_breakdown.skills_score")),
			Education:  number(feedback.Get("score_breakdown.education_score")),
		},
		SWOT: SWOT{
			Strengths:     texts(feedback.Get("swot_analysis.strengths")),
			Weaknesses:    texts(feedback.Get("swot_analysis.weaknesses")),
			Opportunities: texts(feedback.Get("swot_analysis.opportunities")),
			Threats:       texts(feedback.Get("swot_analysis.threats")),
		},
		Projects: []Project{},
		Skills:   []Skill{},
	}

	if github := details.Get("github"); github.Type == gjson.String {
		if link, ok := ParseGitHub(github.Str); ok {
			view.PersonalDetails.GitHub = &link
		}
	}

	for _, item := range list(feedback.Get("github_projects")) {
		if !item.IsObject() {
			continue
		}
		view.Projects = append(view.Projects, Project{
			Name:        text(item.Get("name")),
			Link:        strings.TrimSpace(item.Get("link").String()),
			Description: text(item.Get("description")),
			Tech:        texts(item.Get("tech")),
		})
	}

	for _, item := range list(feedback.Get("skills")) {
		switch {
		case item.IsObject():
			view.Skills = append(view.Skills, Skill{
				Name:       text(item.Get("name")),
				Confidence: number(item.Get("confidence_score")),
			})
		case item.Type == gjson.String && strings.TrimSpace(item.Str) != "":
			view.Skills = append(view.Skills, Skill{Name: strings.TrimSpace(item.Str)})
		}
	}

	return view
}

func text(r gjson.Result) string {
	switch r.Type {
	case gjson.String:
		if s := strings.TrimSpace(r.Str); s != "" {
			return s
		}
	case gjson.Number:
		return r.Raw
	}
	return NotAvailable
}

func number(r gjson.Result) float64 {
	switch r.Type {
	case gjson.Number:
		return r.Num
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f
		}
	}
	return 0
}

func list(r gjson.Result) []gjson.Result {
	if !r.IsArray() {
		return nil
	}
	return r.Array()
}

func texts(r gjson.Result) []string {
	out := []string{}
	for _, item := range list(r) {
		if item.Type != gjson.String {
			continue
		}
		if s := strings.TrimSpace(item.Str); s != "" {
			out = append(out, s)
		}
	}
	return out
}
