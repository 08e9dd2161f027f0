package presenter

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/raflytch/resume-analyzer/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullResult = `{
  "feedback": {
    "score": 82,
    "personal_details": {
      "name": "Jane Doe",
      "phone": "+1 555 0100",
      "location": "Berlin",
      "email": "jane@example.com",
      "github": "github.com/janedoe"
    },
    "skills_scores": {"soft_skills_score": 70, "hard_skills_score": "85.5"},
    "score_breakdown": {"formatting_score": 90, "experience_score": 60, "skills_score": 75, "education_score": 80},
    "github_projects": [
      {"name": "dotfiles", "link": "https://github.com/janedoe/dotfiles", "description": "My setup", "tech": ["shell", "lua"]},
      {"link": "https://github.com/janedoe/empty"}
    ],
    "swot_analysis": {
      "strengths": ["Go"],
      "weaknesses": [],
      "opportunities": ["Cloud"],
      "threats": ["Competition"]
    },
    "skills": [
      {"name": "Go", "confidence_score": 90},
      "Docker",
      {"name": "SQL"}
    ]
  }
}`

func decode(t *testing.T, doc string) View {
	t.Helper()
	result, err := domain.NewAnalysisResult([]byte(doc))
	require.NoError(t, err)
	return Decode(result)
}

func TestDecode_FullDocument(t *testing.T) {
	view := decode(t, fullResult)

	assert.Equal(t, 82.0, view.Score)
	assert.Equal(t, "Jane Doe", view.PersonalDetails.Name)
	assert.Equal(t, "jane@example.com", view.PersonalDetails.Email)
	require.NotNil(t, view.PersonalDetails.GitHub)
	assert.Equal(t, "janedoe", view.PersonalDetails.GitHub.Username)
	assert.Equal(t, "https://github.com/janedoe", view.PersonalDetails.GitHub.URL)

	assert.Equal(t, 70.0, view.SkillsScores.SoftSkills)
	assert.Equal(t, 85.5, view.SkillsScores.HardSkills)
	assert.Equal(t, ScoreBreakdown{Formatting: 90, Experience: 60, Skills: 75, Education: 80}, view.ScoreBreakdown)

	require.Len(t, view.Projects, 2)
	assert.Equal(t, Project{
		Name:        "dotfiles",
		Link:        "https://github.com/janedoe/dotfiles",
		Description: "My setup",
		Tech:        []string{"shell", "lua"},
	}, view.Projects[0])
	assert.Equal(t, Project{
		Name:        NotAvailable,
		Link:        "https://github.com/janedoe/empty",
		Description: NotAvailable,
		Tech:        []string{},
	}, view.Projects[1])

	assert.Equal(t, []string{"Go"}, view.SWOT.Strengths)
	assert.Empty(t, view.SWOT.Weaknesses)
	assert.NotNil(t, view.SWOT.Weaknesses)

	assert.Equal(t, []Skill{
		{Name: "Go", Confidence: 90},
		{Name: "Docker"},
		{Name: "SQL"},
	}, view.Skills)
}

func TestDecode_DefaultsForEmptyDocuments(t *testing.T) {
	docs := map[string]string{
		"empty object":     `{}`,
		"empty feedback":   `{"feedback":{}}`,
		"feedback is null": `{"feedback":null}`,
		"not an object":    `[1,2,3]`,
		"wrong types":      `{"feedback":{"score":true,"personal_details":"x","skills":{},"github_projects":"none","swot_analysis":[]}}`,
	}

	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			assertDefaults(t, decode(t, doc))
		})
	}

	t.Run("nil result", func(t *testing.T) {
		assertDefaults(t, Decode(nil))
	})
}

func assertDefaults(t *testing.T, view View) {
	t.Helper()
	assert.Zero(t, view.Score)
	assert.Equal(t, NotAvailable, view.PersonalDetails.Name)
	assert.Equal(t, NotAvailable, view.PersonalDetails.Phone)
	assert.Equal(t, NotAvailable, view.PersonalDetails.Location)
	assert.Equal(t, NotAvailable, view.PersonalDetails.Email)
	assert.Nil(t, view.PersonalDetails.GitHub)
	assert.Zero(t, view.SkillsScores)
	assert.Zero(t, view.ScoreBreakdown)
	assert.Equal(t, []Project{}, view.Projects)
	assert.Equal(t, []Skill{}, view.Skills)
	assert.Equal(t, []string{}, view.SWOT.Strengths)
	assert.Equal(t, []string{}, view.SWOT.Weaknesses)
	assert.Equal(t, []string{}, view.SWOT.Opportunities)
	assert.Equal(t, []string{}, view.SWOT.Threats)
}

func TestDecode_BlankTextFallsBack(t *testing.T) {
	view := decode(t, `{"feedback":{"personal_details":{"name":"   ","phone":5550100,"github":""}}}`)

	assert.Equal(t, NotAvailable, view.PersonalDetails.Name)
	assert.Equal(t, "5550100", view.PersonalDetails.Phone)
	assert.Nil(t, view.PersonalDetails.GitHub)
}

func TestDecode_EncodesEmptyListsAsArrays(t *testing.T) {
	data, err := json.Marshal(decode(t, `{}`))
	require.NoError(t, err)

	assert.Contains(t, string(data), `"github_projects":[]`)
	assert.Contains(t, string(data), `"skills":[]`)
	assert.Contains(t, string(data), `"strengths":[]`)
	assert.NotContains(t, string(data), "null")
}

func TestView_ChartSkills(t *testing.T) {
	view := decode(t, `{"feedback":{"skills":["a","b","c","d","e","f","g","h","i","j"]}}`)

	chart := view.ChartSkills()
	require.Len(t, chart, ChartSkillsMax)
	assert.Equal(t, "a", chart[0].Name)
	assert.Equal(t, "h", chart[7].Name)
	assert.Len(t, view.Skills, 10)

	short := decode(t, `{"feedback":{"skills":["a"]}}`)
	assert.Len(t, short.ChartSkills(), 1)
}

func TestParseGitHub(t *testing.T) {
	tests := []struct {
		raw      string
		username string
		url      string
	}{
		{raw: "github.com/alice", username: "alice", url: "https://github.com/alice"},
		{raw: "https://github.com/alice", username: "alice", url: "https://github.com/alice"},
		{raw: "https://github.com/alice/", username: "alice", url: "https://github.com/alice/"},
		{raw: "http://github.com/alice", username: "alice", url: "http://github.com/alice"},
		{raw: "alice", username: "alice", url: "https://alice"},
		{raw: "github.com", username: "github.com", url: "https://github.com"},
		{raw: "github.com/", username: "github.com/", url: "https://github.com/"},
		{raw: "  github.com/bob  ", username: "bob", url: "https://github.com/bob"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			link, ok := ParseGitHub(tt.raw)
			require.True(t, ok)
			assert.Equal(t, tt.username, link.Username)
			assert.Equal(t, tt.url, link.URL)
		})
	}
}

func TestParseGitHub_Blank(t *testing.T) {
	for _, raw := range []string{"", "   "} {
		link, ok := ParseGitHub(raw)
		assert.False(t, ok)
		assert.Zero(t, link)
	}
}

func TestRenderPDF(t *testing.T) {
	for name, view := range map[string]View{
		"full":      decode(t, fullResult),
		"defaults":  Decode(nil),
		"non-latin": decode(t, `{"feedback":{"personal_details":{"name":"Zoë Ærøskøbing"},"score":101.5}}`),
	} {
		t.Run(name, func(t *testing.T) {
			data, err := RenderPDF(view)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
		})
	}
}
