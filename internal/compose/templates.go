// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compose

import (
	"html/template"
	"strings"

	"github.com/hanguk-labs/local-guide/internal/knowledge"
	"github.com/hanguk-labs/local-guide/pkg/types"
)

// Response types, checked in priority order by classify: a query naming a
// district beats its food words, food beats general cultural words.
const (
	responseNeighborhood = "neighborhood_specific"
	responseFood         = "food_recommendation"
	responseCultural     = "cultural_experience"
	responseGeneral      = "general_recommendation"
)

var foodWords = []string{
	"eat", "food", "restaurant", "hungry", "meal", "dinner", "lunch",
	"breakfast", "snack", "bbq", "noodle", "street food",
}

var culturalWords = []string{
	"culture", "cultural", "traditional", "temple", "palace", "museum",
	"history", "heritage", "experience", "hanbok",
}

// classify picks the template family for a query.
func classify(query string) string {
	q := strings.ToLower(query)
	if knowledge.NeighborhoodFocus(q) != "" {
		return responseNeighborhood
	}
	for _, w := range foodWords {
		if strings.Contains(q, w) {
			return responseFood
		}
	}
	for _, w := range culturalWords {
		if strings.Contains(q, w) {
			return responseCultural
		}
	}
	return responseGeneral
}

// templateData is the shared payload for every response template.
type templateData struct {
	Greeting        string
	Query           string
	Recommendations []types.Recommendation
	Facts           []string
	Neighborhood    string
	Insights        *types.NeighborhoodInsights
}

var responseTemplates = template.Must(template.New("responses").Funcs(template.FuncMap{
	"title": knowledge.Title,
}).Parse(`
{{define "header"}}<div class="local-guide-response">
<p>{{.Greeting}}</p>{{end}}

{{define "recommendations"}}{{if .Recommendations}}
<ul>
{{range .Recommendations}}<li><strong>{{.Name}}</strong>{{if .Category}} ({{.Category}}){{end}}{{if and .Neighborhood (ne .Neighborhood "unknown")}} — {{title .Neighborhood}}{{end}}{{if .Context}}: {{.Context}}{{end}}</li>
{{end}}</ul>
{{else}}
<p>I could not find specific matches right now — try rephrasing, or ask me about a neighborhood like Hongdae or Insadong.</p>
{{end}}{{end}}

{{define "facts"}}{{if .Facts}}
<h4>Good to know</h4>
<ul>
{{range .Facts}}<li>{{.}}</li>
{{end}}</ul>
{{end}}{{end}}

{{define "footer"}}</div>{{end}}

{{define "general_recommendation"}}{{template "header" .}}
<h3>Here is what I would recommend</h3>
{{template "recommendations" .}}{{template "facts" .}}{{template "footer" .}}{{end}}

{{define "food_recommendation"}}{{template "header" .}}
<h3>Where to eat</h3>
<p>Korean dining is meant to be shared, so bring company if you can.</p>
{{template "recommendations" .}}{{template "facts" .}}{{template "footer" .}}{{end}}

{{define "cultural_experience"}}{{template "header" .}}
<h3>Cultural experiences worth your time</h3>
{{template "recommendations" .}}{{template "facts" .}}{{template "footer" .}}{{end}}

{{define "neighborhood_specific"}}{{template "header" .}}
<h3>Exploring {{title .Neighborhood}}</h3>
{{if .Insights}}<p>{{.Insights.Character}}</p>
{{if .Insights.BestFor}}<p>Best for: {{range $i, $b := .Insights.BestFor}}{{if $i}}, {{end}}{{$b}}{{end}}.</p>{{end}}
{{end}}{{template "recommendations" .}}{{template "facts" .}}{{template "footer" .}}{{end}}
`))

// renderTemplate writes the non-generative response for a query.
func (c *Composer) renderTemplate(query string, recs []types.Recommendation, facts []string) string {
	kind := classify(query)

	data := templateData{
		Greeting:        knowledge.Greeting,
		Query:           query,
		Recommendations: recs,
		Facts:           facts,
	}
	if kind == responseNeighborhood {
		data.Neighborhood = knowledge.NeighborhoodFocus(strings.ToLower(query))
		if insights, ok := knowledge.Insights(data.Neighborhood); ok {
			data.Insights = &insights
		}
	}

	var b strings.Builder
	if err := responseTemplates.ExecuteTemplate(&b, kind, data); err != nil {
		c.log.Error().Err(err).Str("template", kind).Msg("template rendering failed")
		return emergencyResponse()
	}
	return strings.TrimSpace(b.String())
}

// emergencyResponse is the last line of defense: a fixed set of safe
// recommendations that needs no data at all.
func emergencyResponse() string {
	return `<div class="local-guide-response">
<p>` + knowledge.Greeting + `</p>
<p>I am having trouble reaching my sources right now, but you cannot go wrong with these Seoul classics:</p>
<ul>
<li><strong>Gyeongbokgung Palace</strong>: the main Joseon royal palace, with a daily changing of the guard.</li>
<li><strong>Hongdae Street Food</strong>: tteokbokki and hotteok stalls in the university quarter.</li>
<li><strong>Insadong Traditional Tea House</strong>: a quiet cup of omija tea on the traditional arts street.</li>
</ul>
</div>`
}

// EmergencyRecommendations is the matching record set for the emergency
// response, used when the whole pipeline fails.
func EmergencyRecommendations() []types.Recommendation {
	return []types.Recommendation{
		{
			ID:           "emergency:gyeongbokgung_palace",
			Name:         "Gyeongbokgung Palace",
			Kind:         types.KindPlace,
			Category:     "attraction",
			Location:     &types.LatLng{Lat: 37.5796, Lng: 126.9770},
			Context:      "Main royal palace of the Joseon dynasty",
			Source:       types.SourceFallback,
			Rating:       4.5,
			Neighborhood: "seoul",

			CulturalRelevance: 0.9,
			AuthenticityScore: 0.9,
		},
		{
			ID:           "emergency:hongdae_street_food",
			Name:         "Hongdae Street Food",
			Kind:         types.KindPlace,
			Category:     "restaurant",
			Location:     &types.LatLng{Lat: 37.5552, Lng: 126.9238},
			Context:      "Street food stalls in the university quarter",
			Source:       types.SourceFallback,
			Rating:       4.2,
			Neighborhood: "hongdae",

			CulturalRelevance: 0.7,
			AuthenticityScore: 0.7,
		},
		{
			ID:           "emergency:insadong_tea_house",
			Name:         "Insadong Traditional Tea House",
			Kind:         types.KindCulturalExperience,
			Category:     "cafe",
			Location:     &types.LatLng{Lat: 37.5744, Lng: 126.9856},
			Context:      "Traditional tea culture on the arts street",
			Source:       types.SourceFallback,
			Rating:       4.4,
			Neighborhood: "insadong",

			CulturalRelevance: 0.8,
			AuthenticityScore: 0.9,
		},
	}
}

// EmergencyResponse exposes the fixed response for the orchestrator's
// outermost failure path.
func EmergencyResponse() string { return emergencyResponse() }
