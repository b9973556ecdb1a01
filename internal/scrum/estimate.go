package scrum

import (
	"strings"
	"time"

	"github.com/gumruyanzh/xavier/internal/model"
	"github.com/gumruyanzh/xavier/internal/xerrors"
)

// technicalTermWeights scores title/description matches toward the
// complexity score, per spec §4.3's auto-estimation algorithm.
var technicalTermWeights = map[string]float64{
	"auth": 4, "authentication": 4, "authorization": 4,
	"api": 2, "rest": 2, "graphql": 3,
	"database": 3, "migration": 4, "migrations": 4,
	"caching": 3, "cache": 2,
	"integration": 4, "webhook": 3,
	"async": 3, "concurrency": 4, "queue": 3,
	"ui": 2, "frontend": 2, "component": 1,
	"security": 4, "encryption": 4,
}

// nonFunctionalTerms add extra weight for non-functional requirements
// that are typically underestimated.
var nonFunctionalTerms = map[string]float64{
	"performance": 5, "scale": 5, "scalability": 5, "compliance": 6,
}

// crudTerms detect CRUD breadth: each distinct operation mentioned adds
// weight, since a story touching all four is broader than one touching
// one.
var crudTerms = map[string]string{
	"create": "C", "add": "C", "insert": "C",
	"read": "R", "list": "R", "view": "R", "get": "R",
	"update": "U", "edit": "U", "modify": "U",
	"delete": "D", "remove": "D", "archive": "D",
}

// EstimateStory sets a story's points, either explicitly (when points > 0)
// or via auto-estimation of a complexity score (when points == 0).
func (m *Manager) EstimateStory(storyID string, points int) (model.Story, error) {
	st, err := m.store.GetStory(storyID)
	if err != nil {
		return model.Story{}, err
	}
	if points != 0 {
		if !model.IsValidStoryPoints(points) {
			return model.Story{}, xerrors.Validation("story: %d is not a valid Fibonacci point value", points)
		}
		st.StoryPoints = points
	} else {
		st.StoryPoints = model.NearestFibonacci(complexityScore(st))
	}
	st.UpdatedAt = time.Now().UTC()
	if err := m.store.PutStory(st); err != nil {
		return model.Story{}, err
	}
	return st, nil
}

// ReestimateStory clears and recomputes a story's auto-estimate,
// overriding any prior manual assignment — an expansion op beyond the
// base spec.
func (m *Manager) ReestimateStory(storyID string) (model.Story, error) {
	return m.EstimateStory(storyID, 0)
}

// complexityScore computes the weighted score S described in spec §4.3.
func complexityScore(st model.Story) float64 {
	text := strings.ToLower(st.Title + " " + st.Want + " " + st.Benefit)

	var score float64
	for term, weight := range technicalTermWeights {
		if strings.Contains(text, term) {
			score += weight
		}
	}
	for term, weight := range nonFunctionalTerms {
		if strings.Contains(text, term) {
			score += weight
		}
	}

	crud := map[string]bool{}
	for term, op := range crudTerms {
		if strings.Contains(text, term) {
			crud[op] = true
		}
	}
	score += float64(len(crud)) * 1.5

	if len(st.AcceptanceCriteria) >= 6 {
		score += 4
	} else {
		score += float64(len(st.AcceptanceCriteria))
	}

	return score
}
