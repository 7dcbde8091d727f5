package services

import (
	"encoding/json"
	"strings"

	"github.com/brightpath-edu/tutor-portal/internal/models"
)

// DeriveCorrectAnswer computes a question's denormalized answer encoding from
// its per-type sub-structure. The function is pure and idempotent; empty
// options and incomplete pairs are filtered out before serializing.
//
//   - mcq: comma-joined texts of the options marked correct, in position order
//   - short_answer: the expected answer string as stored on the question
//   - drag_drop: JSON array of the complete item/target pairs
func DeriveCorrectAnswer(q *models.Question) string {
	switch q.Type {
	case models.QuestionMCQ:
		correct := q.CorrectOptions()
		texts := make([]string, 0, len(correct))
		for _, opt := range correct {
			texts = append(texts, strings.TrimSpace(opt.Text))
		}
		return strings.Join(texts, ",")

	case models.QuestionShortAnswer:
		return strings.TrimSpace(q.CorrectAnswer)

	case models.QuestionDragDrop:
		pairs := q.CompletePairs()
		encoded := make([]correctPair, 0, len(pairs))
		for _, p := range pairs {
			encoded = append(encoded, correctPair{
				ItemText:   strings.TrimSpace(p.ItemText),
				TargetText: strings.TrimSpace(p.TargetText),
			})
		}
		data, err := json.Marshal(encoded)
		if err != nil {
			return "[]"
		}
		return string(data)
	}

	return ""
}

type correctPair struct {
	ItemText   string `json:"item_text"`
	TargetText string `json:"target_text"`
}
