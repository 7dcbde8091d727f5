package models

import "strings"

func trimmed(s string) string {
	return strings.TrimSpace(s)
}

// CorrectOptions returns the non-empty options flagged correct, in position order.
func (q *Question) CorrectOptions() []QuestionOption {
	var out []QuestionOption
	for _, opt := range q.Options {
		if opt.IsCorrect && trimmed(opt.Text) != "" {
			out = append(out, opt)
		}
	}
	return out
}

// CompletePairs returns the drag-drop pairs with both sides filled in.
func (q *Question) CompletePairs() []DragDropPair {
	var out []DragDropPair
	for _, p := range q.Pairs {
		if p.IsComplete() {
			out = append(out, p)
		}
	}
	return out
}
