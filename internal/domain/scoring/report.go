package scoring

import "github.com/okian/riskgauge/internal/domain/model"

// CategoryResult is the score of one category.
type CategoryResult struct {
	Key    string
	Name   string
	Weight float64
	Score  Score
}

// Result holds every derived score for a snapshot.
type Result struct {
	Overall    Score
	Categories []CategoryResult
}

// Evaluate scores every category and the overall snapshot.
func Evaluate(cats model.Categories) Result {
	res := Result{
		Overall:    OverallScore(cats),
		Categories: make([]CategoryResult, 0, len(cats)),
	}
	for _, c := range cats {
		res.Categories = append(res.Categories, CategoryResult{
			Key:    c.Key,
			Name:   c.Name,
			Weight: c.Weight,
			Score:  CategoryScore(c),
		})
	}
	return res
}

// Category returns the result for key.
func (r Result) Category(key string) (CategoryResult, bool) {
	for _, c := range r.Categories {
		if c.Key == key {
			return c, true
		}
	}
	return CategoryResult{}, false
}
