package advisor

import (
	"context"
	"strings"

	"github.com/vansh-khaneja/WearWhat-backend/internal/domain"
	"github.com/vansh-khaneja/WearWhat-backend/internal/usecase"
)

var coldWords = []string{"cold", "winter", "rain", "snow", "autumn", "chilly", "evening"}

// RuleAdvisor - замена LLM, когда ключ OpenAI не задан: верх, низ и обувь,
// плюс верхняя одежда для холодной погоды и один аксессуар.
type RuleAdvisor struct{}

func NewRuleAdvisor() *RuleAdvisor {
	return &RuleAdvisor{}
}

func (RuleAdvisor) SelectCategories(_ context.Context, req *usecase.AdviceReq) (*usecase.AdviceRes, error) {
	groups := []domain.CategoryGroup{domain.UpperWear, domain.BottomWear, domain.Footwear}
	if containsAny(strings.ToLower(req.Prompt), coldWords) {
		groups = append(groups, domain.OuterWear)
	}
	groups = append(groups, domain.Accessories)

	var categories []string
	for _, g := range groups {
		if available := req.Available[g]; len(available) > 0 {
			categories = append(categories, available[0])
		}
	}

	if len(categories) == 0 {
		// только otherItems
		categories = append(categories, req.Available[domain.OtherItems]...)
	}

	return &usecase.AdviceRes{
		Categories: categories,
		Reasoning:  "Basic outfit assembled from the main clothing groups in the wardrobe.",
	}, nil
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
