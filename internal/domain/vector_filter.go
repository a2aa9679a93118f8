package domain

// VectorFilter - конъюнкция точных совпадений по строковым полям payload.
// Пустое поле не участвует в фильтре.
type VectorFilter struct {
	OwnerID       string
	CategoryGroup CategoryGroup
	Category      string
	Color         string
	Occasion      string
	Season        string
}

// FilterCondition - одно условие равенства.
type FilterCondition struct {
	Field string
	Value string
}

// Conditions возвращает непустые условия в фиксированном порядке.
func (f VectorFilter) Conditions() []FilterCondition {
	candidates := []FilterCondition{
		{Field: PayloadUserID, Value: f.OwnerID},
		{Field: PayloadCategoryGroup, Value: string(f.CategoryGroup)},
		{Field: PayloadCategory, Value: f.Category},
		{Field: AttrColor, Value: f.Color},
		{Field: AttrOccasion, Value: f.Occasion},
		{Field: AttrSeason, Value: f.Season},
	}

	res := make([]FilterCondition, 0, len(candidates))
	for _, c := range candidates {
		if c.Value != "" {
			res = append(res, c)
		}
	}
	return res
}

// Matches проверяет payload на соответствие фильтру.
func (f VectorFilter) Matches(p Payload) bool {
	for _, c := range f.Conditions() {
		if p.String(c.Field) != c.Value {
			return false
		}
	}
	return true
}
