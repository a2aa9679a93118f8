package domain

import "strings"

// CategoryGroup - крупная группа одежды, по которой разбивается пространство поиска.
type CategoryGroup string

const (
	UpperWear   CategoryGroup = "upperWear"
	BottomWear  CategoryGroup = "bottomWear"
	OuterWear   CategoryGroup = "outerWear"
	Footwear    CategoryGroup = "footwear"
	Accessories CategoryGroup = "accessories"
	OtherItems  CategoryGroup = "otherItems"
)

var categoryGroups = []CategoryGroup{UpperWear, BottomWear, OuterWear, Footwear, Accessories, OtherItems}

// complementGroups задаёт, какими группами дополняется вещь из исходной группы (порядок важен).
// otherItems не дополняется ничем.
var complementGroups = map[CategoryGroup][]CategoryGroup{
	UpperWear:   {BottomWear, Footwear, Accessories, OuterWear},
	BottomWear:  {UpperWear, Footwear, Accessories, OuterWear},
	OuterWear:   {UpperWear, BottomWear, Footwear, Accessories},
	Footwear:    {UpperWear, BottomWear, Accessories, OuterWear},
	Accessories: {UpperWear, BottomWear, Footwear, OuterWear},
}

func (g CategoryGroup) String() string {
	return string(g)
}

// Valid сообщает, входит ли группа в фиксированный перечень.
func (g CategoryGroup) Valid() bool {
	for _, known := range categoryGroups {
		if g == known {
			return true
		}
	}
	return false
}

// ParseCategoryGroup сопоставляет строку с группой без учёта регистра.
func ParseCategoryGroup(s string) (CategoryGroup, bool) {
	s = strings.TrimSpace(s)
	for _, g := range categoryGroups {
		if strings.EqualFold(s, string(g)) {
			return g, true
		}
	}
	return "", false
}

// AllCategoryGroups возвращает копию перечня групп.
func AllCategoryGroups() []CategoryGroup {
	return append([]CategoryGroup(nil), categoryGroups...)
}

// ComplementsOf возвращает копию списка групп-дополнений. Для неизвестной группы - пустой список.
func ComplementsOf(g CategoryGroup) []CategoryGroup {
	complements, ok := complementGroups[g]
	if !ok {
		return []CategoryGroup{}
	}
	return append([]CategoryGroup(nil), complements...)
}
