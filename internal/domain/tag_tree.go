package domain

import (
	"encoding/json"
	"slices"
	"sort"
)

// TagTree индексирует вещи пользователя по схеме группа -> категория -> id вещей.
// Пустые категории и группы удаляются сразу, в дереве не бывает пустых веток.
type TagTree struct {
	groups map[CategoryGroup]map[string][]string
}

func NewTagTree() *TagTree {
	return &TagTree{groups: make(map[CategoryGroup]map[string][]string)}
}

// Add добавляет вещь в категорию. Повторное добавление ничего не меняет.
func (t *TagTree) Add(group CategoryGroup, category, itemID string) {
	if t.groups == nil {
		t.groups = make(map[CategoryGroup]map[string][]string)
	}

	categories, ok := t.groups[group]
	if !ok {
		categories = make(map[string][]string)
		t.groups[group] = categories
	}

	if slices.Contains(categories[category], itemID) {
		return
	}
	categories[category] = append(categories[category], itemID)
}

// Remove удаляет вещь из категории и подчищает опустевшие уровни.
// Возвращает false, если вещи там не было.
func (t *TagTree) Remove(group CategoryGroup, category, itemID string) bool {
	categories, ok := t.groups[group]
	if !ok {
		return false
	}

	ids := categories[category]
	idx := slices.Index(ids, itemID)
	if idx < 0 {
		return false
	}

	ids = slices.Delete(ids, idx, idx+1)
	if len(ids) == 0 {
		delete(categories, category)
	} else {
		categories[category] = ids
	}

	if len(categories) == 0 {
		delete(t.groups, group)
	}
	return true
}

// RemoveEverywhere удаляет вещь из всех категорий, где она встречается.
func (t *TagTree) RemoveEverywhere(itemID string) bool {
	removed := false
	for group, categories := range t.groups {
		for category := range categories {
			if t.Remove(group, category, itemID) {
				removed = true
			}
		}
	}
	return removed
}

// ItemIDs возвращает копию списка вещей категории.
func (t *TagTree) ItemIDs(group CategoryGroup, category string) []string {
	return slices.Clone(t.groups[group][category])
}

// Categories возвращает отсортированные категории по каждой непустой группе.
func (t *TagTree) Categories() map[CategoryGroup][]string {
	res := make(map[CategoryGroup][]string, len(t.groups))
	for group, categories := range t.groups {
		names := make([]string, 0, len(categories))
		for name := range categories {
			names = append(names, name)
		}
		sort.Strings(names)
		res[group] = names
	}
	return res
}

// FindCategory ищет группу, в которой есть категория с таким названием.
func (t *TagTree) FindCategory(category string) (CategoryGroup, bool) {
	for _, group := range categoryGroups {
		if _, ok := t.groups[group][category]; ok {
			return group, true
		}
	}
	return "", false
}

func (t *TagTree) IsEmpty() bool {
	return len(t.groups) == 0
}

func (t *TagTree) MarshalJSON() ([]byte, error) {
	if t.groups == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(t.groups)
}

func (t *TagTree) UnmarshalJSON(data []byte) error {
	var raw map[CategoryGroup]map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	t.groups = make(map[CategoryGroup]map[string][]string, len(raw))
	for group, categories := range raw {
		for category, ids := range categories {
			for _, id := range ids {
				t.Add(group, category, id)
			}
		}
	}
	return nil
}
