package recipe

import (
	"fmt"
	"sort"
)

// CommonIngredients 彙整所有食譜的食材名稱（小寫、去重、排序）
func CommonIngredients(c Collection) ([]string, error) {
	seen := make(map[string]struct{})
	for i, r := range c {
		items, err := r.Ingredients()
		if err != nil {
			return nil, fmt.Errorf("recipe %d: %w", i, err)
		}
		for _, ing := range items {
			seen[Lower(ing.Name)] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
