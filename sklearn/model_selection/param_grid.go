package model_selection

import "sort"

// ParamGrid maps hyperparameter names to their candidate values.
type ParamGrid map[string][]interface{}

// Combinations expands the grid into every parameter combination, iterating
// parameter names in sorted order so the expansion is deterministic.
func (g ParamGrid) Combinations() []map[string]interface{} {
	if len(g) == 0 {
		return []map[string]interface{}{{}}
	}

	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)

	combos := []map[string]interface{}{{}}
	for _, name := range names {
		values := g[name]
		next := make([]map[string]interface{}, 0, len(combos)*len(values))
		for _, combo := range combos {
			for _, value := range values {
				expanded := make(map[string]interface{}, len(combo)+1)
				for k, v := range combo {
					expanded[k] = v
				}
				expanded[name] = value
				next = append(next, expanded)
			}
		}
		combos = next
	}

	return combos
}

// Size returns the number of combinations in the grid.
func (g ParamGrid) Size() int {
	size := 1
	for _, values := range g {
		size *= len(values)
	}
	return size
}
