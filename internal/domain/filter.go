package domain

// FilterTasks keeps the tasks whose assignee is one of people and whose space
// is one of spaces. Assignees are compared with NormalizeName; spaces are
// compared exactly. Order is preserved.
func FilterTasks(tasks []Task, people, spaces []string) []Task {
	allowedPeople := NormalizedSet(people)
	allowedSpaces := make(map[string]struct{}, len(spaces))
	for _, s := range spaces {
		allowedSpaces[s] = struct{}{}
	}

	result := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if _, ok := allowedPeople[NormalizeName(t.Assignee)]; !ok {
			continue
		}
		if _, ok := allowedSpaces[t.Space]; !ok {
			continue
		}
		result = append(result, t)
	}
	return result
}
