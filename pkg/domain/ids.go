package domain

// NextGroupID returns one more than the highest group id, or 1 if there are none.
func NextGroupID(groups []Group) int {
	max := 0
	for _, g := range groups {
		if g.ID > max {
			max = g.ID
		}
	}
	return max + 1
}

// NextItemID returns one more than the highest item id, or 1 if there are none.
func NextItemID(items []Item) int {
	max := 0
	for _, it := range items {
		if it.ID > max {
			max = it.ID
		}
	}
	return max + 1
}
