package domain

// Trim reduces groups to their persisted form.
//
// Only the original question of each group is kept and Expanded is forced to
// false. Transient item flags are cleared too: nothing is in flight after a
// reload, and the original has no surviving child to be "simplified" into.
func Trim(groups []Group) []Group {
	out := make([]Group, 0, len(groups))
	for _, g := range groups {
		t := Group{
			ID:    g.ID,
			Title: g.Title,
			Items: []Item{},
		}
		if len(g.Items) > 0 {
			first := g.Items[0]
			first.Simplifying = false
			first.IsNew = false
			first.Simplified = false
			t.Items = append(t.Items, first)
		}
		out = append(out, t)
	}
	return out
}
