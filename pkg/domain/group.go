package domain

// PlaceholderTitle is shown until the oracle (or the fallback) provides a title.
const PlaceholderTitle = "Generating title..."

// Item is one node of a simplification chain.
type Item struct {
	ID          int    `json:"id"`
	Description string `json:"description"`

	// Level is the depth in the chain. 0 is the original question.
	Level int `json:"level"`

	Understood bool `json:"understood"`

	// Simplifying is set while a simplification request is in flight.
	Simplifying bool `json:"simplifying"`

	// IsNew is consumed by the first render after the item is created.
	IsNew bool `json:"isNew"`

	// Simplified reports whether this item already produced a next-level child.
	Simplified bool `json:"simplified"`
}

// Group is an original question and its chain of simplifications.
type Group struct {
	ID    int    `json:"id"`
	Title string `json:"title"`

	// Items is ordered; Items[0] is always the original question.
	Items []Item `json:"items"`

	// Expanded is view state only and is never persisted as true.
	Expanded bool `json:"expanded"`

	// Understood is the AND of every item's Understood flag.
	Understood bool `json:"understood,omitempty"`
}

// NewGroup creates a group holding only the original question.
func NewGroup(id int, question string) Group {
	return Group{
		ID:    id,
		Title: PlaceholderTitle,
		Items: []Item{{
			ID:          1,
			Description: question,
			Level:       0,
		}},
	}
}

// IndexOfItem returns the position of the item with the given id, or -1.
func (g *Group) IndexOfItem(id int) int {
	for i := range g.Items {
		if g.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// AllUnderstood reports whether every item of the group is understood.
func (g *Group) AllUnderstood() bool {
	for _, it := range g.Items {
		if !it.Understood {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the group.
func (g Group) Clone() Group {
	c := g
	c.Items = make([]Item, len(g.Items))
	copy(c.Items, g.Items)
	return c
}

// View is the read-only picture handed to renderers.
type View struct {
	Groups     []Group
	DeleteMode bool
}
