package domain_test

import (
	"testing"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Truncated", "Find the maximum subarray sum in an array of integers", "Find the maximum..."},
		{"Exactly Three", "Reverse linked list", "Reverse linked list"},
		{"Short", "  Two   Sum ", "Two Sum"},
		{"Collapses Whitespace", "a\tb\n c d", "a b c..."},
		{"Empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.FallbackTitle(tt.in))
		})
	}
}

func TestNextIDs(t *testing.T) {
	assert.Equal(t, 1, domain.NextGroupID(nil))
	assert.Equal(t, 8, domain.NextGroupID([]domain.Group{{ID: 3}, {ID: 7}, {ID: 1}}))

	assert.Equal(t, 1, domain.NextItemID(nil))
	assert.Equal(t, 5, domain.NextItemID([]domain.Item{{ID: 4}, {ID: 2}}))
}

func chain(levels ...int) []domain.Item {
	items := make([]domain.Item, len(levels))
	for i, l := range levels {
		items[i] = domain.Item{ID: i + 1, Level: l}
	}
	return items
}

func levelsOf(items []domain.Item) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.Level
	}
	return out
}

func TestTruncateDeeper(t *testing.T) {
	t.Run("Drops Deeper Suffix", func(t *testing.T) {
		got := domain.TruncateDeeper(chain(0, 1, 2, 3), 1)
		assert.Equal(t, []int{0, 1}, levelsOf(got))
	})

	t.Run("Keeps Items At Or Above Target Level", func(t *testing.T) {
		got := domain.TruncateDeeper(chain(0, 1, 2, 1), 1)
		assert.Equal(t, []int{0, 1, 1}, levelsOf(got))
	})

	t.Run("Last Item Is No-op", func(t *testing.T) {
		got := domain.TruncateDeeper(chain(0, 1, 2), 2)
		assert.Equal(t, []int{0, 1, 2}, levelsOf(got))
	})

	t.Run("Does Not Alias Input", func(t *testing.T) {
		items := chain(0, 1)
		got := domain.TruncateDeeper(items, 0)
		require.Len(t, got, 1)
		got[0].Description = "changed"
		assert.Empty(t, items[0].Description)
	})

	t.Run("Out Of Range", func(t *testing.T) {
		items := chain(0, 1)
		assert.Equal(t, []int{0, 1}, levelsOf(domain.TruncateDeeper(items, 5)))
		assert.Equal(t, []int{0, 1}, levelsOf(domain.TruncateDeeper(items, -1)))
	})
}

func TestTrim(t *testing.T) {
	groups := []domain.Group{
		{
			ID:       2,
			Title:    "Binary Search",
			Expanded: true,
			Items: []domain.Item{
				{ID: 1, Description: "orig", Simplified: true, Understood: true},
				{ID: 2, Description: "simpler", Level: 1, IsNew: true},
			},
		},
		{ID: 1, Title: "Two Sum", Items: []domain.Item{{ID: 1, Description: "two"}}},
	}

	trimmed := domain.Trim(groups)

	require.Len(t, trimmed, 2)
	for i, g := range trimmed {
		assert.Equal(t, groups[i].ID, g.ID)
		assert.Equal(t, groups[i].Title, g.Title)
		assert.False(t, g.Expanded)
		assert.Len(t, g.Items, 1)
		assert.Equal(t, 0, g.Items[0].Level)
	}
	assert.True(t, trimmed[0].Items[0].Understood, "understood survives a reload")
	assert.False(t, trimmed[0].Items[0].Simplified)

	// Source is untouched.
	assert.Len(t, groups[0].Items, 2)
	assert.True(t, groups[0].Expanded)
}

func TestNewGroup(t *testing.T) {
	g := domain.NewGroup(4, "Sort an array")
	assert.Equal(t, 4, g.ID)
	assert.Equal(t, domain.PlaceholderTitle, g.Title)
	require.Len(t, g.Items, 1)
	assert.Equal(t, domain.Item{ID: 1, Description: "Sort an array"}, g.Items[0])
	assert.Equal(t, 0, g.IndexOfItem(1))
	assert.Equal(t, -1, g.IndexOfItem(9))
}

func TestGroup_AllUnderstood(t *testing.T) {
	g := domain.Group{Items: []domain.Item{{Understood: true}, {Understood: false}}}
	assert.False(t, g.AllUnderstood())
	g.Items[1].Understood = true
	assert.True(t, g.AllUnderstood())
}
