package domain

// TruncateDeeper drops the chain that hangs below items[index].
//
// Every item at or before index is kept. After index, an item survives only if
// its level is not deeper than the target's level. It is used both before a
// fresh simplification is inserted and when a simplification is regenerated,
// so a parent never ends up with two children at the same level.
//
// The returned slice does not alias items. An out-of-range index returns a
// copy of items unchanged.
func TruncateDeeper(items []Item, index int) []Item {
	out := make([]Item, 0, len(items))
	if index < 0 || index >= len(items) {
		return append(out, items...)
	}
	level := items[index].Level
	for i, it := range items {
		if i <= index || it.Level <= level {
			out = append(out, it)
		}
	}
	return out
}
