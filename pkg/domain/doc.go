/*
Package domain holds the core types of the Stepwise timeline.

A Group is one original question plus its chain of simplifications. Each link
of the chain is an Item; its Level is the depth in the chain (0 = original).

# Key Helpers

  - NextGroupID / NextItemID: id allocation (max + 1, or 1 when empty).
  - TruncateDeeper: prunes the stale deeper chain after a target item.
  - FallbackTitle: deterministic three-word title used when the oracle fails.
  - Trim: reduces a timeline to its persisted snapshot.
*/
package domain
