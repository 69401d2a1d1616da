/*
Package timeline is the state engine behind the Stepwise client.

A Timeline owns an ordered list of question groups, newest first. Every
mutation runs under the timeline lock and ends with the same cycle:

 1. persist the trimmed snapshot (domain.Trim) to the SnapshotStore
 2. hand a fresh domain.View to the Renderer

Calls to the Assistant happen with the lock released. Their results are
applied by group and item id, and dropped when the target no longer exists.

	tl := timeline.New(assistant,
		timeline.WithStore(store),
		timeline.WithRenderer(renderer),
	)
	if err := tl.Load(ctx); err != nil {
		return err
	}
	task, err := tl.Submit(ctx, "Find the maximum subarray sum")
*/
package timeline
