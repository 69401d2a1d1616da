/*
Package stepwise is a study aid for data structures and algorithms problems.

A learner pastes a problem statement and Stepwise keeps it on a timeline of
question groups. Each group starts with the original statement; any step can be
"simplified", which asks a language model for an easier restatement and inserts
it one level deeper. Steps can be regenerated, marked as understood, and groups
can be collapsed or deleted. The timeline is persisted after every change.

# Architecture

The timeline (pkg/timeline) owns the state and talks to its surroundings
through ports:

  - ports.Assistant produces simplifications and titles. It is served either
    in-process by the relay (pkg/relay) or remotely through pkg/adapters/relayclient.
  - ports.SnapshotStore persists the timeline. Memory, file, SQLite and Redis
    adapters live under pkg/adapters, and pkg/persistence/middleware adds
    at-rest encryption.
  - ports.Renderer and ports.Confirmer draw the timeline and ask before deletes.

The relay wraps the completion backend (pkg/adapters/groq) with prompt
sanitizing, metrics and error mapping. It is exposed over HTTP
(pkg/adapters/http) and MCP (pkg/adapters/mcp).

# Usage

Run the relay and the terminal client from the same binary:

	GROQ_API_KEY=... stepwise serve --port 4000
	stepwise run --relay-url http://localhost:4000

Or embed the timeline directly:

	svc := relay.New(groq.New(apiKey))
	tl := timeline.New(relay.NewLocalAssistant(svc),
		timeline.WithStore(file.New(".stepwise")),
	)
	if err := tl.Load(ctx); err != nil {
		log.Fatal(err)
	}
	task, _ := tl.Submit(ctx, "Find the maximum subarray sum")
	<-task.Done()
	_ = tl.Simplify(ctx, 0, 0)
*/
package stepwise
