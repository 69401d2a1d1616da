/*
Package ports defines the driven ports (interfaces) of the Stepwise timeline.

These interfaces decouple the timeline from its collaborators, so the same
engine runs against an in-process relay or a remote one, and persists to
memory, files, SQLite or Redis.

# Key Interfaces

  - SnapshotStore: persists the trimmed timeline snapshot under a key.
  - Assistant: produces titles and simplifications (the relay, seen from the client).
  - Oracle: the raw text-completion backend the relay forwards to.
  - Renderer: redraws the timeline after every mutation.
  - Confirmer: asks the user a yes/no question before destructive actions.
*/
package ports
