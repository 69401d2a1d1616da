package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/aretw0/stepwise/internal/presentation/graph"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/timeline"
)

const helpText = `Commands (G = group number, S = step number, as shown on screen):
  ask <question>      add a question to the top of the timeline
  simplify G S        ask for a simpler version of a step
  regen G S           discard the steps below S so it can be simplified again
  understand G S      toggle the understood mark of a step
  toggle G            expand or collapse a group
  mode                toggle delete mode
  delete ID           delete a group by id (delete mode only)
  graph G             print the simplification chain as a Mermaid flowchart
  show                redraw the timeline
  help                show this help
  quit                leave`

type command struct {
	name string
	args []int
	text string
}

var arity = map[string]int{
	"simplify":   2,
	"regen":      2,
	"understand": 2,
	"toggle":     1,
	"delete":     1,
	"graph":      1,
	"mode":       0,
	"show":       0,
	"help":       0,
	"quit":       0,
}

var aliases = map[string]string{
	"s":          "simplify",
	"r":          "regen",
	"regenerate": "regen",
	"u":          "understand",
	"t":          "toggle",
	"d":          "delete",
	"h":          "help",
	"?":          "help",
	"q":          "quit",
	"exit":       "quit",
}

// parseCommand turns a REPL line into a command.
// Numeric arguments are returned as typed, 1-based.
func parseCommand(line string) (command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command{}, nil
	}

	name := strings.ToLower(fields[0])
	if a, ok := aliases[name]; ok {
		name = a
	}

	if name == "ask" {
		text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))
		return command{name: "ask", text: text}, nil
	}

	n, ok := arity[name]
	if !ok {
		return command{}, fmt.Errorf("unknown command %q (type 'help')", fields[0])
	}
	if len(fields)-1 != n {
		return command{}, fmt.Errorf("%s expects %d argument(s)", name, n)
	}

	cmd := command{name: name}
	for _, f := range fields[1:] {
		v, err := strconv.Atoi(f)
		if err != nil || v < 1 {
			return command{}, fmt.Errorf("%s: %q is not a positive number", name, f)
		}
		cmd.args = append(cmd.args, v)
	}
	return cmd, nil
}

// REPL drives a Timeline from line-based input.
// It also answers the timeline's delete confirmations from the same input.
type REPL struct {
	out   io.Writer
	lines chan string
	tl    *timeline.Timeline

	inflight sync.WaitGroup
}

// NewREPL starts reading lines from in. out should be shared with the renderer
// through NewSyncWriter.
func NewREPL(in io.Reader, out io.Writer) *REPL {
	r := &REPL{
		out:   out,
		lines: make(chan string),
	}
	go func() {
		defer close(r.lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			r.lines <- scanner.Text()
		}
	}()
	return r
}

func (r *REPL) readLine(ctx context.Context) (string, error) {
	select {
	case line, ok := <-r.lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Confirm implements ports.Confirmer.
func (r *REPL) Confirm(ctx context.Context, prompt string) (bool, error) {
	fmt.Fprintf(r.out, "%s [y/N] ", prompt)
	line, err := r.readLine(ctx)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// Run reads commands until quit, end of input or ctx cancellation.
// It waits for pending simplifications and titles before returning.
func (r *REPL) Run(ctx context.Context, tl *timeline.Timeline) error {
	r.tl = tl
	defer func() {
		r.inflight.Wait()
		tl.Wait()
	}()

	for {
		fmt.Fprint(r.out, "> ")
		line, err := r.readLine(ctx)
		if err != nil {
			if isInterrupted(err) {
				fmt.Fprintln(r.out)
				return nil
			}
			return err
		}

		cmd, err := parseCommand(line)
		if err != nil {
			printSystemMessage(r.out, "%v", err)
			continue
		}
		if cmd.name == "quit" {
			return nil
		}
		if err := r.dispatch(ctx, cmd); err != nil {
			if isInterrupted(err) {
				return nil
			}
			printSystemMessage(r.out, "%v", err)
		}
	}
}

func (r *REPL) dispatch(ctx context.Context, cmd command) error {
	switch cmd.name {
	case "":
		return nil
	case "ask":
		_, err := r.tl.Submit(ctx, cmd.text)
		if errors.Is(err, domain.ErrEmptyQuestion) {
			return nil
		}
		return err
	case "simplify":
		g, s := cmd.args[0]-1, cmd.args[1]-1
		r.inflight.Add(1)
		go func() {
			defer r.inflight.Done()
			if err := r.tl.Simplify(ctx, g, s); err != nil && !errors.Is(err, context.Canceled) {
				printSystemMessage(r.out, "%v", err)
			}
		}()
		return nil
	case "regen":
		return r.tl.Regenerate(ctx, cmd.args[0]-1, cmd.args[1]-1)
	case "understand":
		return r.tl.ToggleUnderstood(ctx, cmd.args[0]-1, cmd.args[1]-1)
	case "toggle":
		return r.tl.ToggleExpanded(ctx, cmd.args[0]-1)
	case "mode":
		on, err := r.tl.ToggleDeleteMode(ctx)
		if err != nil {
			return err
		}
		if on {
			printSystemMessage(r.out, "Delete On")
		} else {
			printSystemMessage(r.out, "Delete Off")
		}
		return nil
	case "delete":
		if !r.tl.View().DeleteMode {
			return errors.New("delete is only available in delete mode (type 'mode')")
		}
		removed, err := r.tl.DeleteGroup(ctx, cmd.args[0])
		if err != nil {
			return err
		}
		if removed {
			printSystemMessage(r.out, "Deleted question %d.", cmd.args[0])
		}
		return nil
	case "graph":
		groups := r.tl.View().Groups
		gi := cmd.args[0] - 1
		if gi >= len(groups) {
			return domain.ErrGroupNotFound
		}
		fmt.Fprintln(r.out, graph.GenerateMermaid(groups[gi]))
		return nil
	case "show":
		r.tl.Redraw(ctx)
		return nil
	case "help":
		fmt.Fprintln(r.out, helpText)
		return nil
	}
	return fmt.Errorf("unhandled command %q", cmd.name)
}
