package render

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/typesnap/typesnap/ir"
)

var validate = validator.New()

// Options bound a walk. MaxDepth and MaxWidth are the only size controls a
// caller gets; no timeout or cancellation is exposed because a walk is a
// pure synchronous transform.
type Options struct {
	// MaxDepth is the deepest level printed, 0-indexed and inclusive.
	MaxDepth int `validate:"gte=0"`

	// MaxWidth caps the number of nodes printed per level. Nodes dropped
	// by the cap are permanently dropped, never re-enqueued.
	MaxWidth int `validate:"gte=1"`

	// SignatureOnly skips member body rendering.
	SignatureOnly bool

	// SuppressOutput executes the identical traversal and call graph but
	// skips all text concatenation, returning an empty string.
	SuppressOutput bool

	// Qualified renders namespace-qualified type names.
	Qualified bool
}

// walker owns all per-invocation state: the FIFO queue, the visited set
// keyed by descriptor identity, and the render state. Nothing is shared
// across invocations; concurrent walks each construct their own walker.
type walker struct {
	opts    Options
	queue   []*ir.GeneratedType
	visited map[*ir.GeneratedType]bool
	st      *renderState
}

// register enqueues a not-yet-seen generated descriptor. The type-name
// formatter calls it for every generated reference it renders.
func (w *walker) register(t *ir.GeneratedType) {
	if t == nil || w.visited[t] {
		return
	}
	w.visited[t] = true
	w.queue = append(w.queue, t)
}

// Walk traverses the descriptor graph breadth-first from root and returns
// the rendered text. At each depth level the pending queue is snapshotted,
// sorted by name, truncated to MaxWidth, and printed; printing discovers
// new descriptors through the type-name formatter, which enqueues them for
// the next level. Output is byte-identical across calls for the same graph
// and options.
func Walk(root *ir.GeneratedType, opts Options) (string, error) {
	if root == nil {
		return "", errors.New("render: root descriptor is nil")
	}
	if err := validate.Struct(opts); err != nil {
		return "", fmt.Errorf("render: invalid options: %w", err)
	}

	w := &walker{
		opts:    opts,
		visited: make(map[*ir.GeneratedType]bool),
		st:      &renderState{suppress: opts.SuppressOutput},
	}
	w.register(root)

	for depth := 0; depth <= opts.MaxDepth && len(w.queue) > 0; depth++ {
		level := w.queue
		w.queue = nil

		sort.SliceStable(level, func(i, j int) bool {
			return level[i].Name < level[j].Name
		})
		if len(level) > opts.MaxWidth {
			level = level[:opts.MaxWidth]
		}

		for _, t := range level {
			w.printType(t)
		}
	}

	if opts.SuppressOutput {
		return "", nil
	}
	return w.st.String(), nil
}
