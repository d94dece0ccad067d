package typesys

import (
	"fmt"
	"log/slog"

	"github.com/rhino1998/unify/pkg/types"
)

// Stack holds generic bindings. The active frame is the window
// [position, position+ceiling); slot k of that window is the binding of
// generic position k. Slots past the window are scratch space for the
// resolver. A nil slot is unbound.
//
// Slices of the backing store must not be held across calls that can grow
// it; always index through position.
type Stack struct {
	logger *slog.Logger

	slots    []types.Type
	position int
	ceiling  int
	maxSeen  int
	depth    int
}

// Frame restores the stack to the state before the Raise that produced it.
type Frame struct {
	position int
	ceiling  int
	depth    int
}

func newStack(logger *slog.Logger, capacity int) *Stack {
	return &Stack{
		logger: logger,
		slots:  make([]types.Type, capacity),
	}
}

func (s *Stack) Position() int { return s.position }
func (s *Stack) Ceiling() int { return s.ceiling }
func (s *Stack) MaxSeen() int { return s.maxSeen }
func (s *Stack) Depth() int { return s.depth }
func (s *Stack) Cap() int { return len(s.slots) }

// ensureCapacity doubles the backing store until index n is addressable.
func (s *Stack) ensureCapacity(n int) {
	if n < len(s.slots) {
		return
	}

	size := max(len(s.slots), 1)
	for size <= n {
		size *= 2
	}

	grown := make([]types.Type, size)
	copy(grown, s.slots)
	s.slots = grown

	s.logger.Debug("grew binding stack", slog.Int("cap", size))
}

// Raise opens a frame above the active one, sized for the largest number of
// generics recorded so far, with every slot unbound.
func (s *Stack) Raise() Frame {
	frame := Frame{position: s.position, ceiling: s.ceiling, depth: s.depth}

	s.position += s.ceiling
	s.ceiling = s.maxSeen
	s.depth++

	s.ensureCapacity(s.position + 3*s.maxSeen)
	clear(s.slots[s.position : s.position+s.ceiling])

	s.logger.Debug("raised frame",
		slog.Int("depth", s.depth),
		slog.Int("position", s.position),
		slog.Int("ceiling", s.ceiling),
	)

	return frame
}

// Lower closes the frame opened by the Raise that returned f. Frames must be
// lowered in reverse order of raising.
func (s *Stack) Lower(f Frame) {
	if s.depth != f.depth+1 || s.position != f.position+f.ceiling {
		panic(fmt.Sprintf("bug: frame lowered out of order (depth %d, expected %d)", s.depth, f.depth+1))
	}

	s.position = f.position
	s.ceiling = f.ceiling
	s.depth = f.depth

	s.logger.Debug("lowered frame",
		slog.Int("depth", s.depth),
		slog.Int("position", s.position),
		slog.Int("ceiling", s.ceiling),
	)
}

// RecordMaxGenerics widens the size of frames raised from now on.
func (s *Stack) RecordMaxGenerics(n int) {
	if n > s.maxSeen {
		s.maxSeen = n
	}
}

func (s *Stack) slot(i int) int {
	if i < 0 || i >= s.ceiling {
		panic(fmt.Sprintf("bug: generic slot %d outside frame of %d", i, s.ceiling))
	}

	return s.position + i
}

// Get returns the binding of generic position i in the active frame, or nil
// if it is unbound.
func (s *Stack) Get(i int) types.Type {
	return s.slots[s.slot(i)]
}

func (s *Stack) Set(i int, t types.Type) {
	s.slots[s.slot(i)] = t
}

// CountUnbound counts the unbound slots of the active frame.
func (s *Stack) CountUnbound() int {
	count := 0
	for _, t := range s.slots[s.position : s.position+s.ceiling] {
		if t == nil {
			count++
		}
	}

	return count
}

// SetStaged stores t in scratch slot i just above the active frame. Staged
// values are only valid until the next resolution, which reuses the same
// scratch space.
func (s *Stack) SetStaged(i int, t types.Type) {
	index := s.position + s.ceiling + 1 + i
	s.ensureCapacity(index)
	s.slots[index] = t
}

func (s *Stack) Staged(i int) types.Type {
	index := s.position + s.ceiling + 1 + i
	if index >= len(s.slots) {
		return nil
	}

	return s.slots[index]
}
