package keys

// State is the set of currently held keys. It is not safe for concurrent
// use; the dispatcher owns it and serializes access.
type State struct {
	held map[Key]struct{}
}

func NewState() *State {
	return &State{held: make(map[Key]struct{})}
}

// Press adds k to the held set. Pressing a held key is a no-op.
func (s *State) Press(k Key) {
	if !k.Valid() {
		return
	}
	s.held[k] = struct{}{}
}

// Release removes k from the held set. Releasing a key that is not held is
// a no-op.
func (s *State) Release(k Key) {
	delete(s.held, k)
}

func (s *State) Has(k Key) bool {
	_, ok := s.held[k]
	return ok
}

func (s *State) Len() int {
	return len(s.held)
}

// Snapshot returns a copy of the held set.
func (s *State) Snapshot() Set {
	out := make(Set, len(s.held))
	for k := range s.held {
		out[k] = struct{}{}
	}
	return out
}

func (s *State) Clear() {
	clear(s.held)
}

// Set is a read-only view of held keys.
type Set map[Key]struct{}

// NewSet builds a Set from ks.
func NewSet(ks ...Key) Set {
	s := make(Set, len(ks))
	for _, k := range ks {
		s[k] = struct{}{}
	}
	return s
}

func (s Set) Has(k Key) bool {
	_, ok := s[k]
	return ok
}

// Sorted returns the members in declaration order.
func (s Set) Sorted() []Key {
	out := make([]Key, 0, len(s))
	for k := MetaLeft; k < maxKey; k++ {
		if s.Has(k) {
			out = append(out, k)
		}
	}
	return out
}
