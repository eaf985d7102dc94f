package strata

// CapturedList is an ordered collection owned by a resource and read by a
// Token at synthesis time. It backs the "add entries after construction"
// pattern: the resource creates the list (and its Token) at construction
// time, callers append entries afterwards, and the synthesis pass reads
// whatever has accumulated.
//
// The backing sequence starts absent, not empty: a list that was never
// appended to resolves to nil and its property is omitted from the
// template, while a configured list resolves to an explicit (possibly
// empty) sequence. Downstream schemas distinguish the two.
//
// Once the list's Token has been resolved, the list is sealed; further
// mutation fails with *SealedCollectionError.
type CapturedList[T any] struct {
	owner      Construct
	entries    []T
	configured bool
	sealed     bool
	token      *Token
}

// NewCapturedList creates an empty, unconfigured list owned by the given
// construct. The list's Token is created here, at construction time.
func NewCapturedList[T any](owner Construct) *CapturedList[T] {
	l := &CapturedList[T]{owner: owner}
	l.token = Lazy(owner, func() (any, error) {
		l.sealed = true
		if !l.configured {
			return nil, nil
		}
		out := make([]any, len(l.entries))
		for i, e := range l.entries {
			out[i] = e
		}
		return out, nil
	})
	return l
}

// Append adds entries in call order. Appending marks the list configured
// even when called with zero items.
func (l *CapturedList[T]) Append(items ...T) error {
	if err := l.checkMutable(); err != nil {
		return err
	}
	l.configured = true
	l.entries = append(l.entries, items...)
	return nil
}

// Mutate applies fn to the current entries and stores the result. Used by
// callers that merge rather than blindly append, e.g. policy statement
// deduplication.
func (l *CapturedList[T]) Mutate(fn func([]T) []T) error {
	if err := l.checkMutable(); err != nil {
		return err
	}
	l.configured = true
	l.entries = fn(l.entries)
	return nil
}

// Configured reports whether the list has ever been touched.
func (l *CapturedList[T]) Configured() bool { return l.configured }

// Len returns the number of entries.
func (l *CapturedList[T]) Len() int { return len(l.entries) }

// Entries returns a copy of the current entries.
func (l *CapturedList[T]) Entries() []T {
	out := make([]T, len(l.entries))
	copy(out, l.entries)
	return out
}

// Token returns the list's deferred read. Resolving it seals the list.
func (l *CapturedList[T]) Token() *Token { return l.token }

func (l *CapturedList[T]) checkMutable() error {
	if l.sealed {
		path := ""
		if l.owner != nil {
			path = l.owner.Node().PathString()
		}
		return &SealedCollectionError{Path: path}
	}
	return nil
}
