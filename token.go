package strata

type tokenState uint8

const (
	tokenConstant tokenState = iota
	tokenUnresolved
	tokenResolving
	tokenResolved
)

// Token is a lazily-resolved placeholder for a value that is not known
// when a construct is declared: an ARN generated at deploy time, or the
// contents of a collection that callers keep mutating after construction.
//
// A Token is either a constant or wraps a zero-argument producer. Producers
// must be idempotent: resolution may be requested more than once within a
// synthesis pass. The Token itself is never mutated after creation; only
// the collection a producer closes over may change, and only until the
// Token is first resolved.
type Token struct {
	state    tokenState
	value    any
	producer func() (any, error)
	origin   *Node
}

// Constant returns a Token wrapping a fixed value.
func Constant(v any) *Token {
	return &Token{state: tokenConstant, value: v}
}

// Lazy returns a Token wrapping a producer evaluated at synthesis time.
// origin records which construct created the Token; it is carried into
// resolution errors for diagnostics and may be nil.
func Lazy(origin Construct, producer func() (any, error)) *Token {
	t := &Token{state: tokenUnresolved, producer: producer}
	if origin != nil {
		t.origin = origin.Node()
	}
	return t
}

// Resolve returns the Token's value, invoking the producer on first use.
// The result is cached, so resolving twice without intervening mutation
// returns the same value. A producer failure is wrapped in
// *ResolutionError carrying the creating construct's path. A producer
// that re-enters its own resolution fails with *CyclicResolutionError
// instead of recursing indefinitely.
func (t *Token) Resolve() (any, error) {
	switch t.state {
	case tokenConstant, tokenResolved:
		return t.value, nil
	case tokenResolving:
		return nil, &CyclicResolutionError{Path: t.originPath()}
	}

	t.state = tokenResolving
	v, err := t.producer()
	if err != nil {
		t.state = tokenUnresolved
		if _, ok := err.(*CyclicResolutionError); ok {
			return nil, err
		}
		return nil, &ResolutionError{Path: t.originPath(), Err: err}
	}
	t.state = tokenResolved
	t.value = v
	return v, nil
}

func (t *Token) originPath() string {
	if t.origin == nil {
		return ""
	}
	return t.origin.PathString()
}
