package strata

import "fmt"

// DuplicateIDError is returned when two constructs are declared with the
// same id under the same scope. It is surfaced at declaration time, not
// deferred to synthesis.
type DuplicateIDError struct {
	// Scope is the path of the parent node.
	Scope string
	// ID is the colliding child id.
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("construct %q already exists in scope %q", e.ID, e.Scope)
}

// NotFoundError is returned by ancestor lookups that reach the root of the
// tree without a match.
type NotFoundError struct {
	// Path is the node the search started from.
	Path string
	// Target describes what was being looked for.
	Target string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s found in the scope chain of %q", e.Target, e.Path)
}

// ResolutionError wraps a failure raised by a Token's producer. Path is the
// tree path of the construct that created the Token.
type ResolutionError struct {
	Path string
	Err  error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolving token created by %q: %v", e.Path, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// CyclicResolutionError is returned when resolving a Token re-enters its
// own resolution before completing.
type CyclicResolutionError struct {
	Path string
}

func (e *CyclicResolutionError) Error() string {
	return fmt.Sprintf("cyclic token resolution detected at %q", e.Path)
}

// SealedCollectionError is returned when a captured collection is mutated
// after a synthesis pass has already resolved it.
type SealedCollectionError struct {
	Path string
}

func (e *SealedCollectionError) Error() string {
	return fmt.Sprintf("collection owned by %q was already synthesized; mutations after synthesis are not allowed", e.Path)
}

// UnsupportedOnImportError is returned by capabilities that require a live
// construct and cannot degrade to a no-op on an imported reference.
type UnsupportedOnImportError struct {
	Path       string
	Capability string
}

func (e *UnsupportedOnImportError) Error() string {
	return fmt.Sprintf("%s is not supported on imported resource %q", e.Capability, e.Path)
}

// SynthesisError wraps the first failure encountered during a synthesis
// pass. Path is the tree path of the failing construct. Synthesis is
// atomic: when a SynthesisError is returned no partial template is
// produced.
type SynthesisError struct {
	Path string
	Err  error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("synthesis failed at %q: %v", e.Path, e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }
