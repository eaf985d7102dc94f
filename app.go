package strata

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// App is the root of a construct tree. Stacks are declared as direct
// children; Synth walks every stack and produces the final assembly.
type App struct {
	node    *Node
	context map[string]any
}

// NewApp creates an empty construct tree root.
func NewApp() *App {
	a := &App{context: make(map[string]any)}
	a.node = newRootNode(a)
	return a
}

// Node returns the root tree node.
func (a *App) Node() *Node { return a.node }

// SetContext stores a context value available to every construct in the
// tree via Context.
func (a *App) SetContext(key string, value any) {
	a.context[key] = value
}

// Context returns the context value for key, if any.
func (a *App) Context(key string) (any, bool) {
	v, ok := a.context[key]
	return v, ok
}

// ContextKeys returns all context keys in sorted order.
func (a *App) ContextKeys() []string {
	keys := make([]string, 0, len(a.context))
	for k := range a.context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LoadContextFile merges context values from a JSON file (conventionally
// strata.json) into the app. Values already set take precedence.
func (a *App) LoadContextFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading context file: %w", err)
	}
	var values map[string]any
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("parsing context file %s: %w", path, err)
	}
	for k, v := range values {
		if _, exists := a.context[k]; !exists {
			a.context[k] = v
		}
	}
	return nil
}

// ContextOf returns the app context value for key, reachable from any
// construct in the tree.
func ContextOf(c Construct, key string) (any, bool) {
	root := c.Node()
	for root.Scope() != nil {
		root = root.Scope()
	}
	app, ok := root.Construct().(*App)
	if !ok {
		return nil, false
	}
	return app.Context(key)
}

// StackProps configures a Stack.
type StackProps struct {
	// Description becomes the template's Description field.
	Description string
}

// Stack is a deployable unit: one CloudFormation template. Resources
// declared anywhere beneath a Stack are emitted into its template, keyed
// by a logical id derived from their path within the stack.
type Stack struct {
	node       *Node
	props      StackProps
	parameters map[string]Parameter
	outputs    map[string]Output
}

// NewStack declares a stack under the given app.
func NewStack(app *App, id string, props StackProps) (*Stack, error) {
	s := &Stack{
		props:      props,
		parameters: make(map[string]Parameter),
		outputs:    make(map[string]Output),
	}
	node, err := Register(app, id, s)
	if err != nil {
		return nil, err
	}
	s.node = node
	return s, nil
}

// Node returns the stack's tree node.
func (s *Stack) Node() *Node { return s.node }

// StackName returns the stack's id.
func (s *Stack) StackName() string { return s.node.ID() }

// AddParameter declares a template parameter. Fails with
// *DuplicateIDError when the name is already taken.
func (s *Stack) AddParameter(name string, p Parameter) error {
	if _, exists := s.parameters[name]; exists {
		return &DuplicateIDError{Scope: s.node.PathString(), ID: name}
	}
	s.parameters[name] = p
	return nil
}

// AddOutput declares a template output. The output value may hold Tokens;
// they are resolved during synthesis. Fails with *DuplicateIDError when
// the name is already taken.
func (s *Stack) AddOutput(name string, o Output) error {
	if _, exists := s.outputs[name]; exists {
		return &DuplicateIDError{Scope: s.node.PathString(), ID: name}
	}
	s.outputs[name] = o
	return nil
}

// StackOf returns the enclosing stack of a construct, walking parent
// links upward. Fails with *NotFoundError when the construct is not
// inside a stack.
func StackOf(c Construct) (*Stack, error) {
	if s, ok := c.(*Stack); ok {
		return s, nil
	}
	found, err := c.Node().FindAncestor(func(a Construct) bool {
		_, ok := a.(*Stack)
		return ok
	})
	if err != nil {
		return nil, &NotFoundError{Path: c.Node().PathString(), Target: "enclosing stack"}
	}
	return found.(*Stack), nil
}

// LogicalID returns the CloudFormation logical id of a resource: a
// deterministic function of its path within the enclosing stack. Fails
// with *NotFoundError when the construct is not inside a stack.
func LogicalID(c Construct) (string, error) {
	stack, err := StackOf(c)
	if err != nil {
		return "", err
	}
	full := c.Node().Path()
	prefix := stack.Node().Path()
	return logicalIDWithin(full, prefix), nil
}
