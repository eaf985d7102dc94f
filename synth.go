package strata

import (
	"fmt"

	"github.com/lex00/strata-aws-go/internal/naming"
	"github.com/lex00/strata-aws-go/internal/serialize"
)

// Assembly is the result of synthesizing an App: one template per stack,
// plus the stack names in declaration order.
type Assembly struct {
	// StackNames lists the stacks in declaration order.
	StackNames []string
	// Templates maps stack name to its synthesized template.
	Templates map[string]*Template
}

// Synth resolves every Token in the tree and produces the final
// assembly. Synthesis is single-pass and fail-fast: the first failure
// aborts the whole assembly and no partial output is returned.
func (a *App) Synth() (*Assembly, error) {
	asm := &Assembly{Templates: make(map[string]*Template)}
	for _, child := range a.node.Children() {
		stack, ok := child.Construct().(*Stack)
		if !ok {
			continue
		}
		t, err := stack.Template()
		if err != nil {
			return nil, err
		}
		asm.StackNames = append(asm.StackNames, stack.StackName())
		asm.Templates[stack.StackName()] = t
	}
	return asm, nil
}

// Template synthesizes this stack's subtree into a CloudFormation
// template. The traversal is depth-first with children visited in
// insertion order; Tokens are pulled on demand while each resource's
// properties are serialized. Synthesizing an unchanged stack twice
// produces byte-identical output.
func (s *Stack) Template() (*Template, error) {
	t := &Template{
		AWSTemplateFormatVersion: "2010-09-09",
		Description:              s.props.Description,
		Resources:                make(map[string]ResourceDef),
	}

	stackPath := s.node.Path()
	if err := s.synthNode(s.node, stackPath, t); err != nil {
		return nil, err
	}

	if len(s.parameters) > 0 {
		t.Parameters = make(map[string]Parameter, len(s.parameters))
		for name, p := range s.parameters {
			t.Parameters[name] = p
		}
	}

	if len(s.outputs) > 0 {
		t.Outputs = make(map[string]Output, len(s.outputs))
		for name, o := range s.outputs {
			resolved, err := serialize.Value(o.Value)
			if err != nil {
				return nil, &SynthesisError{Path: s.node.PathString(), Err: fmt.Errorf("output %s: %w", name, err)}
			}
			o.Value = resolved
			t.Outputs[name] = o
		}
	}

	return t, nil
}

// synthNode emits node's resource, if any, then recurses into children in
// insertion order.
func (s *Stack) synthNode(node *Node, stackPath []string, t *Template) error {
	if res, ok := node.Construct().(Resource); ok && node != s.node {
		logicalID := logicalIDWithin(node.Path(), stackPath)
		props, err := serialize.Properties(res.ResourceProperties())
		if err != nil {
			return &SynthesisError{Path: node.PathString(), Err: err}
		}
		def := ResourceDef{Type: res.ResourceType(), Properties: props}
		if dep, ok := node.Construct().(interface{ DependsOn() []string }); ok {
			def.DependsOn = dep.DependsOn()
		}
		if _, exists := t.Resources[logicalID]; exists {
			return &SynthesisError{
				Path: node.PathString(),
				Err:  fmt.Errorf("duplicate logical id %q", logicalID),
			}
		}
		t.Resources[logicalID] = def
	}
	for _, child := range node.Children() {
		if err := s.synthNode(child, stackPath, t); err != nil {
			return err
		}
	}
	return nil
}

// logicalIDWithin derives a logical id from a node path relative to the
// enclosing stack's path.
func logicalIDWithin(full, stackPath []string) string {
	return naming.LogicalID(full[len(stackPath):])
}
