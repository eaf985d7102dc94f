package iam

import (
	strata "github.com/lex00/strata-aws-go"
	"github.com/lex00/strata-aws-go/intrinsics"
)

// PolicyProps configures a Policy.
type PolicyProps struct {
	// PolicyName names the inline policy. Defaults to the construct's
	// generated unique id.
	PolicyName string
	// Roles are the roles the policy attaches to; entries may be role
	// name strings or Ref intrinsics.
	Roles []any
}

// Policy is an AWS::IAM::Policy resource. Statements are held in a
// captured collection: callers keep adding statements after construction
// and the synthesis pass reads the merged result.
type Policy struct {
	node       *strata.Node
	props      PolicyProps
	statements *strata.CapturedList[intrinsics.PolicyStatement]
}

// NewPolicy declares an inline policy.
func NewPolicy(scope strata.Construct, id string, props PolicyProps) (*Policy, error) {
	p := &Policy{props: props}
	node, err := strata.Register(scope, id, p)
	if err != nil {
		return nil, err
	}
	p.node = node
	p.statements = strata.NewCapturedList[intrinsics.PolicyStatement](p)
	return p, nil
}

// Node returns the policy's tree node.
func (p *Policy) Node() *strata.Node { return p.node }

// AddStatement adds a statement, merging it with an existing statement
// when effect, action set and condition match (resource-list union). The
// merge happens here, in the attachment path, not during Token
// resolution.
func (p *Policy) AddStatement(s intrinsics.PolicyStatement) error {
	return p.statements.Mutate(func(stmts []intrinsics.PolicyStatement) []intrinsics.PolicyStatement {
		return mergeStatement(stmts, s)
	})
}

// StatementCount returns the number of merged statements so far.
func (p *Policy) StatementCount() int { return p.statements.Len() }

// ResourceType returns the CloudFormation type.
func (p *Policy) ResourceType() string { return "AWS::IAM::Policy" }

type policyProperties struct {
	PolicyName     string
	PolicyDocument policyDocumentProperties
	Roles          []any
}

type policyDocumentProperties struct {
	Version   string
	Statement *strata.Token
}

// ResourceProperties returns the resource's property struct. The
// statement list is a deferred read of the captured collection.
func (p *Policy) ResourceProperties() any {
	name := p.props.PolicyName
	if name == "" {
		name = p.node.UniqueID()
	}
	return policyProperties{
		PolicyName: name,
		PolicyDocument: policyDocumentProperties{
			Version:   intrinsics.PolicyVersion,
			Statement: p.statements.Token(),
		},
		Roles: p.props.Roles,
	}
}
