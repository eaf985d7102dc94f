// Package iam provides IAM role and policy constructs, including the
// statement merge step used by every policy attachment path.
package iam

import (
	"fmt"
	"strings"

	strata "github.com/lex00/strata-aws-go"
	"github.com/lex00/strata-aws-go/intrinsics"
)

// IRole is a role handle: either a live Role in the current tree or a
// reference imported from an ARN. Imported roles cannot grow inline
// policies; AddToRolePolicy degrades to a no-op and reports false.
type IRole interface {
	strata.Construct

	// Arn returns the role's ARN.
	Arn() *strata.Token

	// Name returns the role's name.
	Name() *strata.Token

	// AddToRolePolicy adds a statement to the role's default policy,
	// creating the policy resource on first use. Returns true when the
	// statement was registered.
	AddToRolePolicy(s intrinsics.PolicyStatement) (bool, error)
}

// Grantable is anything that can receive permission statements. Grant
// methods on other services (e.g. sns.Topic.GrantPublish) accept it.
type Grantable interface {
	AddToRolePolicy(s intrinsics.PolicyStatement) (bool, error)
}

// RoleProps configures a Role.
type RoleProps struct {
	// RoleName is the physical name. When empty, CloudFormation
	// generates one.
	RoleName string
	// AssumedBy is the trust principal, e.g.
	// intrinsics.ServicePrincipal{"codepipeline.amazonaws.com"}.
	AssumedBy any
	// ManagedPolicyArns attach managed policies by ARN.
	ManagedPolicyArns []any
	// Description is the role description.
	Description string
}

// Role is an AWS::IAM::Role resource with a lazily-created default inline
// policy for statements added after construction.
type Role struct {
	node          *strata.Node
	props         RoleProps
	arn           *strata.Token
	name          *strata.Token
	defaultPolicy *Policy
}

// NewRole declares a role.
func NewRole(scope strata.Construct, id string, props RoleProps) (*Role, error) {
	if props.AssumedBy == nil {
		return nil, fmt.Errorf("role %s: AssumedBy principal is required", id)
	}
	r := &Role{props: props}
	node, err := strata.Register(scope, id, r)
	if err != nil {
		return nil, err
	}
	r.node = node
	r.arn = strata.Lazy(r, func() (any, error) {
		id, err := strata.LogicalID(r)
		if err != nil {
			return nil, err
		}
		return intrinsics.GetAtt{LogicalName: id, Attribute: "Arn"}, nil
	})
	r.name = strata.Lazy(r, func() (any, error) {
		id, err := strata.LogicalID(r)
		if err != nil {
			return nil, err
		}
		return intrinsics.Ref{LogicalName: id}, nil
	})
	return r, nil
}

// Node returns the role's tree node.
func (r *Role) Node() *strata.Node { return r.node }

// Arn returns the role's deploy-time ARN (Fn::GetAtt).
func (r *Role) Arn() *strata.Token { return r.arn }

// Name returns the role's deploy-time name (Ref).
func (r *Role) Name() *strata.Token { return r.name }

// AddToRolePolicy adds a statement to the role's default policy. The
// policy resource is created on first call; statements merge per
// MergeStatements.
func (r *Role) AddToRolePolicy(s intrinsics.PolicyStatement) (bool, error) {
	if r.defaultPolicy == nil {
		p, err := NewPolicy(r, "DefaultPolicy", PolicyProps{
			Roles: []any{r.Name()},
		})
		if err != nil {
			return false, err
		}
		r.defaultPolicy = p
	}
	if err := r.defaultPolicy.AddStatement(s); err != nil {
		return false, err
	}
	return true, nil
}

// ResourceType returns the CloudFormation type.
func (r *Role) ResourceType() string { return "AWS::IAM::Role" }

type roleProperties struct {
	RoleName                 string
	Description              string
	AssumeRolePolicyDocument intrinsics.PolicyDocument
	ManagedPolicyArns        []any
}

// ResourceProperties returns the resource's property struct.
func (r *Role) ResourceProperties() any {
	return roleProperties{
		RoleName:    r.props.RoleName,
		Description: r.props.Description,
		AssumeRolePolicyDocument: intrinsics.NewPolicyDocument(
			intrinsics.PolicyStatement{
				Effect:    "Allow",
				Principal: r.props.AssumedBy,
				Action:    "sts:AssumeRole",
			},
		),
		ManagedPolicyArns: r.props.ManagedPolicyArns,
	}
}

// RoleFromArn imports an existing role by ARN. The reference registers a
// tree node for naming and diagnostics, but emits no resource and owns no
// policy: AddToRolePolicy is a silent no-op that reports false.
func RoleFromArn(scope strata.Construct, id string, arn string) (IRole, error) {
	r := &importedRole{
		arn:  strata.Constant(arn),
		name: strata.Constant(nameFromArn(arn)),
	}
	node, err := strata.Register(scope, id, r)
	if err != nil {
		return nil, err
	}
	r.node = node
	return r, nil
}

type importedRole struct {
	node *strata.Node
	arn  *strata.Token
	name *strata.Token
}

func (r *importedRole) Node() *strata.Node { return r.node }

func (r *importedRole) Arn() *strata.Token { return r.arn }

func (r *importedRole) Name() *strata.Token { return r.name }

func (r *importedRole) AddToRolePolicy(intrinsics.PolicyStatement) (bool, error) {
	// Imported roles have no supporting policy resource to grow.
	return false, nil
}

// nameFromArn extracts the trailing resource name of an IAM ARN.
func nameFromArn(arn string) string {
	if i := strings.LastIndexByte(arn, '/'); i >= 0 {
		return arn[i+1:]
	}
	if i := strings.LastIndexByte(arn, ':'); i >= 0 {
		return arn[i+1:]
	}
	return arn
}
