// Package codepipeline provides a CodePipeline construct. Stages and
// actions are added after construction and read by the synthesis pass;
// actions that run under their own role feed iam:PassRole statements
// through the pipeline role's merge step, so two actions needing the
// same permission shape produce one statement with a unioned resource
// list.
package codepipeline

import (
	"fmt"
	"strings"

	strata "github.com/lex00/strata-aws-go"
	"github.com/lex00/strata-aws-go/iam"
	"github.com/lex00/strata-aws-go/intrinsics"
)

// IPipeline is a pipeline handle: live or imported. An imported pipeline
// exposes its ARN only; its stage list belongs to the existing
// definition and cannot be extended, so AddStage fails with
// *strata.UnsupportedOnImportError.
type IPipeline interface {
	strata.Construct

	// Arn returns the pipeline's ARN.
	Arn() *strata.Token

	// AddStage appends a stage to the pipeline definition.
	AddStage(name string) (*Stage, error)
}

// ActionTypeId identifies an action's provider.
type ActionTypeId struct {
	Category string `json:"Category"`
	Owner    string `json:"Owner"`
	Provider string `json:"Provider"`
	Version  string `json:"Version"`
}

// ActionDeclaration is one action within a stage.
type ActionDeclaration struct {
	// Name is the action name, unique within the stage.
	Name string
	// Type identifies the action provider.
	Type ActionTypeId
	// Configuration is the provider-specific configuration block.
	Configuration intrinsics.Json
	// InputArtifacts and OutputArtifacts name pipeline artifacts.
	InputArtifacts  []string
	OutputArtifacts []string
	// RoleArn, when set, is the role the action runs under; the
	// pipeline role receives a merged iam:PassRole statement for it.
	RoleArn any
	// RunOrder orders actions within the stage; zero means provider
	// default.
	RunOrder int
}

// PipelineProps configures a Pipeline.
type PipelineProps struct {
	// PipelineName is the physical name. When empty, CloudFormation
	// generates one.
	PipelineName string
	// Role is the pipeline's service role. When nil a role trusted by
	// codepipeline.amazonaws.com is created as a child construct.
	Role iam.IRole
	// ArtifactBucket names the S3 bucket of the artifact store; a
	// string or an intrinsic.
	ArtifactBucket any
}

// Pipeline is an AWS::CodePipeline::Pipeline resource.
type Pipeline struct {
	node       *strata.Node
	props      PipelineProps
	role       iam.IRole
	arn        *strata.Token
	stages     *strata.CapturedList[*Stage]
	stagesDecl *strata.Token
}

// NewPipeline declares a pipeline.
func NewPipeline(scope strata.Construct, id string, props PipelineProps) (*Pipeline, error) {
	p := &Pipeline{props: props}
	node, err := strata.Register(scope, id, p)
	if err != nil {
		return nil, err
	}
	p.node = node
	p.role = props.Role
	if p.role == nil {
		role, err := iam.NewRole(p, "Role", iam.RoleProps{
			AssumedBy: intrinsics.ServicePrincipal{"codepipeline.amazonaws.com"},
		})
		if err != nil {
			return nil, err
		}
		p.role = role
	}
	p.arn = strata.Lazy(p, func() (any, error) {
		id, err := strata.LogicalID(p)
		if err != nil {
			return nil, err
		}
		// The pipeline ARN is not a template attribute; compose it.
		return intrinsics.Sub{String: fmt.Sprintf(
			"arn:${AWS::Partition}:codepipeline:${AWS::Region}:${AWS::AccountId}:${%s}", id,
		)}, nil
	})
	p.stages = strata.NewCapturedList[*Stage](p)
	// Project captured stages into their template shape. Resolving this
	// token seals the stage list against further mutation.
	p.stagesDecl = strata.Lazy(p, func() (any, error) {
		v, err := p.stages.Token().Resolve()
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, nil
		}
		entries := v.([]any)
		out := make([]any, len(entries))
		for i, e := range entries {
			out[i] = e.(*Stage).declaration()
		}
		return out, nil
	})
	return p, nil
}

// Node returns the pipeline's tree node.
func (p *Pipeline) Node() *strata.Node { return p.node }

// Arn returns the pipeline's deploy-time ARN.
func (p *Pipeline) Arn() *strata.Token { return p.arn }

// Role returns the pipeline's service role.
func (p *Pipeline) Role() iam.IRole { return p.role }

// AddStage appends a stage. Stage names must be unique within the
// pipeline.
func (p *Pipeline) AddStage(name string) (*Stage, error) {
	for _, s := range p.stages.Entries() {
		if s.name == name {
			return nil, &strata.DuplicateIDError{Scope: p.node.PathString(), ID: name}
		}
	}
	stage := &Stage{name: name, pipeline: p}
	if err := p.stages.Append(stage); err != nil {
		return nil, err
	}
	return stage, nil
}

// ResourceType returns the CloudFormation type.
func (p *Pipeline) ResourceType() string { return "AWS::CodePipeline::Pipeline" }

type pipelineProperties struct {
	Name          string
	RoleArn       *strata.Token
	ArtifactStore artifactStoreProperties
	Stages        *strata.Token
}

type artifactStoreProperties struct {
	Type     string
	Location any
}

// ResourceProperties returns the resource's property struct. The stage
// list is a deferred read: stages and actions appended after
// construction surface here at synthesis time.
func (p *Pipeline) ResourceProperties() any {
	return pipelineProperties{
		Name:    p.props.PipelineName,
		RoleArn: p.role.Arn(),
		ArtifactStore: artifactStoreProperties{
			Type:     "S3",
			Location: p.props.ArtifactBucket,
		},
		Stages: p.stagesDecl,
	}
}

// Stage is a named group of actions within a pipeline. Stages are not
// tree nodes: they exist only inside the pipeline's captured stage list.
type Stage struct {
	name     string
	pipeline *Pipeline
	actions  []ActionDeclaration
}

// Name returns the stage name.
func (s *Stage) Name() string { return s.name }

// AddAction appends an action to the stage. When the action declares its
// own role, a merged iam:PassRole statement for that role is added to
// the pipeline's service role. Mutating a stage after the pipeline has
// been synthesized fails like any other post-synthesis mutation.
func (s *Stage) AddAction(a ActionDeclaration) error {
	if a.Name == "" {
		return fmt.Errorf("stage %s: action name is required", s.name)
	}
	// Appending through the pipeline's captured list keeps the sealed
	// check authoritative for nested mutations too.
	err := s.pipeline.stages.Mutate(func(stages []*Stage) []*Stage {
		s.actions = append(s.actions, a)
		return stages
	})
	if err != nil {
		return err
	}
	if a.RoleArn != nil {
		if _, err := s.pipeline.role.AddToRolePolicy(intrinsics.PolicyStatement{
			Effect:   "Allow",
			Action:   "iam:PassRole",
			Resource: a.RoleArn,
		}); err != nil {
			return err
		}
	}
	return nil
}

// declaration converts the stage into its template shape. Tokens inside
// action declarations are resolved by the synthesis serializer.
func (s *Stage) declaration() map[string]any {
	actions := make([]any, len(s.actions))
	for i, a := range s.actions {
		decl := map[string]any{
			"Name":         a.Name,
			"ActionTypeId": a.Type,
		}
		if a.Configuration != nil {
			decl["Configuration"] = a.Configuration
		}
		if len(a.InputArtifacts) > 0 {
			decl["InputArtifacts"] = artifactList(a.InputArtifacts)
		}
		if len(a.OutputArtifacts) > 0 {
			decl["OutputArtifacts"] = artifactList(a.OutputArtifacts)
		}
		if a.RoleArn != nil {
			decl["RoleArn"] = a.RoleArn
		}
		if a.RunOrder > 0 {
			decl["RunOrder"] = a.RunOrder
		}
		actions[i] = decl
	}
	return map[string]any{
		"Name":    s.name,
		"Actions": actions,
	}
}

func artifactList(names []string) []any {
	out := make([]any, len(names))
	for i, n := range names {
		out[i] = map[string]any{"Name": n}
	}
	return out
}

// PipelineFromArn imports an existing pipeline by ARN. AddStage cannot
// degrade to a no-op (the caller would silently lose pipeline structure),
// so it fails with *strata.UnsupportedOnImportError.
func PipelineFromArn(scope strata.Construct, id string, arn string) (IPipeline, error) {
	p := &importedPipeline{arn: strata.Constant(arn)}
	node, err := strata.Register(scope, id, p)
	if err != nil {
		return nil, err
	}
	p.node = node
	return p, nil
}

type importedPipeline struct {
	node *strata.Node
	arn  *strata.Token
}

func (p *importedPipeline) Node() *strata.Node { return p.node }

func (p *importedPipeline) Arn() *strata.Token { return p.arn }

func (p *importedPipeline) AddStage(string) (*Stage, error) {
	return nil, &strata.UnsupportedOnImportError{
		Path:       p.node.PathString(),
		Capability: "AddStage",
	}
}

// NameFromArn extracts the pipeline name from a pipeline ARN.
func NameFromArn(arn string) string {
	if i := strings.LastIndexByte(arn, ':'); i >= 0 {
		return arn[i+1:]
	}
	return arn
}
