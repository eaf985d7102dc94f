// Package applicationautoscaling provides Application Auto Scaling
// constructs: scalable targets and step scaling policies. Step
// adjustment tiers are a captured collection appended to after
// construction; declaration order is preserved verbatim in the template.
package applicationautoscaling

import (
	"fmt"

	strata "github.com/lex00/strata-aws-go"
	"github.com/lex00/strata-aws-go/cloudwatch"
	"github.com/lex00/strata-aws-go/intrinsics"
)

// InvalidTierError is returned by AddAdjustment when a step adjustment
// has neither a lower nor an upper bound.
type InvalidTierError struct {
	// Policy is the path of the scaling policy.
	Policy string
}

func (e *InvalidTierError) Error() string {
	return fmt.Sprintf("step adjustment on %q must set at least one of LowerBound or UpperBound", e.Policy)
}

// ScalableTargetProps configures a ScalableTarget.
type ScalableTargetProps struct {
	// ServiceNamespace, e.g. "ecs" or "dynamodb".
	ServiceNamespace string
	// ResourceId identifies the scalable resource, e.g.
	// "service/my-cluster/my-service".
	ResourceId string
	// ScalableDimension, e.g. "ecs:service:DesiredCount".
	ScalableDimension string
	// MinCapacity and MaxCapacity bound the target.
	MinCapacity int
	MaxCapacity int
	// RoleArn is the IAM role Application Auto Scaling assumes; a
	// string or a role ARN token.
	RoleArn any
}

// ScalableTarget is an AWS::ApplicationAutoScaling::ScalableTarget
// resource.
type ScalableTarget struct {
	node  *strata.Node
	props ScalableTargetProps
	ref   *strata.Token
}

// NewScalableTarget declares a scalable target.
func NewScalableTarget(scope strata.Construct, id string, props ScalableTargetProps) (*ScalableTarget, error) {
	t := &ScalableTarget{props: props}
	node, err := strata.Register(scope, id, t)
	if err != nil {
		return nil, err
	}
	t.node = node
	// Ref on a scalable target returns its generated id.
	t.ref = strata.Lazy(t, func() (any, error) {
		id, err := strata.LogicalID(t)
		if err != nil {
			return nil, err
		}
		return intrinsics.Ref{LogicalName: id}, nil
	})
	return t, nil
}

// Node returns the target's tree node.
func (t *ScalableTarget) Node() *strata.Node { return t.node }

// Ref returns the target's deploy-time id.
func (t *ScalableTarget) Ref() *strata.Token { return t.ref }

// ResourceType returns the CloudFormation type.
func (t *ScalableTarget) ResourceType() string {
	return "AWS::ApplicationAutoScaling::ScalableTarget"
}

type scalableTargetProperties struct {
	ServiceNamespace  string
	ResourceId        string
	ScalableDimension string
	MinCapacity       int
	MaxCapacity       int
	RoleARN           any
}

// ResourceProperties returns the resource's property struct.
func (t *ScalableTarget) ResourceProperties() any {
	return scalableTargetProperties{
		ServiceNamespace:  t.props.ServiceNamespace,
		ResourceId:        t.props.ResourceId,
		ScalableDimension: t.props.ScalableDimension,
		MinCapacity:       t.props.MinCapacity,
		MaxCapacity:       t.props.MaxCapacity,
		RoleARN:           t.props.RoleArn,
	}
}

// StepAdjustment is one scaling tier. At least one bound must be set.
// Bounds are relative to the alarm threshold; Adjustment is the capacity
// change applied when the metric lands in the interval.
type StepAdjustment struct {
	LowerBound *float64 `json:"MetricIntervalLowerBound"`
	UpperBound *float64 `json:"MetricIntervalUpperBound"`
	Adjustment int      `json:"ScalingAdjustment"`
}

// StepScalingPolicyProps configures a StepScalingPolicy.
type StepScalingPolicyProps struct {
	// PolicyName is the physical name. When empty, the construct's
	// generated unique id is used.
	PolicyName string
	// ScalingTargetId references the scalable target; usually
	// target.Ref().
	ScalingTargetId any
	// AdjustmentType, e.g. "ChangeInCapacity".
	AdjustmentType string
	// Cooldown in seconds between scaling activities.
	Cooldown int
	// MetricAggregationType, e.g. "Average".
	MetricAggregationType string
}

// StepScalingPolicy is an AWS::ApplicationAutoScaling::ScalingPolicy
// resource of type StepScaling. Adjustment tiers are appended after
// construction and serialized in call order; the construct does not
// validate tier ordering or overlap.
type StepScalingPolicy struct {
	node        *strata.Node
	props       StepScalingPolicyProps
	arn         *strata.Token
	adjustments *strata.CapturedList[StepAdjustment]
}

// NewStepScalingPolicy declares a step scaling policy.
func NewStepScalingPolicy(scope strata.Construct, id string, props StepScalingPolicyProps) (*StepScalingPolicy, error) {
	p := &StepScalingPolicy{props: props}
	node, err := strata.Register(scope, id, p)
	if err != nil {
		return nil, err
	}
	p.node = node
	// Ref on a scaling policy returns its ARN.
	p.arn = strata.Lazy(p, func() (any, error) {
		id, err := strata.LogicalID(p)
		if err != nil {
			return nil, err
		}
		return intrinsics.Ref{LogicalName: id}, nil
	})
	p.adjustments = strata.NewCapturedList[StepAdjustment](p)
	return p, nil
}

// Node returns the policy's tree node.
func (p *StepScalingPolicy) Node() *strata.Node { return p.node }

// Arn returns the policy's deploy-time ARN.
func (p *StepScalingPolicy) Arn() *strata.Token { return p.arn }

// AddAdjustment appends a scaling tier. Fails with *InvalidTierError
// when neither bound is set; succeeds with either. Tiers keep call
// order.
func (p *StepScalingPolicy) AddAdjustment(adj StepAdjustment) error {
	if adj.LowerBound == nil && adj.UpperBound == nil {
		return &InvalidTierError{Policy: p.node.PathString()}
	}
	return p.adjustments.Append(adj)
}

// AdjustmentCount returns the number of tiers added so far.
func (p *StepScalingPolicy) AdjustmentCount() int { return p.adjustments.Len() }

// BindAlarmAction lets the policy serve as a CloudWatch alarm action;
// the bound value is the policy's ARN.
func (p *StepScalingPolicy) BindAlarmAction(*cloudwatch.Alarm) (any, error) {
	return p.arn, nil
}

// ResourceType returns the CloudFormation type.
func (p *StepScalingPolicy) ResourceType() string {
	return "AWS::ApplicationAutoScaling::ScalingPolicy"
}

type stepScalingPolicyProperties struct {
	PolicyName                     string
	PolicyType                     string
	ScalingTargetId                any
	StepScalingPolicyConfiguration stepScalingConfiguration
}

type stepScalingConfiguration struct {
	AdjustmentType        string
	Cooldown              int
	MetricAggregationType string
	StepAdjustments       *strata.Token
}

// ResourceProperties returns the resource's property struct. The tier
// list is a deferred read of the captured collection.
func (p *StepScalingPolicy) ResourceProperties() any {
	name := p.props.PolicyName
	if name == "" {
		name = p.node.UniqueID()
	}
	return stepScalingPolicyProperties{
		PolicyName:      name,
		PolicyType:      "StepScaling",
		ScalingTargetId: p.props.ScalingTargetId,
		StepScalingPolicyConfiguration: stepScalingConfiguration{
			AdjustmentType:        p.props.AdjustmentType,
			Cooldown:              p.props.Cooldown,
			MetricAggregationType: p.props.MetricAggregationType,
			StepAdjustments:       p.adjustments.Token(),
		},
	}
}

// Float is a convenience for optional bound literals:
//
//	AddAdjustment(StepAdjustment{UpperBound: applicationautoscaling.Float(10), Adjustment: 1})
func Float(v float64) *float64 { return &v }
