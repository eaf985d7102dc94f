// Package cloudwatch provides the CloudWatch alarm construct. Alarm
// action lists are captured collections: actions registered after
// construction become visible at synthesis time, in call order.
package cloudwatch

import (
	strata "github.com/lex00/strata-aws-go"
	"github.com/lex00/strata-aws-go/intrinsics"
)

// AlarmAction is anything that can be registered as an alarm action. The
// binding contract: given the alarm, produce the action's ARN value
// (a string or an intrinsic). sns.Topic and
// applicationautoscaling.StepScalingPolicy implement it.
type AlarmAction interface {
	BindAlarmAction(a *Alarm) (any, error)
}

// IAlarm is an alarm handle: live or imported. Imported alarms expose
// their ARN but their action lists belong to the existing definition and
// cannot be mutated from here.
type IAlarm interface {
	strata.Construct

	// Arn returns the alarm's ARN.
	Arn() *strata.Token

	// AddAlarmAction registers an action fired on ALARM state.
	AddAlarmAction(act AlarmAction) error
}

// Dimension is a metric dimension.
type Dimension struct {
	Name  string `json:"Name"`
	Value any    `json:"Value"`
}

// AlarmProps configures an Alarm.
type AlarmProps struct {
	// AlarmName is the physical name. When empty, CloudFormation
	// generates one.
	AlarmName string
	// AlarmDescription describes the alarm.
	AlarmDescription string
	// Namespace is the metric namespace (e.g. "AWS/SQS").
	Namespace string
	// MetricName is the metric to watch.
	MetricName string
	// Statistic is the aggregation (e.g. "Average", "Sum").
	Statistic string
	// Dimensions narrow the metric.
	Dimensions []Dimension
	// Period is the evaluation period in seconds.
	Period int
	// EvaluationPeriods is the number of periods to evaluate.
	EvaluationPeriods int
	// Threshold is the value compared against the metric.
	Threshold float64
	// ComparisonOperator, e.g. "GreaterThanThreshold".
	ComparisonOperator string
	// TreatMissingData, e.g. "notBreaching".
	TreatMissingData string
}

// Alarm is an AWS::CloudWatch::Alarm resource. The three action lists
// start absent: an alarm that never had an action configured omits the
// property entirely, which CloudFormation treats differently from an
// explicit empty list.
type Alarm struct {
	node  *strata.Node
	props AlarmProps
	arn   *strata.Token

	alarmActions            *strata.CapturedList[any]
	okActions               *strata.CapturedList[any]
	insufficientDataActions *strata.CapturedList[any]
}

// NewAlarm declares an alarm.
func NewAlarm(scope strata.Construct, id string, props AlarmProps) (*Alarm, error) {
	a := &Alarm{props: props}
	node, err := strata.Register(scope, id, a)
	if err != nil {
		return nil, err
	}
	a.node = node
	a.arn = strata.Lazy(a, func() (any, error) {
		id, err := strata.LogicalID(a)
		if err != nil {
			return nil, err
		}
		return intrinsics.GetAtt{LogicalName: id, Attribute: "Arn"}, nil
	})
	a.alarmActions = strata.NewCapturedList[any](a)
	a.okActions = strata.NewCapturedList[any](a)
	a.insufficientDataActions = strata.NewCapturedList[any](a)
	return a, nil
}

// Node returns the alarm's tree node.
func (a *Alarm) Node() *strata.Node { return a.node }

// Arn returns the alarm's deploy-time ARN (Fn::GetAtt).
func (a *Alarm) Arn() *strata.Token { return a.arn }

// AddAlarmAction registers an action fired when the alarm enters ALARM
// state. Actions appear in the template in call order.
func (a *Alarm) AddAlarmAction(act AlarmAction) error {
	return a.addAction(a.alarmActions, act)
}

// AddOKAction registers an action fired when the alarm returns to OK.
func (a *Alarm) AddOKAction(act AlarmAction) error {
	return a.addAction(a.okActions, act)
}

// AddInsufficientDataAction registers an action fired when the alarm has
// insufficient data.
func (a *Alarm) AddInsufficientDataAction(act AlarmAction) error {
	return a.addAction(a.insufficientDataActions, act)
}

func (a *Alarm) addAction(list *strata.CapturedList[any], act AlarmAction) error {
	arn, err := act.BindAlarmAction(a)
	if err != nil {
		return err
	}
	return list.Append(arn)
}

// ResourceType returns the CloudFormation type.
func (a *Alarm) ResourceType() string { return "AWS::CloudWatch::Alarm" }

type alarmProperties struct {
	AlarmName               string
	AlarmDescription        string
	Namespace               string
	MetricName              string
	Statistic               string
	Dimensions              []Dimension
	Period                  int
	EvaluationPeriods       int
	Threshold               float64
	ComparisonOperator      string
	TreatMissingData        string
	AlarmActions            *strata.Token
	OKActions               *strata.Token
	InsufficientDataActions *strata.Token
}

// ResourceProperties returns the resource's property struct. Action lists
// are deferred reads of the captured collections.
func (a *Alarm) ResourceProperties() any {
	return alarmProperties{
		AlarmName:               a.props.AlarmName,
		AlarmDescription:        a.props.AlarmDescription,
		Namespace:               a.props.Namespace,
		MetricName:              a.props.MetricName,
		Statistic:               a.props.Statistic,
		Dimensions:              a.props.Dimensions,
		Period:                  a.props.Period,
		EvaluationPeriods:       a.props.EvaluationPeriods,
		Threshold:               a.props.Threshold,
		ComparisonOperator:      a.props.ComparisonOperator,
		TreatMissingData:        a.props.TreatMissingData,
		AlarmActions:            a.alarmActions.Token(),
		OKActions:               a.okActions.Token(),
		InsufficientDataActions: a.insufficientDataActions.Token(),
	}
}

// AlarmFromArn imports an existing alarm by ARN. The reference registers
// a tree node but emits no resource; its action lists belong to the
// existing alarm definition, so AddAlarmAction fails with
// *strata.UnsupportedOnImportError.
func AlarmFromArn(scope strata.Construct, id string, arn string) (IAlarm, error) {
	a := &importedAlarm{arn: strata.Constant(arn)}
	node, err := strata.Register(scope, id, a)
	if err != nil {
		return nil, err
	}
	a.node = node
	return a, nil
}

type importedAlarm struct {
	node *strata.Node
	arn  *strata.Token
}

func (a *importedAlarm) Node() *strata.Node { return a.node }

func (a *importedAlarm) Arn() *strata.Token { return a.arn }

func (a *importedAlarm) AddAlarmAction(AlarmAction) error {
	return &strata.UnsupportedOnImportError{
		Path:       a.node.PathString(),
		Capability: "AddAlarmAction",
	}
}
