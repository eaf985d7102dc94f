// Package sns provides SNS topic and subscription constructs. Topics can
// be imported by ARN; imported topics keep their endpoint-only
// capabilities (subscribe, grant) but resource-policy attachment degrades
// to a no-op because no policy resource can be owned for them.
package sns

import (
	"strings"

	strata "github.com/lex00/strata-aws-go"
	"github.com/lex00/strata-aws-go/cloudwatch"
	"github.com/lex00/strata-aws-go/iam"
	"github.com/lex00/strata-aws-go/intrinsics"
)

// ITopic is a topic handle: live or imported.
type ITopic interface {
	strata.Construct

	// Arn returns the topic's ARN.
	Arn() *strata.Token

	// Name returns the topic's name.
	Name() *strata.Token

	// AddToResourcePolicy adds a statement to the topic's resource
	// policy. Returns true when the statement was registered; imported
	// topics report false and drop the statement.
	AddToResourcePolicy(s intrinsics.PolicyStatement) (bool, error)

	// GrantPublish allows the grantee to publish to this topic.
	GrantPublish(g iam.Grantable) (bool, error)

	// Subscribe creates an AWS::SNS::Subscription for this topic.
	Subscribe(id string, props SubscriptionProps) (*Subscription, error)

	// BindAlarmAction lets the topic serve as a CloudWatch alarm action.
	BindAlarmAction(a *cloudwatch.Alarm) (any, error)
}

// TopicProps configures a Topic.
type TopicProps struct {
	// TopicName is the physical name. When empty, CloudFormation
	// generates one.
	TopicName string
	// DisplayName is shown in SMS and email notifications.
	DisplayName string
}

// Topic is an AWS::SNS::Topic resource.
type Topic struct {
	node   *strata.Node
	props  TopicProps
	arn    *strata.Token
	name   *strata.Token
	policy *topicPolicy
}

// NewTopic declares a topic.
func NewTopic(scope strata.Construct, id string, props TopicProps) (*Topic, error) {
	t := &Topic{props: props}
	node, err := strata.Register(scope, id, t)
	if err != nil {
		return nil, err
	}
	t.node = node
	// Ref on an SNS topic returns its ARN.
	t.arn = strata.Lazy(t, func() (any, error) {
		id, err := strata.LogicalID(t)
		if err != nil {
			return nil, err
		}
		return intrinsics.Ref{LogicalName: id}, nil
	})
	t.name = strata.Lazy(t, func() (any, error) {
		id, err := strata.LogicalID(t)
		if err != nil {
			return nil, err
		}
		return intrinsics.GetAtt{LogicalName: id, Attribute: "TopicName"}, nil
	})
	return t, nil
}

// Node returns the topic's tree node.
func (t *Topic) Node() *strata.Node { return t.node }

// Arn returns the topic's deploy-time ARN.
func (t *Topic) Arn() *strata.Token { return t.arn }

// Name returns the topic's deploy-time name.
func (t *Topic) Name() *strata.Token { return t.name }

// AddToResourcePolicy adds a statement to the topic's resource policy,
// creating the AWS::SNS::TopicPolicy child resource on first use.
// Statements merge per iam.MergeStatements.
func (t *Topic) AddToResourcePolicy(s intrinsics.PolicyStatement) (bool, error) {
	if t.policy == nil {
		p, err := newTopicPolicy(t, "Policy")
		if err != nil {
			return false, err
		}
		t.policy = p
	}
	if err := t.policy.addStatement(s); err != nil {
		return false, err
	}
	return true, nil
}

// GrantPublish allows the grantee to publish to this topic.
func (t *Topic) GrantPublish(g iam.Grantable) (bool, error) {
	return g.AddToRolePolicy(intrinsics.PolicyStatement{
		Effect:   "Allow",
		Action:   "sns:Publish",
		Resource: t.arn,
	})
}

// Subscribe creates a subscription for this topic as a child construct.
func (t *Topic) Subscribe(id string, props SubscriptionProps) (*Subscription, error) {
	return newSubscription(t, id, t.arn, props)
}

// BindAlarmAction lets the topic serve as a CloudWatch alarm action; the
// bound value is the topic's ARN.
func (t *Topic) BindAlarmAction(*cloudwatch.Alarm) (any, error) {
	return t.arn, nil
}

// ResourceType returns the CloudFormation type.
func (t *Topic) ResourceType() string { return "AWS::SNS::Topic" }

type topicProperties struct {
	TopicName   string
	DisplayName string
}

// ResourceProperties returns the resource's property struct.
func (t *Topic) ResourceProperties() any {
	return topicProperties{
		TopicName:   t.props.TopicName,
		DisplayName: t.props.DisplayName,
	}
}

// topicPolicy is the lazily-created AWS::SNS::TopicPolicy child resource.
type topicPolicy struct {
	node       *strata.Node
	topic      *Topic
	statements *strata.CapturedList[intrinsics.PolicyStatement]
}

func newTopicPolicy(topic *Topic, id string) (*topicPolicy, error) {
	p := &topicPolicy{topic: topic}
	node, err := strata.Register(topic, id, p)
	if err != nil {
		return nil, err
	}
	p.node = node
	p.statements = strata.NewCapturedList[intrinsics.PolicyStatement](p)
	return p, nil
}

func (p *topicPolicy) addStatement(s intrinsics.PolicyStatement) error {
	return p.statements.Mutate(func(stmts []intrinsics.PolicyStatement) []intrinsics.PolicyStatement {
		return iam.MergeStatements(append(stmts, s))
	})
}

func (p *topicPolicy) Node() *strata.Node { return p.node }

func (p *topicPolicy) ResourceType() string { return "AWS::SNS::TopicPolicy" }

type topicPolicyProperties struct {
	PolicyDocument topicPolicyDocument
	Topics         []any
}

type topicPolicyDocument struct {
	Version   string
	Statement *strata.Token
}

func (p *topicPolicy) ResourceProperties() any {
	return topicPolicyProperties{
		PolicyDocument: topicPolicyDocument{
			Version:   intrinsics.PolicyVersion,
			Statement: p.statements.Token(),
		},
		Topics: []any{p.topic.Arn()},
	}
}

// TopicFromArn imports an existing topic by ARN. The reference registers
// a tree node so it participates in unique naming and diagnostics, but it
// emits no resource. Attaching a resource policy is a no-op (there is no
// owned policy resource to attach to); subscribing and granting work
// fully, since both are endpoint-only relationships.
func TopicFromArn(scope strata.Construct, id string, arn string) (ITopic, error) {
	t := &importedTopic{
		arn:  strata.Constant(arn),
		name: strata.Constant(topicNameFromArn(arn)),
	}
	node, err := strata.Register(scope, id, t)
	if err != nil {
		return nil, err
	}
	t.node = node
	return t, nil
}

type importedTopic struct {
	node *strata.Node
	arn  *strata.Token
	name *strata.Token
}

func (t *importedTopic) Node() *strata.Node { return t.node }

func (t *importedTopic) Arn() *strata.Token { return t.arn }

func (t *importedTopic) Name() *strata.Token { return t.name }

func (t *importedTopic) AddToResourcePolicy(intrinsics.PolicyStatement) (bool, error) {
	return false, nil
}

func (t *importedTopic) GrantPublish(g iam.Grantable) (bool, error) {
	return g.AddToRolePolicy(intrinsics.PolicyStatement{
		Effect:   "Allow",
		Action:   "sns:Publish",
		Resource: t.arn,
	})
}

func (t *importedTopic) Subscribe(id string, props SubscriptionProps) (*Subscription, error) {
	return newSubscription(t, id, t.arn, props)
}

func (t *importedTopic) BindAlarmAction(*cloudwatch.Alarm) (any, error) {
	return t.arn, nil
}

// topicNameFromArn extracts the topic name from an SNS topic ARN.
func topicNameFromArn(arn string) string {
	if i := strings.LastIndexByte(arn, ':'); i >= 0 {
		return arn[i+1:]
	}
	return arn
}
