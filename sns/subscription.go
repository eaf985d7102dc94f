package sns

import (
	strata "github.com/lex00/strata-aws-go"
)

// SubscriptionProps configures a Subscription.
type SubscriptionProps struct {
	// Protocol is the delivery protocol: "email", "https", "sqs",
	// "lambda", etc.
	Protocol string
	// Endpoint receives the notifications; a string or an intrinsic
	// (e.g. a queue ARN token).
	Endpoint any
	// RawMessageDelivery skips the SNS envelope for sqs/https endpoints.
	RawMessageDelivery bool
}

// Subscription is an AWS::SNS::Subscription resource. It is created via
// ITopic.Subscribe and works identically for live and imported topics:
// the relationship needs only the topic ARN.
type Subscription struct {
	node     *strata.Node
	topicArn *strata.Token
	props    SubscriptionProps
}

func newSubscription(scope strata.Construct, id string, topicArn *strata.Token, props SubscriptionProps) (*Subscription, error) {
	s := &Subscription{topicArn: topicArn, props: props}
	node, err := strata.Register(scope, id, s)
	if err != nil {
		return nil, err
	}
	s.node = node
	return s, nil
}

// Node returns the subscription's tree node.
func (s *Subscription) Node() *strata.Node { return s.node }

// ResourceType returns the CloudFormation type.
func (s *Subscription) ResourceType() string { return "AWS::SNS::Subscription" }

type subscriptionProperties struct {
	TopicArn           *strata.Token
	Protocol           string
	Endpoint           any
	RawMessageDelivery bool
}

// ResourceProperties returns the resource's property struct.
func (s *Subscription) ResourceProperties() any {
	return subscriptionProperties{
		TopicArn:           s.topicArn,
		Protocol:           s.props.Protocol,
		Endpoint:           s.props.Endpoint,
		RawMessageDelivery: s.props.RawMessageDelivery,
	}
}
