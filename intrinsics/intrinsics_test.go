package intrinsics

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marshal(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestIntrinsics_WireShapes(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"Ref", Ref{LogicalName: "AlertTopic"}, `{"Ref": "AlertTopic"}`},
		{"GetAtt", GetAtt{LogicalName: "ServiceRole", Attribute: "Arn"}, `{"Fn::GetAtt": ["ServiceRole", "Arn"]}`},
		{"Sub", Sub{String: "${AWS::Region}-alerts"}, `{"Fn::Sub": "${AWS::Region}-alerts"}`},
		{"Join", Join{Delimiter: ":", Values: []any{"a", "b"}}, `{"Fn::Join": [":", ["a", "b"]]}`},
		{"Split", Split{Delimiter: ",", Source: "a,b,c"}, `{"Fn::Split": [",", "a,b,c"]}`},
		{"GetAZs empty", GetAZs{}, `{"Fn::GetAZs": ""}`},
		{"GetAZs region", GetAZs{Region: "us-east-1"}, `{"Fn::GetAZs": "us-east-1"}`},
		{"Base64", Base64{Value: "payload"}, `{"Fn::Base64": "payload"}`},
		{"ImportValue", ImportValue{ExportName: "SharedTopicArn"}, `{"Fn::ImportValue": "SharedTopicArn"}`},
		{"If", If{Condition: "IsProd", ValueIfTrue: "3", ValueIfFalse: "1"}, `{"Fn::If": ["IsProd", "3", "1"]}`},
		{"Equals", Equals{Value1: "prod", Value2: "prod"}, `{"Fn::Equals": ["prod", "prod"]}`},
		{"Not", Not{Condition: "IsProd"}, `{"Fn::Not": ["IsProd"]}`},
		{"FindInMap", FindInMap{MapName: "RegionMap", TopKey: "us-east-1", SecondKey: "AMI"}, `{"Fn::FindInMap": ["RegionMap", "us-east-1", "AMI"]}`},
		{"Cidr", Cidr{IPBlock: "10.0.0.0/16", Count: 6, CidrBits: 8}, `{"Fn::Cidr": ["10.0.0.0/16", 6, 8]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.JSONEq(t, tt.want, marshal(t, tt.value))
		})
	}
}

func TestIntrinsics_Compose(t *testing.T) {
	// Intrinsics nest: each level keeps its own wire form.
	v := Select{Index: 0, List: GetAZs{}}
	assert.JSONEq(t, `{"Fn::Select": [0, {"Fn::GetAZs": ""}]}`, marshal(t, v))

	sub := SubWithMap{
		String:    "${Topic}-dlq",
		Variables: map[string]any{"Topic": Ref{LogicalName: "AlertTopic"}},
	}
	assert.JSONEq(t,
		`{"Fn::Sub": ["${Topic}-dlq", {"Topic": {"Ref": "AlertTopic"}}]}`,
		marshal(t, sub))

	cond := And{Conditions: []any{
		Equals{Value1: Ref{LogicalName: "Env"}, Value2: "prod"},
		Or{Conditions: []any{
			Equals{Value1: AWS_REGION, Value2: "us-east-1"},
			Equals{Value1: AWS_REGION, Value2: "us-west-2"},
		}},
	}}
	out := marshal(t, cond)
	assert.Contains(t, out, `"Fn::And"`)
	assert.Contains(t, out, `"Fn::Or"`)
	assert.Contains(t, out, `{"Ref":"AWS::Region"}`)
}

func TestParam(t *testing.T) {
	// Param is shorthand for a Ref to a template parameter.
	assert.Equal(t, Ref{LogicalName: "Environment"}, Param("Environment"))
	assert.JSONEq(t, `{"Ref": "Environment"}`, marshal(t, Param("Environment")))
}

func TestTag(t *testing.T) {
	tag := Tag{Key: "Team", Value: "platform"}
	assert.JSONEq(t, `{"Key": "Team", "Value": "platform"}`, marshal(t, tag))

	// Tag values may be deferred.
	tag = Tag{Key: "Stack", Value: AWS_STACK_NAME}
	assert.JSONEq(t, `{"Key": "Stack", "Value": {"Ref": "AWS::StackName"}}`, marshal(t, tag))
}

func TestPseudoParameters(t *testing.T) {
	tests := []struct {
		param Ref
		want  string
	}{
		{AWS_ACCOUNT_ID, "AWS::AccountId"},
		{AWS_NOTIFICATION_ARNS, "AWS::NotificationARNs"},
		{AWS_NO_VALUE, "AWS::NoValue"},
		{AWS_PARTITION, "AWS::Partition"},
		{AWS_REGION, "AWS::Region"},
		{AWS_STACK_ID, "AWS::StackId"},
		{AWS_STACK_NAME, "AWS::StackName"},
		{AWS_URL_SUFFIX, "AWS::URLSuffix"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, Ref{LogicalName: tt.want}, tt.param)
		})
	}
}
