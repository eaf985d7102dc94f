package intrinsics

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServicePrincipal_Single(t *testing.T) {
	p := ServicePrincipal{"sns.amazonaws.com"}
	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Service": "sns.amazonaws.com"}`, string(data))
}

func TestServicePrincipal_Multiple(t *testing.T) {
	p := ServicePrincipal{"ec2.amazonaws.com", "lambda.amazonaws.com"}
	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Service": ["ec2.amazonaws.com", "lambda.amazonaws.com"]}`, string(data))
}

func TestAWSPrincipal_Single(t *testing.T) {
	p := AWSPrincipal{"arn:aws:iam::123456789012:root"}
	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"AWS": "arn:aws:iam::123456789012:root"}`, string(data))
}

func TestNewPolicyDocument(t *testing.T) {
	doc := NewPolicyDocument(
		PolicyStatement{Effect: "Allow", Action: []any{"sns:Publish"}, Resource: "*"},
	)
	assert.Equal(t, PolicyVersion, doc.Version)
	require.Len(t, doc.Statement, 1)

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"Version": "2012-10-17",
		"Statement": [{"Effect": "Allow", "Action": ["sns:Publish"], "Resource": "*"}]
	}`, string(data))
}

func TestPolicyStatement_OmitsEmptyFields(t *testing.T) {
	stmt := PolicyStatement{Effect: "Allow"}
	data, err := json.Marshal(stmt)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Effect": "Allow"}`, string(data))
}

func TestPolicyStatement_Condition(t *testing.T) {
	stmt := PolicyStatement{
		Effect: "Deny",
		Action: "*",
		Condition: Json{
			Bool: Json{"aws:SecureTransport": false},
		},
	}
	data, err := json.Marshal(stmt)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"Effect": "Deny",
		"Action": "*",
		"Condition": {"Bool": {"aws:SecureTransport": false}}
	}`, string(data))
}

func TestAllow(t *testing.T) {
	stmt := Allow(Any("sns:Publish"), Any("arn:aws:sns:us-east-1:1234:topic"))
	assert.Equal(t, "Allow", stmt.Effect)
	assert.Equal(t, []any{"sns:Publish"}, stmt.Action)
}

func TestListAndAny(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, List("a", "b"))
	assert.Equal(t, []any{"a", 1}, Any("a", 1))
}
