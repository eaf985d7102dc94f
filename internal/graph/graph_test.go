package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	strata "github.com/lex00/strata-aws-go"
)

func demoTemplate() *strata.Template {
	return &strata.Template{
		Resources: map[string]strata.ResourceDef{
			"AlertTopic": {
				Type: "AWS::SNS::Topic",
				Properties: map[string]any{
					"TopicName": "alerts",
				},
			},
			"HighCPUAlarm": {
				Type: "AWS::CloudWatch::Alarm",
				Properties: map[string]any{
					"AlarmActions": []any{
						map[string]any{"Ref": "AlertTopic"},
					},
					"MetricName": "CPUUtilization",
				},
			},
			"ServiceRole": {
				Type: "AWS::IAM::Role",
				Properties: map[string]any{
					"RoleName": "service",
				},
			},
			"AccessPolicy": {
				Type: "AWS::IAM::Policy",
				Properties: map[string]any{
					"Roles": []any{
						map[string]any{"Fn::GetAtt": []any{"ServiceRole", "Arn"}},
					},
				},
			},
		},
	}
}

func TestGenerator_DOTOutput(t *testing.T) {
	g := &Generator{Format: FormatDOT}
	out, err := g.GenerateString(demoTemplate())
	require.NoError(t, err)

	assert.Contains(t, out, "digraph")
	assert.Contains(t, out, "AlertTopic")
	assert.Contains(t, out, "AWS::CloudWatch::Alarm")
}

func TestGenerator_DefaultsToDOT(t *testing.T) {
	g := &Generator{}
	out, err := g.GenerateString(demoTemplate())
	require.NoError(t, err)
	assert.Contains(t, out, "digraph")
}

func TestGenerator_MermaidOutput(t *testing.T) {
	g := &Generator{Format: FormatMermaid}
	out, err := g.GenerateString(demoTemplate())
	require.NoError(t, err)
	assert.NotContains(t, out, "digraph")
	assert.True(t, strings.Contains(out, "graph") || strings.Contains(out, "flowchart"))
}

func TestGenerator_EdgesFromRefs(t *testing.T) {
	template := demoTemplate()

	// The alarm references the topic via Ref in its action list, the
	// policy references the role via Fn::GetAtt.
	refs := referencedResources(template.Resources["HighCPUAlarm"].Properties, template)
	assert.Equal(t, []string{"AlertTopic"}, refs)

	refs = referencedResources(template.Resources["AccessPolicy"].Properties, template)
	assert.Equal(t, []string{"ServiceRole"}, refs)

	g := &Generator{}
	out := g.buildGraph(template).String()
	assert.Contains(t, out, "->")
}

func TestGenerator_DeterministicOutput(t *testing.T) {
	g := &Generator{}
	first, err := g.GenerateString(demoTemplate())
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := g.GenerateString(demoTemplate())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestGenerator_IgnoresExternalRefs(t *testing.T) {
	tmpl := &strata.Template{
		Resources: map[string]strata.ResourceDef{
			"Only": {
				Type: "AWS::SNS::Topic",
				Properties: map[string]any{
					"Region": map[string]any{"Ref": "AWS::Region"},
				},
			},
		},
	}
	refs := referencedResources(tmpl.Resources["Only"].Properties, tmpl)
	assert.Empty(t, refs)
}

func TestGenerator_EmptyTemplate(t *testing.T) {
	g := &Generator{}
	out, err := g.GenerateString(&strata.Template{Resources: map[string]strata.ResourceDef{}})
	require.NoError(t, err)
	assert.Contains(t, out, "digraph")
}
