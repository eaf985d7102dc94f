// Package strata provides a construct tree for declaring AWS infrastructure
// and synthesizing it into CloudFormation templates.
//
// Applications build a tree of constructs bottom-up, mutate resources after
// construction (add alarm actions, scaling adjustments, policy statements),
// and then run a single synthesis pass:
//
//	app := strata.NewApp()
//	stack, _ := strata.NewStack(app, "Monitoring", strata.StackProps{})
//
//	topic, _ := sns.NewTopic(stack, "Alerts", sns.TopicProps{})
//	alarm, _ := cloudwatch.NewAlarm(stack, "HighLatency", cloudwatch.AlarmProps{
//	    Namespace:  "AWS/ApplicationELB",
//	    MetricName: "TargetResponseTime",
//	    Threshold:  5,
//	})
//	alarm.AddAlarmAction(topic)
//
//	assembly, _ := app.Synth()
//
// Values that are not known until deployment (ARNs, generated names, the
// contents of mutable collections) are carried as Tokens and resolved only
// during synthesis. Synthesis is deterministic: the same tree always
// produces byte-identical output.
package strata

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Construct is implemented by every participant in the construct tree.
// Constructs embed or hold a *Node and return it here; all tree operations
// (pathing, unique naming, ancestor lookup) go through the Node.
type Construct interface {
	// Node returns the construct's tree node.
	Node() *Node
}

// Resource is a construct that emits a CloudFormation resource during
// synthesis. All resource types (sns.Topic, cloudwatch.Alarm, etc.)
// implement this interface. Imported references do not: they participate
// in the tree but emit nothing.
type Resource interface {
	Construct

	// ResourceType returns the CloudFormation type (e.g., "AWS::SNS::Topic").
	ResourceType() string

	// ResourceProperties returns the property struct for the resource.
	// Fields may hold Tokens and intrinsics; both are resolved during
	// synthesis.
	ResourceProperties() any
}

// Template represents a CloudFormation template.
type Template struct {
	AWSTemplateFormatVersion string                 `json:"AWSTemplateFormatVersion" yaml:"AWSTemplateFormatVersion"`
	Description              string                 `json:"Description,omitempty" yaml:"Description,omitempty"`
	Parameters               map[string]Parameter   `json:"Parameters,omitempty" yaml:"Parameters,omitempty"`
	Resources                map[string]ResourceDef `json:"Resources" yaml:"Resources"`
	Outputs                  map[string]Output      `json:"Outputs,omitempty" yaml:"Outputs,omitempty"`
}

// ResourceDef is a single resource in the CloudFormation template.
type ResourceDef struct {
	Type       string         `json:"Type" yaml:"Type"`
	Properties map[string]any `json:"Properties,omitempty" yaml:"Properties,omitempty"`
	DependsOn  []string       `json:"DependsOn,omitempty" yaml:"DependsOn,omitempty"`
}

// Parameter is a CloudFormation template parameter.
type Parameter struct {
	Type          string `json:"Type" yaml:"Type"`
	Description   string `json:"Description,omitempty" yaml:"Description,omitempty"`
	Default       any    `json:"Default,omitempty" yaml:"Default,omitempty"`
	AllowedValues []any  `json:"AllowedValues,omitempty" yaml:"AllowedValues,omitempty"`
}

// Output is a CloudFormation stack output.
type Output struct {
	Description string `json:"Description,omitempty" yaml:"Description,omitempty"`
	Value       any    `json:"Value" yaml:"Value"`
	Export      *struct {
		Name string `json:"Name" yaml:"Name"`
	} `json:"Export,omitempty" yaml:"Export,omitempty"`
}

// ToJSON serializes the template to indented JSON. Map keys are emitted in
// sorted order, so serializing the same template twice produces identical
// bytes.
func (t *Template) ToJSON() ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// ToYAML serializes the template to YAML.
func (t *Template) ToYAML() ([]byte, error) {
	return yaml.Marshal(t)
}
