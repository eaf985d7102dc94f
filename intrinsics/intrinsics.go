// Package intrinsics provides CloudFormation intrinsic functions.
//
// Intrinsic values serialize to their CloudFormation JSON form:
//
//	Ref{LogicalName: "MyTopic"}                     → {"Ref": "MyTopic"}
//	GetAtt{LogicalName: "MyRole", Attribute: "Arn"} → {"Fn::GetAtt": ["MyRole", "Arn"]}
//	Sub{String: "${AWS::Region}-bucket"}            → {"Fn::Sub": "${AWS::Region}-bucket"}
//	Join{Delimiter: ",", Values: []any{"a", "b"}}   → {"Fn::Join": [",", ["a", "b"]]}
//
// Pseudo-parameters:
//
//	AWS_REGION, AWS_ACCOUNT_ID, AWS_STACK_NAME, etc.
package intrinsics

import (
	"encoding/json"
)

// Ref represents a CloudFormation Ref intrinsic function.
type Ref struct {
	LogicalName string
}

// MarshalJSON serializes to {"Ref": name}.
func (r Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"Ref": r.LogicalName})
}

// GetAtt represents a CloudFormation Fn::GetAtt intrinsic function.
type GetAtt struct {
	LogicalName string
	Attribute   string
}

// MarshalJSON serializes to {"Fn::GetAtt": [name, attribute]}.
func (g GetAtt) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]string{
		"Fn::GetAtt": {g.LogicalName, g.Attribute},
	})
}

// Sub represents a CloudFormation Fn::Sub intrinsic function.
type Sub struct {
	String string
}

// MarshalJSON serializes to {"Fn::Sub": string}.
func (s Sub) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"Fn::Sub": s.String})
}

// SubWithMap is Fn::Sub with a variable map.
type SubWithMap struct {
	String    string
	Variables map[string]any
}

// MarshalJSON serializes to {"Fn::Sub": [string, variables]}.
func (s SubWithMap) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]any{
		"Fn::Sub": {s.String, s.Variables},
	})
}

// Join represents a CloudFormation Fn::Join intrinsic function.
type Join struct {
	Delimiter string
	Values    []any
}

// MarshalJSON serializes to {"Fn::Join": [delimiter, values]}.
func (j Join) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]any{
		"Fn::Join": {j.Delimiter, j.Values},
	})
}

// Select represents a CloudFormation Fn::Select intrinsic function.
type Select struct {
	Index int
	List  any
}

// MarshalJSON serializes to {"Fn::Select": [index, list]}.
func (s Select) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]any{
		"Fn::Select": {s.Index, s.List},
	})
}

// Split represents a CloudFormation Fn::Split intrinsic function.
type Split struct {
	Delimiter string
	Source    any
}

// MarshalJSON serializes to {"Fn::Split": [delimiter, source]}.
func (s Split) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]any{
		"Fn::Split": {s.Delimiter, s.Source},
	})
}

// GetAZs represents a CloudFormation Fn::GetAZs intrinsic function.
type GetAZs struct {
	Region string
}

// MarshalJSON serializes to {"Fn::GetAZs": region}.
func (g GetAZs) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"Fn::GetAZs": g.Region})
}

// Base64 represents a CloudFormation Fn::Base64 intrinsic function.
type Base64 struct {
	Value any
}

// MarshalJSON serializes to {"Fn::Base64": value}.
func (b Base64) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"Fn::Base64": b.Value})
}

// ImportValue represents a CloudFormation Fn::ImportValue intrinsic function.
type ImportValue struct {
	ExportName any
}

// MarshalJSON serializes to {"Fn::ImportValue": name}.
func (i ImportValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"Fn::ImportValue": i.ExportName})
}

// If represents a CloudFormation Fn::If intrinsic function.
type If struct {
	Condition    string
	ValueIfTrue  any
	ValueIfFalse any
}

// MarshalJSON serializes to {"Fn::If": [condition, true, false]}.
func (i If) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]any{
		"Fn::If": {i.Condition, i.ValueIfTrue, i.ValueIfFalse},
	})
}

// Equals represents a CloudFormation Fn::Equals condition function.
type Equals struct {
	Value1 any
	Value2 any
}

// MarshalJSON serializes to {"Fn::Equals": [value1, value2]}.
func (e Equals) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]any{
		"Fn::Equals": {e.Value1, e.Value2},
	})
}

// And represents a CloudFormation Fn::And condition function.
type And struct {
	Conditions []any
}

// MarshalJSON serializes to {"Fn::And": conditions}.
func (a And) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]any{"Fn::And": a.Conditions})
}

// Or represents a CloudFormation Fn::Or condition function.
type Or struct {
	Conditions []any
}

// MarshalJSON serializes to {"Fn::Or": conditions}.
func (o Or) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]any{"Fn::Or": o.Conditions})
}

// Not represents a CloudFormation Fn::Not condition function.
type Not struct {
	Condition any
}

// MarshalJSON serializes to {"Fn::Not": [condition]}.
func (n Not) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]any{"Fn::Not": {n.Condition}})
}

// FindInMap represents a CloudFormation Fn::FindInMap intrinsic function.
type FindInMap struct {
	MapName   any
	TopKey    any
	SecondKey any
}

// MarshalJSON serializes to {"Fn::FindInMap": [map, topKey, secondKey]}.
func (f FindInMap) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]any{
		"Fn::FindInMap": {f.MapName, f.TopKey, f.SecondKey},
	})
}

// Cidr represents a CloudFormation Fn::Cidr intrinsic function.
type Cidr struct {
	IPBlock  any
	Count    int
	CidrBits int
}

// MarshalJSON serializes to {"Fn::Cidr": [block, count, bits]}.
func (c Cidr) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]any{
		"Fn::Cidr": {c.IPBlock, c.Count, c.CidrBits},
	})
}

// Tag represents a CloudFormation resource tag.
type Tag struct {
	Key   string `json:"Key"`
	Value any    `json:"Value"`
}

// Param creates a Ref for a CloudFormation parameter.
func Param(name string) Ref {
	return Ref{LogicalName: name}
}
