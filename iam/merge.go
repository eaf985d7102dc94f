package iam

import (
	"encoding/json"
	"fmt"
	"reflect"

	strata "github.com/lex00/strata-aws-go"
	"github.com/lex00/strata-aws-go/intrinsics"
)

// MergeStatements deduplicates a statement list: statements with identical
// effect, action set, principal and condition are merged by resource-list
// union instead of being emitted twice. First-occurrence order is
// preserved, as is the order of resources within a merged statement.
//
// Statements whose condition blocks differ are never merged, even when the
// conditions do not conflict; partial overlap resolution is left to the
// caller.
func MergeStatements(stmts []intrinsics.PolicyStatement) []intrinsics.PolicyStatement {
	var out []intrinsics.PolicyStatement
	for _, s := range stmts {
		out = mergeStatement(out, s)
	}
	return out
}

// mergeStatement folds s into stmts, merging with an existing statement
// when the merge key matches.
func mergeStatement(stmts []intrinsics.PolicyStatement, s intrinsics.PolicyStatement) []intrinsics.PolicyStatement {
	key, ok := statementKey(s)
	if !ok {
		return append(stmts, s)
	}
	for i := range stmts {
		existing, keyable := statementKey(stmts[i])
		if keyable && existing == key {
			stmts[i].Resource = unionResources(stmts[i].Resource, s.Resource)
			return stmts
		}
	}
	return append(stmts, s)
}

// statementKey derives a canonical merge key from everything except the
// resource list. Statements containing unresolved Tokens outside the
// resource list are not keyable and never merge.
func statementKey(s intrinsics.PolicyStatement) (string, bool) {
	shape := struct {
		Sid       string          `json:"Sid,omitempty"`
		Effect    string          `json:"Effect"`
		Principal any             `json:"Principal,omitempty"`
		Action    any             `json:"Action,omitempty"`
		Condition intrinsics.Json `json:"Condition,omitempty"`
	}{s.Sid, s.Effect, s.Principal, s.Action, s.Condition}

	if containsToken(shape.Principal) || containsToken(shape.Action) || containsToken(shape.Condition) {
		return "", false
	}

	// json.Marshal sorts map keys, so equal conditions canonicalize to
	// equal bytes regardless of construction order.
	data, err := json.Marshal(shape)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// unionResources combines two Resource values (scalar, list or absent)
// into a deduplicated list, keeping addition order.
func unionResources(a, b any) any {
	entries := append(flattenResources(a), flattenResources(b)...)
	var out []any
	seen := make(map[string]bool)
	for _, e := range entries {
		k := resourceKey(e)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, e)
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	default:
		return out
	}
}

func flattenResources(v any) []any {
	switch r := v.(type) {
	case nil:
		return nil
	case []any:
		return r
	case []string:
		out := make([]any, len(r))
		for i, s := range r {
			out[i] = s
		}
		return out
	default:
		return []any{v}
	}
}

// resourceKey identifies a resource entry for deduplication. Unresolved
// Tokens compare by identity: two distinct Tokens may resolve to the same
// ARN, but that cannot be known before synthesis, so they stay separate.
func resourceKey(v any) string {
	if t, ok := v.(*strata.Token); ok {
		return fmt.Sprintf("token:%p", t)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("unkeyed:%v", v)
	}
	return "json:" + string(data)
}

// containsToken walks a value looking for deferred Tokens.
func containsToken(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.(*strata.Token); ok {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if containsToken(rv.Index(i).Interface()) {
				return true
			}
		}
	case reflect.Map:
		iter := rv.MapRange()
		for iter.Next() {
			if containsToken(iter.Value().Interface()) {
				return true
			}
		}
	}
	return false
}
