// Package differ provides semantic comparison of CloudFormation templates.
package differ

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"sort"

	"gopkg.in/yaml.v3"

	strata "github.com/lex00/strata-aws-go"
)

// Entry describes one resource-level difference.
type Entry struct {
	// Resource is the logical id.
	Resource string
	// Type is the CloudFormation resource type.
	Type string
}

// Result contains the difference between two templates. Entries are
// sorted by logical id.
type Result struct {
	Added   []Entry
	Removed []Entry
	Changed []Entry
}

// Empty reports whether the two templates were semantically identical.
func (r *Result) Empty() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0 && len(r.Changed) == 0
}

// Compare compares two CloudFormation templates, treating the first as
// the old state and the second as the new.
func Compare(oldT, newT *strata.Template) *Result {
	result := &Result{}

	for name, def := range newT.Resources {
		if _, exists := oldT.Resources[name]; !exists {
			result.Added = append(result.Added, Entry{Resource: name, Type: def.Type})
		}
	}

	for name, def := range oldT.Resources {
		newDef, exists := newT.Resources[name]
		if !exists {
			result.Removed = append(result.Removed, Entry{Resource: name, Type: def.Type})
			continue
		}
		if !reflect.DeepEqual(normalize(def), normalize(newDef)) {
			result.Changed = append(result.Changed, Entry{Resource: name, Type: newDef.Type})
		}
	}

	sortEntries(result.Added)
	sortEntries(result.Removed)
	sortEntries(result.Changed)
	return result
}

// Load reads a template from a JSON or YAML file.
func Load(path string) (*strata.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template: %w", err)
	}
	var t strata.Template
	if json.Valid(data) {
		if err := json.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", path, err)
		}
		return &t, nil
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", path, err)
	}
	return &t, nil
}

// normalize round-trips a resource definition through JSON so numeric
// types compare by value rather than by Go type.
func normalize(def strata.ResourceDef) any {
	data, err := json.Marshal(def)
	if err != nil {
		return def
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return def
	}
	return out
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Resource < entries[j].Resource
	})
}
