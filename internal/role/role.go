// Package role reconciles the designations a user holds against a requested set.
package role

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
)

// RoleInput is one entry of the requested roles list: either a bare name or an
// object with a "name" field. Anything else decodes to an empty name and is dropped.
type RoleInput struct {
	Name string
}

func (r *RoleInput) UnmarshalJSON(data []byte) error {
	r.Name = ""
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			r.Name = strings.TrimSpace(s)
		}
	case '{':
		var obj struct {
			Name json.RawMessage `json:"name"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil
		}
		var s string
		if err := json.Unmarshal(obj.Name, &s); err == nil {
			r.Name = strings.TrimSpace(s)
		}
	}
	return nil
}

// Names normalizes the inputs into a de-duplicated list, dropping empty entries.
func Names(inputs []RoleInput) []string {
	seen := make(map[string]struct{}, len(inputs))
	out := make([]string, 0, len(inputs))
	for _, in := range inputs {
		if in.Name == "" {
			continue
		}
		if _, ok := seen[in.Name]; ok {
			continue
		}
		seen[in.Name] = struct{}{}
		out = append(out, in.Name)
	}
	return out
}

// Reconcile returns the names to add (requested but not held) and to remove
// (held but not requested), both sorted.
func Reconcile(current, requested []string) (toAdd, toRemove []string) {
	held := toSet(current)
	want := toSet(requested)

	for name := range want {
		if _, ok := held[name]; !ok {
			toAdd = append(toAdd, name)
		}
	}
	for name := range held {
		if _, ok := want[name]; !ok {
			toRemove = append(toRemove, name)
		}
	}
	sort.Strings(toAdd)
	sort.Strings(toRemove)
	return toAdd, toRemove
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
