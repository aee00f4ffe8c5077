package params

import (
	"fmt"

	"github.com/gitrdm/realpaver/pkg/ncsp"
	"gopkg.in/yaml.v2"
)

// PresetSet maps a preset name to its KEY/VALUE overrides, as loaded from
// a YAML document: each top-level key is a preset name, its value a map
// of the same parameter keys Parse recognizes.
type PresetSet map[string]map[string]string

// ParsePresets decodes a YAML document of named parameter bundles.
func ParsePresets(yamlDoc string) (PresetSet, error) {
	var raw map[string]map[string]interface{}
	if err := yaml.Unmarshal([]byte(yamlDoc), &raw); err != nil {
		return nil, ncsp.ErrInput.New(fmt.Sprintf("malformed preset document: %v", err))
	}
	set := make(PresetSet, len(raw))
	for name, kv := range raw {
		entries := make(map[string]string, len(kv))
		for k, v := range kv {
			entries[k] = fmt.Sprintf("%v", v)
		}
		set[name] = entries
	}
	return set, nil
}

// Apply starts from ncsp.DefaultParams() and overlays the named preset's
// key/value pairs, reporting every unrecognized key or malformed value as
// one aggregated ncsp.ErrInput, same as Parse.
func (s PresetSet) Apply(name string) (ncsp.Params, error) {
	p := ncsp.DefaultParams()
	overrides, ok := s[name]
	if !ok {
		return p, ncsp.ErrInput.New(fmt.Sprintf("unknown preset %q", name))
	}
	var lines string
	for k, v := range overrides {
		lines += k + " " + v + "\n"
	}
	merged, err := Parse(lines)
	if err != nil {
		return p, err
	}
	return merged, nil
}

// BuiltinPresets returns the three named bundles realpaver ships by
// default: "fast" favors a quick, possibly-incomplete search; "thorough"
// raises the propagation and Newton iteration limits, turns on CID and
// the SSR selector for harder systems, and sets no budget of its own;
// "certify-only" stops the search after the root node (NODE_LIMIT 1;
// its DEPTH_LIMIT 0 means unbounded), so a root that still needs
// splitting leaves its children pending and unexplored, and raises the
// Newton certification iteration limit.
func BuiltinPresets() (PresetSet, error) {
	return ParsePresets(builtinPresetsYAML)
}

const builtinPresetsYAML = `
fast:
  PROPAGATION_ITER_LIMIT: 50
  NODE_LIMIT: 5000
  TIME_LIMIT: 5
  PROPAGATION_WITH_CID: no
  SPLIT_SELECTOR: RR

thorough:
  PROPAGATION_ITER_LIMIT: 500
  PROPAGATION_WITH_CID: yes
  NEWTON_ITER_LIMIT: 60
  SOLUTION_CLUSTER_GAP: 1e-9
  SPLIT_SELECTOR: SSR

certify-only:
  NODE_LIMIT: 1
  DEPTH_LIMIT: 0
  PROPAGATION_WITH_NEWTON: yes
  NEWTON_CERTIFY_ITER_LIMIT: 10
`
