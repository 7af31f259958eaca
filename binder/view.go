package binder

import (
	"github.com/teranos/attrbind/constant"
)

// RecordView is the serializable rendering of a Record
type RecordView struct {
	Attribute     string         `json:"attribute" yaml:"attribute" toml:"attribute"`
	File          string         `json:"file" yaml:"file" toml:"file"`
	Line          int            `json:"line" yaml:"line" toml:"line"`
	Class         string         `json:"class" yaml:"class" toml:"class"`
	Constructor   string         `json:"constructor,omitempty" yaml:"constructor,omitempty" toml:"constructor,omitempty"`
	Arguments     []ArgumentView `json:"arguments,omitempty" yaml:"arguments,omitempty" toml:"arguments,omitempty"`
	SourceIndices []int          `json:"source_indices,omitempty" yaml:"source_indices,omitempty" toml:"source_indices,omitempty"`
	Named         []ArgumentView `json:"named,omitempty" yaml:"named,omitempty" toml:"named,omitempty"`
	HasErrors     bool           `json:"has_errors" yaml:"has_errors" toml:"has_errors"`
	Omitted       bool           `json:"omitted" yaml:"omitted" toml:"omitted"`
}

// ArgumentView renders one constant. Name is the parameter name for
// constructor arguments and the member name for named arguments.
type ArgumentView struct {
	Name  string `json:"name" yaml:"name" toml:"name"`
	Kind  string `json:"kind" yaml:"kind" toml:"kind"`
	Type  string `json:"type" yaml:"type" toml:"type"`
	Value string `json:"value" yaml:"value" toml:"value"`
}

func viewOf(name string, c constant.TypedConstant) ArgumentView {
	v := ArgumentView{Name: name, Kind: c.Kind().String(), Value: c.String()}
	if t := c.Type(); t != nil {
		v.Type = t.String()
	}
	return v
}

// View renders the record for output
func (r *Record) View() RecordView {
	v := RecordView{
		HasErrors:     r.hasErrors,
		Omitted:       r.Omitted(),
		SourceIndices: r.SourceIndices(),
	}
	if r.site != nil {
		v.Attribute = r.site.String()
		if r.site.Tree != nil {
			v.File = r.site.Tree.Path
			v.Line = r.site.Tree.Line(r.site.Span)
		}
	}
	if r.class != nil {
		v.Class = r.class.String()
	}
	if r.constructor != nil {
		v.Constructor = r.constructor.String()
	}

	for i, c := range r.positional {
		name := ""
		if r.constructor != nil && len(r.positional) == len(r.constructor.Params) {
			name = r.constructor.Params[i].Name
		}
		v.Arguments = append(v.Arguments, viewOf(name, c))
	}
	for _, n := range r.named {
		v.Named = append(v.Named, viewOf(n.Name, n.Value))
	}
	return v
}

// Views renders a batch of records, skipping nil entries
func Views(records []*Record) []RecordView {
	out := make([]RecordView, 0, len(records))
	for _, r := range records {
		if r != nil {
			out = append(out, r.View())
		}
	}
	return out
}
