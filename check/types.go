package check

import (
	"github.com/teranos/attrbind/errors"
	"github.com/teranos/attrbind/symbols"
	"github.com/teranos/attrbind/syntax"
)

// ResolveType resolves a written type name. A single unqualified name that
// matches a type parameter in scope resolves to that parameter; unbound
// generic names (List<>) resolve to the unbound form.
func ResolveType(table *symbols.Table, tn *syntax.TypeName, scope []*symbols.TypeParam) (symbols.Type, error) {
	last := tn.Last()
	name := tn.Qualified()

	var t symbols.Type
	if len(tn.Parts) == 1 && last.Arity() == 0 {
		for _, p := range scope {
			if p.Name == name {
				t = p
				break
			}
		}
	}

	if t == nil {
		def := table.Lookup(name, last.Arity())
		if def == nil {
			return nil, errors.NewUnknownTypeError(tn.String())
		}
		switch {
		case last.Unbound > 0:
			t = symbols.ConstructUnbound(def)
		case len(last.Args) > 0:
			args := make([]symbols.Type, len(last.Args))
			for i, a := range last.Args {
				arg, err := ResolveType(table, a, scope)
				if err != nil {
					return nil, err
				}
				args[i] = arg
			}
			t = symbols.Construct(def, args)
		default:
			t = def
		}
	}

	for i := len(tn.Ranks) - 1; i >= 0; i-- {
		t = symbols.NewArray(t, tn.Ranks[i])
	}
	return t, nil
}

// ParseType parses and resolves a type written as text, such as "int[]"
// or "Dictionary<string, Color>"
func ParseType(table *symbols.Table, text string) (symbols.Type, error) {
	tn, err := syntax.ParseTypeName(text)
	if err != nil {
		return nil, err
	}
	return ResolveType(table, tn, nil)
}
