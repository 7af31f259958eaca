// Package check is the reference expression binder and type checker used
// by the attribute binder: attribute class lookup, argument expression
// binding with C# constant rules, implicit conversions and preprocessor
// symbol queries over a symbols.Table.
package check

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/teranos/attrbind/logger"
	"github.com/teranos/attrbind/symbols"
	"github.com/teranos/attrbind/syntax"
)

// Checker binds expressions against one symbol table. It is safe for
// concurrent use once the table is fully populated.
type Checker struct {
	table  *symbols.Table
	scopes sync.Map // *syntax.Member -> []*symbols.TypeParam
	logger *zap.SugaredLogger
}

// New creates a checker over table
func New(table *symbols.Table) *Checker {
	return &Checker{
		table:  table,
		logger: logger.ComponentLogger("check"),
	}
}

// Table returns the symbol table
func (c *Checker) Table() *symbols.Table { return c.table }

// Special returns a predefined type
func (c *Checker) Special(s symbols.SpecialType) *symbols.NamedType {
	return c.table.Special(s)
}

// AnyDefined reports whether any of names is an active preprocessor
// symbol in tree
func (c *Checker) AnyDefined(tree *syntax.Tree, names []string) bool {
	for _, n := range names {
		if tree.IsDefined(n) {
			return true
		}
	}
	return false
}

// scope returns the type parameters of the attributed member. The same
// member always yields the same parameter identities.
func (c *Checker) scope(m *syntax.Member) []*symbols.TypeParam {
	if m == nil || len(m.TypeParams) == 0 {
		return nil
	}
	if v, ok := c.scopes.Load(m); ok {
		return v.([]*symbols.TypeParam)
	}
	params := make([]*symbols.TypeParam, len(m.TypeParams))
	for i, name := range m.TypeParams {
		params[i] = &symbols.TypeParam{Name: name}
	}
	v, _ := c.scopes.LoadOrStore(m, params)
	return v.([]*symbols.TypeParam)
}

// ResolveAttributeClass looks the attribute name up as written and with
// the Attribute suffix. Exactly one attribute class must be found and it
// must be accessible.
func (c *Checker) ResolveAttributeClass(attr *syntax.Attribute) symbols.ClassResolution {
	name := attr.Name.Qualified()

	var found []*symbols.NamedType
	if t := c.lookupAttributeName(attr.Name, name); t != nil {
		found = append(found, t)
	}
	if !strings.HasSuffix(name, "Attribute") {
		if t := c.lookupAttributeName(attr.Name, name+"Attribute"); t != nil {
			found = append(found, t)
		}
	}

	var attrs []*symbols.NamedType
	for _, t := range found {
		if symbols.IsAttributeClass(t) {
			attrs = append(attrs, t)
		}
	}

	var res symbols.ClassResolution
	switch {
	case len(attrs) == 1 && isInaccessible(attrs[0].Access):
		res = symbols.Unresolved{Name: name, Candidates: attrs, Quality: symbols.QualityInaccessible}
	case len(attrs) == 1:
		res = symbols.Resolved{Type: attrs[0]}
	case len(attrs) > 1:
		res = symbols.Unresolved{Name: name, Candidates: attrs, Quality: symbols.QualityAmbiguous}
	case len(found) > 0:
		res = symbols.Unresolved{Name: name, Candidates: found[:1], Quality: symbols.QualityNotAnAttribute}
	default:
		res = symbols.Unresolved{Name: name, Quality: symbols.QualityNotFound}
	}

	if u, ok := res.(symbols.Unresolved); ok {
		c.logger.Debugw("attribute class not resolved",
			logger.FieldAttribute, name,
			logger.FieldQuality, u.Quality.String(),
			logger.FieldCount, len(u.Candidates))
	}
	return res
}

func isInaccessible(a symbols.Accessibility) bool {
	return a == symbols.Private || a == symbols.Protected
}

func (c *Checker) lookupAttributeName(tn *syntax.TypeName, name string) *symbols.NamedType {
	last := tn.Last()
	def := c.table.Lookup(name, last.Arity())
	if def == nil {
		return nil
	}
	if len(last.Args) == 0 {
		return def
	}
	args := make([]symbols.Type, len(last.Args))
	for i, a := range last.Args {
		t, err := ResolveType(c.table, a, nil)
		if err != nil {
			return nil
		}
		args[i] = t
	}
	return symbols.Construct(def, args)
}
