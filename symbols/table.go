package symbols

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/teranos/attrbind/errors"
)

// keywordAliases maps C# keyword types to their metadata names
var keywordAliases = map[string]string{
	"object":  "Object",
	"string":  "String",
	"bool":    "Boolean",
	"char":    "Char",
	"sbyte":   "SByte",
	"byte":    "Byte",
	"short":   "Int16",
	"ushort":  "UInt16",
	"int":     "Int32",
	"uint":    "UInt32",
	"long":    "Int64",
	"ulong":   "UInt64",
	"float":   "Single",
	"double":  "Double",
	"decimal": "Decimal",
}

// Table is the symbol table of one compilation. Lookups take a read lock,
// so resolution can run on many goroutines while definitions are frozen.
type Table struct {
	mu       sync.RWMutex
	types    map[string]*NamedType
	specials map[SpecialType]*NamedType
}

// NewTable creates a table holding the predefined types
func NewTable() *Table {
	t := &Table{
		types:    make(map[string]*NamedType),
		specials: make(map[SpecialType]*NamedType),
	}
	t.definePredefined()
	return t
}

func key(name string, arity int) string {
	if arity == 0 {
		return name
	}
	return name + "`" + strconv.Itoa(arity)
}

func (t *Table) definePredefined() {
	object := &NamedType{Name: "Object", Kind: KindClass, Special: SpecialObject}
	object.Constructors = []*Method{{Name: ".ctor", Owner: object}}
	t.addSpecial(object)

	valueType := &NamedType{Name: "ValueType", Kind: KindClass, Special: SpecialValueType, Base: object, Abstract: true}
	t.addSpecial(valueType)
	t.addSpecial(&NamedType{Name: "Enum", Kind: KindClass, Special: SpecialEnum, Base: valueType, Abstract: true})
	t.addSpecial(&NamedType{Name: "Array", Kind: KindClass, Special: SpecialArray, Base: object, Abstract: true})
	t.addSpecial(&NamedType{Name: "String", Kind: KindClass, Special: SpecialString, Base: object})
	t.addSpecial(&NamedType{Name: "Type", Kind: KindClass, Special: SpecialSystemType, Base: object, Abstract: true})

	attribute := &NamedType{Name: "Attribute", Kind: KindClass, Special: SpecialAttribute, Base: object, Abstract: true}
	attribute.Constructors = []*Method{{Name: ".ctor", Owner: attribute, Access: Protected}}
	t.addSpecial(attribute)

	for _, s := range []struct {
		name    string
		special SpecialType
	}{
		{"Boolean", SpecialBoolean},
		{"Char", SpecialChar},
		{"SByte", SpecialSByte},
		{"Byte", SpecialByte},
		{"Int16", SpecialInt16},
		{"UInt16", SpecialUInt16},
		{"Int32", SpecialInt32},
		{"UInt32", SpecialUInt32},
		{"Int64", SpecialInt64},
		{"UInt64", SpecialUInt64},
		{"Single", SpecialSingle},
		{"Double", SpecialDouble},
		{"Decimal", SpecialDecimal},
	} {
		t.addSpecial(&NamedType{Name: s.name, Kind: KindStruct, Special: s.special, Base: valueType})
	}
}

func (t *Table) addSpecial(n *NamedType) {
	t.types[key(n.Name, 0)] = n
	t.specials[n.Special] = n
}

// Define adds a named type. Redefining a name with the same arity fails.
func (t *Table) Define(n *NamedType) error {
	if n == nil || n.Name == "" {
		return errors.New("cannot define a type without a name")
	}
	k := key(n.Name, len(n.TypeParams))

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.types[k]; exists {
		return errors.Newf("type %s is already defined", n)
	}
	t.types[k] = n
	return nil
}

// Lookup finds a type by name and generic arity. Keyword aliases and a
// leading "System." qualifier are accepted.
func (t *Table) Lookup(name string, arity int) *NamedType {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if n, ok := t.types[key(name, arity)]; ok {
		return n
	}
	if arity == 0 {
		if alias, ok := keywordAliases[name]; ok {
			return t.types[alias]
		}
	}
	if trimmed := strings.TrimPrefix(name, "System."); trimmed != name {
		return t.types[key(trimmed, arity)]
	}
	return nil
}

// Special returns a predefined type
func (t *Table) Special(s SpecialType) *NamedType {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.specials[s]
}

// Types returns every defined type sorted by name
func (t *Table) Types() []*NamedType {
	t.mu.RLock()
	out := make([]*NamedType, 0, len(t.types))
	for _, n := range t.types {
		out = append(out, n)
	}
	t.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// IsKeyword reports whether name is a predefined keyword type
func IsKeyword(name string) bool {
	_, ok := keywordAliases[name]
	return ok
}
