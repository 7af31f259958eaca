package fixture

import (
	"strings"
	"unicode/utf8"

	"github.com/teranos/attrbind/check"
	"github.com/teranos/attrbind/constant"
	"github.com/teranos/attrbind/errors"
	"github.com/teranos/attrbind/symbols"
	"github.com/teranos/attrbind/syntax"
)

// builder turns type declarations into symbols in three passes: shells,
// then bases and enum members, then members and constructors. Later
// passes may refer to any declared type regardless of order.
type builder struct {
	table *symbols.Table
	decls []TypeDecl
	types []*symbols.NamedType // aligned with decls
}

// BuildTable creates a symbol table holding the predefined types and every
// type declared by f
func BuildTable(f *Fixture) (*symbols.Table, error) {
	b := &builder{table: symbols.NewTable(), decls: f.Types}
	if err := b.shells(); err != nil {
		return nil, err
	}
	if err := b.bases(); err != nil {
		return nil, err
	}
	if err := b.members(); err != nil {
		return nil, err
	}
	return b.table, nil
}

func parseKind(s string) (symbols.TypeKind, bool) {
	switch strings.ToLower(s) {
	case "", "class":
		return symbols.KindClass, true
	case "struct":
		return symbols.KindStruct, true
	case "enum":
		return symbols.KindEnum, true
	case "interface":
		return symbols.KindInterface, true
	}
	return symbols.KindClass, false
}

func (b *builder) shells() error {
	b.types = make([]*symbols.NamedType, len(b.decls))
	for i, d := range b.decls {
		if d.Name == "" {
			return errors.NewInvalidFixtureError("type #%d has no name", i+1)
		}
		kind, ok := parseKind(d.Kind)
		if !ok {
			return errors.NewInvalidFixtureError("type %s: unknown kind %q", d.Name, d.Kind)
		}
		access, ok := symbols.ParseAccessibility(d.Access)
		if !ok {
			return errors.NewInvalidFixtureError("type %s: unknown accessibility %q", d.Name, d.Access)
		}
		n := &symbols.NamedType{
			Name:               d.Name,
			Kind:               kind,
			Access:             access,
			Abstract:           d.Abstract,
			ConditionalSymbols: d.Conditional,
			Obsolete:           d.Obsolete,
			ObsoleteMessage:    d.ObsoleteMessage,
		}
		for _, p := range d.TypeParams {
			n.TypeParams = append(n.TypeParams, &symbols.TypeParam{Name: p})
		}
		if err := b.table.Define(n); err != nil {
			return errors.Wrap(errors.ErrInvalidFixture, err.Error())
		}
		b.types[i] = n
	}
	return nil
}

func (b *builder) bases() error {
	for i, d := range b.decls {
		n := b.types[i]
		switch n.Kind {
		case symbols.KindEnum:
			if err := b.enum(n, d); err != nil {
				return err
			}
			continue
		case symbols.KindInterface:
			continue
		}

		base := d.Base
		if base == "" {
			base = "object"
			if n.Kind == symbols.KindStruct {
				base = "ValueType"
			}
		}
		t, err := b.resolve(base, nil)
		if err != nil {
			return errors.Wrapf(err, "type %s: base", d.Name)
		}
		named, ok := t.(*symbols.NamedType)
		if !ok || named.Kind != symbols.KindClass {
			return errors.NewInvalidFixtureError("type %s: base %s is not a class", d.Name, base)
		}
		for a := named; a != nil; a = a.Base {
			if a == n {
				return errors.NewInvalidFixtureError("type %s: circular base %s", d.Name, base)
			}
		}
		n.Base = named
	}
	return nil
}

func (b *builder) enum(n *symbols.NamedType, d TypeDecl) error {
	n.Base = b.table.Special(symbols.SpecialEnum)
	underlying := d.Underlying
	if underlying == "" {
		underlying = "int"
	}
	t, err := b.resolve(underlying, nil)
	if err != nil {
		return errors.Wrapf(err, "enum %s: underlying type", d.Name)
	}
	special := symbols.SpecialOf(t)
	if !special.IsIntegral() {
		return errors.NewInvalidFixtureError("enum %s: underlying type %s is not integral", d.Name, underlying)
	}
	n.EnumUnderlying = t.(*symbols.NamedType)

	for _, m := range d.Members {
		if !constant.Fits(m.Value, special) {
			return errors.NewInvalidFixtureError("enum %s: member %s value %d does not fit %s", d.Name, m.Name, m.Value, underlying)
		}
		v, _ := constant.Cast(m.Value, special)
		n.Fields = append(n.Fields, &symbols.Field{Name: m.Name, Type: n, Static: true, Const: true, ConstValue: v})
	}
	return nil
}

func (b *builder) members() error {
	for i, d := range b.decls {
		n := b.types[i]
		scope := n.TypeParams

		for _, fd := range d.Fields {
			f, err := b.field(fd, scope)
			if err != nil {
				return errors.Wrapf(err, "type %s", d.Name)
			}
			n.Fields = append(n.Fields, f)
		}
		for _, pd := range d.Properties {
			p, err := b.property(pd, scope)
			if err != nil {
				return errors.Wrapf(err, "type %s", d.Name)
			}
			n.Properties = append(n.Properties, p)
		}
		for j, cd := range d.Constructors {
			c, err := b.constructor(n, cd, scope)
			if err != nil {
				return errors.Wrapf(err, "type %s: constructor #%d", d.Name, j+1)
			}
			n.Constructors = append(n.Constructors, c)
		}

		// classes without declared constructors get the implicit one
		if len(d.Constructors) == 0 && (n.Kind == symbols.KindClass || n.Kind == symbols.KindStruct) {
			access := symbols.Public
			if n.Abstract {
				access = symbols.Protected
			}
			n.Constructors = []*symbols.Method{{Name: ".ctor", Owner: n, Access: access}}
		}
	}
	return nil
}

func (b *builder) field(d FieldDecl, scope []*symbols.TypeParam) (*symbols.Field, error) {
	t, err := b.resolve(d.Type, scope)
	if err != nil {
		return nil, errors.Wrapf(err, "field %s", d.Name)
	}
	access, ok := symbols.ParseAccessibility(d.Access)
	if !ok {
		return nil, errors.NewInvalidFixtureError("field %s: unknown accessibility %q", d.Name, d.Access)
	}
	f := &symbols.Field{Name: d.Name, Type: t, Access: access, Static: d.Static || d.Const, ReadOnly: d.ReadOnly, Const: d.Const}
	if d.Const {
		v, err := b.value(d.Value, t)
		if err != nil {
			return nil, errors.Wrapf(err, "const %s", d.Name)
		}
		f.ConstValue = v
	}
	return f, nil
}

func (b *builder) property(d PropertyDecl, scope []*symbols.TypeParam) (*symbols.Property, error) {
	t, err := b.resolve(d.Type, scope)
	if err != nil {
		return nil, errors.Wrapf(err, "property %s", d.Name)
	}
	p := &symbols.Property{Name: d.Name, Type: t, Static: d.Static}
	if p.Getter, err = accessor(d.Getter); err != nil {
		return nil, errors.Wrapf(err, "property %s getter", d.Name)
	}
	if p.Setter, err = accessor(d.Setter); err != nil {
		return nil, errors.Wrapf(err, "property %s setter", d.Name)
	}
	return p, nil
}

func accessor(s string) (*symbols.Accessor, error) {
	if s == "" {
		return nil, nil
	}
	access, ok := symbols.ParseAccessibility(s)
	if !ok {
		return nil, errors.NewInvalidFixtureError("unknown accessibility %q", s)
	}
	return &symbols.Accessor{Access: access}, nil
}

func parseRef(s string) (symbols.RefKind, bool) {
	switch s {
	case "":
		return symbols.RefNone, true
	case "ref":
		return symbols.RefRef, true
	case "out":
		return symbols.RefOut, true
	case "in":
		return symbols.RefIn, true
	}
	return symbols.RefNone, false
}

func parseCaller(s string) (symbols.CallerInfo, bool) {
	switch s {
	case "":
		return symbols.CallerNone, true
	case "line":
		return symbols.CallerLineNumber, true
	case "file_path":
		return symbols.CallerFilePath, true
	case "member_name":
		return symbols.CallerMemberName, true
	case "argument_expression":
		return symbols.CallerArgumentExpression, true
	}
	return symbols.CallerNone, false
}

func (b *builder) constructor(owner *symbols.NamedType, d CtorDecl, scope []*symbols.TypeParam) (*symbols.Method, error) {
	access, ok := symbols.ParseAccessibility(d.Access)
	if !ok {
		return nil, errors.NewInvalidFixtureError("unknown accessibility %q", d.Access)
	}
	m := &symbols.Method{
		Name:            ".ctor",
		Owner:           owner,
		Access:          access,
		Obsolete:        d.Obsolete,
		ObsoleteMessage: d.ObsoleteMessage,
	}

	for i, pd := range d.Params {
		p, err := b.parameter(pd, i, scope)
		if err != nil {
			return nil, err
		}
		if p.Variadic && i != len(d.Params)-1 {
			return nil, errors.NewInvalidFixtureError("params parameter %s must be last", pd.Name)
		}
		if m.ParamByName(pd.Name) != nil {
			return nil, errors.NewInvalidFixtureError("duplicate parameter %s", pd.Name)
		}
		m.Params = append(m.Params, p)
	}

	for i, pd := range d.Params {
		if pd.CallerArgument == "" {
			continue
		}
		target := m.ParamByName(pd.CallerArgument)
		if target == nil {
			return nil, errors.NewInvalidFixtureError("parameter %s: caller_argument names unknown parameter %s", pd.Name, pd.CallerArgument)
		}
		m.Params[i].CallerArgumentParam = target.Ordinal
	}
	return m, nil
}

func (b *builder) parameter(d ParamDecl, ordinal int, scope []*symbols.TypeParam) (*symbols.Parameter, error) {
	if d.Name == "" {
		return nil, errors.NewInvalidFixtureError("parameter #%d has no name", ordinal+1)
	}
	t, err := b.resolve(d.Type, scope)
	if err != nil {
		return nil, errors.Wrapf(err, "parameter %s", d.Name)
	}
	ref, ok := parseRef(d.Ref)
	if !ok {
		return nil, errors.NewInvalidFixtureError("parameter %s: unknown modifier %q", d.Name, d.Ref)
	}
	caller, ok := parseCaller(d.Caller)
	if !ok {
		return nil, errors.WithHint(
			errors.NewInvalidFixtureError("parameter %s: unknown caller info %q", d.Name, d.Caller),
			"use one of: line, file_path, member_name, argument_expression")
	}

	p := &symbols.Parameter{
		Name:                d.Name,
		Ordinal:             ordinal,
		Type:                t,
		RefKind:             ref,
		Variadic:            d.Params,
		Optional:            d.Optional || d.Default != nil || d.BadDefault,
		CallerInfo:          caller,
		CallerArgumentParam: -1,
	}
	if p.Variadic {
		if arr, isArray := t.(*symbols.ArrayType); !isArray || !arr.IsSZArray() {
			return nil, errors.NewInvalidFixtureError("params parameter %s must have a single-dimensional array type", d.Name)
		}
	}

	switch {
	case d.BadDefault:
		p.Default = &symbols.DefaultValue{Bad: true}
	case d.Default == nil || d.Default == "none":
	case d.Default == "null":
		p.Default = &symbols.DefaultValue{}
	default:
		v, err := b.value(d.Default, t)
		if err != nil {
			return nil, errors.Wrapf(err, "parameter %s default", d.Name)
		}
		p.Default = &symbols.DefaultValue{Value: v}
	}
	return p, nil
}

func (b *builder) resolve(text string, scope []*symbols.TypeParam) (symbols.Type, error) {
	if text == "" {
		return nil, errors.NewInvalidFixtureError("missing type")
	}
	tn, err := syntax.ParseTypeName(text)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidFixture, err.Error())
	}
	return check.ResolveType(b.table, tn, scope)
}

// value converts a decoded YAML/TOML scalar into the constant
// representation of t. Enum values may be given by member name.
func (b *builder) value(v interface{}, t symbols.Type) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	if n, ok := t.(*symbols.NamedType); ok && n.IsEnum() {
		if name, isName := v.(string); isName {
			f := n.LookupField(name)
			if f == nil || !f.Const {
				return nil, errors.NewInvalidFixtureError("%s has no member %s", n, name)
			}
			return f.ConstValue, nil
		}
		return numeric(v, symbols.SpecialOf(n.EnumUnderlying), t)
	}

	special := symbols.SpecialOf(t)
	switch {
	case special == symbols.SpecialString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case special == symbols.SpecialBoolean:
		if bv, ok := v.(bool); ok {
			return bv, nil
		}
	case special == symbols.SpecialChar:
		if s, ok := v.(string); ok && utf8.RuneCountInString(s) == 1 {
			r, _ := utf8.DecodeRuneInString(s)
			if r <= 0xFFFF {
				return uint16(r), nil
			}
		}
	case special.IsNumeric():
		return numeric(v, special, t)
	case special == symbols.SpecialObject:
		return boxed(v), nil
	}
	return nil, errors.NewInvalidFixtureError("value %v is not valid for type %s", v, t)
}

func numeric(v interface{}, special symbols.SpecialType, t symbols.Type) (interface{}, error) {
	if !constant.IsNumeric(v) {
		return nil, errors.NewInvalidFixtureError("value %v is not numeric for type %s", v, t)
	}
	if special.IsIntegral() && !constant.IsIntegerValue(v) {
		return nil, errors.NewInvalidFixtureError("value %v is not integral for type %s", v, t)
	}
	if !constant.Fits(v, special) {
		return nil, errors.NewInvalidFixtureError("value %v does not fit type %s", v, t)
	}
	out, _ := constant.Cast(v, special)
	return out, nil
}

// boxed keeps the natural constant type of a value stored in an object
func boxed(v interface{}) interface{} {
	switch x := v.(type) {
	case int:
		if constant.Fits(x, symbols.SpecialInt32) {
			return int32(x)
		}
		return int64(x)
	case int64:
		if constant.Fits(x, symbols.SpecialInt32) {
			return int32(x)
		}
		return x
	}
	return v
}
