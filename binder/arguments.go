package binder

import (
	"github.com/teranos/attrbind/constant"
	"github.com/teranos/attrbind/diag"
	"github.com/teranos/attrbind/symbols"
	"github.com/teranos/attrbind/syntax"
)

// bindArguments splits the argument list of site into constructor
// arguments and named assignments. It reports shape errors: modifiers,
// non-trailing positional arguments and duplicate names. The returned
// flag is true when any shape error was reported.
func (r *Resolver) bindArguments(site *syntax.Attribute, class *symbols.NamedType, args *Arguments, sink diag.Sink) bool {
	args.Site = site
	if site.Args == nil {
		return false
	}

	shapeErrors := false
	seenNamed := false
	reportedNonTrailing := false

	for _, a := range site.Args.Args {
		if a.RefKind != syntax.RefNone {
			sink.Add(diag.Errorf(diag.CodeRefArgumentNotAllowed, site.Tree, a.RefSpan,
				"the '%s' modifier is not allowed on attribute arguments", a.RefKind))
			shapeErrors = true
		}

		if a.NameEquals == nil {
			if seenNamed && !reportedNonTrailing {
				sink.Add(diag.Errorf(diag.CodeNamedArgumentExpected, site.Tree, a.Span, "named attribute argument expected"))
				reportedNonTrailing = true
				shapeErrors = true
			}
			name := ""
			if a.NameColon != nil {
				name = a.NameColon.Name
				if _, dup := args.ctorNames[name]; dup {
					sink.Add(diag.Errorf(diag.CodeDuplicateNamedArgument, site.Tree, a.NameColon.Pos,
						"named argument '%s' cannot be specified multiple times", name))
					shapeErrors = true
				}
				args.ctorNames[name] = struct{}{}
			}
			args.Positional = append(args.Positional, r.collab.Expressions.BindExpression(a.Expr, site, sink))
			args.Names = append(args.Names, name)
			args.Syntax = append(args.Syntax, a)
			continue
		}

		seenNamed = true
		name := a.NameEquals.Name
		if _, dup := args.namedNames[name]; dup {
			sink.Add(diag.Errorf(diag.CodeDuplicateNamedArgument, site.Tree, a.NameEquals.Pos,
				"duplicate named attribute argument '%s'", name))
			shapeErrors = true
		}
		args.namedNames[name] = struct{}{}
		args.Named = append(args.Named, r.bindNamedArgument(site, class, a, sink))
	}
	return shapeErrors
}

// bindNamedArgument binds Name = value against the members of class.
// The value is always bound; an invalid target converts it to an error
// type so that folding does not report again.
func (r *Resolver) bindNamedArgument(site *syntax.Attribute, class *symbols.NamedType, a *syntax.Argument, sink diag.Sink) NamedArgument {
	name := a.NameEquals.Name
	exprs := r.collab.Expressions
	value := exprs.BindExpression(a.Expr, site, sink)
	na := NamedArgument{Name: name, Syntax: a}
	errType := &symbols.ErrorType{Name: name}

	if class == nil {
		na.Value = exprs.Convert(value, errType, site, sink)
		return na
	}

	member := class.LookupMember(name)
	if member == nil {
		sink.Add(diag.Errorf(diag.CodeBadNamedArgument, site.Tree, a.NameEquals.Pos,
			"'%s' does not contain a definition for '%s'", class, name))
		na.Value = exprs.Convert(value, errType, site, sink)
		return na
	}
	na.Target = member

	if !isAssignableTarget(member) {
		sink.Add(diag.Errorf(diag.CodeBadNamedArgument, site.Tree, a.NameEquals.Pos,
			"'%s' is not a valid named attribute argument. Named attribute arguments must be fields which are not readonly, static, or const, or read-write properties which are public and not static", name))
		na.Value = exprs.Convert(value, errType, site, sink)
		return na
	}
	if constant.KindOf(member.MemberType()) == constant.KindError {
		sink.Add(diag.Errorf(diag.CodeBadNamedArgumentType, site.Tree, a.NameEquals.Pos,
			"'%s' is not a valid named attribute argument because it is not a valid attribute parameter type", name))
		na.Value = exprs.Convert(value, errType, site, sink)
		return na
	}

	na.Value = exprs.Convert(value, member.MemberType(), site, sink)
	return na
}

// isAssignableTarget reports a public instance field that is neither
// read-only nor const, or a public instance property with public getter
// and setter
func isAssignableTarget(m symbols.Member) bool {
	switch m := m.(type) {
	case *symbols.Field:
		return m.Access == symbols.Public && !m.Static && !m.ReadOnly && !m.Const
	case *symbols.Property:
		return !m.Static &&
			m.Getter != nil && m.Getter.Access == symbols.Public &&
			m.Setter != nil && m.Setter.Access == symbols.Public
	}
	return false
}
