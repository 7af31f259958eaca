// Package binder resolves attribute applications into validated constant
// records.
//
// For each application the Resolver resolves the attribute class (cached
// per syntax node), binds the argument list into constructor arguments and
// Name = value assignments, asks the OverloadResolver for a constructor,
// folds every argument into a constant.TypedConstant, reorders constructor
// arguments into declared parameter order filling in defaults and caller
// information, and finally decides whether the application is omitted
// because of conditional symbols.
//
// Binding never aborts. Every problem is reported to the diagnostics sink
// and the record degrades: HasErrors is set and, when no usable
// constructor exists, the constant lists are empty.
//
// Usage:
//
//	r, err := binder.New(binder.Collaborators{
//	    Classes:     checker,
//	    Expressions: checker,
//	    Overloads:   overload.New(checker),
//	    Symbols:     checker,
//	    Types:       checker,
//	    Diagnostics: bag,
//	}, binder.Options{})
//	records, err := r.BindAll(ctx, file.Attributes)
package binder
