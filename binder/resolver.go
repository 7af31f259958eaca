package binder

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"

	"github.com/teranos/attrbind/config"
	"github.com/teranos/attrbind/constant"
	"github.com/teranos/attrbind/diag"
	"github.com/teranos/attrbind/errors"
	"github.com/teranos/attrbind/logger"
	"github.com/teranos/attrbind/symbols"
	"github.com/teranos/attrbind/syntax"
)

// DefaultCacheSize is the class resolution cache capacity when none is configured
const DefaultCacheSize = 1024

// Options tune a Resolver
type Options struct {
	// Workers bounds BindAll parallelism; 0 means one per CPU
	Workers int
	// CacheSize is the capacity of the class resolution cache
	CacheSize int
	// Early selects the pre-metadata pass: contextual defaults and
	// conditional omission are skipped
	Early bool
}

// OptionsFrom maps the binder configuration section to Options
func OptionsFrom(cfg config.BinderConfig) Options {
	return Options{Workers: cfg.Workers, CacheSize: cfg.CacheSize, Early: cfg.EarlyPass}
}

// Resolver binds attribute applications into Records. It is safe for
// concurrent use; each Bind call owns its transient state.
type Resolver struct {
	collab  Collaborators
	opts    Options
	classes *lru.Cache // *syntax.Attribute -> symbols.ClassResolution
	pool    *argumentPool
	logger  *zap.SugaredLogger
}

// New creates a resolver. Expressions, Overloads, Classes and Types are
// required; a nil Diagnostics sink discards.
func New(collab Collaborators, opts Options) (*Resolver, error) {
	if collab.Classes == nil || collab.Expressions == nil || collab.Overloads == nil || collab.Types == nil {
		return nil, errors.New("binder: class resolver, expression binder, overload resolver and special types are required")
	}
	if collab.Diagnostics == nil {
		collab.Diagnostics = diag.Discard
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	cache, err := lru.New(opts.CacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create class resolution cache")
	}
	return &Resolver{
		collab:  collab,
		opts:    opts,
		classes: cache,
		pool:    newArgumentPool(),
		logger:  logger.ComponentLogger("binder.resolver"),
	}, nil
}

// Early reports whether the resolver runs the pre-metadata pass
func (r *Resolver) Early() bool { return r.opts.Early }

// PoolStats reports argument buffer accounting
func (r *Resolver) PoolStats() PoolStats { return r.pool.stats() }

// resolveClass resolves the attribute class once per syntax node. Same
// syntax always yields the same class, so concurrent misses only repeat
// work.
func (r *Resolver) resolveClass(site *syntax.Attribute) symbols.ClassResolution {
	if v, ok := r.classes.Get(site); ok {
		return v.(symbols.ClassResolution)
	}
	res := r.collab.Classes.ResolveAttributeClass(site)
	r.classes.Add(site, res)
	return res
}

// Bind binds one attribute application. Binding never fails: problems are
// reported to the diagnostics sink and reflected in Record.HasErrors.
//
// If prior is an error-free record for the same site, its constants are
// kept and only its omitted flag is recomputed.
func (r *Resolver) Bind(ctx context.Context, site *syntax.Attribute, prior *Record) *Record {
	log := logger.LoggerFromContext(ctx, r.logger)

	if prior != nil && prior.site == site && !prior.HasErrors() {
		omitted := prior.RecomputeOmitted(r.collab.Symbols, r.opts.Early)
		log.Debugw("recomputed omission",
			logger.FieldAttribute, site.String(),
			logger.FieldOmitted, omitted)
		return prior
	}

	start := time.Now()
	rec := r.bind(site)
	log.Debugw("bound attribute",
		logger.FieldAttribute, site.String(),
		logger.FieldClass, typeString(rec.class),
		logger.FieldConstructor, methodString(rec.constructor),
		logger.FieldHasErrors, rec.hasErrors,
		logger.FieldOmitted, rec.Omitted(),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return rec
}

func (r *Resolver) bind(site *syntax.Attribute) *Record {
	sink := r.collab.Diagnostics

	var class symbols.Type
	var binding *symbols.NamedType
	forced := false

	switch res := r.resolveClass(site).(type) {
	case symbols.Resolved:
		class, binding = res.Type, res.Type
	case symbols.Unresolved:
		class = res.ErrorType()
		forced = true
		sink.Add(diag.Errorf(diag.CodeUnresolvedType, site.Tree, site.NameSpan(), "%s", unresolvedMessage(res)))
		if c, ok := res.SingleCandidate(); ok {
			binding = c
		}
	default:
		class = &symbols.ErrorType{Name: site.Name.String()}
		forced = true
	}

	scope := r.pool.acquire(site)
	defer scope.release()
	args := scope.args

	shapeErrors := r.bindArguments(site, binding, args, sink)

	var result OverloadResult
	abstract := binding != nil && binding.Abstract
	if abstract {
		sink.Add(diag.Errorf(diag.CodeAbstractAttributeClass, site.Tree, site.NameSpan(),
			"cannot apply attribute class '%s' because it is abstract", binding))
	} else if binding != nil {
		result = r.collab.Overloads.ResolveConstructor(binding, args, forced, sink)
	}

	var ctor *symbols.Method
	hasErrors := false
	if result.Succeeded() {
		ctor = result.Constructor
		if ctor.Obsolete {
			sink.Add(diag.Warnf(diag.CodeObsoleteConstructor, site.Tree, site.Span,
				"'%s' is obsolete%s", ctor, obsoleteSuffix(ctor.ObsoleteMessage)))
		}
		for _, p := range ctor.Params {
			if p.RefKind == symbols.RefIn {
				sink.Add(diag.Errorf(diag.CodeInParameterConstructor, site.Tree, site.NameSpan(),
					"attribute constructor '%s' has an 'in' parameter '%s'", ctor, p.Name))
				hasErrors = true
				break
			}
		}
	}

	if forced || abstract || ctor == nil {
		return errorRecord(site, class, ctor)
	}

	// parameters whose type cannot appear in an attribute poison the
	// arguments that fill them without further diagnostics
	badParam := make([]bool, len(ctor.Params))
	reported := false
	for i, p := range ctor.Params {
		if constant.KindOf(p.Type) == constant.KindError {
			if !reported {
				sink.Add(diag.Errorf(diag.CodeBadAttributeParamType, site.Tree, site.NameSpan(),
					"attribute constructor parameter '%s' has type '%s', which is not a valid attribute parameter type", p.Name, p.Type))
			}
			badParam[i] = true
			reported = true
			hasErrors = true
		}
	}

	folder := NewFolder(site.Tree, sink)
	converted := result.Converted
	ctorConsts := make([]constant.TypedConstant, len(converted))
	for i, e := range converted {
		hasErrors = hasErrors || e.HasErrors()
		ordinal := i
		if result.ArgsToParams != nil && i < len(result.ArgsToParams) {
			ordinal = result.ArgsToParams[i]
		}
		if ordinal >= 0 && ordinal < len(badParam) && badParam[ordinal] {
			ctorConsts[i] = folder.FoldSilently(e)
		} else {
			ctorConsts[i] = folder.Fold(e)
		}
	}

	var named []NamedConstant
	for _, n := range args.Named {
		if n.Target == nil {
			hasErrors = true
			continue
		}
		hasErrors = hasErrors || n.Value.HasErrors()
		named = append(named, NamedConstant{Name: n.Name, Value: folder.Fold(n.Value)})
	}
	hasErrors = hasErrors || folder.HasErrors()

	core := recordCore{
		site:        site,
		class:       class,
		constructor: ctor,
		positional:  ctorConsts,
		argCount:    len(converted),
		named:       named,
	}
	if !hasErrors && len(ctor.Params) > 0 {
		c := &canonicalizer{
			site:         site,
			ctor:         ctor,
			args:         ctorConsts,
			names:        args.Names,
			syntax:       args.Syntax,
			argsToParams: result.ArgsToParams,
			exprs:        r.collab.Expressions,
			types:        r.collab.Types,
			sink:         sink,
			early:        r.opts.Early,
		}
		out := c.run()
		core.positional = out.values
		core.sourceIndices = out.sourceIndices
		hasErrors = out.hasErrors
	}
	core.hasErrors = hasErrors || shapeErrors

	omitted := IsConditionallyOmitted(binding, site.Tree, r.collab.Symbols, r.opts.Early)
	return newRecord(core, omitted)
}

func unresolvedMessage(u symbols.Unresolved) string {
	switch u.Quality {
	case symbols.QualityAmbiguous:
		names := ""
		for i, c := range u.Candidates {
			if i > 0 {
				names += "' and '"
			}
			names += c.String()
		}
		return "'" + u.Name + "' is an ambiguous reference between '" + names + "'"
	case symbols.QualityInaccessible:
		return "'" + u.Name + "' is inaccessible due to its protection level"
	case symbols.QualityNotAnAttribute:
		return "'" + u.Name + "' is not an attribute class"
	}
	return "the type or namespace name '" + u.Name + "' could not be found"
}

func obsoleteSuffix(msg string) string {
	if msg == "" {
		return ""
	}
	return ": '" + msg + "'"
}

func typeString(t symbols.Type) string {
	if t == nil {
		return ""
	}
	return t.String()
}

func methodString(m *symbols.Method) string {
	if m == nil {
		return ""
	}
	return m.String()
}
