package prompty

import (
	"context"
	"fmt"
	"sync"

	"github.com/prompy-dev/prompy/internal"
	"go.uber.org/zap"
)

// TopFrame is the synthetic resolution-stack entry pushed by resolveTop for
// the initial render call, before any fragment has been resolved.
const TopFrame = "<top>"

// resolverFrame is one entry on the resolution stack: the slug being
// resolved and the on-disk path of the fragment it came from ("" for the
// synthetic top-level frame), so a nested reference's errors can report
// which fragment file it was written in.
type resolverFrame struct {
	slug string
	path string
}

// Resolver expands @slug(args...) references against a fixed set of search
// roots. A Resolver is scoped to a single Render call: its fragment cache
// and resolution stack must not be shared across renders.
type Resolver struct {
	roots    []string
	project  string
	language string

	cache    *FragmentCache
	registry *internal.Registry
	executor *internal.Executor
	funcs    *internal.FuncRegistry
	config   *engineConfig
	logger   *zap.Logger

	mu    sync.Mutex
	stack []resolverFrame // resolution path, in call order
}

// NewResolver creates a fragment resolver for one render, wiring its own
// tag/attribute engine (registry, executor, function registry) so fragment
// bodies are evaluated the same way top-level template bodies are.
func NewResolver(project, language string, roots []string, opts ...Option) *Resolver {
	config := defaultEngineConfig()
	for _, opt := range opts {
		opt(config)
	}
	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	registry := internal.NewRegistry(logger)
	internal.RegisterBuiltins(registry)

	funcs := internal.NewFuncRegistry()
	internal.RegisterBuiltinFuncs(funcs)

	executor := internal.NewExecutor(registry, internal.ExecutorConfig{MaxDepth: config.maxDepth}, logger)

	return &Resolver{
		roots:    roots,
		project:  project,
		language: language,
		cache:    NewFragmentCache(),
		registry: registry,
		executor: executor,
		funcs:    funcs,
		config:   config,
		logger:   logger,
	}
}

// resolveTop evaluates the initial render body under the given scope. It
// pushes the synthetic "<top>" frame onto the resolution stack so the first
// real fragment reference has a caller to report in diagnostics, evaluates
// the body through the tag engine (C4), and pops the frame before returning.
// Like resolveReference's own PUSH step, it checks ctx for cancellation
// first so a caller-side timeout is honored before any work begins.
func (r *Resolver) resolveTop(ctx context.Context, initialBody string, initialScope *Scope) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	r.pushFrame(TopFrame, "")
	defer r.popFrame()

	return r.evaluateBody(ctx, initialBody, initialScope)
}

// ResolveFragmentRef implements internal.FragmentResolver. It is invoked by
// the executor (C4) whenever expandReferences finds an @slug(...) occurrence
// in attribute or literal text during evaluation of some caller's body. pos
// is the position of that occurrence within the caller's body, threaded
// through to resolveReference so any error raised resolving it reports
// where it was written.
func (r *Resolver) ResolveFragmentRef(callerCtx internal.ContextAccessor, pos internal.Position, ref *internal.RefToken) (string, error) {
	callerScope, ok := callerCtx.(*Context)
	if !ok {
		return "", NewExecutionError(ErrMsgInvalidContextType, ref.Slug, Position{}, nil)
	}
	return r.resolveReference(context.Background(), ref, callerScope, pos)
}

// resolveReference runs the LOCATE -> CHECK_CYCLE -> LOAD -> BIND_ARGS ->
// PUSH -> EVALUATE -> POP algorithm for a single @slug(args...) reference.
// pos is where this reference occurs in the calling fragment's body (or the
// zero Position for the top-level render body), used as the CallerLine on
// any error this call raises; the CallerFile is the path of whichever
// fragment is currently executing, read off the top of the resolution
// stack before this call's own frame is pushed.
func (r *Resolver) resolveReference(ctx context.Context, ref *internal.RefToken, callerScope *Scope, pos internal.Position) (string, error) {
	callerFile := r.currentPath()
	callerLine := pos.Line

	// LOCATE
	path, err := ResolveSlugPath(ref.Slug, r.project, r.language, r.roots)
	if err != nil {
		return "", withCallerContext(err, callerFile, callerLine)
	}

	// CHECK_CYCLE
	if r.onStack(ref.Slug) {
		return "", NewCycleError(r.chain(ref.Slug))
	}

	// LOAD
	fragment, err := r.cache.Load(path)
	if err != nil {
		return "", err
	}
	fragment.Slug = ref.Slug

	// BIND_ARGS
	bound, err := r.bindArguments(ref, fragment, callerScope, callerFile, callerLine)
	if err != nil {
		return "", err
	}

	// PUSH
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.pushFrame(ref.Slug, fragment.Path)
	defer r.popFrame()

	// EVALUATE
	calleeScope := NewScope(bound)
	return r.evaluateBody(ctx, fragment.Body, calleeScope)
}

// evaluateBody runs a fragment (or the top-level render) body through the
// tag/attribute engine (C4), with the resolver and function registry
// attached so nested @slug(...) references and filter chains resolve.
func (r *Resolver) evaluateBody(ctx context.Context, body string, scope *Scope) (string, error) {
	execCtx := scope.WithResolver(r).WithFuncs(r.funcs)

	lexer := internal.NewLexerWithConfig(body, internal.LexerConfig{
		OpenDelim:  r.config.openDelim,
		CloseDelim: r.config.closeDelim,
	}, r.logger)
	tokens, err := lexer.Tokenize()
	if err != nil {
		return "", NewParseError(ErrMsgParseFailed, Position{}, err)
	}

	parser := internal.NewParserWithSource(tokens, body, r.logger)
	ast, err := parser.Parse()
	if err != nil {
		return "", NewParseError(ErrMsgParseFailed, Position{}, err)
	}

	return r.executor.Execute(ctx, ast, execCtx)
}

// bindArguments builds the callee's fresh argument map per the binding
// rules: positional args bind in declared order, keyword args bind by name
// and override positional, unbound declared arguments with a non-null
// default take that default, and an unbound required argument is an error.
// It is an error to supply more positional arguments than the fragment
// declares (§4.5 step 4). Every argument value is evaluated against the
// caller's scope before binding, never the callee's. callerFile/callerLine
// identify where the reference was written, for every error this raises.
func (r *Resolver) bindArguments(ref *internal.RefToken, fragment *ParsedFragment, callerScope *Scope, callerFile string, callerLine int) (map[string]any, error) {
	declared := fragment.ArgumentOrder
	bound := make(map[string]any, len(fragment.Arguments)+len(ref.Keyword))

	if len(ref.Positional) > len(declared) {
		return nil, NewTooManyPositionalArgumentsError(fragment.Slug, len(declared), len(ref.Positional), callerFile, callerLine)
	}

	for i, arg := range ref.Positional {
		val, err := r.evalRefArg(arg, callerScope, callerFile, callerLine)
		if err != nil {
			return nil, err
		}
		bound[declared[i]] = val
	}

	for _, kw := range ref.Keyword {
		val, err := r.evalRefArg(kw.Value, callerScope, callerFile, callerLine)
		if err != nil {
			return nil, err
		}
		bound[kw.Name] = val
	}

	for _, name := range declared {
		if _, ok := bound[name]; ok {
			continue
		}
		def := fragment.Arguments[name]
		if def != nil {
			bound[name] = def
			continue
		}
		return nil, NewMissingArgumentError(name, fragment.Slug, callerFile, callerLine)
	}

	return bound, nil
}

// evalRefArg evaluates a single reference argument value against the
// caller's scope: a string literal is used verbatim, an identifier is
// looked up in the caller's scope, and a nested reference is resolved
// recursively before the caller's frame is popped. callerFile/callerLine
// are forwarded unchanged to a nested resolveReference call: C3 does not
// record a position for a reference nested inside an argument list, so the
// enclosing reference's own position is the closest we have.
func (r *Resolver) evalRefArg(arg internal.RefArg, callerScope *Scope, callerFile string, callerLine int) (any, error) {
	switch arg.Kind {
	case internal.RefArgString:
		return arg.Str, nil
	case internal.RefArgIdent:
		val, ok := callerScope.Get(arg.Ident)
		if !ok {
			return nil, NewUnboundVariableError(arg.Ident, callerFile, callerLine)
		}
		return val, nil
	case internal.RefArgRef:
		return r.resolveReference(context.Background(), arg.Ref, callerScope, internal.Position{Line: callerLine})
	default:
		return nil, NewExecutionError(fmt.Sprintf("unknown reference argument kind %v", arg.Kind), "", Position{}, nil)
	}
}

// pushFrame appends a slug and its fragment path to the resolution stack.
func (r *Resolver) pushFrame(slug, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stack = append(r.stack, resolverFrame{slug: slug, path: path})
}

// popFrame removes the most recently pushed frame from the resolution stack.
func (r *Resolver) popFrame() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.stack) > 0 {
		r.stack = r.stack[:len(r.stack)-1]
	}
}

// onStack reports whether slug is already on the resolution stack.
func (r *Resolver) onStack(slug string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.stack {
		if f.slug == slug {
			return true
		}
	}
	return false
}

// chain returns the current resolution stack with slug appended, the shape
// CycleError reports (caller chain followed by the slug that closed the loop).
func (r *Resolver) chain(slug string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	chain := make([]string, len(r.stack)+1)
	for i, f := range r.stack {
		chain[i] = f.slug
	}
	chain[len(r.stack)] = slug
	return chain
}

// currentPath returns the fragment path of whichever frame is on top of the
// resolution stack ("" for the synthetic top-level frame, or when the
// stack is empty), i.e. the file the reference about to be resolved was
// written in.
func (r *Resolver) currentPath() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.stack) == 0 {
		return ""
	}
	return r.stack[len(r.stack)-1].path
}
