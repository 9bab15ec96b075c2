package prompty

// Scope is a fragment's variable binding environment. It is a type alias
// for Context rather than a distinct struct: fragment bodies are evaluated
// by the same tag/attribute engine as top-level templates, so a scope needs
// exactly the lookup, child-scoping, and accessor-interface behavior
// Context already provides.
//
// A callee's Scope is always built fresh via NewScope, never via an
// existing scope's Child — Child chains to its parent on a lookup miss,
// which would leak a caller's variables into a callee that never received
// them as arguments.
type Scope = Context

// NewScope creates a fresh, parent-less scope from a fragment's bound
// argument values.
func NewScope(bound map[string]any) *Scope {
	return NewContext(bound)
}
