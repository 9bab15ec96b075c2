package prompty

import "context"

// Render expands body's @slug(args...) fragment references and tag/
// attribute constructs (prompty.var, prompty.if, prompty.for, and the
// rest of the host template language) under scope, resolving fragments
// against roots in precedence order. project and language scope the
// `project/...` and `language/...`/`environment/...` sigil prefixes a
// fragment slug may use; either may be empty if the caller has no such
// context. Render never reads environment variables or the filesystem
// outside roots itself — callers resolve those ahead of time.
func Render(ctx context.Context, body string, scope *Scope, project, language string, roots []string) (string, error) {
	if scope == nil {
		scope = NewScope(nil)
	}
	resolver := NewResolver(project, language, roots)
	return resolver.resolveTop(ctx, body, scope)
}
