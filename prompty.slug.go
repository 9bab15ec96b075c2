package prompty

import (
	"os"
	"path/filepath"
	"strings"
)

// Sigil prefixes recognized as the first path segment of a fragment slug.
const (
	SigilProject     = "project"
	SigilLanguage    = "language"
	SigilEnvironment = "environment"
)

// Rewritten-path root directory names.
const (
	RootDirProjects  = "projects"
	RootDirLanguages = "languages"
	RootDirFragments = "fragments"
)

// FragmentFileExt is the on-disk extension for fragment files.
const FragmentFileExt = ".md"

// PathTraversalSegment is the path segment that makes a slug invalid.
const PathTraversalSegment = ".."

// ResolveSlugPath resolves a fragment slug to an absolute file path,
// probing the given search roots in precedence order. Sigil prefixes
// ("project/...", "language/..." or "environment/...") are rewritten to
// their namespaced subtree; any other slug is rewritten under
// "fragments/". The project/language sigils are skipped entirely (no
// candidate path is probed) when the corresponding name is empty.
func ResolveSlugPath(slug, project, language string, roots []string) (string, error) {
	if err := validateSlug(slug); err != nil {
		return "", err
	}

	var searched []string
	for _, root := range roots {
		rel, ok := rewriteSlugPath(slug, project, language)
		if !ok {
			continue
		}
		candidate := filepath.Join(root, rel+FragmentFileExt)
		searched = append(searched, candidate)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	return "", NewMissingFragmentError(slug, "", 0, searched)
}

// validateSlug rejects empty slugs and slugs containing a ".." segment,
// before any rewriting or filesystem probing.
func validateSlug(slug string) error {
	if slug == "" {
		return NewInvalidSlugError(slug, "empty slug")
	}
	for _, seg := range strings.Split(slug, "/") {
		if seg == PathTraversalSegment {
			return NewInvalidSlugError(slug, "slug contains a '..' path segment")
		}
	}
	return nil
}

// rewriteSlugPath applies the sigil-rewriting rule to a slug. The second
// return value is false when the slug uses a sigil whose corresponding
// name (project or language) was not supplied — that candidate must not
// be probed.
func rewriteSlugPath(slug, project, language string) (string, bool) {
	head, rest, hasRest := strings.Cut(slug, "/")

	switch head {
	case SigilProject:
		if project == "" || !hasRest {
			return "", false
		}
		return filepath.Join(RootDirProjects, project, rest), true
	case SigilLanguage, SigilEnvironment:
		if language == "" || !hasRest {
			return "", false
		}
		return filepath.Join(RootDirLanguages, language, rest), true
	default:
		return filepath.Join(RootDirFragments, slug), true
	}
}
