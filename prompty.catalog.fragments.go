package prompty

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// CatalogEntry describes one fragment discovered by Enumerate.
type CatalogEntry struct {
	Slug        string
	Path        string
	Description string
	Categories  []string
}

// CatalogFilter narrows Enumerate's results to fragments tagged with a
// given category. An empty Category matches every fragment.
type CatalogFilter struct {
	Category string
}

// EnumerateResult is the outcome of walking the search roots: the winning
// entry per slug plus the lower-precedence entries it shadowed.
type EnumerateResult struct {
	Entries  []CatalogEntry
	Shadowed []CatalogEntry
}

// Enumerate walks every search root in precedence order and returns one
// catalog entry per fragment `.md` file. A fragment's slug is its path
// relative to the root it was found under, with the root's sigil prefix
// (`projects/<project>/` or `languages/<language>/`) stripped back to the
// `project/`/`language/` form callers use in references, minus the file
// extension. When the same slug is found under more than one root, the
// highest-precedence (earliest) root wins and the rest are reported in
// Shadowed rather than silently dropped. Ordering is deterministic: root
// precedence, then path within each root.
func Enumerate(project, language string, roots []string) (*EnumerateResult, error) {
	winners := make(map[string]CatalogEntry)
	var order []string
	var shadowed []CatalogEntry

	for _, root := range roots {
		found, err := walkRoot(root, project, language)
		if err != nil {
			return nil, err
		}
		for _, entry := range found {
			if _, ok := winners[entry.Slug]; ok {
				shadowed = append(shadowed, entry)
				continue
			}
			winners[entry.Slug] = entry
			order = append(order, entry.Slug)
		}
	}

	entries := make([]CatalogEntry, 0, len(order))
	for _, slug := range order {
		entries = append(entries, winners[slug])
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Slug < entries[j].Slug })

	return &EnumerateResult{Entries: entries, Shadowed: shadowed}, nil
}

// ListFragments enumerates fragments across roots and narrows the result to
// CatalogFilter's category, implementing the package's §6 external
// interface.
func ListFragments(project, language string, roots []string, filter CatalogFilter) ([]CatalogEntry, error) {
	result, err := Enumerate(project, language, roots)
	if err != nil {
		return nil, err
	}
	if filter.Category == "" {
		return result.Entries, nil
	}

	filtered := make([]CatalogEntry, 0, len(result.Entries))
	for _, entry := range result.Entries {
		if containsCategory(entry.Categories, filter.Category) {
			filtered = append(filtered, entry)
		}
	}
	return filtered, nil
}

func containsCategory(categories []string, category string) bool {
	for _, c := range categories {
		if c == category {
			return true
		}
	}
	return false
}

// walkRoot finds every fragment file under a single search root and derives
// each one's slug from its path relative to that root.
func walkRoot(root, project, language string) ([]CatalogEntry, error) {
	var entries []CatalogEntry

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if isNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, FragmentFileExt) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		slug := slugFromRelPath(rel, project, language)

		fragment, loadErr := loadFragment(path)
		if loadErr != nil {
			return loadErr
		}

		entries = append(entries, CatalogEntry{
			Slug:        slug,
			Path:        path,
			Description: fragment.Metadata.Description,
			Categories:  fragment.Metadata.Categories,
		})
		return nil
	})
	if err != nil && !isNotExist(err) {
		return nil, NewFragmentIOError(root, err)
	}
	return entries, nil
}

// slugFromRelPath reconstructs the reference-form slug for a path found
// under a search root, re-prefixing project/language subtrees with their
// sigil and stripping the file extension.
func slugFromRelPath(rel, project, language string) string {
	rel = filepath.ToSlash(strings.TrimSuffix(rel, FragmentFileExt))

	if projRest, ok := stripRootDir(rel, RootDirProjects, project); ok {
		return SigilProject + "/" + projRest
	}
	if langRest, ok := stripRootDir(rel, RootDirLanguages, language); ok {
		return SigilLanguage + "/" + langRest
	}
	return strings.TrimPrefix(rel, RootDirFragments+"/")
}

// stripRootDir reports whether rel is "<dirName>/<name>/<rest>" and, if so,
// returns rest.
func stripRootDir(rel, dirName, name string) (string, bool) {
	if name == "" {
		return "", false
	}
	prefix := dirName + "/" + name + "/"
	if !strings.HasPrefix(rel, prefix) {
		return "", false
	}
	return strings.TrimPrefix(rel, prefix), true
}

func isNotExist(err error) bool {
	return err != nil && strings.Contains(err.Error(), "no such file or directory")
}

// GenerateCatalogMarkdown renders catalog entries as a Markdown list in the
// order given (it does not sort them), one line per fragment: its slug
// followed by its frontmatter description when present.
func GenerateCatalogMarkdown(entries []CatalogEntry) string {
	var sb strings.Builder
	sb.WriteString("## Fragment Catalog\n\n")
	for _, entry := range entries {
		sb.WriteString("- **")
		sb.WriteString(entry.Slug)
		sb.WriteString("**")
		if entry.Description != "" {
			sb.WriteString(": ")
			sb.WriteString(entry.Description)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
