package depgraph

import "github.com/PowerSQL/PowerSQL/internal/refextract"

// DependencyMap maps a model name to the names of the project models it
// references directly (references to non-project tables are filtered out).
type DependencyMap map[string][]string

// Resolve extracts references from every model's query body and retains only
// those that name another model in the set (§4.2).
func Resolve(models ModelSet) DependencyMap {
	deps := make(DependencyMap, len(models))
	for name, stmt := range models {
		q := refextract.StatementQuery(stmt)
		refs := refextract.Extract(q)
		var resolved []string
		for _, ref := range refs {
			if _, ok := models[ref]; ok {
				resolved = append(resolved, ref)
			}
		}
		deps[name] = resolved
	}
	return deps
}
