package depgraph

import "fmt"

// DependencyError reports a reference to a model not present in the project,
// discovered by DetectCycle while walking the dependency map.
type DependencyError struct {
	Model     string
	Reference string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("model %q references unknown model %q", e.Model, e.Reference)
}

// CycleError names the root model whose traversal discovered a back-edge.
type CycleError struct {
	Root    string
	Message string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("loop detected while checking model %s: %s", e.Root, e.Message)
}

// UnsupportedStatementError reports a model file whose top-level statement is
// neither a CREATE VIEW nor a CREATE TABLE AS.
type UnsupportedStatementError struct {
	Path string
}

func (e *UnsupportedStatementError) Error() string {
	return fmt.Sprintf("%s: only materialized views and CREATE TABLE AS are supported", e.Path)
}
