// Package git implements the merge orchestration pipeline and the
// repository primitives it depends on.
//
// The package is organized into focused modules:
//   - service.go: Service struct and constructors
//   - types.go: request/result types, step and outcome enums, remote resolution
//   - merge.go: the merge pipeline (checkout, pull, merge, push, restore)
//   - conflict.go: conflict predicate and porcelain status scanning
//   - repo.go: read-only repository context via go-git
//   - validate.go: branch name validation
package git
