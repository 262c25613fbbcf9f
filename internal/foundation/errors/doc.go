// Package errors provides the classified error primitives used across great-docs.
//
// Every failure that reaches the CLI carries a category (which stage failed), a
// severity (whether the run aborts) and optional structured context. The CLI adapter
// turns these into exit codes and user-facing messages.
//
// Taxonomy:
//   - CategoryDiscovery: the package could not be located or parsed. Fatal; the
//     configuration file is left untouched.
//   - CategoryConfigFormat: an existing _quarto.yml is not a well-formed mapping.
//     Fatal; nothing is written.
//   - CategoryEmptyCatalog: discovery produced no exports. Warning only; callers log
//     it and keep the user's sections.
//
// Example usage:
//
//	err := errors.DiscoveryError("package not found").
//		WithContext("package", name).
//		WithCause(statErr).
//		Build()
package errors
