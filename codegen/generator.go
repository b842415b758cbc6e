package codegen

import "github.com/teranos/uistate/decl"

// Generator defines the interface for language-specific extension generators.
// Each target language (Kotlin, Go) implements this interface.
type Generator interface {
	// Language returns the language name (e.g., "kotlin", "go")
	Language() string

	// FileExtension returns the file extension for this language (e.g., "kt", "go")
	FileExtension() string

	// Namespace returns the namespace the extensions for root are generated into
	Namespace(root decl.Ref) string

	// Dir returns the directory the extensions file for root is written to.
	// Relative directories are resolved against the configured output directory.
	Dir(root decl.Ref) string

	// Render produces the complete file for root. Helpers arrive sorted and
	// de-duplicated; Render must not reorder them.
	Render(root decl.Ref, helpers []Helper) (string, error)
}
