package config

// Version is the current Templar version.
// It is a variable so a release build can override it via -ldflags.
var Version = "0.4.2"

const SourceFileExt = ".hbs"

// SourceFileExtensions are all recognized template file extensions
var SourceFileExtensions = []string{".hbs", ".handlebars", ".tpl"}

// TrimSourceExt removes any recognized template extension from a filename.
// Returns the original string if no extension matches.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt returns true if the path ends with any recognized template extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// RuntimeModule is the module every emitted import() references. The host
// type checker supplies its declarations; the transform only names it.
const RuntimeModule = "@templar/runtime"

// Reserved identifiers used verbatim in emitted code. Block params and
// local aliases may not shadow them (the ASCII identifier rule rejects
// both names).
const (
	// NamespaceIdent binds the runtime module namespace in the frame.
	NamespaceIdent = "χ"
	// ContextIdent names the implicit component context parameter.
	ContextIdent = "Γ"
)

// IndentWidth is the emission indent step, in spaces.
const IndentWidth = 2

// ConfigFileName is the project configuration file discovered by walking
// up from a template's directory.
const ConfigFileName = ".templar.yml"

// CacheFileName is the default on-disk name of the transform result cache.
const CacheFileName = "templar-cache.db"

// Comment directives recognized by the transform. They are recorded with
// their spans for the host checker; the transform attaches no semantics.
const (
	DirectiveIgnore      = "@templar-ignore"
	DirectiveExpectError = "@templar-expect-error"
)
