// Package assets provides the stylesheets and document template used when
// the editor exports a standalone HTML document or prints it to PDF.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in assets)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver is the loader used by the converter. A custom directory can
// override one asset and keep the built-in versions of the others.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css       # e.g. technical.css
//	└── templates/
//	    └── {name}.html      # e.g. document.html
//
// The document template receives .Title, .CSS and .Body.
//
// # Security
//
// Asset names are validated to prevent path traversal.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
