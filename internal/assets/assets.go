package assets

// Names of the built-in assets.
const (
	DefaultStyleName    = "default"
	DefaultTemplateName = "document"
)

var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a built-in CSS style by name, without the .css extension.
// Returns ErrStyleNotFound if the style does not exist.
// Returns ErrInvalidAssetName if the name contains path separators or dots.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// LoadTemplate loads a built-in HTML template by name, without the .html extension.
// Returns ErrTemplateNotFound if the template does not exist.
func LoadTemplate(name string) (string, error) {
	return defaultLoader.LoadTemplate(name)
}

// StyleNames lists the built-in styles.
func StyleNames() []string {
	return defaultLoader.StyleNames()
}
