package seed

// Entry represents a single bookmark entry in the seed YAML
type Entry struct {
	Title string `yaml:"title"`
	Href  string `yaml:"href"`
}

// Category groups entries under a display name.
// The YAML structure is: - CategoryName: [{ title, href }, ...]
type Category map[string][]Entry

// File is the root structure of the seed YAML
type File []Category
