package fields

import "sort"

func visible(names ...string) []Field {
	out := make([]Field, len(names))
	for i, name := range names {
		out[i] = Field{name, true}
	}
	return out
}

// Layouts known to the application, by short name
var gSpecs = map[string]Spec{
	"book_details": {
		Key: "book_display_fields",
		Defaults: append(
			visible("title", "authors", "series", "rating", "tags", "formats", "identifiers", "languages", "path", "comments"),
			Field{"publisher", false},
			Field{"pubdate", false},
			Field{"timestamp", false},
		),
	},
	"quickview": {
		Key:      "qv_display_fields",
		Defaults: append(visible("title", "authors", "series"), Field{"tags", false}, Field{"rating", false}),
	},
	"edit_metadata": {
		Key: "edit_metadata_custom_columns_to_display",
	},
	"tag_browser": {
		Key:      "tag_browser_category_order",
		Defaults: visible("authors", "series", "formats", "publisher", "rating", "news", "tags", "languages", "identifiers"),
	},
}

// LookupSpec returns the layout spec having the given short name.
func LookupSpec(name string) (Spec, bool) {
	spec, ok := gSpecs[name]
	return spec, ok
}

// SpecNames returns the short names of all known layouts in sorted order.
func SpecNames() []string {
	names := make([]string, 0, len(gSpecs))
	for name := range gSpecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
