package notemap

// StandardFields is the base configuration most mappings start from: the
// note's identity and bookkeeping properties under their ETAPI names.
// Compose it with custom fields via [Merge]; a caller's field replaces
// the standard one of the same name.
func StandardFields() Config {
	return Config{
		{Name: "noteId", From: Property("noteId")},
		{Name: "title", From: Property("title")},
		{Name: "type", From: Property("type")},
		{Name: "dateCreated", From: Property("dateCreated")},
		{Name: "dateModified", From: Property("dateModified")},
	}
}
