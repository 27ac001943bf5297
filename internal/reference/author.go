package reference

// Author is a stored author, unique by the exact bytes of Name. Names that
// differ only by diacritics ("Gomez C", "Gómez C") are distinct authors.
type Author struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
