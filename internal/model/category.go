package model

// Categories is the closed event taxonomy.  Category values are stored as
// plain strings; validation happens where events and interests are written.
var Categories = []string{
    "tech",
    "music",
    "sports",
    "art",
    "food",
    "business",
    "health",
    "education",
    "gaming",
    "networking",
    "outdoor",
    "community",
}

var categorySet = func() map[string]bool {
    m := make(map[string]bool, len(Categories))
    for _, c := range Categories {
        m[c] = true
    }
    return m
}()

// IsCategory reports whether c belongs to the taxonomy (exact match).
func IsCategory(c string) bool { return categorySet[c] }
