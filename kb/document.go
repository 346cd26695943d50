// Package kb provides the knowledge-base document store and ingestion.
package kb

// Category classifies a knowledge-base entry.
type Category string

const (
	CategoryAbout      Category = "about"
	CategorySkills     Category = "skills"
	CategoryProjects   Category = "projects"
	CategoryExperience Category = "experience"
	CategoryEducation  Category = "education"
	CategoryFAQ        Category = "faq"
	CategoryInterests  Category = "interests"
	CategoryContact    Category = "contact"
	CategoryBlog       Category = "blog"
	CategoryOther      Category = "other"
)

// Document represents a normalized knowledge-base entry with a cached embedding.
type Document struct {
	ID        string            `json:"id"`
	Text      string            `json:"text"`
	Category  Category          `json:"category"`
	Embedding []float64         `json:"embedding"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// CategoryWeights maps a category to a multiplicative score adjustment.
// Weights are applied after similarity, never before.
type CategoryWeights map[Category]float64

// DefaultCategoryWeights boosts curated sections over generated ones.
func DefaultCategoryWeights() CategoryWeights {
	return CategoryWeights{
		CategoryFAQ:        1.2,
		CategoryAbout:      1.1,
		CategorySkills:     1.1,
		CategoryProjects:   1.0,
		CategoryExperience: 1.0,
		CategoryEducation:  1.0,
		CategoryInterests:  1.0,
		CategoryContact:    1.0,
		CategoryBlog:       1.0,
	}
}

// Weight returns the configured weight for a category, or 1.0 when unknown.
func (w CategoryWeights) Weight(c Category) float64 {
	if v, ok := w[c]; ok {
		return v
	}
	return 1.0
}
