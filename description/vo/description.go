package vo

import (
	"encoding/json"
	"slices"
)

// Category is a labelled, non-empty list of display values.
type Category struct {
	Label  string         `json:"label"`
	Values []DisplayValue `json:"values"`
}

// Description maps category labels to display values, in insertion order.
// A category is only ever present with at least one value.
type Description struct {
	categories []Category
}

func NewDescription() *Description {
	return &Description{}
}

// Add appends a category. Empty value lists are dropped; adding a label that
// is already present appends to its values.
func (d *Description) Add(label string, values ...DisplayValue) {
	if len(values) == 0 {
		return
	}
	for i := range d.categories {
		if d.categories[i].Label == label {
			d.categories[i].Values = append(d.categories[i].Values, values...)
			return
		}
	}
	d.categories = append(d.categories, Category{Label: label, Values: slices.Clone(values)})
}

// Get returns a copy of the values of a category.
func (d *Description) Get(label string) ([]DisplayValue, bool) {
	for _, c := range d.categories {
		if c.Label == label {
			return slices.Clone(c.Values), true
		}
	}
	return nil, false
}

func (d *Description) Labels() []string {
	labels := make([]string, 0, len(d.categories))
	for _, c := range d.categories {
		labels = append(labels, c.Label)
	}
	return labels
}

func (d *Description) Len() int {
	return len(d.categories)
}

// Categories returns a copy of all categories in order.
func (d *Description) Categories() []Category {
	categories := make([]Category, 0, len(d.categories))
	for _, c := range d.categories {
		categories = append(categories, Category{Label: c.Label, Values: slices.Clone(c.Values)})
	}
	return categories
}

func (d *Description) MarshalJSON() ([]byte, error) {
	if d.categories == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(d.categories)
}
