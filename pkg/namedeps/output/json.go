// Package output serializes analysis results.
package output

import (
	"encoding/json"

	"github.com/ukaji3/namedeps-go/pkg/namedeps/models"
)

// ToJSON serializes a full analysis.
func ToJSON(a *models.Analysis, pretty bool) ([]byte, error) {
	return marshal(a, pretty)
}

// ReferencesToJSON serializes a list of references.
func ReferencesToJSON(refs []models.NamedReference, pretty bool) ([]byte, error) {
	if refs == nil {
		refs = []models.NamedReference{}
	}
	return marshal(refs, pretty)
}

func marshal(v interface{}, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
