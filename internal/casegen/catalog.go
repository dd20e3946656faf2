package casegen

import (
	"sync"

	_ "embed"

	"github.com/myrjola/gumshoe/internal/errors"
	"github.com/myrjola/gumshoe/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

var (
	catalogOnce  sync.Once
	catalogCases []models.CaseFile
	catalogErr   error
)

// Catalog returns the embedded authored cases. Every case carries its
// red-herring flags in the authored data; nothing is randomised at load
// time.
func Catalog() ([]models.CaseFile, error) {
	catalogOnce.Do(func() {
		var doc struct {
			Cases []models.CaseFile `yaml:"cases"`
		}
		if err := yaml.Unmarshal(catalogYAML, &doc); err != nil {
			catalogErr = errors.Wrap(err, "unmarshal catalog")
			return
		}
		for i := range doc.Cases {
			if err := doc.Cases[i].Validate(); err != nil {
				catalogErr = errors.Wrap(err, "validate catalog case")
				return
			}
		}
		catalogCases = doc.Cases
	})
	return catalogCases, catalogErr
}
