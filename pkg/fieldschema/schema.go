// Package fieldschema validates and materializes asset field values against a
// category's form-field schema.
package fieldschema

import (
	"sort"
	"strings"

	"asset-management-be/internal/entity"
	"asset-management-be/pkg/apperror"

	"github.com/google/uuid"
)

// Pair is one caller-supplied field value, keyed by the form field name.
type Pair struct {
	Name  string
	Value string
}

// Schema is the lookup view of a category's current form fields. It is built
// per write and never cached, so every write validates against the schema as
// it stands at that moment.
type Schema struct {
	categoryId uuid.UUID
	byName     map[string]*entity.FormField
	ordered    []*entity.FormField
}

func NewSchema(category *entity.Category) *Schema {
	s := &Schema{
		categoryId: category.Id,
		byName:     make(map[string]*entity.FormField, len(category.Fields)),
	}
	for _, f := range category.Fields {
		if f.IsRetired() {
			continue
		}
		s.byName[f.Name] = f
		s.ordered = append(s.ordered, f)
	}
	SortFields(s.ordered)
	return s
}

func (s *Schema) CategoryId() uuid.UUID {
	return s.categoryId
}

func (s *Schema) Lookup(name string) (*entity.FormField, bool) {
	f, ok := s.byName[name]
	return f, ok
}

// Fields returns the schema in display order.
func (s *Schema) Fields() []*entity.FormField {
	return s.ordered
}

// Bind checks every pair against the schema and, only if all of them pass,
// returns one AssetField per non-blank pair for assetId. Blank values of
// optional fields are dropped. Nothing is returned on failure;
// the error lists every problem found, keyed by field name.
func (s *Schema) Bind(assetId uuid.UUID, pairs []Pair) ([]*entity.AssetField, error) {
	var verr *apperror.Error
	reject := func(field, message string) {
		if verr == nil {
			verr = apperror.Validation("%s", message)
		}
		verr.WithField(field, message)
	}

	seen := make(map[string]bool, len(pairs))
	values := make([]entity.FieldValue, len(pairs))
	skip := make([]bool, len(pairs))
	for i, p := range pairs {
		field, ok := s.byName[p.Name]
		if !ok {
			reject(p.Name, "Invalid field name: "+p.Name)
			continue
		}
		if seen[p.Name] {
			reject(p.Name, "Duplicate field name: "+p.Name)
			continue
		}
		seen[p.Name] = true

		if strings.TrimSpace(p.Value) == "" {
			if field.Required {
				reject(p.Name, "Missing required field: "+p.Name)
			} else {
				// a cleared optional field counts as absent
				skip[i] = true
			}
			continue
		}
		v, err := entity.ParseFieldValue(field.Type, p.Value)
		if err != nil {
			reject(p.Name, "Invalid value for field "+p.Name+": "+err.Error())
			continue
		}
		values[i] = v
	}

	for _, f := range s.ordered {
		if f.Required && !seen[f.Name] {
			reject(f.Name, "Missing required field: "+f.Name)
		}
	}

	if verr != nil {
		return nil, verr
	}

	fields := make([]*entity.AssetField, 0, len(pairs))
	for i, p := range pairs {
		if skip[i] {
			continue
		}
		f := s.byName[p.Name]
		fields = append(fields, &entity.AssetField{
			Id:          uuid.New(),
			AssetId:     assetId,
			FormFieldId: f.Id,
			Value:       values[i],
			FormField:   f,
		})
	}
	return fields, nil
}

// SortFields orders form fields for display: by Order, then by name.
func SortFields(fields []*entity.FormField) {
	sort.SliceStable(fields, func(i, j int) bool {
		if fields[i].Order != fields[j].Order {
			return fields[i].Order < fields[j].Order
		}
		return fields[i].Name < fields[j].Name
	})
}
