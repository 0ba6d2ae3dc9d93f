package fieldschema

import (
	"strconv"
	"strings"

	"asset-management-be/internal/entity"
	"asset-management-be/pkg/apperror"

	"github.com/google/uuid"
)

// FieldSpec is an admin-supplied form field definition. A nil Order means
// "not given".
type FieldSpec struct {
	Name     string
	Label    string
	Type     string
	Required bool
	Order    *int
}

// ValidateSpecs rejects a spec list before anything is written.
func ValidateSpecs(specs []FieldSpec) error {
	var verr *apperror.Error
	reject := func(key, message string) {
		if verr == nil {
			verr = apperror.Validation("%s", message)
		}
		verr.WithField(key, message)
	}

	seen := make(map[string]bool, len(specs))
	for i, spec := range specs {
		name := strings.TrimSpace(spec.Name)
		if name == "" {
			reject(indexKey(i, "name"), "Field name is required")
			continue
		}
		if seen[name] {
			reject(name, "Duplicate field name: "+name)
			continue
		}
		seen[name] = true
		if strings.TrimSpace(spec.Label) == "" {
			reject(name, "Field label is required: "+name)
		}
		if _, err := entity.ParseFieldType(spec.Type); err != nil {
			reject(name, "Invalid field type for "+name+": "+spec.Type)
		}
	}
	if verr != nil {
		return verr
	}
	return nil
}

// BuildFields turns validated specs into new form fields of categoryId. A
// field without an explicit order takes its position in specs.
func BuildFields(categoryId uuid.UUID, specs []FieldSpec) []*entity.FormField {
	fields := make([]*entity.FormField, 0, len(specs))
	for i, spec := range specs {
		fields = append(fields, newField(categoryId, i, spec))
	}
	return fields
}

// Plan is the outcome of reconciling a category's fields with a new spec list.
type Plan struct {
	Updates  []*entity.FormField
	Creates  []*entity.FormField
	Removals []*entity.FormField
}

// PlanReconcile matches specs to existing fields by name: matches are updated
// in place, unmatched specs become new fields, and existing fields absent from
// specs are removed. Retired fields in existing are ignored.
func PlanReconcile(categoryId uuid.UUID, existing []*entity.FormField, specs []FieldSpec) *Plan {
	current := make(map[string]*entity.FormField, len(existing))
	for _, f := range existing {
		if !f.IsRetired() {
			current[f.Name] = f
		}
	}

	plan := &Plan{}
	wanted := make(map[string]bool, len(specs))
	for i, spec := range specs {
		name := strings.TrimSpace(spec.Name)
		wanted[name] = true

		f, ok := current[name]
		if !ok {
			plan.Creates = append(plan.Creates, newField(categoryId, i, spec))
			continue
		}

		updated := *f
		updated.Label = spec.Label
		updated.Type = entity.FieldType(spec.Type)
		updated.Required = spec.Required
		if spec.Order != nil {
			updated.Order = *spec.Order
		}
		if updated != *f {
			plan.Updates = append(plan.Updates, &updated)
		}
	}

	for _, f := range existing {
		if !f.IsRetired() && !wanted[f.Name] {
			plan.Removals = append(plan.Removals, f)
		}
	}
	return plan
}

func newField(categoryId uuid.UUID, index int, spec FieldSpec) *entity.FormField {
	order := index
	if spec.Order != nil {
		order = *spec.Order
	}
	return &entity.FormField{
		Id:         uuid.New(),
		CategoryId: categoryId,
		Name:       strings.TrimSpace(spec.Name),
		Label:      spec.Label,
		Type:       entity.FieldType(spec.Type),
		Required:   spec.Required,
		Order:      order,
	}
}

func indexKey(i int, attr string) string {
	return "fields[" + strconv.Itoa(i) + "]." + attr
}
