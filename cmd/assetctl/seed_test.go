package main

import (
	"testing"

	"asset-management-be/internal/entity"
	"asset-management-be/pkg/fieldschema"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLaptopFieldsAcceptPartialPayload(t *testing.T) {
	require.NoError(t, fieldschema.ValidateSpecs(laptopFields))

	category := &entity.Category{Id: uuid.New(), Name: "Laptop"}
	category.Fields = fieldschema.BuildFields(category.Id, laptopFields)

	fields, err := fieldschema.NewSchema(category).Bind(uuid.New(), []fieldschema.Pair{{Name: "os", Value: "Linux"}})

	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "os", fields[0].FormField.Name)
}
