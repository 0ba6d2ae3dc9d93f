package main

import (
	"context"

	"asset-management-be/internal/entity"
	"asset-management-be/internal/repository/specification"
	"asset-management-be/internal/repository/unitofwork"
	"asset-management-be/pkg/fieldschema"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// laptopFields is the example schema: ram (number) and os (text), both optional.
var laptopFields = []fieldschema.FieldSpec{
	{Name: "ram", Label: "RAM (GB)", Type: string(entity.FieldTypeNumber)},
	{Name: "os", Label: "Operating System", Type: string(entity.FieldTypeText)},
}

func seedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the example Laptop category",
		RunE: func(cmd *cobra.Command, args []string) error {
			factory, err := openFactory()
			if err != nil {
				return err
			}
			created, err := seedLaptop(cmd.Context(), factory)
			if err != nil {
				return err
			}
			if created {
				color.Green("Seeded category %q", "Laptop")
			} else {
				color.Yellow("Category %q already exists, skipped", "Laptop")
			}
			return nil
		},
	}
}

func seedLaptop(ctx context.Context, factory unitofwork.RepositoryFactory) (bool, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	uow := factory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}
	defer uow.Rollback()

	existing, err := uow.CategoryRepository().FindOne(ctx, specification.ByName{Name: "Laptop"})
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	category := &entity.Category{Id: uuid.New(), Name: "Laptop"}
	category.Fields = fieldschema.BuildFields(category.Id, laptopFields)
	if err := uow.CategoryRepository().Create(ctx, category); err != nil {
		return false, err
	}
	return true, uow.Commit()
}
