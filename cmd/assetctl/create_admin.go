package main

import (
	"context"
	"fmt"
	"strings"

	"asset-management-be/internal/entity"
	"asset-management-be/internal/repository/specification"
	"asset-management-be/internal/repository/unitofwork"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

func createAdminCommand() *cobra.Command {
	var (
		username string
		password string
		email    string
	)

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin user, or promote an existing one",
		Long: `Create an admin user. When the username already exists the user is
promoted to admin and its password is reset.

Examples:
  assetctl create-admin --username root --password 'changeme123'
  assetctl create-admin --username root --password 'changeme123' --email ops@example.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			factory, err := openFactory()
			if err != nil {
				return err
			}
			promoted, err := createAdmin(cmd.Context(), factory, username, password, email)
			if err != nil {
				return err
			}
			if promoted {
				color.Yellow("Promoted existing user %q to admin", username)
			} else {
				color.Green("Created admin %q", username)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Admin username")
	cmd.Flags().StringVar(&password, "password", "", "Admin password (min 8 characters)")
	cmd.Flags().StringVar(&email, "email", "", "Admin email")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func createAdmin(ctx context.Context, factory unitofwork.RepositoryFactory, username, password, email string) (bool, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return false, fmt.Errorf("username must not be empty")
	}
	if len(password) < 8 {
		return false, fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}

	uow := factory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}
	defer uow.Rollback()

	users := uow.UserRepository()
	existing, err := users.FindOne(ctx, specification.ByUsername{Username: username})
	if err != nil {
		return false, err
	}

	if existing != nil {
		existing.Role = entity.UserRoleAdmin
		existing.PasswordHash = string(hash)
		if email != "" {
			existing.Email = email
		}
		if err := users.Update(ctx, existing); err != nil {
			return false, err
		}
		return true, uow.Commit()
	}

	admin := &entity.User{
		Id:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         entity.UserRoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		return false, err
	}
	return false, uow.Commit()
}
