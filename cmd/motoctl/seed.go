package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/usecase"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Datos iniciales",
}

var seedAdminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Crea el administrador inicial (o restablece su contraseña si ya existe)",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		name, _ := cmd.Flags().GetString("nombre")
		email = strings.ToLower(strings.TrimSpace(email))
		if len(password) < 8 {
			return fmt.Errorf("la contraseña debe tener al menos 8 caracteres")
		}

		ctx := cmd.Context()
		repos, _, err := current.repos(ctx)
		if err != nil {
			return err
		}
		hash, err := usecase.HashPassword(password)
		if err != nil {
			return err
		}
		existing, err := repos.Employees.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return promoteAdmin(ctx, existing, hash)
		}

		now := time.Now()
		e := &entity.Employee{
			ID:           uuid.New().String(),
			Name:         name,
			Email:        email,
			PasswordHash: hash,
			Role:         entity.RoleAdministrador,
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := repos.Employees.Create(ctx, e); err != nil {
			return err
		}
		ok("administrador creado")
		field("id", e.ID)
		field("email", e.Email)
		return nil
	},
}

func promoteAdmin(ctx context.Context, e *entity.Employee, hash string) error {
	repos, _, err := current.repos(ctx)
	if err != nil {
		return err
	}
	if err := repos.Employees.UpdatePassword(ctx, e.ID, hash); err != nil {
		return err
	}
	if e.Role != entity.RoleAdministrador || !e.Active {
		e.Role = entity.RoleAdministrador
		e.Active = true
		e.UpdatedAt = time.Now()
		if err := repos.Employees.Update(ctx, e); err != nil {
			return err
		}
	}
	warn("el empleado ya existía: contraseña restablecida y rol Administrador asegurado")
	field("id", e.ID)
	return nil
}

func init() {
	seedAdminCmd.Flags().String("email", "", "email del administrador")
	seedAdminCmd.Flags().String("password", "", "contraseña (mínimo 8 caracteres)")
	seedAdminCmd.Flags().String("nombre", "Administrador", "nombre a mostrar")
	_ = seedAdminCmd.MarkFlagRequired("email")
	_ = seedAdminCmd.MarkFlagRequired("password")
	seedCmd.AddCommand(seedAdminCmd)
}
