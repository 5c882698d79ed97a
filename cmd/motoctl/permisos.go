package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/permission"
)

var permisosCmd = &cobra.Command{
	Use:   "permisos",
	Short: "Diagnóstico y corrección de permisos por módulo",
}

func employeeByEmail(ctx context.Context, email string) (*entity.Employee, error) {
	repos, _, err := current.repos(ctx)
	if err != nil {
		return nil, err
	}
	e, err := repos.Employees.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("no existe un empleado con email %s", email)
	}
	return e, nil
}

var permisosCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Muestra a qué módulos accede un empleado y su módulo inicial",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		e, err := employeeByEmail(cmd.Context(), email)
		if err != nil {
			return err
		}
		printAccess(e)
		return nil
	},
}

var permisosFixCmd = &cobra.Command{
	Use:   "fix",
	Short: "Fija la lista explícita de módulos (vacía = permisos por defecto del rol)",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		raw, _ := cmd.Flags().GetStringSlice("modulos")
		ctx := cmd.Context()

		mods, bad, valid := permission.ParseModules(raw)
		if !valid {
			return fmt.Errorf("módulo desconocido %q (válidos: %s)", bad, strings.Join(lo.Map(entity.AllModules, func(m entity.Module, _ int) string { return string(m) }), ", "))
		}
		e, err := employeeByEmail(ctx, email)
		if err != nil {
			return err
		}
		repos, _, err := current.repos(ctx)
		if err != nil {
			return err
		}
		if err := repos.Employees.UpdatePermissions(ctx, e.ID, mods); err != nil {
			return err
		}
		e.ModulePermissions = mods
		ok("permisos actualizados")
		printAccess(e)
		return nil
	},
}

func printAccess(e *entity.Employee) {
	field("empleado", fmt.Sprintf("%s <%s>", e.Name, e.Email))
	field("rol", e.Role)
	field("activo", e.Active)
	if len(e.ModulePermissions) == 0 {
		field("permisos", "por defecto del rol")
	} else {
		field("permisos", e.ModulePermissions)
	}
	for _, m := range entity.AllModules {
		mark := color.RedString("✘")
		if permission.CanAccess(e, m) {
			mark = color.GreenString("✔")
		}
		fmt.Printf("    %s %s\n", mark, m)
	}
	field("módulo inicial", permission.LandingModule(e))
}

func init() {
	permisosCheckCmd.Flags().String("email", "", "email del empleado")
	_ = permisosCheckCmd.MarkFlagRequired("email")
	permisosFixCmd.Flags().String("email", "", "email del empleado")
	permisosFixCmd.Flags().StringSlice("modulos", nil, "módulos separados por coma (ej. ventas,clientes)")
	_ = permisosFixCmd.MarkFlagRequired("email")
	permisosCmd.AddCommand(permisosCheckCmd, permisosFixCmd)
}
