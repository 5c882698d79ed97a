package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/infrastructure/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migraciones de la base (goose)",
}

func migrator() *postgres.Migrator {
	return postgres.NewMigrator(current.cfg.DB.ConnectionString(), current.log)
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Aplica las migraciones pendientes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := migrator().Up(cmd.Context()); err != nil {
			return err
		}
		ok("migraciones aplicadas")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revierte la última migración",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := migrator().Down(cmd.Context()); err != nil {
			return err
		}
		ok("última migración revertida")
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Lista las migraciones y su estado",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := migrator().Status(cmd.Context())
		if err != nil {
			return err
		}
		for _, m := range list {
			state := color.YellowString("pendiente")
			if m.Applied {
				state = color.GreenString("aplicada")
			}
			fmt.Printf("%05d  %-10s  %s\n", m.Version, state, m.Source)
		}
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
}
