package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/dto"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/infrastructure/firestore"
)

var turnosCmd = &cobra.Command{
	Use:   "turnos",
	Short: "Turnos de caja del sistema anterior",
}

var turnosImportCmd = &cobra.Command{
	Use:   "import-firestore",
	Short: "Importa los turnos de Firestore como cajas diarias cerradas",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		project, _ := cmd.Flags().GetString("project")
		collection, _ := cmd.Flags().GetString("collection")
		if project == "" {
			project = current.cfg.Firestore.ProjectID
		}
		if collection == "" {
			collection = current.cfg.Firestore.Collection
		}
		if project == "" {
			return fmt.Errorf("indicar --project o FIRESTORE_PROJECT_ID")
		}
		actor, err := actorID(cmd)
		if err != nil {
			return err
		}
		if actor == "" {
			return fmt.Errorf("indicar --as con el email del empleado al que se asignan las cajas")
		}

		reader, err := firestore.NewShiftReader(ctx, project, current.cfg.Firestore.CredentialsFile)
		if err != nil {
			return err
		}
		defer reader.Close()
		uc, err := cashUseCase(cmd)
		if err != nil {
			return err
		}

		var imported, skipped, failed int
		err = reader.Each(ctx, collection, func(s dto.LegacyShift) error {
			done, err := uc.ImportLegacy(ctx, actor, s)
			switch {
			case err != nil:
				failed++
				warn("turno %s: %v", s.SourceID, err)
			case done:
				imported++
			default:
				skipped++
			}
			return nil
		})
		if err != nil {
			return err
		}
		ok("importados: %d, omitidos (ya había caja ese día): %d, con error: %d", imported, skipped, failed)
		return nil
	},
}

func init() {
	turnosImportCmd.Flags().String("project", "", "proyecto de Firebase")
	turnosImportCmd.Flags().String("collection", "", "colección de turnos (por defecto FIRESTORE_SHIFTS_COLLECTION)")
	turnosImportCmd.Flags().String("as", "", "email del empleado al que se asignan las cajas importadas")
	turnosCmd.AddCommand(turnosImportCmd)
}
