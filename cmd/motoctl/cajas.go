package main

import (
	"github.com/spf13/cobra"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/ports"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/usecase"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/infrastructure/broker"
)

var cajasCmd = &cobra.Command{
	Use:   "cajas",
	Short: "Mantenimiento de la caja diaria",
}

func cashUseCase(cmd *cobra.Command) (*usecase.CashUseCase, error) {
	repos, tx, err := current.repos(cmd.Context())
	if err != nil {
		return nil, err
	}
	return usecase.NewCashUseCase(repos.CashRegisters, repos.CashMovements, repos.CashCounts, tx,
		broker.NopPublisher{}, ports.NopMetrics{}, current.clock(), current.log), nil
}

// actorID empleado que firma la operación en auditoría (vacío si no se indica --as).
func actorID(cmd *cobra.Command) (string, error) {
	email, _ := cmd.Flags().GetString("as")
	if email == "" {
		return "", nil
	}
	e, err := employeeByEmail(cmd.Context(), email)
	if err != nil {
		return "", err
	}
	return e.ID, nil
}

var cajasResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Cierra con el saldo esperado las cajas que quedaron abiertas en una fecha",
	RunE: func(cmd *cobra.Command, args []string) error {
		fecha, _ := cmd.Flags().GetString("fecha")
		uc, err := cashUseCase(cmd)
		if err != nil {
			return err
		}
		actor, err := actorID(cmd)
		if err != nil {
			return err
		}
		if fecha == "" {
			fecha = current.clock().Today().Format("2006-01-02")
		}
		n, err := uc.CloseStale(cmd.Context(), actor, fecha)
		if err != nil {
			return err
		}
		if n == 0 {
			warn("no había cajas abiertas el %s", fecha)
			return nil
		}
		ok("%d caja(s) cerrada(s) el %s", n, fecha)
		return nil
	},
}

func init() {
	cajasResetCmd.Flags().String("fecha", "", "día a revisar (2006-01-02, por defecto hoy)")
	cajasResetCmd.Flags().String("as", "", "email del empleado que registra el cierre")
	cajasCmd.AddCommand(cajasResetCmd)
}
