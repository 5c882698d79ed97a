// Command motoctl tareas de mantenimiento: migraciones, alta del administrador, permisos,
// cierre de cajas olvidadas e importaciones.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/usecase"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/repository"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/infrastructure/postgres"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/pkg/config"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/pkg/logger"
)

// env dependencias compartidas por los subcomandos; la conexión se abre a demanda.
type env struct {
	cfg  *config.Config
	log  *logger.Logger
	pool *pgxpool.Pool
}

var current = &env{}

func (e *env) db(ctx context.Context) (*pgxpool.Pool, error) {
	if e.pool != nil {
		return e.pool, nil
	}
	pool, err := postgres.NewPool(ctx, e.cfg.DB, e.log)
	if err != nil {
		return nil, err
	}
	e.pool = pool
	return pool, nil
}

func (e *env) repos(ctx context.Context) (repository.Repos, *postgres.TxRunner, error) {
	pool, err := e.db(ctx)
	if err != nil {
		return repository.Repos{}, nil, err
	}
	return postgres.NewRepos(pool), postgres.NewTxRunner(pool), nil
}

func (e *env) clock() usecase.Clock {
	return usecase.NewClock(e.cfg.App.Location())
}

var rootCmd = &cobra.Command{
	Use:           "motoctl",
	Short:         "Herramientas de mantenimiento de Motorepuestos F.L.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		verbose, _ := cmd.Flags().GetBool("verbose")
		level := "warn"
		if verbose {
			level = "debug"
		}
		current.cfg = cfg
		current.log = logger.New(logger.Config{Env: "development", Level: level, Out: os.Stderr})
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if current.pool != nil {
			current.pool.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "logs de depuración")
	rootCmd.AddCommand(migrateCmd, seedCmd, permisosCmd, cajasCmd, productosCmd, turnosCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}
}

func ok(format string, a ...any) {
	color.Green("✔ "+format, a...)
}

func warn(format string, a ...any) {
	color.Yellow("! "+format, a...)
}

func field(label string, value any) {
	fmt.Printf("  %s %v\n", color.CyanString(label+":"), value)
}
