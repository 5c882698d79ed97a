package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/usecase"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/infrastructure/broker"
)

var productosCmd = &cobra.Command{
	Use:   "productos",
	Short: "Catálogo de productos",
}

var productosImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Importa productos desde CSV (sku;nombre;precio_minorista;precio_mayorista;costo;stock;stock_minimo;categoria)",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		rows, err := usecase.ReadProductsCSV(f)
		if err != nil {
			return err
		}
		if dryRun {
			ok("%d producto(s) válidos en %s", len(rows), path)
			return nil
		}

		ctx := cmd.Context()
		actor, err := actorID(cmd)
		if err != nil {
			return err
		}
		if actor == "" {
			return fmt.Errorf("indicar --as con el email del empleado que registra los movimientos de stock")
		}
		repos, tx, err := current.repos(ctx)
		if err != nil {
			return err
		}
		uc := usecase.NewProductUseCase(repos.Products, repos.StockMovements, tx, repos.Audit, broker.NopPublisher{}, current.log)
		res := uc.Import(ctx, actor, rows)

		ok("creados: %d, actualizados: %d", res.Created, res.Updated)
		for sku, ferr := range res.Failed {
			fmt.Printf("  %s %s: %v\n", color.RedString("✘"), sku, ferr)
		}
		if len(res.Failed) > 0 {
			return fmt.Errorf("%d producto(s) no se importaron", len(res.Failed))
		}
		return nil
	},
}

func init() {
	productosImportCmd.Flags().String("file", "", "archivo CSV")
	productosImportCmd.Flags().String("as", "", "email del empleado que registra la importación")
	productosImportCmd.Flags().Bool("dry-run", false, "solo valida el archivo")
	_ = productosImportCmd.MarkFlagRequired("file")
	productosCmd.AddCommand(productosImportCmd)
}
