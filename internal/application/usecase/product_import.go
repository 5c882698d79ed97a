package usecase

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/dto"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
)

// Columnas del CSV de productos (separador ';', coma decimal):
//
//	sku;nombre;precio_minorista;precio_mayorista;costo;stock;stock_minimo;categoria
var productCSVHeader = []string{"sku", "nombre", "precio_minorista", "precio_mayorista", "costo", "stock", "stock_minimo", "categoria"}

// ReadProductsCSV parsea el archivo de importación. La primera fila es el encabezado.
func ReadProductsCSV(r io.Reader) ([]dto.CreateProductRequest, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: csv vacío o ilegible: %v", domain.ErrInvalidInput, err)
	}
	if len(header) < len(productCSVHeader) {
		return nil, fmt.Errorf("%w: se esperan las columnas %s", domain.ErrInvalidInput, strings.Join(productCSVHeader, ";"))
	}

	var out []dto.CreateProductRequest
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: línea %d: %v", domain.ErrInvalidInput, line, err)
		}
		if len(rec) < len(productCSVHeader) || strings.TrimSpace(rec[0]) == "" {
			continue
		}
		p, err := parseProductRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: línea %d: %v", domain.ErrInvalidInput, line, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func parseProductRecord(rec []string) (dto.CreateProductRequest, error) {
	var (
		p   dto.CreateProductRequest
		err error
	)
	p.SKU = strings.TrimSpace(rec[0])
	p.Name = strings.TrimSpace(rec[1])
	if p.RetailPrice, err = parseAmount(rec[2]); err != nil {
		return p, fmt.Errorf("precio_minorista: %w", err)
	}
	if p.WholesalePrice, err = parseAmount(rec[3]); err != nil {
		return p, fmt.Errorf("precio_mayorista: %w", err)
	}
	if p.Cost, err = parseAmount(rec[4]); err != nil {
		return p, fmt.Errorf("costo: %w", err)
	}
	if p.Stock, err = parseQty(rec[5]); err != nil {
		return p, fmt.Errorf("stock: %w", err)
	}
	if p.MinStock, err = parseQty(rec[6]); err != nil {
		return p, fmt.Errorf("stock_minimo: %w", err)
	}
	p.Category = strings.TrimSpace(rec[7])
	return p, nil
}

// parseAmount acepta "1.234,50", "1234,5" y "1234.50".
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	return decimal.NewFromString(s)
}

func parseQty(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// ImportResult resumen de una importación.
type ImportResult struct {
	Created int
	Updated int
	Failed  map[string]error // sku → error
}

// Import da de alta o actualiza por SKU. En productos existentes el stock se lleva al valor del
// archivo con un movimiento de ajuste; el costo no se toca.
func (uc *ProductUseCase) Import(ctx context.Context, actorID string, rows []dto.CreateProductRequest) ImportResult {
	res := ImportResult{Failed: map[string]error{}}
	for _, row := range rows {
		sku := strings.ToUpper(strings.TrimSpace(row.SKU))
		existing, err := uc.repo.GetBySKU(ctx, sku)
		if err != nil {
			res.Failed[sku] = err
			continue
		}
		if existing == nil {
			if _, err := uc.Create(ctx, actorID, row); err != nil {
				res.Failed[sku] = err
				continue
			}
			res.Created++
			continue
		}
		if err := uc.updateFromImport(ctx, actorID, existing, row); err != nil {
			res.Failed[sku] = err
			continue
		}
		res.Updated++
	}
	uc.log.Info().Int("creados", res.Created).Int("actualizados", res.Updated).Int("errores", len(res.Failed)).Msg("importación de productos")
	return res
}

func (uc *ProductUseCase) updateFromImport(ctx context.Context, actorID string, p *entity.Product, row dto.CreateProductRequest) error {
	upd := dto.UpdateProductRequest{
		Name:           &row.Name,
		RetailPrice:    &row.RetailPrice,
		WholesalePrice: &row.WholesalePrice,
		MinStock:       &row.MinStock,
		Category:       &row.Category,
	}
	if _, err := uc.Update(ctx, actorID, p.ID, upd); err != nil {
		return err
	}
	if row.Stock == p.Stock {
		return nil
	}
	_, err := uc.AdjustStock(ctx, actorID, p.ID, dto.AdjustStockRequest{
		Type:     entity.StockMovementAdjust,
		Quantity: row.Stock,
		Reason:   "importación csv",
	})
	return err
}
