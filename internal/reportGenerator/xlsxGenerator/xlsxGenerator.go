package xlsxGenerator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/holdings_keeper/internal/model"
	"github.com/KotFed0t/holdings_keeper/utils"
	"github.com/xuri/excelize/v2"
)

type XLSXGenerator struct{}

func New() *XLSXGenerator {
	return &XLSXGenerator{}
}

// Generate renders one sheet of positions followed by the transaction
// history.
func (g *XLSXGenerator) Generate(ctx context.Context, report model.PortfolioReport) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "XLSXGenerator.Generate"

	slog.Debug("Generate start", slog.String("rqID", rqID), slog.String("op", op))

	f := excelize.NewFile()
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Error("got error while closing file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", closeErr.Error()))
		}
	}()

	sheet := report.Portfolio.Name
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, "", err
	}

	row := 1
	setRow := func(values ...any) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
		row++
		return nil
	}

	if err := setRow("Portfolio", report.Portfolio.Name); err != nil {
		return nil, "", err
	}
	if err := setRow("Generated", report.GeneratedAt.Format("2006-01-02 15:04")); err != nil {
		return nil, "", err
	}
	row++

	if err := setRow("Symbol", "Name", "Grade", "Quantity", "Invested", "Proceeds"); err != nil {
		return nil, "", err
	}
	for _, pos := range report.Positions {
		err := setRow(
			pos.Stock.Symbol.String(),
			pos.Stock.Name,
			string(pos.Stock.Grade),
			pos.Quantity.String(),
			pos.Invested.String(),
			pos.Proceeds.String(),
		)
		if err != nil {
			return nil, "", err
		}
	}
	row++

	if err := setRow("Date", "Side", "Stock ID", "Quantity", "Price", "Total", "Notes"); err != nil {
		return nil, "", err
	}
	for _, tx := range report.Transactions {
		err := setRow(
			tx.Date.Format("2006-01-02"),
			string(tx.Side),
			fmt.Sprintf("%d", tx.StockID),
			tx.Quantity.String(),
			tx.Price.String(),
			tx.Total().String(),
			tx.Notes,
		)
		if err != nil {
			return nil, "", err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("got error while saving file to bytes buffer", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug("Generate completed", slog.String("rqID", rqID), slog.String("op", op))

	return buf.Bytes(), ".xlsx", nil
}
