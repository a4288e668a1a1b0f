package export

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

var columnWidths = []float64{12, 18, 12, 30}

// built-in excel number format "0.00"
const amountNumFmt = 2

type XlsxRendererImpl struct {
}

func NewXlsxRenderer() *XlsxRendererImpl {
	return &XlsxRendererImpl{}
}

// Render writes the table to a single sheet named after its title.
func (r *XlsxRendererImpl) Render(table Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := table.Title
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("could not create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("could not remove default sheet: %w", err)
	}

	if err := setRow(f, sheetName, 1, table.Header); err != nil {
		return nil, err
	}
	amountCol := slices.Index(table.Header, "Amount")
	for i, row := range table.Rows {
		if err := setRow(f, sheetName, i+2, row); err != nil {
			return nil, err
		}
		if amountCol >= 0 && amountCol < len(row) {
			if err := setAmount(f, sheetName, amountCol+1, i+2, row[amountCol]); err != nil {
				return nil, err
			}
		}
	}
	if amountCol >= 0 && len(table.Rows) > 0 {
		if err := styleAmounts(f, sheetName, amountCol+1, len(table.Rows)+1); err != nil {
			return nil, err
		}
	}

	for i, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return nil, err
		}
	}

	var b bytes.Buffer
	if err := f.Write(&b); err != nil {
		log.Errorf("Error writing xlsx: %v", err)
		return nil, err
	}
	return b.Bytes(), nil
}

func setRow(f *excelize.File, sheetName string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
		return fmt.Errorf("could not write row %d: %w", row, err)
	}
	return nil
}

// setAmount stores the amount as a number so the sheet can sum it.
func setAmount(f *excelize.File, sheetName string, col, row int, value string) error {
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return fmt.Errorf("could not read amount %q in row %d: %w", value, row, err)
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheetName, cell, amount.InexactFloat64())
}

func styleAmounts(f *excelize.File, sheetName string, col, lastRow int) error {
	style, err := f.NewStyle(&excelize.Style{NumFmt: amountNumFmt})
	if err != nil {
		return fmt.Errorf("could not create amount style: %w", err)
	}
	top, err := excelize.CoordinatesToCellName(col, 2)
	if err != nil {
		return err
	}
	bottom, err := excelize.CoordinatesToCellName(col, lastRow)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheetName, top, bottom, style)
}
