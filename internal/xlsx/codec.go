// Package xlsx is the spreadsheet codec: it turns uploaded workbook
// bytes into raw sheet data and raw sheet data back into workbook
// bytes. The binary format itself is excelize's problem; everything
// above this package only sees named grids of display strings.
package xlsx

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/veemap/taskdash/internal/core"
	"github.com/xuri/excelize/v2"
)

// Decode reads an xlsx document into one RawSheet per sheet, in
// workbook order. The first row of each sheet is its header; cell
// values are display strings, dates included; the core parses them.
func Decode(r io.Reader) ([]core.RawSheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var raws []core.RawSheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}

		raw := core.RawSheet{Name: name}
		if len(rows) > 0 {
			raw.Header = rows[0]
			raw.Records = rows[1:]
		}
		raws = append(raws, raw)
	}
	return raws, nil
}

// Encode writes raw sheets into xlsx bytes, deterministically, in the
// order given.
func Encode(raws []core.RawSheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	for i, raw := range raws {
		if i == 0 {
			// excelize starts every file with one default sheet
			if err := f.SetSheetName(f.GetSheetName(0), raw.Name); err != nil {
				return nil, fmt.Errorf("name sheet %q: %w", raw.Name, err)
			}
		} else {
			if _, err := f.NewSheet(raw.Name); err != nil {
				return nil, fmt.Errorf("create sheet %q: %w", raw.Name, err)
			}
		}

		if err := writeSheet(f, raw); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// writeSheet writes the header row followed by the data rows.
func writeSheet(f *excelize.File, raw core.RawSheet) error {
	if len(raw.Header) == 0 {
		return nil
	}

	if err := setRow(f, raw.Name, 1, raw.Header); err != nil {
		return err
	}
	for i, record := range raw.Records {
		if err := setRow(f, raw.Name, i+2, record); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}

	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write sheet %q row %d: %w", sheet, rowNum, err)
	}
	return nil
}

// EncodeCSV writes one raw sheet as CSV, header first. This is the
// per-project download format.
func EncodeCSV(raw core.RawSheet) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(raw.Header); err != nil {
		return nil, err
	}
	for _, record := range raw.Records {
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
