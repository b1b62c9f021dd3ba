// BIOROC: Biomarker Cutoff Analysis Tool
// Copyright (c) 2022 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/ExaScience/ptra/blob/master/LICENSE.txt>.

package report

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"bioroc/detection"
)

// Sheet names the workbook uses for its own purposes.
const (
	BestSheet    = "Best"
	defaultSheet = "Sheet1"
)

// ErrReservedSheet is returned for a matrix whose name collides with a sheet of the workbook layout.
var ErrReservedSheet = errors.New("reserved sheet name")

// ReservedSheetName reports whether a matrix name cannot be used as a results sheet. Sheet names are compared
// case-insensitively, as in Excel.
func ReservedSheetName(name string) bool {
	return strings.EqualFold(name, BestSheet) || strings.EqualFold(name, defaultSheet)
}

// MatrixResults pairs a biological matrix with its results table.
type MatrixResults struct {
	Matrix  string
	Results detection.Results
}

// setRow writes values into a sheet row starting at column A. Row numbers start at 1.
func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func headerValues(header []string) []interface{} {
	values := make([]interface{}, len(header))
	for i, h := range header {
		values[i] = h
	}
	return values
}

// cellValue keeps counts and defined numbers numeric in the workbook; NA and labels stay text.
func cellValue(field string) interface{} {
	if i, err := strconv.Atoi(field); err == nil {
		return i
	}
	if v, err := strconv.ParseFloat(field, 64); err == nil {
		return v
	}
	return field
}

func recordValues(fields []string) []interface{} {
	values := make([]interface{}, len(fields))
	for i, field := range fields {
		values[i] = cellValue(field)
	}
	return values
}

// WriteWorkbook saves an XLSX workbook with one results sheet per matrix and a "Best" sheet with the selections.
func WriteWorkbook(name string, tables []MatrixResults, selections []Selection) error {
	for _, table := range tables {
		if ReservedSheetName(table.Matrix) {
			return fmt.Errorf("%w: matrix %q", ErrReservedSheet, table.Matrix)
		}
	}
	f := excelize.NewFile()
	defer f.Close()
	for _, table := range tables {
		if _, err := f.NewSheet(table.Matrix); err != nil {
			return err
		}
		if err := setRow(f, table.Matrix, 1, headerValues(ResultsHeader)); err != nil {
			return err
		}
		for i, r := range table.Results {
			if err := setRow(f, table.Matrix, i+2, recordValues(ResultRecord(r))); err != nil {
				return err
			}
		}
	}
	if _, err := f.NewSheet(BestSheet); err != nil {
		return err
	}
	if err := setRow(f, BestSheet, 1, headerValues(SelectionHeader)); err != nil {
		return err
	}
	for i, s := range selections {
		if err := setRow(f, BestSheet, i+2, recordValues(SelectionRecord(s))); err != nil {
			return err
		}
	}
	if err := f.DeleteSheet(defaultSheet); err != nil {
		return err
	}
	return f.SaveAs(name)
}
