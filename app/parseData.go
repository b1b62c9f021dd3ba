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

package app

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"bioroc/detection"
)

//The bioroc program reads one measurement file per biological matrix. Each row is one sample of one subject:
//subject ID, treatment, experience group, minutes since the start of exposure, and one column per compound with the
//measured concentration. Empty cells and the study's missing value markers mean not measured; 0 means measured and
//not detected. Files ending in .tab or .tsv are tab separated, all others comma separated.

// columnIndex finds a column in a header, ignoring surrounding spaces.
func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

// separator returns the field separator for a measurement file.
func separator(file string) rune {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".tab", ".tsv":
		return '\t'
	default:
		return ','
	}
}

// parseMeasurementFile parses the measurement file of a biological matrix.
func parseMeasurementFile(file string, study *Study, matrix MatrixConfig) (*detection.Dataset, error) {
	csvFile, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer csvFile.Close()
	ds, err := parseMeasurements(csvFile, separator(file), study, matrix)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return ds, nil
}

// parseMeasurements reads measurement records with a header line. Treatments and groups must be declared in the
// study. Rows with an unparseable time are skipped; unparseable concentrations are read as missing.
func parseMeasurements(r io.Reader, comma rune, study *Study, matrix MatrixConfig) (*detection.Dataset, error) {
	levels, err := study.ArmLevels()
	if err != nil {
		return nil, err
	}
	groups := map[string]bool{}
	for _, g := range study.Groups {
		groups[g] = true
	}
	missing := map[string]bool{}
	for _, m := range study.Missing {
		missing[m] = true
	}
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	idCol := columnIndex(header, study.Columns.ID)
	armCol := columnIndex(header, study.Columns.Treatment)
	groupCol := columnIndex(header, study.Columns.Group)
	timeCol := columnIndex(header, study.Columns.Time)
	if idCol < 0 || armCol < 0 || groupCol < 0 || timeCol < 0 {
		return nil, fmt.Errorf("%w: header %v lacks one of the columns %v", ErrInvalidStudy, header, study.Columns)
	}
	compoundCols := make([]int, len(matrix.Compounds))
	for i, c := range matrix.Compounds {
		compoundCols[i] = columnIndex(header, c)
		if compoundCols[i] < 0 {
			return nil, fmt.Errorf("%w: %q in matrix %q", detection.ErrUnknownCompound, c, matrix.Name)
		}
	}
	ds := &detection.Dataset{Matrix: matrix.Name, Compounds: matrix.Compounds, Removed: map[string]int{}}
	ctr := 0 //for counting the number of parsed rows
	ctrTime := 0
	ctrMissing := 0
	ctrUnparseable := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		ctr++
		treatment := strings.TrimSpace(record[armCol])
		arm, ok := levels[treatment]
		if !ok {
			return nil, fmt.Errorf("%w: row %d: undeclared treatment %q", ErrInvalidStudy, ctr, treatment)
		}
		group := strings.TrimSpace(record[groupCol])
		if len(groups) > 0 && !groups[group] {
			return nil, fmt.Errorf("%w: row %d: undeclared group %q", ErrInvalidStudy, ctr, group)
		}
		elapsed, err := strconv.ParseFloat(strings.TrimSpace(record[timeCol]), 64)
		if err != nil {
			ctrTime++
			continue //skip samples without a time
		}
		rec := &detection.Record{
			ID:            strings.TrimSpace(record[idCol]),
			Treatment:     arm,
			Group:         group,
			TimeFromStart: elapsed,
			Values:        make([]detection.Measurement, len(compoundCols)),
		}
		for i, col := range compoundCols {
			cell := strings.TrimSpace(record[col])
			if missing[cell] {
				ctrMissing++
				rec.Values[i] = detection.Missing
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil || math.IsNaN(v) {
				ctrUnparseable++
				rec.Values[i] = detection.Missing
				continue
			}
			rec.Values[i] = detection.Value(v)
		}
		ds.Records = append(ds.Records, rec)
	}
	fmt.Println("Parsed measurement data for matrix ", matrix.Name, ".")
	fmt.Print("Parsed ", ctr, " rows ")
	fmt.Println("of which ", ctrTime, " without a time since start; ", ctrMissing, " missing and ", ctrUnparseable,
		" unparseable concentrations.")
	return ds, nil
}
