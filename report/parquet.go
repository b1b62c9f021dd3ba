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
	"os"

	"github.com/parquet-go/parquet-go"

	"bioroc/detection"
)

// ResultRow is the Parquet layout of a results row. Undefined metrics are stored as null.
type ResultRow struct {
	RunID            string   `parquet:"run_id"`
	Matrix           string   `parquet:"matrix"`
	Compound         string   `parquet:"compound"`
	DetectionLimit   float64  `parquet:"detection_limit"`
	TimeStart        float64  `parquet:"time_start"`
	TimeStop         float64  `parquet:"time_stop"`
	TimeWindow       string   `parquet:"time_window"`
	TP               int64    `parquet:"tp"`
	FN               int64    `parquet:"fn"`
	FP               int64    `parquet:"fp"`
	TN               int64    `parquet:"tn"`
	Unclassified     int64    `parquet:"unclassified"`
	NAs              int64    `parquet:"nas"`
	N                int64    `parquet:"n"`
	NRemoved         int64    `parquet:"n_removed"`
	NoData           bool     `parquet:"no_data"`
	Sensitivity      *float64 `parquet:"sensitivity,optional"`
	Specificity      *float64 `parquet:"specificity,optional"`
	PPV              *float64 `parquet:"ppv,optional"`
	NPV              *float64 `parquet:"npv,optional"`
	Efficiency       *float64 `parquet:"efficiency,optional"`
	Youden           *float64 `parquet:"youden,optional"`
	SensitivityLower *float64 `parquet:"sensitivity_lower,optional"`
	SensitivityUpper *float64 `parquet:"sensitivity_upper,optional"`
	SpecificityLower *float64 `parquet:"specificity_lower,optional"`
	SpecificityUpper *float64 `parquet:"specificity_upper,optional"`
}

// NewResultRow flattens a results row of the run with the given identifier.
func NewResultRow(r *detection.Result, runID string) ResultRow {
	return ResultRow{
		RunID:            runID,
		Matrix:           r.Matrix,
		Compound:         r.Label,
		DetectionLimit:   r.Cutoff,
		TimeStart:        r.Window.Start,
		TimeStop:         r.Window.Stop,
		TimeWindow:       r.Window.Label,
		TP:               int64(r.TP),
		FN:               int64(r.FN),
		FP:               int64(r.FP),
		TN:               int64(r.TN),
		Unclassified:     int64(r.Unclassified),
		NAs:              int64(r.Missing),
		N:                int64(r.N),
		NRemoved:         int64(r.NRemoved),
		NoData:           r.NoData,
		Sensitivity:      r.Sensitivity.Ptr(),
		Specificity:      r.Specificity.Ptr(),
		PPV:              r.PPV.Ptr(),
		NPV:              r.NPV.Ptr(),
		Efficiency:       r.Efficiency.Ptr(),
		Youden:           r.Youden.Ptr(),
		SensitivityLower: r.SensitivityCI.Lower.Ptr(),
		SensitivityUpper: r.SensitivityCI.Upper.Ptr(),
		SpecificityLower: r.SpecificityCI.Lower.Ptr(),
		SpecificityUpper: r.SpecificityCI.Upper.Ptr(),
	}
}

// WriteResultsToParquet stores a results table as a Parquet file. Every row carries the run identifier so that
// exports of several runs can be concatenated.
func WriteResultsToParquet(results detection.Results, runID, name string) (err error) {
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	rows := make([]ResultRow, len(results))
	for i, r := range results {
		rows[i] = NewResultRow(r, runID)
	}
	writer := parquet.NewGenericWriter[ResultRow](file)
	if _, err := writer.Write(rows); err != nil {
		return err
	}
	return writer.Close()
}
