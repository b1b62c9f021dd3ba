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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"

	"bioroc/charts"
	"bioroc/detection"
	"bioroc/report"
)

type ExperimentParams struct {
	// required parameters
	StudyFile  string // path to the YAML study file with arms, matrices, compounds, cutoffs, and time windows
	DataDir    string // directory in which the measurement files of the study are looked up
	OutputPath string // path where output files are written to.

	// optional parameters
	Name           string
	Filters        string
	Iter           int
	Level          float64 // confidence level of the bootstrap intervals
	DropOutOfRange bool
	XLSX           bool
	Parquet        bool
	Plots          string // image extension for plots, empty for no plots
	NrOfThreads    int
	RunID          string // identifies the run in exported rows, generated when empty
}

// MatrixAnalysis holds everything computed for one biological matrix.
type MatrixAnalysis struct {
	Matrix     string
	Dataset    *detection.Dataset //window labeled and deduplicated records
	Dropped    int                //records dropped for an out of range time
	Results    detection.Results
	Selections []report.Selection
	Summaries  []detection.Summary
	Curves     map[string][]detection.Curve //per compound, one curve per time window
}

// Analyze runs the pipeline for one matrix: filter records, assign time windows, deduplicate, sweep compounds x
// cutoffs x windows, rank, bootstrap the selections, summarize, and compute ROC curves.
func Analyze(study *Study, matrix MatrixConfig, ds *detection.Dataset, filters []detection.RecordFilter, iter int,
	level float64, dropOutOfRange bool) (*MatrixAnalysis, error) {
	filtered := detection.ApplyRecordFilters(filters, ds)
	labeled, dropped, err := detection.AssignWindows(filtered, matrix.Windows, dropOutOfRange)
	if err != nil {
		return nil, err
	}
	fmt.Println("Dropped ", dropped, " records outside the time windows of ", matrix.Name, ".")
	dedup := detection.Deduplicate(labeled)
	fmt.Println("Deduplication removed ", dedup.TotalRemoved(), " records, ", len(dedup.Records), " remain.")
	results, err := detection.Sweep(dedup, matrix.Compounds, matrix.Cutoffs, matrix.Windows)
	if err != nil {
		return nil, err
	}
	results.Rename(matrix.Rename)
	analysis := &MatrixAnalysis{Matrix: matrix.Name, Dataset: dedup, Dropped: dropped, Results: results,
		Curves: map[string][]detection.Curve{}}
	selectWithInterval := func(best detection.Best, overall bool) error {
		interval, err := detection.Bootstrap(dedup, matrix.Windows, best, study.Rank, iter, level)
		if err != nil {
			return err
		}
		analysis.Selections = append(analysis.Selections, report.Selection{Best: best, Interval: interval,
			Overall: overall})
		return nil
	}
	for _, compound := range matrix.Compounds {
		best, err := detection.SelectCutoff(results, matrix.Name, compound, study.Rank)
		if errors.Is(err, detection.ErrNoRankable) {
			fmt.Println("No cutoff to select: ", err)
			continue
		}
		if err != nil {
			return nil, err
		}
		if err := selectWithInterval(best, false); err != nil {
			return nil, err
		}
	}
	if best, err := detection.SelectBest(results, matrix.Name, matrix.Compounds, study.Rank); err == nil {
		fmt.Println("Best combination for ", matrix.Name, ": ", best.Label, " at cutoff ", best.Cutoff,
			" with mean Youden index ", best.MeanYouden)
		if err := selectWithInterval(best, true); err != nil {
			return nil, err
		}
	}
	builder, err := detection.NewBuilder(dedup, matrix.Windows)
	if err != nil {
		return nil, err
	}
	for _, compound := range matrix.Compounds {
		summaries, err := detection.Summarize(dedup, compound, matrix.Windows)
		if err != nil {
			return nil, err
		}
		analysis.Summaries = append(analysis.Summaries, summaries...)
		for _, w := range matrix.Windows {
			curve, err := builder.ROC(compound, w)
			if err != nil {
				return nil, err
			}
			analysis.Curves[compound] = append(analysis.Curves[compound], curve)
		}
	}
	return analysis, nil
}

// writeMatrixOutput writes the results, summaries, and optional parquet file and plots of one matrix.
func writeMatrixOutput(args *ExperimentParams, matrix MatrixConfig, analysis *MatrixAnalysis, outputDir string) error {
	if err := report.WriteResultsToTabFile(analysis.Results,
		report.FileName(outputDir, args.Name, matrix.Name, "results.tab")); err != nil {
		return err
	}
	if err := report.WriteSummariesToTabFile(analysis.Summaries,
		report.FileName(outputDir, args.Name, matrix.Name, "summary.tab")); err != nil {
		return err
	}
	if args.Parquet {
		if err := report.WriteResultsToParquet(analysis.Results, args.RunID,
			report.FileName(outputDir, args.Name, matrix.Name, "parquet")); err != nil {
			return err
		}
	}
	if args.Plots == "" {
		return nil
	}
	for _, compound := range matrix.Compounds {
		err := charts.YoudenByWindow(analysis.Results, matrix.Name, compound,
			report.FileName(outputDir, args.Name, matrix.Name, compound, "youden", args.Plots))
		if err != nil && !errors.Is(err, charts.ErrNothingToPlot) {
			return err
		}
		err = charts.ROCCurves(analysis.Curves[compound], matrix.Name, compound,
			report.FileName(outputDir, args.Name, matrix.Name, compound, "roc", args.Plots))
		if err != nil && !errors.Is(err, charts.ErrNothingToPlot) {
			return err
		}
	}
	return nil
}

// Run a biomarker cutoff experiment with the given parameters.
func Run(args *ExperimentParams) (err error) {
	defer func() {
		// converts any panics into errors to avoid crashing the app
		if r := recover(); r != nil {
			fmt.Println("Recovered from panic during experiment: ", r)
			err = fmt.Errorf("failed to run experiment: %v", r)
		}
	}()

	// 1. Parse the study declaration
	study, err := LoadStudy(args.StudyFile)
	if err != nil {
		return err
	}
	if args.Name == "" {
		args.Name = study.Name
	}
	if args.RunID == "" {
		args.RunID = uuid.NewString()
	}
	fmt.Println("Run ", args.RunID, " of study ", study.Name, " with ", len(study.Matrices), " matrices.")
	outputDir := filepath.Join(args.OutputPath, args.Name)
	if err = os.MkdirAll(outputDir, 0700); err != nil {
		return err
	}
	if args.Level <= 0 || args.Level >= 1 {
		args.Level = detection.ConfidenceLevel
	}
	if args.NrOfThreads > 0 {
		runtime.GOMAXPROCS(args.NrOfThreads)
	}
	filters := GetRecordFilters(args.Filters, study)

	tables := []report.MatrixResults{}
	selections := []report.Selection{}
	for _, matrix := range study.Matrices {
		// 2. Parse the measurements of the matrix
		ds, err := parseMeasurementFile(filepath.Join(args.DataDir, matrix.File), study, matrix)
		if err != nil {
			return err
		}
		// 3. Compute the results table, selections, summaries, and curves
		analysis, err := Analyze(study, matrix, ds, filters, args.Iter, args.Level, args.DropOutOfRange)
		if err != nil {
			return fmt.Errorf("matrix %s: %w", matrix.Name, err)
		}
		// 4. Write the per matrix output
		if err := writeMatrixOutput(args, matrix, analysis, outputDir); err != nil {
			return err
		}
		tables = append(tables, report.MatrixResults{Matrix: matrix.Name, Results: analysis.Results})
		selections = append(selections, analysis.Selections...)
	}

	// 5. Write the selections of all matrices
	if err = report.WriteSelectionsToTabFile(selections, report.FileName(outputDir, args.Name, "best.tab")); err != nil {
		return err
	}
	if args.XLSX {
		if err = report.WriteWorkbook(report.FileName(outputDir, args.Name, "xlsx"), tables, selections); err != nil {
			return err
		}
	}
	fmt.Println("Wrote output for ", len(tables), " matrices to ", outputDir)
	return nil
}
