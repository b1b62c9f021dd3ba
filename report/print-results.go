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
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"bioroc/detection"
)

// Selection is a best (compound, cutoff) combination together with its bootstrap interval.
type Selection struct {
	detection.Best
	Interval detection.BootstrapInterval
	Overall  bool //the best combination over all compounds of the matrix
}

// ResultsHeader lists the columns of the results table.
var ResultsHeader = []string{"matrix", "compound", "detection_limit", "time_start", "time_stop", "time_window",
	"TP", "FN", "FP", "TN", "unclassified", "NAs", "N", "N_removed", "no_data", "Sensitivity", "Specificity", "PPV",
	"NPV", "Efficiency", "Youden", "Sensitivity_lower", "Sensitivity_upper", "Specificity_lower", "Specificity_upper"}

// formatFloat prints cutoffs and window boundaries without trailing zeros.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ResultRecord returns the fields of one results row in ResultsHeader order. Undefined metrics are printed as NA.
func ResultRecord(r *detection.Result) []string {
	return []string{
		r.Matrix, r.Label, formatFloat(r.Cutoff), formatFloat(r.Window.Start), formatFloat(r.Window.Stop),
		r.Window.Label,
		strconv.Itoa(r.TP), strconv.Itoa(r.FN), strconv.Itoa(r.FP), strconv.Itoa(r.TN),
		strconv.Itoa(r.Unclassified), strconv.Itoa(r.Missing), strconv.Itoa(r.N), strconv.Itoa(r.NRemoved),
		strconv.FormatBool(r.NoData),
		r.Sensitivity.Format(4), r.Specificity.Format(4), r.PPV.Format(4), r.NPV.Format(4),
		r.Efficiency.Format(2), r.Youden.Format(4),
		r.SensitivityCI.Lower.Format(4), r.SensitivityCI.Upper.Format(4),
		r.SpecificityCI.Lower.Format(4), r.SpecificityCI.Upper.Format(4),
	}
}

// writeTabFile creates a file and writes its content with print. The file is flushed and closed before returning.
func writeTabFile(name string, print func(w io.Writer) error) (err error) {
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	w := bufio.NewWriter(file)
	if err := print(w); err != nil {
		return err
	}
	return w.Flush()
}

func printLine(w io.Writer, fields []string) error {
	for i, field := range fields {
		sep := "\t"
		if i == len(fields)-1 {
			sep = "\n"
		}
		if _, err := fmt.Fprint(w, field, sep); err != nil {
			return err
		}
	}
	return nil
}

// WriteResults prints the results table with a header line as tab separated values.
func WriteResults(w io.Writer, results detection.Results) error {
	if err := printLine(w, ResultsHeader); err != nil {
		return err
	}
	for _, r := range results {
		if err := printLine(w, ResultRecord(r)); err != nil {
			return err
		}
	}
	return nil
}

// WriteResultsToTabFile prints the results table to a tab file, one line per (compound, cutoff, window).
func WriteResultsToTabFile(results detection.Results, name string) error {
	return writeTabFile(name, func(w io.Writer) error {
		return WriteResults(w, results)
	})
}

// SelectionHeader lists the columns of the best combination table.
var SelectionHeader = []string{"matrix", "compound", "cutoff", "mean_youden", "windows", "overall", "boot_lower",
	"boot_upper", "boot_replicates"}

// SelectionRecord returns the fields of one best combination in SelectionHeader order.
func SelectionRecord(s Selection) []string {
	return []string{s.Matrix, s.Label, formatFloat(s.Cutoff), strconv.FormatFloat(s.MeanYouden, 'f', 4, 64),
		strconv.Itoa(s.Windows), strconv.FormatBool(s.Overall), s.Interval.Lower.Format(4),
		s.Interval.Upper.Format(4), strconv.Itoa(s.Interval.Replicates)}
}

// WriteSelectionsToTabFile prints the best combinations to a tab file: first the best cutoff per compound, then the
// overall best per matrix.
func WriteSelectionsToTabFile(selections []Selection, name string) error {
	return writeTabFile(name, func(w io.Writer) error {
		if err := printLine(w, SelectionHeader); err != nil {
			return err
		}
		for _, s := range selections {
			if err := printLine(w, SelectionRecord(s)); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteSummariesToTabFile prints concentration summaries per compound, window, and arm to a tab file.
func WriteSummariesToTabFile(summaries []detection.Summary, name string) error {
	return writeTabFile(name, func(w io.Writer) error {
		if err := printLine(w, []string{"compound", "time_window", "treatment", "N", "NAs", "detected", "median",
			"p75", "max"}); err != nil {
			return err
		}
		for _, s := range summaries {
			if err := printLine(w, []string{s.Compound, s.Window, s.Arm.String(), strconv.Itoa(s.N),
				strconv.Itoa(s.Missing), strconv.Itoa(s.Detected), s.Median.Format(3), s.P75.Format(3),
				s.Max.Format(3)}); err != nil {
				return err
			}
		}
		return nil
	})
}

// FileName returns the path of an output file for an experiment: path/name.part1.part2...
func FileName(path, name string, parts ...string) string {
	base := name
	for _, p := range parts {
		base = base + "." + p
	}
	return filepath.Join(path, base)
}
