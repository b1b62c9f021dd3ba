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

package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"bioroc/app"
)

/*
Bioroc is a tool for evaluating detection limits of biomarker compounds in clinical exposure studies.

Usage:
	bioroc studyFile dataDir outputPath [flags]

Example:
	bioroc study.yaml ./data/ ./results/ --name trial1 --filters "placebo-,cohortA" --iter 1000 --xlsx --plots png

The study file is a YAML file that declares the columns of the measurement files, the treatment levels and their
arms, the experience groups, the range of time window stops used for ranking, and one entry per biological matrix
with its measurement file, compounds, detection limits, and time windows.

The flags are:

--name string
	Sets the name of the experiment. This name is used to generate names for output files. Defaults to the name
	declared in the study file.
--filters id | placebo- | low- | high- | subject-id1+id2 | group
	A list of filters for removing records before analysis. placebo-, low-, and high- remove all records of that arm.
	subject- removes the listed subjects. A group name declared in the study keeps only the records of that group.
--iter nr
	Sets the number of bootstrap replicates used to compute an interval for the mean Youden index of each selected
	cutoff. 0 skips the bootstrap.
--level nr
	Sets the confidence level of the bootstrap intervals on the mean Youden index. Defaults to 0.95.
--dropOutOfRange
	Records measured after the last time window are dropped and counted by default. Pass --dropOutOfRange=false to
	abort the run on the first such record instead.
--xlsx
	If this flag is passed, all results tables and the selected cutoffs are also written to one Excel workbook.
--parquet
	If this flag is passed, the results table of each matrix is also written to a parquet file.
--plots png | svg | pdf
	Plot the Youden index per time window and the ROC curves of each compound in the given image format.
--nrOfThreads nr
	Sets the number of threads used for sweeping cutoffs and bootstrapping.
*/

const (
	programVersion = 0.1
	programName    = "bioroc"
)

func programMessage() string {
	return fmt.Sprint(programName, " version ", programVersion, " compiled with ", runtime.Version())
}

const bioHelp = "\nbioroc parameters:\n" +
	"bioroc studyFile dataDir outputPath \n" +
	"[--name string]\n" +
	"[--filters id | placebo- | low- | high- | subject-id1+id2 | group]\n" +
	"[--iter nr]\n" +
	"[--level nr]\n" +
	"[--dropOutOfRange=false]\n" +
	"[--xlsx]\n" +
	"[--parquet]\n" +
	"[--plots png | svg | pdf]\n" +
	"[--nrOfThreads nr]\n"

func parseFlags(flags *flag.FlagSet, requiredArgs int, help string) {
	if len(os.Args) < requiredArgs {
		fmt.Fprintln(os.Stderr, "Incorrect number of parameters.")
		fmt.Fprint(os.Stderr, help)
		os.Exit(1)
	}
	flags.SetOutput(io.Discard)
	if err := flags.Parse(os.Args[requiredArgs:]); err != nil {
		x := 0
		if err != flag.ErrHelp {
			fmt.Fprint(os.Stderr, err)
			x = 1
		}
		fmt.Fprint(os.Stderr, help)
		os.Exit(x)
	}
	if flags.NArg() > 0 {
		fmt.Fprint(os.Stderr, "Cannot parse remaining parameters:", flags.Args())
		fmt.Fprint(os.Stderr, help)
		os.Exit(1)
	}
}

func getFileName(s, help string) string {
	switch s {
	case "-h", "--h", "-help", "--help":
		fmt.Fprint(os.Stderr, help)
		os.Exit(1)
	}
	return s
}

func main() {
	var (
		// required parameters
		studyFile  string //The YAML file declaring arms, matrices, compounds, cutoffs, and time windows.
		dataDir    string //The directory with the measurement files.
		outputPath string //The path where output files are written.
		// optional flags
		name           string
		filters        string
		iter           int
		level          float64
		dropOutOfRange bool
		xlsx           bool
		parquet        bool
		plots          string
		nrOfThreads    int
	)
	flags := flag.NewFlagSet(programName, flag.ContinueOnError)
	flags.StringVar(&name, "name", "", "The name of the run. This is used to generate the "+
		"names of the output files.")
	flags.StringVar(&filters, "filters", "id", "A list of filters to restrict analysis on specific records.")
	flags.IntVar(&iter, "iter", 1000, "The number of bootstrap replicates for the selected cutoffs.")
	flags.Float64Var(&level, "level", 0.95, "The confidence level of the bootstrap intervals.")
	flags.BoolVar(&dropOutOfRange, "dropOutOfRange", true, "Drop records measured after the last time "+
		"window instead of failing.")
	flags.BoolVar(&xlsx, "xlsx", false, "Write all tables to an Excel workbook.")
	flags.BoolVar(&parquet, "parquet", false, "Write the results tables to parquet files.")
	flags.StringVar(&plots, "plots", "", "The image format for plots. No plots are made if empty.")
	flags.IntVar(&nrOfThreads, "nrOfThreads", 0, "The number of threads bioroc uses.")
	// parse optional arguments
	parseFlags(flags, 4, bioHelp)
	// parse required arguments
	studyFile = getFileName(os.Args[1], bioHelp)
	dataDir = getFileName(os.Args[2], bioHelp)
	outputPath, _ = filepath.Abs(getFileName(os.Args[3], bioHelp))
	fmt.Println("Output path: ", outputPath)
	// build an output command line
	var command bytes.Buffer
	fmt.Fprint(&command, os.Args[0], " ", studyFile, " ", dataDir, " ", outputPath)
	if name != "" {
		fmt.Fprint(&command, " --name ", name)
	}
	fmt.Fprint(&command, " --filters ", filters)
	fmt.Fprint(&command, " --iter ", iter)
	fmt.Fprint(&command, " --level ", level)
	if !dropOutOfRange {
		fmt.Fprint(&command, " --dropOutOfRange=false")
	}
	if xlsx {
		fmt.Fprint(&command, " --xlsx")
	}
	if parquet {
		fmt.Fprint(&command, " --parquet")
	}
	if plots != "" {
		fmt.Fprint(&command, " --plots ", plots)
	}
	if nrOfThreads > 0 {
		fmt.Fprint(&command, " --nrOfThreads ", nrOfThreads)
	}
	// start execution
	log.Println(programMessage())
	log.Println("Executing command:\n", command.String())
	err := app.Run(&app.ExperimentParams{
		StudyFile:      studyFile,
		DataDir:        dataDir,
		OutputPath:     outputPath,
		Name:           name,
		Filters:        filters,
		Iter:           iter,
		Level:          level,
		DropOutOfRange: dropOutOfRange,
		XLSX:           xlsx,
		Parquet:        parquet,
		Plots:          plots,
		NrOfThreads:    nrOfThreads,
	})
	if err != nil {
		log.Fatal(err)
	}
	log.Println("Done.")
}
