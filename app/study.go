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
	"strings"

	"gopkg.in/yaml.v3"

	"bioroc/detection"
	"bioroc/report"
)

// ErrInvalidStudy reports a structural defect in a study file.
var ErrInvalidStudy = errors.New("invalid study")

// Columns names the required columns of a measurement file.
type Columns struct {
	ID        string `yaml:"id"`
	Treatment string `yaml:"treatment"`
	Group     string `yaml:"group"`
	Time      string `yaml:"time"`
}

// MatrixConfig declares the analysis of one biological matrix.
type MatrixConfig struct {
	Name      string                `yaml:"name"`
	File      string                `yaml:"file"`      //measurement file, relative to the data directory
	Compounds []string              `yaml:"compounds"` //compound columns, in reporting order
	Cutoffs   []float64             `yaml:"cutoffs"`   //detection limits, in reporting order
	Windows   detection.WindowTable `yaml:"windows"`
	Rename    map[string]string     `yaml:"rename"` //compound column -> reported compound name
}

// Study declares, once, all enumerations and tables of an analysis. It is read-only after loading.
type Study struct {
	Name     string            `yaml:"name"`
	Columns  Columns           `yaml:"columns"`
	Arms     map[string]string `yaml:"arms"`    //treatment value in the data -> Placebo | LowDose | HighDose
	Groups   []string          `yaml:"groups"`  //allowed experience groups, empty allows any
	Missing  []string          `yaml:"missing"` //values read as not measured
	Rank     detection.Range   `yaml:"rank"`
	Matrices []MatrixConfig    `yaml:"matrices"`
}

var defaultColumns = Columns{ID: "id", Treatment: "treatment", Group: "group", Time: "time_from_start"}

var defaultMissing = []string{"", "NA", "N/A", "NaN"}

// LoadStudy reads and validates a YAML study file.
func LoadStudy(path string) (*Study, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseStudy(data)
}

// ParseStudy decodes and validates a YAML study description. Unset columns and missing value markers get defaults.
func ParseStudy(data []byte) (*Study, error) {
	study := &Study{}
	if err := yaml.Unmarshal(data, study); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStudy, err)
	}
	if study.Columns.ID == "" {
		study.Columns.ID = defaultColumns.ID
	}
	if study.Columns.Treatment == "" {
		study.Columns.Treatment = defaultColumns.Treatment
	}
	if study.Columns.Group == "" {
		study.Columns.Group = defaultColumns.Group
	}
	if study.Columns.Time == "" {
		study.Columns.Time = defaultColumns.Time
	}
	if study.Missing == nil {
		study.Missing = defaultMissing
	}
	if err := study.Validate(); err != nil {
		return nil, err
	}
	return study, nil
}

// parseArm maps the canonical arm names onto arms.
func parseArm(s string) (detection.Arm, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "placebo":
		return detection.Placebo, true
	case "lowdose", "low":
		return detection.LowDose, true
	case "highdose", "high":
		return detection.HighDose, true
	default:
		return 0, false
	}
}

// ArmLevels returns the map from treatment values in the data onto arms.
func (s *Study) ArmLevels() (map[string]detection.Arm, error) {
	levels := map[string]detection.Arm{}
	for value, name := range s.Arms {
		arm, ok := parseArm(name)
		if !ok {
			return nil, fmt.Errorf("%w: treatment %q maps onto unknown arm %q", ErrInvalidStudy, value, name)
		}
		levels[value] = arm
	}
	return levels, nil
}

// Validate checks the structural invariants of a study: arms, matrices, compounds, cutoffs, and window tables.
func (s *Study) Validate() error {
	if len(s.Arms) == 0 {
		return fmt.Errorf("%w: no treatment arms declared", ErrInvalidStudy)
	}
	levels, err := s.ArmLevels()
	if err != nil {
		return err
	}
	hasPlacebo := false
	for _, arm := range levels {
		hasPlacebo = hasPlacebo || arm == detection.Placebo
	}
	if !hasPlacebo {
		return fmt.Errorf("%w: no treatment maps onto Placebo", ErrInvalidStudy)
	}
	if s.Rank.Max <= 0 {
		return fmt.Errorf("%w: ranking range [%g, %g] holds no post-exposure window stop", ErrInvalidStudy,
			s.Rank.Min, s.Rank.Max)
	}
	if s.Rank.Min > s.Rank.Max {
		return fmt.Errorf("%w: ranking range [%g, %g] is empty", ErrInvalidStudy, s.Rank.Min, s.Rank.Max)
	}
	if len(s.Matrices) == 0 {
		return fmt.Errorf("%w: no matrices declared", ErrInvalidStudy)
	}
	names := map[string]bool{}
	for _, m := range s.Matrices {
		if m.Name == "" || names[m.Name] {
			return fmt.Errorf("%w: matrix name %q is empty or duplicated", ErrInvalidStudy, m.Name)
		}
		names[m.Name] = true
		if report.ReservedSheetName(m.Name) {
			return fmt.Errorf("%w: matrix %q: %w", ErrInvalidStudy, m.Name, report.ErrReservedSheet)
		}
		if m.File == "" {
			return fmt.Errorf("%w: matrix %q has no file", ErrInvalidStudy, m.Name)
		}
		if len(m.Compounds) == 0 {
			return fmt.Errorf("%w: matrix %q has no compounds", ErrInvalidStudy, m.Name)
		}
		if len(m.Cutoffs) == 0 {
			return fmt.Errorf("%w: matrix %q has no cutoffs", ErrInvalidStudy, m.Name)
		}
		for _, c := range m.Cutoffs {
			if c < 0 {
				return fmt.Errorf("%w: matrix %q: %w: %g", ErrInvalidStudy, m.Name, detection.ErrNegativeCutoff, c)
			}
		}
		if err := m.Windows.Validate(); err != nil {
			return fmt.Errorf("%w: matrix %q: %w", ErrInvalidStudy, m.Name, err)
		}
	}
	return nil
}

// Matrix returns the configuration of a biological matrix.
func (s *Study) Matrix(name string) (MatrixConfig, bool) {
	for _, m := range s.Matrices {
		if m.Name == name {
			return m, true
		}
	}
	return MatrixConfig{}, false
}
