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

package detection

import (
	"fmt"
	"math"
	"sort"
)

// Bucket is a confusion matrix cell.
type Bucket int

const (
	// Unclassified holds complete-case records that the labeling policy assigns to no cell: a Placebo sample with
	// value exactly 0 when the cutoff is 0.
	Unclassified Bucket = iota
	TruePositive
	FalseNegative
	FalsePositive
	TrueNegative
)

func (b Bucket) String() string {
	switch b {
	case TruePositive:
		return "TP"
	case FalseNegative:
		return "FN"
	case FalsePositive:
		return "FP"
	case TrueNegative:
		return "TN"
	default:
		return "unclassified"
	}
}

// LabelRule maps the ground truth of a sample and its measured value onto a confusion matrix cell for a cutoff.
type LabelRule func(exposed bool, value, cutoff float64) Bucket

// preExposureRule: baseline samples are never exposed.
func preExposureRule(_ bool, value, cutoff float64) Bucket {
	if value >= cutoff {
		return FalsePositive
	}
	return TrueNegative
}

// strictRule calls a sample positive when value > cutoff. Used for cutoff 0, where a non-exposed sample at exactly 0
// is neither a false positive nor a true negative.
func strictRule(exposed bool, value, cutoff float64) Bucket {
	if exposed {
		if value > cutoff {
			return TruePositive
		}
		return FalseNegative
	}
	if value > cutoff {
		return FalsePositive
	}
	if value < cutoff {
		return TrueNegative
	}
	return Unclassified
}

// inclusiveRule calls a sample positive when value >= cutoff.
func inclusiveRule(exposed bool, value, cutoff float64) Bucket {
	positive := value >= cutoff
	switch {
	case exposed && positive:
		return TruePositive
	case exposed:
		return FalseNegative
	case positive:
		return FalsePositive
	default:
		return TrueNegative
	}
}

type ruleKey struct {
	preExposure, zeroCutoff bool
}

// labelingPolicy is the decision table keyed by (window is pre-exposure, cutoff is 0).
var labelingPolicy = map[ruleKey]LabelRule{
	{preExposure: true, zeroCutoff: true}:   preExposureRule,
	{preExposure: true, zeroCutoff: false}:  preExposureRule,
	{preExposure: false, zeroCutoff: true}:  strictRule,
	{preExposure: false, zeroCutoff: false}: inclusiveRule,
}

// RuleFor returns the labeling rule for a window kind and cutoff.
func RuleFor(preExposure bool, cutoff float64) LabelRule {
	return labelingPolicy[ruleKey{preExposure: preExposure, zeroCutoff: cutoff == 0}]
}

// Classify labels a single sample.
func Classify(preExposure, exposed bool, value, cutoff float64) Bucket {
	return RuleFor(preExposure, cutoff)(exposed, value, cutoff)
}

// ConfusionMatrix holds the counts for one (compound, cutoff, time window) combination. Matrices are built by a
// Builder and not modified afterwards.
type ConfusionMatrix struct {
	Matrix       string  //biological matrix
	Compound     string  //compound column
	Cutoff       float64 //detection limit
	Window       Window  //time window
	TP, FN       int
	FP, TN       int
	Unclassified int  //complete cases in no cell, see Unclassified
	Missing      int  //records excluded for a missing compound value
	N            int  //records considered after deduplication, missing values included
	NRemoved     int  //records removed by deduplication from the contributing windows
	NoData       bool //the window itself has no complete-case records
}

// Total returns TP+FN+FP+TN.
func (m *ConfusionMatrix) Total() int {
	return m.TP + m.FN + m.FP + m.TN
}

// CompleteCases returns the nr of records with a value that contributed to the matrix.
func (m *ConfusionMatrix) CompleteCases() int {
	return m.Total() + m.Unclassified
}

func (m *ConfusionMatrix) add(b Bucket) {
	switch b {
	case TruePositive:
		m.TP++
	case FalseNegative:
		m.FN++
	case FalsePositive:
		m.FP++
	case TrueNegative:
		m.TN++
	default:
		m.Unclassified++
	}
}

// Builder computes confusion matrices for a deduplicated, window labeled dataset.
type Builder struct {
	ds        *Dataset
	table     WindowTable
	preLabels []string
}

// NewBuilder validates the window table and prepares a builder. The dataset is shared read-only.
func NewBuilder(ds *Dataset, table WindowTable) (*Builder, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return newBuilder(ds, table), nil
}

func newBuilder(ds *Dataset, table WindowTable) *Builder {
	labels := []string{}
	for label := range table.PreExposureLabels() {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return &Builder{ds: ds, table: table, preLabels: labels}
}

// Dataset returns the dataset the builder counts.
func (b *Builder) Dataset() *Dataset {
	return b.ds
}

// Windows returns the window table of the builder.
func (b *Builder) Windows() WindowTable {
	return b.table
}

// Build counts the confusion matrix of a compound at a cutoff in a time window. For post-exposure windows the
// baseline samples of the pre-exposure windows are counted into the same matrix with the pre-exposure rule. When the
// window itself has no complete-case records, the matrix is returned with NoData set together with ErrEmptySlice.
// Unknown compounds and negative cutoffs are structural errors and return no matrix.
func (b *Builder) Build(compound string, cutoff float64, w Window) (*ConfusionMatrix, error) {
	idx, err := b.ds.CompoundIndex(compound)
	if err != nil {
		return nil, err
	}
	if cutoff < 0 || math.IsNaN(cutoff) {
		return nil, fmt.Errorf("%w: %g", ErrNegativeCutoff, cutoff)
	}
	m := &ConfusionMatrix{Matrix: b.ds.Matrix, Compound: compound, Cutoff: cutoff, Window: w}
	own := b.count(m, idx, w.Label, RuleFor(w.PreExposure(), cutoff), cutoff)
	m.NRemoved += b.ds.Removed[w.Label]
	if !w.PreExposure() {
		for _, label := range b.preLabels {
			b.count(m, idx, label, preExposureRule, cutoff)
			m.NRemoved += b.ds.Removed[label]
		}
	}
	if own == 0 {
		m.NoData = true
		return m, fmt.Errorf("%s %s cutoff %g window %q: %w", b.ds.Matrix, compound, cutoff, w.Label, ErrEmptySlice)
	}
	return m, nil
}

// count adds the records of one window label to the matrix and returns the nr of complete cases.
func (b *Builder) count(m *ConfusionMatrix, idx int, label string, rule LabelRule, cutoff float64) int {
	complete := 0
	for _, r := range b.ds.Records {
		if r.Window != label {
			continue
		}
		m.N++
		if idx >= len(r.Values) || !r.Values[idx].Present {
			m.Missing++
			continue
		}
		complete++
		m.add(rule(r.Treatment.Exposed(), r.Values[idx].Value, cutoff))
	}
	return complete
}
