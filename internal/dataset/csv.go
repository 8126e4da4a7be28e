package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrRaggedRows is returned when rows disagree on the number of features.
var ErrRaggedRows = errors.New("rows have different feature counts")

// Example is one labelled training row.
type Example struct {
	Features []float64
	Label    string
}

// TrainingSet holds the examples in file order and the distinct labels in
// order of first appearance.
type TrainingSet struct {
	Examples []Example
	Labels   []string
}

// Width returns the feature count shared by every example.
func (s *TrainingSet) Width() int {
	if len(s.Examples) == 0 {
		return 0
	}
	return len(s.Examples[0].Features)
}

// TestRow is one unlabelled row to classify.
type TestRow struct {
	ID       string
	Features []float64
}

// LoadTraining reads rows of the form f1,...,fn,label from every path.
func LoadTraining(paths ...string) (*TrainingSet, error) {
	set := &TrainingSet{}
	seen := make(map[string]struct{})
	width := -1
	for _, path := range paths {
		err := readRows(path, func(line int, record []string) error {
			if len(record) < 2 {
				return errors.Errorf("%s:%d: want at least one feature and a label", path, line)
			}
			features, err := parseFeatures(record[:len(record)-1])
			if err != nil {
				return errors.Wrapf(err, "%s:%d", path, line)
			}
			if width < 0 {
				width = len(features)
			} else if len(features) != width {
				return errors.Wrapf(ErrRaggedRows, "%s:%d: %d features, want %d", path, line, len(features), width)
			}
			label := strings.TrimSpace(record[len(record)-1])
			if _, ok := seen[label]; !ok {
				seen[label] = struct{}{}
				set.Labels = append(set.Labels, label)
			}
			set.Examples = append(set.Examples, Example{Features: features, Label: label})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	if len(set.Examples) == 0 {
		return nil, errors.New("load training data: no examples")
	}
	return set, nil
}

// LoadTest reads rows of the form id,f1,...,fn from every path.
func LoadTest(paths ...string) ([]TestRow, error) {
	var rows []TestRow
	width := -1
	for _, path := range paths {
		err := readRows(path, func(line int, record []string) error {
			if len(record) < 2 {
				return errors.Errorf("%s:%d: want an id and at least one feature", path, line)
			}
			features, err := parseFeatures(record[1:])
			if err != nil {
				return errors.Wrapf(err, "%s:%d", path, line)
			}
			if width < 0 {
				width = len(features)
			} else if len(features) != width {
				return errors.Wrapf(ErrRaggedRows, "%s:%d: %d features, want %d", path, line, len(features), width)
			}
			rows = append(rows, TestRow{ID: strings.TrimSpace(record[0]), Features: features})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return rows, nil
}

func readRows(path string, fn func(line int, record []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open dataset")
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.ReuseRecord = true
	for {
		record, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "read %s", path)
		}
		line, _ := r.FieldPos(0)
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if err := fn(line, record); err != nil {
			return err
		}
	}
}

func parseFeatures(fields []string) ([]float64, error) {
	features := make([]float64, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "column %d", i+1)
		}
		features[i] = v
	}
	return features, nil
}
