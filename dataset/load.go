package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/sagarc03/itol"
	"gopkg.in/yaml.v3"
)

// RecordSyntax is the encoding of a record file.
type RecordSyntax string

const (
	SyntaxYAML  RecordSyntax = "yaml"
	SyntaxCSV   RecordSyntax = "csv"
	SyntaxTSV   RecordSyntax = "tsv"
	SyntaxFASTA RecordSyntax = "fasta"
)

// SyntaxForPath guesses the syntax from the file extension, defaulting to CSV.
func SyntaxForPath(path string) RecordSyntax {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return SyntaxYAML
	case ".tsv", ".tab":
		return SyntaxTSV
	case ".fasta", ".fas", ".fa", ".faa", ".fna":
		return SyntaxFASTA
	default:
		return SyntaxCSV
	}
}

// LoadRecords reads raw rows of kind from r. YAML input is a list of lists;
// CSV and TSV input has one row per line. Colors must be quoted in YAML since
// '#' starts a comment there. FASTA input yields one (id, sequence) row per
// entry, with wrapped sequence lines joined.
func LoadRecords(r io.Reader, kind Kind, syntax RecordSyntax) ([]Record, error) {
	if _, ok := schemas[kind]; !ok {
		return nil, &itol.FormatError{Kind: string(kind), Record: -1, Err: itol.ErrUnknownKind}
	}

	var (
		rows [][]any
		err  error
	)
	switch syntax {
	case SyntaxYAML:
		rows, err = loadYAML(r)
	case SyntaxCSV, "":
		rows, err = loadDelimited(r, ',')
	case SyntaxTSV:
		rows, err = loadDelimited(r, '\t')
	case SyntaxFASTA:
		rows, err = loadFASTA(r)
	default:
		err = fmt.Errorf("unknown record syntax %q", syntax)
	}
	if err != nil {
		return nil, &itol.FormatError{Kind: string(kind), Record: -1, Err: err}
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, Row(kind, row...))
	}
	return records, nil
}

func loadYAML(r io.Reader) ([][]any, error) {
	var rows [][]any
	if err := yaml.NewDecoder(r).Decode(&rows); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return rows, nil
}

func loadDelimited(r io.Reader, comma rune) ([][]any, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows [][]any
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parse records: %w", err)
		}
		row := make([]any, len(fields))
		for i, f := range fields {
			row[i] = f
		}
		rows = append(rows, row)
	}
}

func loadFASTA(r io.Reader) ([][]any, error) {
	var (
		rows [][]any
		id   string
		seq  strings.Builder
		line int
	)
	flush := func() error {
		if id == "" {
			return nil
		}
		if seq.Len() == 0 {
			return fmt.Errorf("line %d: %w: %q has no residues", line, itol.ErrInvalidSequence, id)
		}
		rows = append(rows, []any{id, seq.String()})
		seq.Reset()
		return nil
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), 16<<20)
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		switch {
		case text == "" || strings.HasPrefix(text, ";"):
		case strings.HasPrefix(text, ">"):
			if err := flush(); err != nil {
				return nil, err
			}
			id = strings.TrimSpace(text[1:])
			if id == "" {
				return nil, fmt.Errorf("line %d: %w: empty FASTA header", line, itol.ErrInvalidSelector)
			}
		case id == "":
			return nil, fmt.Errorf("line %d: %w: sequence before the first header", line, itol.ErrInvalidSequence)
		default:
			seq.WriteString(text)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read fasta: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return rows, nil
}
