// Package corpus loads the interview question dataset from CSV/TSV files.
package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"interviewbot/internal/domain"
)

// Columns maps record fields to header names in the source file.
type Columns struct {
	Question   string
	Topic      string
	Difficulty string
	Company    string
}

// DefaultColumns returns the header names of the reference dataset.
func DefaultColumns() Columns {
	return Columns{Question: "Question", Topic: "Topic", Difficulty: "Difficulty", Company: "Company"}
}

// LoadOptions configures Load.
type LoadOptions struct {
	Columns Columns
	Logger  *slog.Logger
}

// Load reads every file matched by path (a plain path or a doublestar glob)
// and returns the normalized corpus. Matches are read in lexical order.
func Load(path string, opts LoadOptions) (*domain.Corpus, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	files, err := expand(path)
	if err != nil {
		return nil, err
	}
	var questions []domain.Question
	for _, f := range files {
		qs, dropped, err := loadFile(f, opts.Columns)
		if err != nil {
			return nil, err
		}
		logger.Info("corpus file loaded", "path", f, "records", len(qs), "dropped", dropped)
		questions = append(questions, qs...)
	}
	if len(questions) == 0 {
		return nil, &domain.DataLoadError{Path: path, Err: errors.New("no questions with text")}
	}
	return domain.NewCorpus(questions), nil
}

// Read parses a single delimited source. It is the reader-level entry point
// used by Load; comma selects the field separator.
func Read(r io.Reader, comma rune, cols Columns) ([]domain.Question, int, error) {
	cols = withDefaults(cols)
	reader := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("parse rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, 0, errors.New("missing header row")
	}
	header := rows[0]
	textCol := findColumn(header, cols.Question)
	if textCol < 0 {
		return nil, 0, fmt.Errorf("required column %q not found", cols.Question)
	}
	topicCol := findColumn(header, cols.Topic)
	diffCol := findColumn(header, cols.Difficulty)
	companyCol := findColumn(header, cols.Company)

	out := make([]domain.Question, 0, len(rows)-1)
	dropped := 0
	for i, row := range rows[1:] {
		text := Normalize(cell(row, textCol))
		if text == "" {
			dropped++
			continue
		}
		q := domain.Question{
			Text:       text,
			Topic:      orDefault(cell(row, topicCol), domain.DefaultTopic),
			Difficulty: orDefault(cell(row, diffCol), domain.DefaultDifficulty),
			Company:    orDefault(cell(row, companyCol), domain.DefaultCompany),
			Row:        i + 1,
		}
		out = append(out, q)
	}
	return out, dropped, nil
}

func loadFile(path string, cols Columns) ([]domain.Question, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, &domain.DataLoadError{Path: path, Err: err}
	}
	defer f.Close()
	comma := ','
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		comma = '\t'
	}
	qs, dropped, err := Read(f, comma, cols)
	if err != nil {
		return nil, 0, &domain.DataLoadError{Path: path, Err: err}
	}
	for i := range qs {
		qs[i].Source = path
	}
	return qs, dropped, nil
}

func expand(pattern string) ([]string, error) {
	if pattern == "" {
		return nil, &domain.DataLoadError{Err: errors.New("corpus path not configured")}
	}
	if _, err := os.Stat(pattern); err == nil {
		return []string{pattern}, nil
	}
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, &domain.DataLoadError{Path: pattern, Err: err}
	}
	if len(matches) == 0 {
		return nil, &domain.DataLoadError{Path: pattern, Err: os.ErrNotExist}
	}
	sort.Strings(matches)
	return matches, nil
}

func findColumn(header []string, name string) int {
	want := strings.TrimSpace(name)
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), want) {
			return i
		}
	}
	return -1
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func withDefaults(c Columns) Columns {
	d := DefaultColumns()
	if c.Question == "" {
		c.Question = d.Question
	}
	if c.Topic == "" {
		c.Topic = d.Topic
	}
	if c.Difficulty == "" {
		c.Difficulty = d.Difficulty
	}
	if c.Company == "" {
		c.Company = d.Company
	}
	return c
}
