package csvtable

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/couchcryptid/glacier-data-etl/internal/domain"
)

// Reader reads delimited text files with a header line into domain rows.
// It implements domain.TableReader.
type Reader struct {
	delimiter rune
	logger    *slog.Logger
}

// NewReader creates a Reader splitting fields on delimiter. A zero delimiter
// means a comma.
func NewReader(delimiter rune, logger *slog.Logger) *Reader {
	if delimiter == 0 {
		delimiter = ','
	}
	return &Reader{delimiter: delimiter, logger: logger}
}

// ReadTable opens path and decodes every data line into a Row keyed by the
// header columns. Cells are trimmed of surrounding whitespace.
func (r *Reader) ReadTable(ctx context.Context, path string) ([]domain.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", path, err)
	}
	defer f.Close()

	rows, err := r.decode(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", path, err)
	}

	r.logger.Debug("table read", "path", path, "rows", len(rows))
	return rows, nil
}

func (r *Reader) decode(ctx context.Context, src io.Reader) ([]domain.Row, error) {
	cr := csv.NewReader(src)
	cr.Comma = r.delimiter
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []domain.Row{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	header = normalizeHeader(header)

	var rows []domain.Row //nolint:prealloc // size depends on file contents
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		row := make(domain.Row, len(header))
		for i, col := range header {
			row[col] = strings.TrimSpace(record[i])
		}
		rows = append(rows, row)
	}

	if rows == nil {
		rows = []domain.Row{}
	}
	return rows, nil
}

// normalizeHeader trims column names and strips a UTF-8 byte order mark,
// which spreadsheet exports often put in front of the first column.
func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}
