package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/aihaudit/internal/model"
)

// WriteClaimLinesParquet writes the line view as a Parquet file under the
// output directory. Returns the path written.
func WriteClaimLinesParquet(name string, lines []model.ClaimLine, opts Options) (string, error) {
	rows := make([]model.ClaimLineParquetRow, len(lines))
	for i := range lines {
		rows[i] = lines[i].ToParquetRow()
	}
	return writeParquet(name, rows, opts)
}

// WriteClaimsParquet writes the canonical claim view as a Parquet file.
func WriteClaimsParquet(name string, claims []model.Claim, opts Options) (string, error) {
	rows := make([]model.ClaimParquetRow, len(claims))
	for i := range claims {
		rows[i] = claims[i].ToParquetRow()
	}
	return writeParquet(name, rows, opts)
}

func writeParquet[T any](name string, rows []T, opts Options) (string, error) {
	path := filepath.Join(opts.OutDir, name+".parquet")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := parquet.NewGenericWriter[T](f, parquet.Compression(&parquet.Snappy))
	for off := 0; off < len(rows); {
		n, err := w.Write(rows[off:])
		if err != nil {
			return "", fmt.Errorf("write parquet rows: %w", err)
		}
		off += n
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close parquet writer: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}
