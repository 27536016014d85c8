package provider

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/guttosm/tickerrank/internal/domain/models"
)

const localName = "local"

// LocalFiles reads saved Alpha Vantage daily responses from <dir>/<SYMBOL>.json.
type LocalFiles struct {
	dir string
}

func NewLocalFiles(dir string) *LocalFiles {
	return &LocalFiles{dir: dir}
}

func (l *LocalFiles) Name() string { return localName }

// FetchSeries decodes the whole saved file; days is ignored.
func (l *LocalFiles) FetchSeries(ctx context.Context, symbol string, _ int) (series models.RawSeries, err error) {
	start := time.Now()
	defer func() { observe(localName, start, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.ContainsAny(symbol, `/\`) || strings.Contains(symbol, "..") {
		return nil, fmt.Errorf("%w: invalid symbol %q", ErrNotFound, symbol)
	}

	path := filepath.Join(l.dir, strings.ToUpper(symbol)+".json")
	body, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: no file %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return DecodeDaily(body)
}
