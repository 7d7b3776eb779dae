package dataset

import (
	"bytes"
	"errors"
	"io"
	"os"
)

var ErrNilSource = errors.New("nil data source")

// DataSource is a closed set of input selections. The caller states explicitly
// where the raw table comes from rather than relying on ambient session state.
type DataSource interface {
	open() (io.ReadCloser, error)
	// Name describes the source for logging and report headers.
	Name() string
}

// Uploaded wraps an in-memory CSV payload supplied by the caller.
type Uploaded struct {
	Filename string
	Data     []byte
}

func (u Uploaded) open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(u.Data)), nil
}

func (u Uploaded) Name() string {
	if u.Filename == "" {
		return "uploaded data"
	}
	return u.Filename
}

// DefaultFile reads the table from a CSV file on disk.
type DefaultFile struct {
	Path string
}

func (d DefaultFile) open() (io.ReadCloser, error) {
	return os.Open(d.Path)
}

func (d DefaultFile) Name() string {
	return d.Path
}

// Sample generates a deterministic synthetic retail table in place of a file.
type Sample struct {
	Seed   uint64
	Params SampleParams
}

func (s Sample) open() (io.ReadCloser, error) {
	tbl := GenerateSample(s.Seed, s.Params)
	var buf bytes.Buffer
	if err := WriteTableCSV(&buf, tbl); err != nil {
		return nil, err
	}
	return io.NopCloser(&buf), nil
}

func (s Sample) Name() string {
	return "generated sample data"
}
