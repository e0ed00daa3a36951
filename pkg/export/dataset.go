package export

import (
	"fmt"
	"time"
)

// Dataset is a titled table ready for rendering. Rows hold values in header order.
type Dataset struct {
	Title       string
	Headers     []string
	Rows        [][]string
	GeneratedAt time.Time
}

// Append adds a row, padding or trimming it to the header count.
func (d *Dataset) Append(values ...string) {
	row := make([]string, len(d.Headers))
	copy(row, values)
	d.Rows = append(d.Rows, row)
}

func (d Dataset) validate(format string) error {
	if len(d.Headers) == 0 {
		return fmt.Errorf("%s export requires at least one header", format)
	}
	return nil
}

// Renderer produces a document for a dataset.
type Renderer interface {
	Render(data Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}
