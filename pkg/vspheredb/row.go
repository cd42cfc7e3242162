package vspheredb

import (
	"fmt"

	"github.com/consol-monitoring/check_vspheredb/pkg/convert"
)

// Row contains the raw values of one result row as returned by the driver.
type Row struct {
	Columns []string
	Values  []interface{}
}

// NewRow creates a row from values, column names are optional.
func NewRow(values ...interface{}) *Row {
	return &Row{Values: values}
}

func (r *Row) column(idx int) string {
	if idx < len(r.Columns) {
		return r.Columns[idx]
	}

	return fmt.Sprintf("#%d", idx)
}

func (r *Row) raw(idx int) (interface{}, error) {
	if idx < 0 || idx >= len(r.Values) {
		return nil, fmt.Errorf("%w: column %s not in result", ErrMissingColumn, r.column(idx))
	}

	return r.Values[idx], nil
}

// Int64 returns the column as integer.
func (r *Row) Int64(idx int) (int64, error) {
	raw, err := r.raw(idx)
	if err != nil {
		return 0, err
	}

	val, err := convert.Int64E(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: column %s: %s", ErrMissingColumn, r.column(idx), err.Error())
	}

	return val, nil
}

// String returns the column as string.
func (r *Row) String(idx int) (string, error) {
	raw, err := r.raw(idx)
	if err != nil {
		return "", err
	}

	val, err := convert.StringE(raw)
	if err != nil {
		return "", fmt.Errorf("%w: column %s: %s", ErrMissingColumn, r.column(idx), err.Error())
	}

	return val, nil
}
