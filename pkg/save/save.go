// Package save serializes the reconciled reference table to a
// delimited file.
package save

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/agentstation/countries/pkg/constants"
	"github.com/agentstation/countries/pkg/errors"
	"github.com/agentstation/countries/pkg/regions"
)

// Table writes the reference table as CSV to the given path: a header
// row with regions.Columns in order, then one row per record, no row
// index column. Absent pointer fields serialize as empty cells so that
// non-country and one-sided rows round-trip cleanly.
func Table(table regions.Table, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, constants.FilePermissions)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}

	if err := Write(table, f); err != nil {
		_ = f.Close()
		return errors.WrapIO("write", path, err)
	}

	if err := f.Close(); err != nil {
		return errors.WrapIO("close", path, err)
	}
	return nil
}

// Write serializes the table as CSV to w.
func Write(table regions.Table, w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(regions.Columns); err != nil {
		return err
	}

	for _, rec := range table {
		if err := cw.Write(row(rec)); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// row converts a record into its output fields, ordered per
// regions.Columns.
func row(rec regions.Record) []string {
	return []string{
		rec.Region,
		rec.Subregion,
		rec.Country,
		rec.ISO2,
		rec.ISO3,
		formatInt(rec.M49),
		formatInt(rec.M49Comtrade),
		formatFloat(rec.Latitude),
		formatFloat(rec.Longitude),
		strconv.FormatBool(rec.LeastDeveloped),
		strconv.FormatBool(rec.NonCountryRegion),
	}
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
