// Package output provides dump-file writers for bulk-loadable xref records.
package output

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/avullo/ensembl-xref/internal/mapper"
)

// Dump file names, one per target table.
const (
	XrefFile           = "xref_coord.txt"
	ObjectXrefFile     = "object_xref_coord.txt"
	UnmappedReasonFile = "unmapped_reason_coord.txt"
	UnmappedObjectFile = "unmapped_object_coord.txt"
)

// nullField marks an absent optional column, LOAD DATA style.
const nullField = `\N`

// CoordWriter writes the four coordinate-xref dump files into a directory,
// tab-separated, in a fixed column order mirroring the target tables.
type CoordWriter struct {
	dir string
}

// NewCoordWriter creates a writer targeting the given output directory.
// The directory must exist and be writable; failures surface on WriteRecords.
func NewCoordWriter(dir string) *CoordWriter {
	return &CoordWriter{dir: dir}
}

// WriteRecords writes all four record streams. Any file error aborts the
// whole write; files already written stay on disk and must be treated as
// incomplete.
func (w *CoordWriter) WriteRecords(rs *mapper.RecordSet) error {
	if err := w.writeFile(XrefFile, len(rs.Xrefs), func(i int) []string {
		x := rs.Xrefs[i]
		return []string{
			strconv.FormatInt(x.XrefID, 10),
			strconv.FormatInt(x.ExternalDBID, 10),
			x.Accession,
			x.Label,
			strconv.Itoa(x.Version),
			strconv.FormatInt(x.SpeciesID, 10),
			x.InfoType,
		}
	}); err != nil {
		return err
	}

	if err := w.writeFile(ObjectXrefFile, len(rs.ObjectXrefs), func(i int) []string {
		o := rs.ObjectXrefs[i]
		return []string{
			strconv.FormatInt(o.ObjectXrefID, 10),
			strconv.FormatInt(o.EnsemblID, 10),
			o.ObjectType,
			strconv.FormatInt(o.XrefID, 10),
			strconv.FormatInt(o.AnalysisID, 10),
		}
	}); err != nil {
		return err
	}

	if err := w.writeFile(UnmappedReasonFile, len(rs.Reasons), func(i int) []string {
		r := rs.Reasons[i]
		return []string{
			strconv.FormatInt(r.ReasonID, 10),
			r.Summary,
			r.Full,
		}
	}); err != nil {
		return err
	}

	return w.writeFile(UnmappedObjectFile, len(rs.UnmappedObjects), func(i int) []string {
		u := rs.UnmappedObjects[i]
		score := nullField
		if u.HasScore {
			score = fmt.Sprintf("%.3f", u.Score)
		}
		ensemblID := nullField
		objectType := nullField
		if u.EnsemblID != 0 {
			ensemblID = strconv.FormatInt(u.EnsemblID, 10)
			objectType = u.ObjectType
		}
		return []string{
			strconv.FormatInt(u.UnmappedObjectID, 10),
			u.Type,
			strconv.FormatInt(u.AnalysisID, 10),
			strconv.FormatInt(u.ExternalDBID, 10),
			u.Identifier,
			strconv.FormatInt(u.ReasonID, 10),
			score,
			ensemblID,
			objectType,
		}
	})
}

// writeFile writes count tab-separated rows produced by row into name.
func (w *CoordWriter) writeFile(name string, count int, row func(i int) []string) error {
	path := filepath.Join(w.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dump file %s: %w", path, err)
	}

	bw := bufio.NewWriter(f)
	for i := 0; i < count; i++ {
		if _, err := bw.WriteString(strings.Join(row(i), "\t") + "\n"); err != nil {
			f.Close()
			return fmt.Errorf("write dump file %s: %w", path, err)
		}
	}

	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flush dump file %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close dump file %s: %w", path, err)
	}
	return nil
}
