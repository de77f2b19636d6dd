package publish

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gioibon/internal/document"
	"gioibon/internal/fileutil"
)

var tsvHeader = []string{"uid", "html", "label", "segment", "audio", "hint"}

// WriteTSV overwrites path with one tab-separated row per segment.
func WriteTSV(path string, segments []document.Segment) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = '\t'
	if err := w.Write(tsvHeader); err != nil {
		return err
	}
	for _, seg := range segments {
		row := []string{strconv.Itoa(seg.UID), seg.HTML, seg.Label, seg.Text, seg.Audio, seg.Hint}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("tsv row %d: %w", seg.UID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644)
}
