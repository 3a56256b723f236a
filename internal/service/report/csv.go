package report

import (
	"bytes"
	"strings"

	"github.com/cmlabs-hris/hris-admin-console/internal/domain/report"
)

// encodeCSV quotes every cell, doubling embedded quotes, and terminates every
// row including the last with "\n".
func encodeCSV(t report.Table) []byte {
	var buf bytes.Buffer
	writeCSVRow(&buf, t.Header)
	for _, row := range t.Rows {
		writeCSVRow(&buf, row)
	}
	return buf.Bytes()
}

func writeCSVRow(buf *bytes.Buffer, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		buf.WriteByte('"')
	}
	buf.WriteByte('\n')
}
