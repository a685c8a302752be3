package pdftext

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"invexa/internal/domain"
)

// textFreePDF builds a minimal one-page PDF whose content stream carries no
// text operators. Object offsets are computed while writing so the xref table
// stays correct.
func textFreePDF() []byte {
	var buf bytes.Buffer
	offsets := make([]int, 5)

	buf.WriteString("%PDF-1.4\n")
	writeObj := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}
	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	writeObj(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> /Contents 4 0 R >>")
	writeObj(4, "<< /Length 0 >>\nstream\nendstream")

	xrefOff := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets))
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i < len(offsets); i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets), xrefOff)
	return buf.Bytes()
}

func TestExtract_CorruptDocument(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{"empty bytes", []byte{}},
		{"not a pdf", []byte("this is plain text, not a pdf")},
		{"truncated header", []byte("%PDF-1.7\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewExtractor().Extract(tt.input)
			assert.ErrorIs(t, err, domain.ErrCorruptDocument)
		})
	}
}

func TestExtract_TextFreeDocument(t *testing.T) {
	text, err := NewExtractor().Extract(textFreePDF())
	assert.ErrorIs(t, err, domain.ErrEmptyDocument)
	assert.Empty(t, text)
}

func TestSanitizeUTF8(t *testing.T) {
	assert.Equal(t, "hello", sanitizeUTF8("hello"))

	// Invalid byte sequences are replaced, never dropped silently into output.
	broken := string([]byte{'a', 0xff, 'b'})
	got := sanitizeUTF8(broken)
	assert.Equal(t, "a�b", got)
}
