package fetch

import (
	"bytes"
	"net/http"

	"github.com/alanbriolat/event-fetcher/generic"
)

// sniffLength is how much of the start of a file DetectFileType looks at.
const sniffLength = 512

var archiveTypes = generic.NewSet("zip", "rar", "7z", "gzip", "tar")

var magicNumbers = []struct {
	fileType string
	prefix   []byte
}{
	{"zip", []byte("PK\x03\x04")},
	{"zip", []byte("PK\x05\x06")},
	{"zip", []byte("PK\x07\x08")},
	{"rar", []byte("Rar!\x1a\x07")},
	{"7z", []byte{'7', 'z', 0xbc, 0xaf, 0x27, 0x1c}},
	{"gzip", []byte{0x1f, 0x8b}},
}

// DetectFileType names the archive format of a file from its first bytes, or falls back to a MIME type.
func DetectFileType(head []byte) string {
	for _, m := range magicNumbers {
		if bytes.HasPrefix(head, m.prefix) {
			return m.fileType
		}
	}
	if len(head) >= 262 && string(head[257:262]) == "ustar" {
		return "tar"
	}
	return http.DetectContentType(head)
}

func IsArchive(fileType string) bool {
	return archiveTypes.Contains(fileType)
}

// headBuffer keeps the first sniffLength bytes written to it.
type headBuffer struct {
	buf []byte
}

func (h *headBuffer) Write(p []byte) (int, error) {
	if remaining := sniffLength - len(h.buf); remaining > 0 {
		if len(p) < remaining {
			remaining = len(p)
		}
		h.buf = append(h.buf, p[:remaining]...)
	}
	return len(p), nil
}

func (h *headBuffer) Bytes() []byte {
	return h.buf
}
