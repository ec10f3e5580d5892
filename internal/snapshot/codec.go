package snapshot

import (
	"encoding/base64"
	"unicode/utf8"

	"github.com/vfsnap/vfsnap-go/internal/core/domain"
)

// Encode converts raw file content into a tagged entry. Valid UTF-8 is
// stored as text, which keeps the persisted JSON readable; everything else
// is stored as standard base64. The tag makes the choice explicit so Decode
// never has to guess from the payload shape.
func Encode(content []byte) domain.FileEntry {
	if utf8.Valid(content) {
		return domain.FileEntry{Encoding: domain.EncodingText, Value: string(content)}
	}
	return domain.FileEntry{
		Encoding: domain.EncodingBase64,
		Value:    base64.StdEncoding.EncodeToString(content),
	}
}

// Decode converts a tagged entry back into the original bytes. An empty
// encoding is read as text, which tolerates hand-written documents that
// omit the tag. Unknown tags and invalid base64 fail with a decode error.
func Decode(entry domain.FileEntry) ([]byte, error) {
	switch entry.Encoding {
	case domain.EncodingText, "":
		return []byte(entry.Value), nil

	case domain.EncodingBase64:
		content, err := base64.StdEncoding.DecodeString(entry.Value)
		if err != nil {
			return nil, domain.ErrSnapshotDecode.WithDetails("invalid base64 payload").WithCause(err)
		}
		return content, nil

	default:
		return nil, domain.ErrSnapshotDecode.WithDetails("unknown encoding " + string(entry.Encoding))
	}
}
