package snapshot

import (
	"bytes"
	"errors"
	"testing"

	"github.com/vfsnap/vfsnap-go/internal/core/domain"
)

func TestEncodeText(t *testing.T) {
	entry := Encode([]byte("hello world\n"))
	if entry.Encoding != domain.EncodingText {
		t.Fatalf("Encoding = %q, want %q", entry.Encoding, domain.EncodingText)
	}
	if entry.Value != "hello world\n" {
		t.Fatalf("Value = %q, want %q", entry.Value, "hello world\n")
	}
}

func TestEncodeBinary(t *testing.T) {
	entry := Encode([]byte{0x00, 0xFF, 0x10})
	if entry.Encoding != domain.EncodingBase64 {
		t.Fatalf("Encoding = %q, want %q", entry.Encoding, domain.EncodingBase64)
	}
	if entry.Value != "AP8Q" {
		t.Fatalf("Value = %q, want %q", entry.Value, "AP8Q")
	}
}

func TestCodecRoundTrip(t *testing.T) {
	payloads := map[string][]byte{
		"empty":      {},
		"ascii":      []byte("plain text"),
		"multiline":  []byte("line1\nline2\t tabbed"),
		"utf8":       []byte("héllo wörld"),
		"null bytes": {0x00, 0x00, 0x00},
		"binary":     {0x00, 0xFF, 0x10, 0x80},
	}
	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			got, err := Decode(Encode(payload))
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if !bytes.Equal(got, payload) {
				t.Fatalf("round trip = %v, want %v", got, payload)
			}
		})
	}
}

func TestDecodeUntaggedEntry(t *testing.T) {
	got, err := Decode(domain.FileEntry{Value: "plain"})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if string(got) != "plain" {
		t.Fatalf("Decode = %q, want %q", got, "plain")
	}
}

func TestDecodeInvalidBase64(t *testing.T) {
	_, err := Decode(domain.FileEntry{Encoding: domain.EncodingBase64, Value: "!not base64!"})
	if !errors.Is(err, domain.ErrSnapshotDecode) {
		t.Fatalf("Decode error = %v, want %v", err, domain.ErrSnapshotDecode)
	}
}

func TestDecodeUnknownEncoding(t *testing.T) {
	_, err := Decode(domain.FileEntry{Encoding: "hex", Value: "00ff"})
	if !errors.Is(err, domain.ErrSnapshotDecode) {
		t.Fatalf("Decode error = %v, want %v", err, domain.ErrSnapshotDecode)
	}
}
