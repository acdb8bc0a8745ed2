package version

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// fixedFileInfoSignature marks the VS_FIXEDFILEINFO block inside a PE
// version resource.
var fixedFileInfoSignature = []byte{0xBD, 0x04, 0xEF, 0xFE}

// fixedFileInfoLen covers signature through dwFileVersionLS.
const fixedFileInfoLen = 16

var errNoVersionResource = errors.New("no version resource found")

// peFileVersion extracts the four-part file version ("1.13.0.0") from the
// executable's VS_FIXEDFILEINFO block. The block is located by scanning for
// its signature rather than walking the resource tree, which handles every
// game executable we care about without a full PE parser.
func peFileVersion(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var magic [2]byte
	if _, err := io.ReadFull(f, magic[:]); err != nil {
		return "", fmt.Errorf("reading executable header: %w", err)
	}
	if magic[0] != 'M' || magic[1] != 'Z' {
		return "", errors.New("not a PE executable")
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	block, err := scanForSignature(f)
	if err != nil {
		return "", err
	}

	// Layout after the signature: dwStrucVersion, dwFileVersionMS, dwFileVersionLS
	ms := binary.LittleEndian.Uint32(block[8:12])
	ls := binary.LittleEndian.Uint32(block[12:16])
	return fmt.Sprintf("%d.%d.%d.%d", ms>>16, ms&0xffff, ls>>16, ls&0xffff), nil
}

// scanForSignature streams through the file in chunks, keeping an overlap so
// a block straddling a chunk boundary is still found. Returns the
// fixedFileInfoLen bytes starting at the signature.
func scanForSignature(r io.Reader) ([]byte, error) {
	const chunkSize = 1 << 20

	buf := make([]byte, 0, chunkSize+fixedFileInfoLen)

	for {
		n, err := io.ReadFull(r, buf[len(buf):cap(buf)][:chunkSize])
		buf = buf[:len(buf)+n]

		if i := bytes.Index(buf, fixedFileInfoSignature); i >= 0 && i+fixedFileInfoLen <= len(buf) {
			block := make([]byte, fixedFileInfoLen)
			copy(block, buf[i:i+fixedFileInfoLen])
			return block, nil
		}

		if err != nil {
			return nil, errNoVersionResource
		}

		// Keep the tail as overlap for the next read
		keep := fixedFileInfoLen
		if len(buf) < keep {
			keep = len(buf)
		}
		copy(buf, buf[len(buf)-keep:])
		buf = buf[:keep]
	}
}
