// Package segment implements the on-disk format for spilled partial
// counts. A segment is a sequence of length-prefixed records:
//
//	| length (varint) | body (length bytes) |
//
// where the body carries two protobuf wire fields, the key (field 1,
// bytes) and the count (field 2, varint). Records within a segment are
// written in ascending key order so segments can be combined with a
// k-way merge.
package segment

import (
	"bufio"
	"crypto/md5"
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
	"io"

	"google.golang.org/protobuf/encoding/protowire"
)

const (
	keyField   = protowire.Number(1)
	countField = protowire.Number(2)
)

// maxRecordLen caps a single record body so a corrupt length prefix
// cannot trigger an oversized allocation.
const maxRecordLen = 16 * 1024 * 1024

var errMalformedRecord = errors.New("malformed segment record")

// Writer writes segment records to an underlying stream and keeps a
// running MD5 of everything written, so the segment can be verified
// before it is read back.
type Writer struct {
	w    *bufio.Writer
	sum  hash.Hash
	buf  []byte
	head [binary.MaxVarintLen64]byte
}

// NewWriter creates a Writer on top of w.
func NewWriter(w io.Writer) *Writer {
	sum := md5.New()
	return &Writer{
		w:   bufio.NewWriter(io.MultiWriter(w, sum)),
		sum: sum,
	}
}

// Append writes one (key, count) record.
func (w *Writer) Append(key string, count uint64) error {
	body := w.buf[:0]
	body = protowire.AppendTag(body, keyField, protowire.BytesType)
	body = protowire.AppendString(body, key)
	body = protowire.AppendTag(body, countField, protowire.VarintType)
	body = protowire.AppendVarint(body, count)
	w.buf = body

	n := binary.PutUvarint(w.head[:], uint64(len(body)))
	if _, err := w.w.Write(w.head[:n]); err != nil {
		return err
	}
	_, err := w.w.Write(body)
	return err
}

// Flush flushes buffered records to the underlying stream and returns
// the hex MD5 of everything written so far.
func (w *Writer) Flush() (string, error) {
	if err := w.w.Flush(); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", w.sum.Sum(nil)), nil
}

// Reader reads segment records from an underlying stream.
type Reader struct {
	r   *bufio.Reader
	buf []byte
}

// NewReader creates a Reader on top of r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next returns the next (key, count) record. It returns io.EOF after
// the last record.
func (r *Reader) Next() (string, uint64, error) {
	length, err := binary.ReadUvarint(r.r)
	if err != nil {
		if err == io.EOF {
			return "", 0, io.EOF
		}
		return "", 0, fmt.Errorf("read record length: %w", err)
	}
	if length > maxRecordLen {
		return "", 0, fmt.Errorf("%w: record length %d", errMalformedRecord, length)
	}
	if uint64(cap(r.buf)) < length {
		r.buf = make([]byte, length)
	}
	body := r.buf[:length]
	if _, err := io.ReadFull(r.r, body); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return "", 0, fmt.Errorf("%w: truncated body", errMalformedRecord)
		}
		return "", 0, err
	}
	return parseRecord(body)
}

func parseRecord(body []byte) (key string, count uint64, err error) {
	var haveKey, haveCount bool
	for len(body) > 0 {
		num, typ, n := protowire.ConsumeTag(body)
		if n < 0 {
			return "", 0, errMalformedRecord
		}
		body = body[n:]
		switch {
		case num == keyField && typ == protowire.BytesType:
			key, n = protowire.ConsumeString(body)
			haveKey = true
		case num == countField && typ == protowire.VarintType:
			count, n = protowire.ConsumeVarint(body)
			haveCount = true
		default:
			n = protowire.ConsumeFieldValue(num, typ, body)
		}
		if n < 0 {
			return "", 0, errMalformedRecord
		}
		body = body[n:]
	}
	if !haveKey || !haveCount {
		return "", 0, errMalformedRecord
	}
	return key, count, nil
}
