// Package encoder provides counted JSON and gob serialization, used for
// witness-vector ingestion and key snapshots. The canonical compressed wire
// format of proofs and commitments lives with their types; this package
// covers the trusted, same-binary interchange cases.
package encoder

import (
	"encoding/gob"
	"encoding/json"
	"io"
)

// WriterCounter wraps a writer and tracks the bytes written through it.
type WriterCounter struct {
	W io.Writer
	N int64
}

func (w *WriterCounter) Write(p []byte) (n int, err error) {
	n, err = w.W.Write(p)
	w.N += int64(n)
	return
}

// ReaderCounter wraps a reader and tracks the bytes read through it.
type ReaderCounter struct {
	R io.Reader
	N int64
}

func (cr *ReaderCounter) Read(p []byte) (int, error) {
	n, err := cr.R.Read(p)
	cr.N += int64(n)
	return n, err
}

// Encode writes v as JSON and returns the number of bytes written.
func Encode(w io.Writer, v interface{}) (int64, error) {
	wc := &WriterCounter{W: w}
	err := json.NewEncoder(wc).Encode(v)
	return wc.N, err
}

// Decode reads JSON into v and returns the number of bytes read.
func Decode(r io.Reader, v interface{}) (int64, error) {
	cr := &ReaderCounter{R: r}
	err := json.NewDecoder(cr).Decode(v)
	return cr.N, err
}

// EncodeGob writes v in gob form and returns the number of bytes written.
func EncodeGob(w io.Writer, v interface{}) (int64, error) {
	wc := &WriterCounter{W: w}
	err := gob.NewEncoder(wc).Encode(v)
	return wc.N, err
}

// DecodeGob reads gob-encoded data into v and returns the number of bytes
// read.
func DecodeGob(r io.Reader, v interface{}) (int64, error) {
	cr := &ReaderCounter{R: r}
	err := gob.NewDecoder(cr).Decode(v)
	return cr.N, err
}
