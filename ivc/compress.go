package ivc

import (
	"bytes"
	"compress/gzip"
	"io"

	"github.com/grapevine-zk/grapevine/grapevineerrors"
)

// CompressProof gzips an encoded proof for transport over HTTP, matching
// the wire compression the reference client and server use around large
// serialized proof bodies.
func CompressProof(encoded []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(encoded); err != nil {
		return nil, grapevineerrors.Wrap(grapevineerrors.MalformedInput, err, "gzip proof")
	}
	if err := w.Close(); err != nil {
		return nil, grapevineerrors.Wrap(grapevineerrors.MalformedInput, err, "close gzip writer")
	}
	return buf.Bytes(), nil
}

// DecompressProof reverses CompressProof.
func DecompressProof(compressed []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, grapevineerrors.Wrap(grapevineerrors.MalformedInput, err, "open gzip reader")
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, grapevineerrors.Wrap(grapevineerrors.MalformedInput, err, "read gzip stream")
	}
	return out, nil
}
