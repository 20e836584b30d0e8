package object

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zlib"
)

// Inflater maps compressed loose object bytes to the raw envelope.
type Inflater interface {
	Inflate(compressed []byte) ([]byte, error)
}

// ZlibInflater inflates zlib streams, the compression Git uses for loose
// objects.
type ZlibInflater struct{}

func (ZlibInflater) Inflate(compressed []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

// ParseEnvelope splits a raw loose object into its type, declared size and
// body: "type len\0content".
func ParseEnvelope(raw []byte) (ObjectType, int, []byte, error) {
	nulIdx := bytes.IndexByte(raw, 0)
	if nulIdx < 0 {
		return "", 0, nil, fmt.Errorf("invalid format (no NUL): %w", ErrMalformed)
	}
	header := string(raw[:nulIdx])
	body := raw[nulIdx+1:]

	typ, sizeStr, ok := strings.Cut(header, " ")
	if !ok {
		return "", 0, nil, fmt.Errorf("invalid header %q: %w", header, ErrMalformed)
	}
	size, err := strconv.Atoi(sizeStr)
	if err != nil {
		return "", 0, nil, fmt.Errorf("invalid length %q: %w", sizeStr, ErrMalformed)
	}
	return ObjectType(typ), size, body, nil
}

// DecodeLoose inflates and decodes one loose object stored under h. When
// verify is set the declared size must match the body and the SHA-1 of the
// envelope must equal h. Every failure is returned as a *DecodeError.
func DecodeLoose(h Hash, compressed []byte, inf Inflater, verify bool) (Object, error) {
	if inf == nil {
		inf = ZlibInflater{}
	}
	raw, err := inf.Inflate(compressed)
	if err != nil {
		return nil, &DecodeError{Hash: h, Stage: StageInflate, Err: err}
	}

	objType, size, body, err := ParseEnvelope(raw)
	if err != nil {
		return nil, &DecodeError{Hash: h, Stage: StageEnvelope, Err: err}
	}

	if verify {
		if size != len(body) {
			return nil, &DecodeError{Hash: h, Stage: StageVerify, Err: fmt.Errorf("length mismatch (header=%d, actual=%d): %w", size, len(body), ErrMalformed)}
		}
		actual, collision := hashEnvelope(raw)
		if collision {
			return nil, &DecodeError{Hash: h, Stage: StageVerify, Err: ErrHashCollision}
		}
		if actual != h {
			return nil, &DecodeError{Hash: h, Stage: StageVerify, Err: fmt.Errorf("content hashes to %s: %w", actual, ErrHashMismatch)}
		}
	}

	obj, err := Decode(objType, body)
	if err != nil {
		return nil, &DecodeError{Hash: h, Stage: StageDecode, Err: err}
	}
	return obj, nil
}

// Decode dispatches an object body to the decoder for its type.
func Decode(objType ObjectType, body []byte) (Object, error) {
	switch objType {
	case TypeCommit:
		return UnmarshalCommit(body)
	case TypeTree:
		return UnmarshalTree(body)
	case TypeBlob:
		return UnmarshalBlob(body)
	case TypeTag:
		return UnmarshalTag(body)
	default:
		return nil, fmt.Errorf("%q: %w", objType, ErrUnknownType)
	}
}

// EncodeLoose builds the zlib-compressed loose representation of an object
// body and returns it together with the object's hash.
func EncodeLoose(objType ObjectType, body []byte) ([]byte, Hash, error) {
	raw := envelope(objType, body)
	h, _ := hashEnvelope(raw)

	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		zw.Close()
		return nil, "", fmt.Errorf("encode loose %s: %w", objType, err)
	}
	if err := zw.Close(); err != nil {
		return nil, "", fmt.Errorf("encode loose %s: close: %w", objType, err)
	}
	return buf.Bytes(), h, nil
}

// LoosePath returns the path of an object relative to the objects
// directory: "ab/cdef...".
func LoosePath(h Hash) string {
	return string(h[:2]) + "/" + string(h[2:])
}
