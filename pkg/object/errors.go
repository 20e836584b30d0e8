package object

import (
	"errors"
	"fmt"
)

var (
	ErrMalformed       = errors.New("malformed object")
	ErrUnknownType     = errors.New("unknown object type")
	ErrHashMismatch    = errors.New("object hash mismatch")
	ErrHashCollision   = errors.New("sha1 collision attack detected")
	ErrDuplicateObject = errors.New("object already present in table")
)

// Decode stages reported by DecodeError.
const (
	StageInflate  = "inflate"
	StageEnvelope = "envelope"
	StageVerify   = "verify"
	StageDecode   = "decode"
)

// DecodeError records which stage of loose object decoding failed for a hash.
type DecodeError struct {
	Hash  Hash
	Stage string
	Err   error
}

func (e *DecodeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("decode object %s: %s: %v", e.Hash, e.Stage, e.Err)
}

func (e *DecodeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
