package repo

import (
	"strings"

	"github.com/odvcencio/gitscope/pkg/object"
)

// Entry paths are relative to the archive root and start at the metadata
// directory, e.g. ".git/refs/heads/main".
const (
	GitDirPrefix  = ".git/"
	HeadPath      = ".git/HEAD"
	HeadsPrefix   = ".git/refs/heads/"
	TagsPrefix    = ".git/refs/tags/"
	ObjectsPrefix = ".git/objects/"
)

// NormalizePath maps an archive entry path to its location relative to the
// metadata directory. Any leading project folder is dropped, so
// "project/.git/HEAD" becomes ".git/HEAD". The second result is false when
// the path is not inside a metadata directory.
func NormalizePath(p string) (string, bool) {
	p = strings.ReplaceAll(p, "\\", "/")
	if strings.HasPrefix(p, GitDirPrefix) {
		return p, true
	}
	idx := strings.Index(p, "/"+GitDirPrefix)
	if idx < 0 {
		return "", false
	}
	return p[idx+1:], true
}

// objectHashFromPath derives an object hash from a loose object path
// ".git/objects/ab/cdef..." (2 hex directory + 38 hex file name).
func objectHashFromPath(p string) (object.Hash, bool) {
	rest, ok := strings.CutPrefix(p, ObjectsPrefix)
	if !ok || len(rest) != object.HashLen+1 || rest[2] != '/' {
		return "", false
	}
	h := rest[:2] + rest[3:]
	if !object.IsHash(h) {
		return "", false
	}
	return object.Hash(h), true
}
