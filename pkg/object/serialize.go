package object

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// identityPattern matches "<name> <<email>> <epoch> <tz>".
var identityPattern = regexp.MustCompile(`^(.+) <(.*)> (\d+) ([+-]\d{4})$`)

// ---------------------------------------------------------------------------
// Blob
// ---------------------------------------------------------------------------

// UnmarshalBlob decodes blob bytes as text. Invalid UTF-8 sequences are
// replaced, so binary payloads do not survive a round trip.
func UnmarshalBlob(data []byte) (*BlobObj, error) {
	content := string(data)
	if !utf8.ValidString(content) {
		content = strings.ToValidUTF8(content, "\uFFFD")
	}
	return &BlobObj{Content: content, Size: len(data)}, nil
}

// ---------------------------------------------------------------------------
// TreeObj
// ---------------------------------------------------------------------------

// MarshalTree serializes a TreeObj in Git's binary format, keeping entry
// order. Each entry is:
//
//	<mode> SP <name> NUL <20 raw hash bytes>
func MarshalTree(tr *TreeObj) ([]byte, error) {
	var buf bytes.Buffer
	for _, e := range tr.Entries {
		raw, err := rawHash(e.Hash)
		if err != nil {
			return nil, fmt.Errorf("marshal tree: entry %q: %w", e.Name, err)
		}
		buf.WriteString(e.Mode)
		buf.WriteByte(' ')
		buf.WriteString(e.Name)
		buf.WriteByte(0)
		buf.Write(raw)
	}
	return buf.Bytes(), nil
}

// UnmarshalTree parses a binary tree body. Names and hashes are not valid
// text, so the scan works on raw bytes. A truncated trailing entry ends the
// scan and the entries decoded so far are returned.
func UnmarshalTree(data []byte) (*TreeObj, error) {
	tr := &TreeObj{}
	offset := 0
	for offset < len(data) {
		sp := bytes.IndexByte(data[offset:], ' ')
		if sp < 0 {
			break
		}
		mode := string(data[offset : offset+sp])
		offset += sp + 1

		nul := bytes.IndexByte(data[offset:], 0)
		if nul < 0 {
			break
		}
		name := string(data[offset : offset+nul])
		offset += nul + 1

		if offset+RawHashLen > len(data) {
			break
		}
		h := HashFromBytes(data[offset : offset+RawHashLen])
		offset += RawHashLen

		tr.Entries = append(tr.Entries, TreeEntry{
			Mode: mode,
			Name: name,
			Hash: h,
			Kind: entryKind(mode),
		})
	}
	return tr, nil
}

func entryKind(mode string) ObjectType {
	if strings.HasPrefix(mode, "100") {
		return TypeBlob
	}
	return TypeTree
}

func rawHash(h Hash) ([]byte, error) {
	if !IsHash(string(h)) {
		return nil, fmt.Errorf("invalid hash %q: %w", h, ErrMalformed)
	}
	return hex.DecodeString(string(h))
}

// ---------------------------------------------------------------------------
// CommitObj
// ---------------------------------------------------------------------------

// MarshalCommit serializes a CommitObj in Git's text format:
//
//	tree H
//	parent H        (zero or more)
//	author A        (optional)
//	committer C     (optional)
//	gpgsig S        (optional, continuation lines indented by one space)
//
//	message
func MarshalCommit(c *CommitObj) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", c.TreeHash)
	for _, p := range c.Parents {
		fmt.Fprintf(&buf, "parent %s\n", p)
	}
	if c.Author != nil {
		fmt.Fprintf(&buf, "author %s\n", formatIdentity(c.Author))
	}
	if c.Committer != nil {
		fmt.Fprintf(&buf, "committer %s\n", formatIdentity(c.Committer))
	}
	if strings.TrimSpace(c.Signature) != "" {
		sig := strings.TrimRight(c.Signature, "\n")
		fmt.Fprintf(&buf, "gpgsig %s\n", strings.ReplaceAll(sig, "\n", "\n "))
	}
	buf.WriteByte('\n')
	buf.WriteString(c.Message)
	if c.Message != "" && !strings.HasSuffix(c.Message, "\n") {
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// UnmarshalCommit parses a commit body. Header lines run until the first
// blank line; everything after it is the message, trimmed. Unknown headers
// are ignored and missing or malformed identities are left nil.
func UnmarshalCommit(data []byte) (*CommitObj, error) {
	headers, message := splitHeaders(string(data))

	c := &CommitObj{Message: message}
	for _, hdr := range headers {
		switch hdr.key {
		case "tree":
			h, err := ParseHash(hdr.val)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: tree: %w", err)
			}
			c.TreeHash = h
		case "parent":
			h, err := ParseHash(hdr.val)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: parent: %w", err)
			}
			c.Parents = append(c.Parents, h)
		case "author":
			c.Author = parseIdentity(hdr.val)
		case "committer":
			c.Committer = parseIdentity(hdr.val)
		case "gpgsig", "gpgsig-sha256":
			c.Signature = hdr.val
		}
	}
	return c, nil
}

// ---------------------------------------------------------------------------
// TagObj
// ---------------------------------------------------------------------------

// MarshalTag serializes an annotated tag:
//
//	object H
//	type T
//	tag N
//	tagger I        (optional)
//
//	message
func MarshalTag(t *TagObj) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "object %s\n", t.Target)
	fmt.Fprintf(&buf, "type %s\n", t.TargetType)
	fmt.Fprintf(&buf, "tag %s\n", t.Name)
	if t.Tagger != nil {
		fmt.Fprintf(&buf, "tagger %s\n", formatIdentity(t.Tagger))
	}
	buf.WriteByte('\n')
	buf.WriteString(t.Message)
	if t.Message != "" && !strings.HasSuffix(t.Message, "\n") {
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// UnmarshalTag parses an annotated tag body using the same header/message
// layout as commits.
func UnmarshalTag(data []byte) (*TagObj, error) {
	headers, message := splitHeaders(string(data))

	t := &TagObj{Message: message}
	for _, hdr := range headers {
		switch hdr.key {
		case "object":
			h, err := ParseHash(hdr.val)
			if err != nil {
				return nil, fmt.Errorf("unmarshal tag: object: %w", err)
			}
			t.Target = h
		case "type":
			t.TargetType = ObjectType(hdr.val)
		case "tag":
			t.Name = hdr.val
		case "tagger":
			t.Tagger = parseIdentity(hdr.val)
		}
	}
	return t, nil
}

// ---------------------------------------------------------------------------
// Shared header parsing
// ---------------------------------------------------------------------------

type header struct {
	key string
	val string
}

// splitHeaders splits a commit or tag body into header fields and the
// trimmed message. Lines starting with a space continue the previous
// header's value.
func splitHeaders(text string) ([]header, string) {
	lines := strings.Split(text, "\n")
	var headers []header
	message := ""
	for i, line := range lines {
		if line == "" {
			message = strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
			break
		}
		if strings.HasPrefix(line, " ") && len(headers) > 0 {
			last := &headers[len(headers)-1]
			last.val += "\n" + line[1:]
			continue
		}
		key, val, _ := strings.Cut(line, " ")
		headers = append(headers, header{key: key, val: val})
	}
	return headers, message
}

func parseIdentity(val string) *Identity {
	m := identityPattern.FindStringSubmatch(val)
	if m == nil {
		return nil
	}
	secs, err := strconv.ParseInt(m[3], 10, 64)
	if err != nil {
		return nil
	}
	return &Identity{
		Name:     m[1],
		Email:    m[2],
		When:     time.Unix(secs, 0).UTC(),
		Timezone: m[4],
	}
}

func formatIdentity(id *Identity) string {
	tz := id.Timezone
	if tz == "" {
		tz = "+0000"
	}
	return fmt.Sprintf("%s <%s> %d %s", id.Name, id.Email, id.When.Unix(), tz)
}
