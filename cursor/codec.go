// Package cursor provides keyset (cursor-based) pagination over composite
// sort keys, in both directions.
//
// Keyset pagination anchors each page on the sort key tuple of an edge row
// instead of a numeric offset, so pages do not drift when rows are inserted
// or re-ranked between requests.
//
// Example usage:
//
//	p, err := cursor.New(teamRating, source)
//	page, err := p.Paginate(ctx, args, filters)
//	env, err := paging.BuildEnvelope(page, toAPITeam)
//
// Cursor Format:
//
//	Cursors are unpadded base64url-encoded JSON objects carrying a format
//	version, the sort key id, the direction and the position tuple:
//	{"v":1,"k":"team-rating","d":"f","p":[1500,42]}
//	→ eyJ2IjoxLCJrIjoidGVhbS1yYXRpbmciLCJkIjoiZiIsInAiOlsxNTAwLDQyXX0
//
// Performance:
//
//	Requires a composite index matching the sort key:
//	CREATE INDEX idx ON teams(rating DESC, id DESC);
//
// Consistency:
//
//	Rows whose sort key changes between two requests may be seen twice,
//	skipped, or move pages. Cursors carry no server state and no TTL.
package cursor

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/friendsofgo/errors"

	paging "github.com/nrfta/ladder-paging"
)

// Version is the current cursor format version. Tokens with any other
// version are rejected.
const Version = 1

// token is the wire representation of a cursor.
type token struct {
	V int               `json:"v"`
	K string            `json:"k"`
	D paging.Direction  `json:"d"`
	P []json.RawMessage `json:"p"`
}

// Encode serializes position in the field order of key and returns an
// opaque, URL-safe token.
func Encode(key Key, position []any, dir paging.Direction) (string, error) {
	types := key.Types()
	if len(position) != len(types) {
		return "", errors.Wrapf(paging.ErrInvalidArgument, "encode cursor: %d values for %d fields", len(position), len(types))
	}
	if !dir.Valid() {
		return "", errors.Wrapf(paging.ErrInvalidArgument, "encode cursor: unknown direction %q", dir)
	}

	fields := make([]json.RawMessage, len(position))
	for i, t := range types {
		v, err := paging.Normalize(position[i], t)
		if err != nil {
			return "", errors.Wrapf(paging.ErrInvalidArgument, "encode cursor: %v", err)
		}
		if tm, ok := v.(time.Time); ok {
			v = tm.Format(time.RFC3339Nano)
		}

		raw, err := json.Marshal(v)
		if err != nil {
			return "", errors.Wrapf(paging.ErrInvalidArgument, "encode cursor: %v", err)
		}
		fields[i] = raw
	}

	data, err := json.Marshal(token{V: Version, K: key.ID(), D: dir, P: fields})
	if err != nil {
		return "", errors.Wrap(err, "encode cursor")
	}

	return base64.RawURLEncoding.EncodeToString(data), nil
}

// EncodeCursor is Encode for a cursor value. A nil cursor yields a nil token.
func EncodeCursor(key Key, cur *paging.Cursor) (*string, error) {
	if cur == nil {
		return nil, nil
	}
	s, err := Encode(key, cur.Position, cur.Direction)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Decode parses a token produced by Encode for the same key.
//
// It fails with paging.ErrInvalidCursor when the token is empty, not
// base64url, not JSON, of an unsupported version, produced for another
// sort key, carries an unknown direction, has the wrong arity, or any field
// does not parse to its declared type.
func Decode(s string, key Key) (paging.Cursor, error) {
	if s == "" {
		return paging.Cursor{}, invalid("empty token")
	}

	data, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return paging.Cursor{}, invalid("not base64url")
	}

	var tok token
	if err := json.Unmarshal(data, &tok); err != nil {
		return paging.Cursor{}, invalid("not JSON")
	}

	if tok.V != Version {
		return paging.Cursor{}, invalid("unsupported version %d", tok.V)
	}
	if tok.K != key.ID() {
		return paging.Cursor{}, invalid("produced for sort key %q, expected %q", tok.K, key.ID())
	}
	if !tok.D.Valid() {
		return paging.Cursor{}, invalid("unknown direction %q", tok.D)
	}

	types := key.Types()
	if len(tok.P) != len(types) {
		return paging.Cursor{}, invalid("%d values for %d fields", len(tok.P), len(types))
	}

	pos := make([]any, len(types))
	for i, t := range types {
		v, err := parseField(tok.P[i], t)
		if err != nil {
			return paging.Cursor{}, invalid("field %d: %v", i, err)
		}
		pos[i] = v
	}

	return paging.Cursor{Position: pos, Direction: tok.D}, nil
}

func parseField(raw json.RawMessage, t paging.FieldType) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}

	switch t {
	case paging.TypeInt:
		if n, ok := v.(json.Number); ok {
			return n.Int64()
		}
	case paging.TypeFloat:
		if n, ok := v.(json.Number); ok {
			return n.Float64()
		}
	case paging.TypeString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case paging.TypeTime:
		if s, ok := v.(string); ok {
			tm, err := time.Parse(time.RFC3339Nano, s)
			if err != nil {
				return nil, err
			}
			return tm.UTC(), nil
		}
	case paging.TypeBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	}

	return nil, errors.Errorf("%s is not a %s", raw, t)
}

func invalid(format string, args ...any) error {
	return errors.Wrapf(paging.ErrInvalidCursor, format, args...)
}
