// Package article parses and serializes article records: a YAML
// frontmatter header followed by a markdown body.
package article

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Well-known frontmatter keys. The key set is open: unknown keys are
// preserved in document order across a parse/serialize round trip.
const (
	KeyTitle        = "title"
	KeyAuthor       = "author"
	KeyCreated      = "created"
	KeyPublished    = "published"
	KeySentToKindle = "sent-to-kindle"
	KeyReadStatus   = "read-status"
	KeyDateRead     = "date-read"
	KeyLiked        = "liked"
	KeyNotes        = "notes"
)

// ErrMalformed indicates a record whose frontmatter block is unterminated
// or not a flat key-value mapping. Callers typically skip such records
// with a warning rather than abort.
var ErrMalformed = errors.New("malformed record")

const fence = "---"

// booleanKeys are normalized to canonical yes/no tokens on write.
var booleanKeys = map[string]bool{
	KeySentToKindle: true,
	KeyLiked:        true,
}

// Field is a single frontmatter entry. Either Value or List is set:
// List is non-nil for flat sequence values such as multi-author entries.
type Field struct {
	Key   string
	Value string
	List  []string
}

// Frontmatter is an ordered, open set of metadata fields.
type Frontmatter struct {
	fields []Field
}

// Parse splits raw record text into frontmatter and body. A record
// without a leading fence parses as empty frontmatter plus the whole
// text as body. The body is returned byte-for-byte.
func Parse(raw string) (*Frontmatter, string, error) {
	if !strings.HasPrefix(raw, fence+"\n") {
		return &Frontmatter{}, raw, nil
	}

	// The closing fence search starts right at the opening fence's own
	// newline so that an empty header ("---" directly followed by
	// "---") still parses.
	end := strings.Index(raw[3:], "\n"+fence+"\n")
	if end < 0 {
		return nil, "", fmt.Errorf("%w: unterminated frontmatter", ErrMalformed)
	}
	closing := 3 + end
	header := ""
	if closing >= 4 {
		header = raw[4:closing]
	}
	body := raw[closing+len("\n"+fence+"\n"):]

	fm, err := decodeHeader(header)
	if err != nil {
		return nil, "", err
	}
	return fm, body, nil
}

// decodeHeader parses the header through yaml.Node so that document order
// survives; unmarshalling into a map would reorder keys.
func decodeHeader(header string) (*Frontmatter, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(header), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(doc.Content) == 0 {
		return &Frontmatter{}, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: frontmatter is not a key-value mapping", ErrMalformed)
	}

	fm := &Frontmatter{}
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valNode := root.Content[i], root.Content[i+1]
		if keyNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: non-scalar key in frontmatter", ErrMalformed)
		}

		switch valNode.Kind {
		case yaml.ScalarNode:
			fm.fields = append(fm.fields, Field{Key: keyNode.Value, Value: valNode.Value})
		case yaml.SequenceNode:
			items := make([]string, 0, len(valNode.Content))
			for _, item := range valNode.Content {
				if item.Kind != yaml.ScalarNode {
					return nil, fmt.Errorf("%w: nested value under key %q", ErrMalformed, keyNode.Value)
				}
				items = append(items, item.Value)
			}
			fm.fields = append(fm.fields, Field{Key: keyNode.Value, List: items})
		default:
			return nil, fmt.Errorf("%w: nested value under key %q", ErrMalformed, keyNode.Value)
		}
	}
	return fm, nil
}

// Marshal serializes the frontmatter and body back into record text.
// Output is canonical: one "key: value" line per field in document order,
// boolean fields normalized to yes/no, the body untouched. Marshalling
// the result of Parse on canonical input reproduces it byte-for-byte.
func (f *Frontmatter) Marshal(body string) string {
	var b strings.Builder
	b.WriteString(fence + "\n")
	for _, fld := range f.fields {
		if fld.List != nil {
			b.WriteString(fld.Key + ":\n")
			for _, item := range fld.List {
				b.WriteString("  - " + quoteListItem(item) + "\n")
			}
			continue
		}

		value := fld.Value
		if booleanKeys[fld.Key] && value != "" {
			value = canonicalBool(value)
		}
		if value == "" {
			b.WriteString(fld.Key + ":\n")
			continue
		}
		b.WriteString(fld.Key + ": " + quoteValue(value) + "\n")
	}
	b.WriteString(fence + "\n")
	b.WriteString(body)
	return b.String()
}

// Get returns the value for key and whether the key is present.
// List fields report their items joined with ", ".
func (f *Frontmatter) Get(key string) (string, bool) {
	for _, fld := range f.fields {
		if fld.Key == key {
			if fld.List != nil {
				return strings.Join(fld.List, ", "), true
			}
			return fld.Value, true
		}
	}
	return "", false
}

// Set replaces the value of key, or appends the field if absent.
func (f *Frontmatter) Set(key, value string) {
	for i := range f.fields {
		if f.fields[i].Key == key {
			f.fields[i].Value = value
			f.fields[i].List = nil
			return
		}
	}
	f.fields = append(f.fields, Field{Key: key, Value: value})
}

// Bool reports whether key holds an affirmative value
// (yes/true/1, case-insensitive). Absent keys are false.
func (f *Frontmatter) Bool(key string) bool {
	v, ok := f.Get(key)
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "true", "1":
		return true
	}
	return false
}

// Fields returns a copy of the fields in document order.
func (f *Frontmatter) Fields() []Field {
	out := make([]Field, len(f.fields))
	copy(out, f.fields)
	for i := range out {
		if out[i].List != nil {
			out[i].List = append([]string(nil), out[i].List...)
		}
	}
	return out
}

// Len returns the number of fields.
func (f *Frontmatter) Len() int { return len(f.fields) }

// Clone returns an independent copy of the frontmatter.
func (f *Frontmatter) Clone() *Frontmatter {
	return &Frontmatter{fields: f.Fields()}
}

func canonicalBool(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "true", "1":
		return "yes"
	}
	return "no"
}

func quoteValue(v string) string {
	if needsQuoting(v) {
		return escapeQuoted(v)
	}
	return v
}

func quoteListItem(v string) string {
	if v == "" || strings.HasPrefix(v, "[[") || strings.Contains(v, " ") || needsQuoting(v) {
		return escapeQuoted(v)
	}
	return v
}

// needsQuoting reports whether a scalar must be double-quoted to parse
// back to the same string: embedded YAML syntax characters, an
// indicator character in leading position, or whitespace padding.
func needsQuoting(v string) bool {
	if v == "" {
		return false
	}
	if v != strings.TrimSpace(v) {
		return true
	}
	if strings.ContainsAny(v, ":\"\\\n") {
		return true
	}
	switch v[0] {
	case '#', '-', '?', '[', ']', '{', '}', ',', '&', '*', '!', '|', '>', '%', '@', '`', '\'':
		return true
	}
	return false
}

// escapeQuoted renders v as a YAML double-quoted scalar. Backslash must
// be escaped first or it would double up the other escapes.
func escapeQuoted(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `"`, `\"`)
	v = strings.ReplaceAll(v, "\n", `\n`)
	return `"` + v + `"`
}
