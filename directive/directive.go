// Package directive parses the line-oriented `#key# value` language users write embeds in.
package directive

import (
	"regexp"
	"strconv"
	"strings"
)

// Key is a recognised top-level directive.
type Key string

const (
	Colour      Key = "colour"
	AuthorName  Key = "author.name"
	AuthorURL   Key = "author.url"
	AuthorIcon  Key = "author.icon"
	Title       Key = "title"
	Description Key = "description"
	Thumbnail   Key = "thumbnail"
	Image       Key = "image"
	FooterText  Key = "footer.text"
	FooterIcon  Key = "footer.icon"
	Timestamp   Key = "timestamp"
)

// Keys lists the top-level directives in the order they are documented.
var Keys = []Key{Colour, AuthorName, AuthorURL, AuthorIcon, Title, Description, Thumbnail, Image, FooterText, FooterIcon, Timestamp}

// MaxFields is the highest field index a directive can address.
const MaxFields = 25

// Part is one attribute of an embed field.
type Part string

const (
	FieldName   Part = "name"
	FieldValue  Part = "value"
	FieldInline Part = "inline"
)

// Field holds the raw values given for one field index.
// A part that was never set is absent from the map.
type Field map[Part]string

// Document is the result of parsing directive text.
type Document struct {
	Values map[Key]string
	Fields map[int]Field
}

func newDocument() *Document {
	return &Document{
		Values: make(map[Key]string),
		Fields: make(map[int]Field),
	}
}

// Empty returns true if no directive was found.
func (d *Document) Empty() bool {
	return len(d.Values) == 0 && len(d.Fields) == 0
}

// Get returns the value for k, and whether it was set at all.
func (d *Document) Get(k Key) (string, bool) {
	v, ok := d.Values[k]
	return v, ok
}

// Field returns the parts set for field n.
func (d *Document) Field(n int) (Field, bool) {
	f, ok := d.Fields[n]
	return f, ok
}

var directiveRe = regexp.MustCompile(`(?i)#(colour|author\.name|author\.url|author\.icon|title|thumbnail|description|field\.(?:[1-9]|1[0-9]|2[0-5])\.(?:name|value|inline)|image|footer\.text|footer\.icon|timestamp)#(?: |)(.*)`)

// cursor is the key that continuation lines are appended to.
type cursor struct {
	key   Key
	field int
	part  Part
}

func (d *Document) set(c cursor, v string) {
	if c.field == 0 {
		d.Values[c.key] = v
		return
	}
	f, ok := d.Fields[c.field]
	if !ok {
		f = make(Field, 3)
		d.Fields[c.field] = f
	}
	f[c.part] = v
}

func (d *Document) appendLine(c cursor, line string) {
	if c.field == 0 {
		d.Values[c.key] += "\n" + line
		return
	}
	d.Fields[c.field][c.part] += "\n" + line
}

func parseKey(raw string) cursor {
	raw = strings.ToLower(raw)
	if !strings.HasPrefix(raw, "field.") {
		return cursor{key: Key(raw)}
	}

	idx, part, _ := strings.Cut(strings.TrimPrefix(raw, "field."), ".")
	n, _ := strconv.Atoi(idx)
	return cursor{field: n, part: Part(part)}
}

// Parse parses text into a Document. It never fails: text without directives
// produces an empty Document.
func Parse(text string) *Document {
	doc := newDocument()

	var (
		cur    cursor
		hasCur bool
	)
	for _, line := range strings.Split(text, "\n") {
		matches := directiveRe.FindAllStringSubmatch(line, -1)
		if len(matches) == 0 {
			if hasCur {
				doc.appendLine(cur, line)
			}
			continue
		}

		for _, m := range matches {
			cur = parseKey(m[1])
			hasCur = true
			doc.set(cur, m[2])
		}
	}

	return doc
}

// Join concatenates origin texts in order, the way they are rendered together.
func Join(texts ...string) string {
	return strings.Join(texts, "\n")
}
