// Package dsl 解析声明式表单描述文件（.form）。
//
// 一个文件描述一页：
//
//	form application v1 {
//	  meta { title: "Application Form" }
//	  page a4 margin=20 {
//	    title "Application Form" underline
//	    section "I. Personal Information"
//	    rows align {
//	      row { field "Name (last, first)" name=fullname_field }
//	      row
//	      row { field "City" name=city_field size=180; field "Zip" name=zip_field }
//	    }
//	  }
//	}
package dsl

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	// 颜色字面量只在 = 或 : 之后识别，其他位置的 # 一律是注释。
	dslLexer = lexer.MustStateful(lexer.Rules{
		"Root": {
			{Name: "Whitespace", Pattern: `[ \t\r]+`},
			{Name: "Newline", Pattern: `\n+`},
			{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
			{Name: "LineComment", Pattern: `//[^\n]*`},
			{Name: "HashComment", Pattern: `#[^\n]*`},
			{Name: "Assign", Pattern: `[=:]`, Action: lexer.Push("Value")},
			{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+)(?:pt|mm|cm|in)?`},
			{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
			{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
			{Name: "Symbol", Pattern: `[][(),.;]`},
			{Name: "LBrace", Pattern: `{`},
			{Name: "RBrace", Pattern: `}`},
		},
		"Value": {
			{Name: "Whitespace", Pattern: `[ \t\r]+`},
			{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})\b`, Action: lexer.Pop()},
			lexer.Return(),
		},
	})

	documentParser = participle.MustBuild[Document](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Document is the root AST node of a form file.
type Document struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Name    string         `parser:"Newline* 'form' @Ident"`
	Version string         `parser:"@( Ident | Number )"`
	Meta    *Meta          `parser:"'{' Newline* ( @@ Newline* )?"`
	Page    *Page          `parser:"@@ Newline* '}' Newline*"`
}

// Meta captures document information entries.
type Meta struct {
	Entries []*Assignment `parser:"'meta' '{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Assignment uses colon syntax (key: value).
type Assignment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident"`
	Value *Value         `parser:"':' @@"`
}

// Page is the single page of the form.
type Page struct {
	Pos        lexer.Position `parser:"" json:"-"`
	Size       string         `parser:"'page' @Ident"`
	Options    []*Option      `parser:"@@*"`
	Statements []*Statement   `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Statement is one placement instruction inside a page.
type Statement struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Rows    *Rows          `parser:"  @@"`
	Spacer  *Spacer        `parser:"| @@"`
	Command *Command       `parser:"| @@"`
}

// Kind returns the human-readable statement type.
func (s *Statement) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Rows != nil:
		return "rows"
	case s.Spacer != nil:
		return "spacer"
	case s.Command != nil:
		return s.Command.Name
	default:
		return "unknown"
	}
}

// Rows is a field table laid out by the row engine.
type Rows struct {
	Options []*Option `parser:"'rows' @@*"`
	Rows    []*Row    `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Row is one horizontal line of fields; a bare `row` is a spacer.
type Row struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Fields []*Field       `parser:"'row' ( '{' Newline* ( @@ ( ';' | Newline )* )* '}' )?"`
}

// Field is a label, a widget, or both.
type Field struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Kind    string         `parser:"@( 'field' | 'checkbox' | 'label' )"`
	Label   *StringLiteral `parser:"@String?"`
	Options []*Option      `parser:"@@*"`
}

// Spacer advances the vertical cursor.
type Spacer struct {
	Amount string `parser:"'spacer' @Number"`
}

// Command draws text, images, rules or standalone widgets.
type Command struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Name    string         `parser:"@( 'title' | 'section' | 'text' | 'paragraph' | 'image' | 'masthead' | 'footer' | 'rule' | 'frame' | 'input' | 'check' | 'signature' )"`
	Content *StringLiteral `parser:"@String?"`
	Options []*Option      `parser:"@@*"`
}

// Option is a `key` flag or a `key=value` pair.
type Option struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident"`
	Value *Value         `parser:"( '=' @@ )?"`
}

// Value represents generic property values.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Color  *string        `parser:"| @Color"`
	Ident  *string        `parser:"| @Ident"`
	List   []*Value       `parser:"| '[' Newline* ( @@ Newline* ( ',' Newline* @@ Newline* )* )? ']'"`
}

// Text returns the value as written; lists are joined with ", ".
func (v *Value) Text() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return *v.Number
	case v.Color != nil:
		return *v.Color
	case v.Ident != nil:
		return *v.Ident
	}
	parts := make([]string, 0, len(v.List))
	for _, item := range v.List {
		parts = append(parts, item.Text())
	}
	return strings.Join(parts, ", ")
}

// Strings flattens a list value; scalars become a one-element slice.
func (v *Value) Strings() []string {
	if v == nil {
		return nil
	}
	if v.String == nil && v.Number == nil && v.Color == nil && v.Ident == nil {
		out := make([]string, 0, len(v.List))
		for _, item := range v.List {
			out = append(out, item.Text())
		}
		return out
	}
	return []string{v.Text()}
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// String returns the unquoted text, or "" for a nil literal.
func (s *StringLiteral) String() string {
	if s == nil {
		return ""
	}
	return string(*s)
}

// ParseString parses DSL content from a string.
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}

// ParseBytes parses data; filename only labels positions in errors.
func ParseBytes(filename string, data []byte) (*Document, error) {
	return documentParser.ParseBytes(filename, data)
}

// ParseFile parses the file at path; positions in errors carry the file name.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return documentParser.Parse(path, f)
}

// Find returns the last option named key, so later options override earlier ones.
func Find(opts []*Option, key string) (*Option, bool) {
	for i := len(opts) - 1; i >= 0; i-- {
		if opts[i].Key == key {
			return opts[i], true
		}
	}
	return nil, false
}
