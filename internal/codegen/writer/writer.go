package writer

import (
	"fmt"
	"strings"
)

// Writer builds indented text outlines
type Writer struct {
	sb           strings.Builder
	indentLevel  int
	indentString string
	linePrefix   string
	needsIndent  bool
}

// NewWriter creates a new writer with the specified indentation string
func NewWriter(indentString string) *Writer {
	return &Writer{
		indentString: indentString,
		needsIndent:  true,
	}
}

// Indent increases the indentation level
func (w *Writer) Indent() {
	w.indentLevel++
	w.updatePrefix()
}

// Dedent decreases the indentation level
func (w *Writer) Dedent() {
	if w.indentLevel > 0 {
		w.indentLevel--
		w.updatePrefix()
	}
}

// Write writes a string without adding a newline
func (w *Writer) Write(s string) {
	if w.needsIndent && s != "" {
		w.sb.WriteString(w.linePrefix)
		w.needsIndent = false
	}
	w.sb.WriteString(s)
}

// WriteLine writes a string and adds a newline
func (w *Writer) WriteLine(s string) {
	w.Write(s)
	w.Newline()
}

// WriteLinef writes a formatted string and adds a newline
func (w *Writer) WriteLinef(format string, args ...any) {
	w.Write(fmt.Sprintf(format, args...))
	w.Newline()
}

// Newline adds a newline character
func (w *Writer) Newline() {
	w.sb.WriteString("\n")
	w.needsIndent = true
}

// BlankLine adds an empty line unless the output already ends with one
func (w *Writer) BlankLine() {
	if w.sb.Len() > 0 && !strings.HasSuffix(w.sb.String(), "\n\n") {
		w.Newline()
	}
}

// Field writes a `key: value` line. Empty values are skipped.
func (w *Writer) Field(key, value string) {
	if value == "" {
		return
	}
	w.WriteLinef("%s: %s", key, value)
}

// Section writes a heading and the content nested one level below it.
// A section whose content writes nothing leaves no heading behind.
func (w *Writer) Section(heading string, content func()) {
	mark := w.sb.Len()
	w.WriteLine(heading)
	body := w.sb.Len()

	w.Indent()
	content()
	w.Dedent()

	if w.sb.Len() == body {
		w.truncate(mark)
	}
}

// List writes a section with one line per item
func (w *Writer) List(heading string, items []string) {
	w.Section(heading, func() {
		for _, item := range items {
			w.WriteLine(item)
		}
	})
}

// IndentLevel returns the current indentation level
func (w *Writer) IndentLevel() int {
	return w.indentLevel
}

// String returns the written text
func (w *Writer) String() string {
	return w.sb.String()
}

// Bytes returns the written text as a byte slice
func (w *Writer) Bytes() []byte {
	return []byte(w.sb.String())
}

func (w *Writer) truncate(n int) {
	kept := w.sb.String()[:n]
	w.sb.Reset()
	w.sb.WriteString(kept)
	w.needsIndent = true
}

// updatePrefix updates the line prefix based on current indentation
func (w *Writer) updatePrefix() {
	w.linePrefix = strings.Repeat(w.indentString, w.indentLevel)
}
