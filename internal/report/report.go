// Package report renders the Markdown run report.
//
// Writer keeps the first write error and turns later calls into no-ops, so a
// driver can emit a whole section and check Err once.
package report

import (
	"fmt"
	"io"
	"strings"
)

const fence = "```"

// Writer emits Markdown elements to an underlying io.Writer.
type Writer struct {
	w   io.Writer
	err error
}

func New(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Heading writes a level 1-6 ATX heading.
func (r *Writer) Heading(level int, text string) {
	level = min(max(level, 1), 6)
	r.printf("%s %s\n", strings.Repeat("#", level), text)
}

// CodeBlock writes text as a fenced block tagged with lang and an optional label.
func (r *Writer) CodeBlock(text, lang, label string) {
	r.printf("%s\n", FormatCodeBlock(text, lang, label))
}

// Bullet writes a list item.
func (r *Writer) Bullet(format string, args ...any) {
	r.printf("* %s\n", fmt.Sprintf(format, args...))
}

// Line writes a plain paragraph line.
func (r *Writer) Line(format string, args ...any) {
	r.printf("%s\n", fmt.Sprintf(format, args...))
}

// Err returns the first error encountered while writing.
func (r *Writer) Err() error {
	return r.err
}

func (r *Writer) printf(format string, args ...any) {
	if r.err != nil {
		return
	}

	_, r.err = fmt.Fprintf(r.w, format, args...)
}

// FormatCodeBlock returns text as a fenced block without a trailing newline.
// The text is trimmed of surrounding whitespace, and the info string is
// lang followed by ":label" when label is non-empty. Empty text still
// produces a block.
func FormatCodeBlock(text, lang, label string) string {
	info := strings.TrimSpace(lang)
	if label = strings.TrimSpace(label); label != "" {
		info += ":" + label
	}

	return fence + info + "\n" + strings.TrimSpace(text) + "\n" + fence
}
