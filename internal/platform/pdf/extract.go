// Package pdf extracts plain text from uploaded PDF documents.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"

	"rsc.io/pdf"
)

// ErrInvalidPDF is returned when the document cannot be parsed.
var ErrInvalidPDF = errors.New("invalid PDF document")

// kerningSpace is the TJ adjustment, in thousandths of an em, treated as a
// word gap.
const kerningSpace = 200

// Extractor reads the text layer of PDF documents.
type Extractor struct {
	// MaxPages bounds how many pages are read; zero reads every page.
	MaxPages int
}

// NewExtractor creates an Extractor that reads at most maxPages pages.
func NewExtractor(maxPages int) *Extractor {
	return &Extractor{MaxPages: maxPages}
}

// ExtractText returns the text of every page, pages separated by a blank line.
// Pages without a text layer contribute nothing.
func (e *Extractor) ExtractText(data []byte) (text string, err error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty document", ErrInvalidPDF)
	}

	// rsc.io/pdf panics on malformed object streams.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: %v", ErrInvalidPDF, r)
		}
	}()

	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}

	total := doc.NumPage()
	if e.MaxPages > 0 && total > e.MaxPages {
		total = e.MaxPages
	}

	pages := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		p := doc.Page(i)
		if p.V.IsNull() {
			continue
		}
		if s := pageText(p); s != "" {
			pages = append(pages, s)
		}
	}
	return strings.Join(pages, "\n\n"), nil
}

// pageText walks the text operators of a page's content streams. Strings
// are decoded with the page font's encoding so the spaces they carry
// survive; Page.Content drops them and reports zero glyph widths for the
// standard fonts.
func pageText(p pdf.Page) string {
	w := &textWriter{fontSize: 1}
	contents := p.V.Key("Contents")
	if contents.Kind() == pdf.Array {
		for i := 0; i < contents.Len(); i++ {
			w.run(p, contents.Index(i))
		}
	} else if !contents.IsNull() {
		w.run(p, contents)
	}
	return w.text()
}

// textWriter rebuilds lines from text-showing operators.
type textWriter struct {
	enc      pdf.TextEncoding
	fontSize float64

	y            float64
	lineY        float64
	forceBreak   bool
	pendingSpace bool

	line  strings.Builder
	lines []string
}

func (w *textWriter) run(p pdf.Page, strm pdf.Value) {
	pdf.Interpret(strm, func(stk *pdf.Stack, op string) {
		args := make([]pdf.Value, stk.Len())
		for i := len(args) - 1; i >= 0; i-- {
			args[i] = stk.Pop()
		}
		w.apply(p, op, args)
	})
}

func (w *textWriter) apply(p pdf.Page, op string, args []pdf.Value) {
	switch op {
	case "BT":
		w.y = 0
	case "Tf":
		if len(args) == 2 {
			w.enc = p.Font(args[0].Name()).Encoder()
			if size := args[1].Float64(); size > 0 {
				w.fontSize = size
			}
		}
	case "Td", "TD":
		if len(args) == 2 {
			w.move(args[0].Float64(), args[1].Float64())
		}
	case "Tm":
		if len(args) == 6 {
			w.moveTo(args[5].Float64())
		}
	case "T*":
		w.forceBreak = true
	case "Tj":
		if len(args) == 1 {
			w.show(args[0])
		}
	case "'":
		if len(args) == 1 {
			w.forceBreak = true
			w.show(args[0])
		}
	case `"`:
		if len(args) == 3 {
			w.forceBreak = true
			w.show(args[2])
		}
	case "TJ":
		if len(args) == 1 && args[0].Kind() == pdf.Array {
			w.showArray(args[0])
		}
	}
}

func (w *textWriter) move(tx, ty float64) {
	if ty != 0 {
		w.moveTo(w.y + ty)
		return
	}
	if tx != 0 {
		w.pendingSpace = true
	}
}

func (w *textWriter) moveTo(y float64) {
	if math.Abs(y-w.y) > w.tolerance() {
		w.forceBreak = true
	} else {
		w.pendingSpace = true
	}
	w.y = y
}

func (w *textWriter) tolerance() float64 {
	return 0.5 * math.Max(w.fontSize, 1)
}

func (w *textWriter) showArray(arr pdf.Value) {
	for i := 0; i < arr.Len(); i++ {
		v := arr.Index(i)
		switch v.Kind() {
		case pdf.String:
			w.show(v)
		case pdf.Integer, pdf.Real:
			if -v.Float64() >= kerningSpace {
				w.pendingSpace = true
			}
		}
	}
}

func (w *textWriter) show(v pdf.Value) {
	s := v.RawString()
	if w.enc != nil {
		s = w.enc.Decode(s)
	}
	if s == "" {
		return
	}

	if w.line.Len() > 0 {
		switch {
		case w.forceBreak || math.Abs(w.y-w.lineY) > w.tolerance():
			w.flush()
		case w.pendingSpace && !strings.HasSuffix(w.line.String(), " ") && !strings.HasPrefix(s, " "):
			w.line.WriteByte(' ')
		}
	}
	if w.line.Len() == 0 {
		w.lineY = w.y
	}
	w.line.WriteString(s)
	w.forceBreak = false
	w.pendingSpace = false
}

func (w *textWriter) flush() {
	if l := strings.Join(strings.Fields(w.line.String()), " "); l != "" {
		w.lines = append(w.lines, l)
	}
	w.line.Reset()
}

func (w *textWriter) text() string {
	w.flush()
	return strings.Join(w.lines, "\n")
}
