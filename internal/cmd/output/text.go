package output

import (
	"io"
)

var _ Handler[any] = (*TextHandler[any])(nil)

// TextHandler renders items through a Printer.
type TextHandler[T any] struct {
	out     io.Writer
	printer Printer[T]
}

// NewTextHandler constructs a TextHandler writing to w with the given Printer.
func NewTextHandler[T any](w io.Writer, p Printer[T]) *TextHandler[T] {
	return &TextHandler[T]{
		out:     w,
		printer: p,
	}
}

// Writer returns the underlying io.Writer where text will be written.
func (h *TextHandler[T]) Writer() io.Writer {
	return h.out
}

// HandleResult prints a single item with its header and footer.
func (h *TextHandler[T]) HandleResult(item T) error {
	return h.HandleResults(item)
}

// HandleResults prints the header, each item, then the footer.
func (h *TextHandler[T]) HandleResults(items ...T) error {
	if len(items) == 0 {
		_, _ = io.WriteString(h.out, "No items found\n")
		return nil
	}

	h.printer.Header(h.out, len(items))

	for _, it := range items {
		if err := h.printer.Item(h.out, it); err != nil {
			return err
		}
	}

	h.printer.Footer(h.out, len(items))

	return nil
}

// HandleError returns the error unchanged so the command reports it through cobra.
func (h *TextHandler[T]) HandleError(err error) error {
	return err
}
