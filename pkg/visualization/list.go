package visualization

import (
	"fmt"
	"io"
)

// List is a model for data.
type List struct {
	elements []string
	label    string
}

// NewList creates new model of data representation.
func NewList(elements []string, label string) *List {
	return &List{
		elements,
		label,
	}
}

// PrintList prints every element prefixed with the list label.
func PrintList(w io.Writer, list *List) error {
	for _, value := range list.elements {
		if _, err := fmt.Fprintln(w, list.label+value); err != nil {
			return err
		}
	}
	return nil
}
