package mock

import "github.com/fwojciec/docmirror"

var _ docmirror.Converter = (*Converter)(nil)

// Converter is a mock implementation of docmirror.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
