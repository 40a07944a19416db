// Package sanitizer normalizes customer-supplied booking form data
// before validation and storage.
//
// All normalization functions are idempotent - applying them multiple
// times produces the same result. Invalid input degrades to empty
// strings or empty slices rather than errors.
package sanitizer

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}
