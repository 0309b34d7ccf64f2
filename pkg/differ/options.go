package differ

// Option configures a Differ.
type Option func(*differ)

// WithIgnoredFields skips the named fields during comparison.
func WithIgnoredFields(fields ...string) Option {
	return func(d *differ) {
		for _, field := range fields {
			d.ignoreFields[field] = true
		}
	}
}

// WithTruncate sets how many characters of a changed value are kept. 0 keeps all.
func WithTruncate(n int) Option {
	return func(d *differ) {
		d.truncateAt = n
	}
}
