package orchestrator

import (
	"github.com/teranos/typomatic/errors"
	"github.com/teranos/typomatic/resolver"
)

// Selection is how the user picks what to generate: an explicit specifier
// list, or every package known to the host registry. The two are mutually
// exclusive.
type Selection struct {
	Specifiers []string
	All        bool
}

// Validate rejects conflicting modes and malformed specifiers. It runs before
// any resolution so that a bad invocation writes nothing.
func (s Selection) Validate() error {
	if s.All && len(s.Specifiers) > 0 {
		return errors.WithHint(errors.ErrConflictingSelection,
			"use --all to generate every package, or list packages with --serializers")
	}
	if err := resolver.ValidateSpecifiers(s.Specifiers); err != nil {
		return errors.WithHint(err, "specifiers look like 'billing', 'billing.InvoiceSerializer' or 'billing.serializers.internal'")
	}
	return nil
}

// Empty reports whether neither mode was requested.
func (s Selection) Empty() bool {
	return !s.All && len(s.Specifiers) == 0
}
