package lookout

import (
	"github.com/lookoutdb/lookout/query"
)

// ListBuilder accumulates the configuration of a ListQuery through a
// fluent setter chain and validates it in Build.
//
// The builder holds a single descriptor slot: WithQuery and WithRawQuery
// both assign it, so at most one descriptor is ever bound and the later
// call wins. A builder is intended for a single Build; it does not guard
// against reuse.
type ListBuilder[T any] struct {
	db         DB
	mapper     RowMapper[T]
	descriptor query.Descriptor
	resolver   Resolver
}

// NewList starts building a list query against db.
func NewList[T any](db DB) *ListBuilder[T] {
	return &ListBuilder[T]{db: db}
}

// WithMapper sets the row mapper. Required.
func (b *ListBuilder[T]) WithMapper(m RowMapper[T]) *ListBuilder[T] {
	b.mapper = m
	return b
}

// WithQuery binds a structured query descriptor, replacing any
// previously bound descriptor.
func (b *ListBuilder[T]) WithQuery(q query.Query) *ListBuilder[T] {
	b.descriptor = q
	return b
}

// WithRawQuery binds a raw query descriptor, replacing any previously
// bound descriptor.
func (b *ListBuilder[T]) WithRawQuery(rq query.RawQuery) *ListBuilder[T] {
	b.descriptor = rq
	return b
}

// WithResolver overrides the resolution strategy. Optional; Build
// substitutes DefaultResolver when unset.
func (b *ListBuilder[T]) WithResolver(r Resolver) *ListBuilder[T] {
	b.resolver = r
	return b
}

// Build validates the collected configuration and returns an immutable
// prepared query bound to exactly that configuration.
//
// It fails with a ConfigError when the db or mapper is missing, when no
// descriptor was bound, or when the bound descriptor violates its own
// invariants.
func (b *ListBuilder[T]) Build() (*ListQuery[T], error) {
	if b.db == nil {
		return nil, &ConfigError{Reason: "db is required"}
	}
	if b.mapper == nil {
		return nil, &ConfigError{Reason: "mapper is required"}
	}
	if b.descriptor == nil {
		return nil, &ConfigError{Reason: "query or raw query is required"}
	}
	if err := b.descriptor.Validate(); err != nil {
		return nil, &ConfigError{Reason: "invalid descriptor", Err: err}
	}

	resolver := b.resolver
	if resolver == nil {
		resolver = DefaultResolver()
	}

	return &ListQuery[T]{
		db:         b.db,
		mapper:     b.mapper,
		descriptor: b.descriptor,
		resolver:   resolver,
	}, nil
}
