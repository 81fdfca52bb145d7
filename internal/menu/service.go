// Package menu implements the menu inheritance and override resolution core:
// tenant resolution, the effective-menu merge, the override writer, and
// template propagation for new tenants.
package menu

import (
	"pizzeria-service/internal/store"

	"go.uber.org/zap"
)

// Service exposes the resolver operations over a document store.
type Service struct {
	store    store.Store
	resolver *Resolver
	log      *zap.Logger
}

// NewService wires the resolver core. The logger must not be nil.
func NewService(st store.Store, resolver *Resolver, log *zap.Logger) *Service {
	return &Service{store: st, resolver: resolver, log: log}
}

// Resolver returns the tenant resolver the service was built with.
func (s *Service) Resolver() *Resolver {
	return s.resolver
}
