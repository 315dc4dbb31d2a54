// Package service runs long-lived subsystems (audio backend, sound session) in dependency order.
package service

import "context"

// Service defines the lifecycle interface for runtime subsystems
//
// Lifecycle:
//  1. Construction
//  2. Init(ctx) - acquire resources, may block on I/O (backend probing, bank fetch)
//  3. Start() - begin operation
//  4. [runtime operation]
//  5. Stop() - release resources; must be idempotent
type Service interface {
	// Name returns the unique identifier for this service
	Name() string

	// Dependencies returns names of services that must Init before this one
	Dependencies() []string

	Init(ctx context.Context) error
	Start() error
	Stop() error
}
