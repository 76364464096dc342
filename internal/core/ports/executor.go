// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.trai.ch/forge/internal/core/domain"
)

// Executor defines the interface for invoking tools.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the tool configuration's command for every target of the group, in order, from root.
	//
	// It stops at the first failing target and returns an error naming it.
	Execute(ctx context.Context, root string, group *domain.Group, stdout, stderr io.Writer) error
}
