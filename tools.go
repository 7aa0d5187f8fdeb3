//go:build tools

package tools

// Mocks are generated by the mockery binary from .mockery.yaml rather than
// through a blank import here. Run: mockery (from the repository root) to
// regenerate pkg/poweroff/mocks.
