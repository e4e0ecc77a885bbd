// Package testutil provides testing utilities for tabula
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/ajitpratap0/tabula/pkg/compression"
)

// TestLogger creates a test logger that writes to the test output.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// TestContext creates a test context with a 30-second timeout.
// The caller must call the returned cancel function to avoid leaks.
func TestContext(_ *testing.T) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// WriteTemp writes content to name inside a fresh temp directory and returns
// the path. Names ending in a compression extension are compressed.
func WriteTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	WriteFile(t, path, content)
	return path
}

// WriteFile writes content to path, compressing it when the extension names
// a codec.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()

	f, err := os.Create(path) //nolint:gosec // G304: test path
	require.NoError(t, err)
	defer f.Close()

	w, err := compression.NewWriter(f, compression.Detect(path), compression.Default)
	require.NoError(t, err)
	_, err = w.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

// FileSuite is a testify suite that owns a temp directory for fixtures
type FileSuite struct {
	suite.Suite
	ctx     context.Context
	cancel  context.CancelFunc
	tempDir string
}

// SetupSuite runs before all tests in the suite
func (s *FileSuite) SetupSuite() {
	s.ctx, s.cancel = context.WithTimeout(context.Background(), 5*time.Minute)

	tempDir, err := os.MkdirTemp("", "tabula-test-*")
	require.NoError(s.T(), err)
	s.tempDir = tempDir
}

// TearDownSuite runs after all tests in the suite
func (s *FileSuite) TearDownSuite() {
	s.cancel()
	if s.tempDir != "" {
		_ = os.RemoveAll(s.tempDir)
	}
}

// Context returns the suite context
func (s *FileSuite) Context() context.Context {
	return s.ctx
}

// TempDir returns the temporary directory path
func (s *FileSuite) TempDir() string {
	return s.tempDir
}

// CreateFile writes a fixture into the suite directory
func (s *FileSuite) CreateFile(name, content string) string {
	path := filepath.Join(s.tempDir, name)
	WriteFile(s.T(), path, content)
	return path
}
