package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedSessionGenerator_ReturnsSameToken(t *testing.T) {
	gen := NewFixedSessionGenerator("test-session-123")

	assert.Equal(t, "test-session-123", gen.Generate())
	assert.Equal(t, "test-session-123", gen.Generate())
}

func TestFixedSessionGenerator_EmptyTokenDefault(t *testing.T) {
	gen := NewFixedSessionGenerator("")

	assert.Equal(t, "test-session-default", gen.Generate())
}

func TestFixedSessionGenerator_ThreadSafe(t *testing.T) {
	gen := NewFixedSessionGenerator("thread-safe-token")

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				assert.Equal(t, "thread-safe-token", gen.Generate())
			}
			done <- true
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}
