// ABOUTME: Tests for identity context propagation
// ABOUTME: Covers WithIdentity/FromContext round-trips and MustFromContext panics

package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentityContext_RoundTrip(t *testing.T) {
	id := &Identity{Email: "a@x.com"}
	ctx := WithIdentity(context.Background(), id)

	got := FromContext(ctx)
	assert.Same(t, id, got)
}

func TestFromContext_Empty(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))
}

func TestMustFromContext_PanicsWhenAbsent(t *testing.T) {
	assert.Panics(t, func() {
		MustFromContext(context.Background())
	})
}
