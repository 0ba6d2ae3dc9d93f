package nats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublisherWithoutServer(t *testing.T) {
	pub, err := NewPublisher("nats://127.0.0.1:1")

	require.Error(t, err)
	assert.Nil(t, pub)
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "assets.asset_created", Subject("ASSET_CREATED"))
	assert.Equal(t, "assets.category_deleted", Subject("CATEGORY_DELETED"))
}
