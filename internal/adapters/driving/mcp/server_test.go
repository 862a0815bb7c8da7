package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil evidence service returns error", func(t *testing.T) {
		ports := &Ports{Icon: &mockIconService{}}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingEvidenceService)
	})

	t.Run("nil icon service returns error", func(t *testing.T) {
		ports := &Ports{Evidence: &mockEvidenceService{}}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingIconService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		ports := &Ports{
			Evidence: &mockEvidenceService{},
			Icon:     &mockIconService{},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("all ports is valid", func(t *testing.T) {
		ports := &Ports{
			Evidence: &mockEvidenceService{},
			Icon:     &mockIconService{},
		}
		assert.NoError(t, ports.Validate())
	})

	t.Run("empty ports is invalid", func(t *testing.T) {
		assert.Error(t, (&Ports{}).Validate())
	})
}
