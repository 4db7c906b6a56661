package mailer

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSendRejectsBadInput(t *testing.T) {
	m := NewSMTP(Config{}, zerolog.Nop())

	err := m.Send(context.Background(), "  ", "subject", "<p>hi</p>", "hi")
	assert.EqualError(t, err, "no recipient")

	err = m.Send(context.Background(), "alice@example.com", "subject", "<p>hi</p>", "hi")
	assert.EqualError(t, err, "smtp not configured")
}
