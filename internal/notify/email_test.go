package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSendGridSenderRequiresAPIKey(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{APIKey: ""}, nil)
	assert.Nil(t, sender)
}

func TestStubEmailSender(t *testing.T) {
	sender := NewStubEmailSender(nil)
	err := sender.Send(context.Background(), EmailMessage{
		To:      "avery@example.com",
		Subject: "Booking confirmed",
		Body:    "hi",
	})
	assert.NoError(t, err)
}
