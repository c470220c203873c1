package services

import (
	"fmt"

	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/certificate"
	"github.com/sideshow/apns2/payload"
)

// PushSender delivers notifications to iOS devices over APNs. It is
// optional; a nil *PushSender disables push delivery.
type PushSender struct {
	client *apns2.Client
	topic  string
}

// NewPushSender creates a push sender from a p12 certificate. An empty
// certPath returns nil, nil: push delivery stays disabled.
func NewPushSender(certPath, certPassword, topic string, production bool) (*PushSender, error) {
	if certPath == "" {
		return nil, nil
	}

	cert, err := certificate.FromP12File(certPath, certPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to load APNs certificate: %w", err)
	}

	client := apns2.NewClient(cert)
	if production {
		client = client.Production()
	} else {
		client = client.Development()
	}

	return &PushSender{client: client, topic: topic}, nil
}

// Send pushes an alert to a device token
func (p *PushSender) Send(deviceToken, message string) error {
	notification := &apns2.Notification{
		DeviceToken: deviceToken,
		Topic:       p.topic,
		Payload:     payload.NewPayload().Alert(message).Sound("default"),
	}

	res, err := p.client.Push(notification)
	if err != nil {
		return fmt.Errorf("failed to push notification: %w", err)
	}
	if !res.Sent() {
		return fmt.Errorf("push rejected: %s", res.Reason)
	}
	return nil
}
