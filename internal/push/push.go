// Package push delivers notifications to a device token through a messaging provider.
package push

import (
	"context"
	"time"
)

const MessageTypeScheduled = "scheduled_notification"

type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type AndroidNotification struct {
	Icon  string `json:"icon,omitempty"`
	Color string `json:"color,omitempty"`
	Sound string `json:"sound,omitempty"`
}

type AndroidConfig struct {
	Notification AndroidNotification `json:"notification"`
}

type APS struct {
	Sound string `json:"sound,omitempty"`
	Badge int    `json:"badge,omitempty"`
}

type APNSConfig struct {
	Payload struct {
		APS APS `json:"aps"`
	} `json:"payload"`
}

type Message struct {
	Token        string            `json:"token"`
	Notification Notification      `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
	Android      *AndroidConfig    `json:"android,omitempty"`
	APNS         *APNSConfig       `json:"apns,omitempty"`
}

// NewMessage builds the message sent for a schedule, platform hints included.
func NewMessage(token, title, body, scheduleID string, now time.Time) *Message {
	apns := &APNSConfig{}
	apns.Payload.APS = APS{Sound: "default", Badge: 1}
	return &Message{
		Token:        token,
		Notification: Notification{Title: title, Body: body},
		Data: map[string]string{
			"type":       MessageTypeScheduled,
			"scheduleId": scheduleID,
			"timestamp":  now.UTC().Format(time.RFC3339Nano),
		},
		Android: &AndroidConfig{Notification: AndroidNotification{
			Icon:  "ic_notification",
			Color: "#FF6B35",
			Sound: "default",
		}},
		APNS: apns,
	}
}

// Provider sends a message and returns the provider-assigned message id.
type Provider interface {
	Send(ctx context.Context, msg *Message) (string, error)
}
