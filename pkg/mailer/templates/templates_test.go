package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderNotification(t *testing.T) {
	data := NotificationData{
		Email:  "ana@example.com",
		Title:  "Time for Amoxicillin",
		Body:   "Take 1 capsule (08:00)",
		TimeAt: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
	}

	subject, text, html, err := Render(Notification, data)
	require.NoError(t, err)

	assert.Equal(t, "[Medicine Tracker] Time for Amoxicillin", subject)
	assert.Contains(t, text, "Take 1 capsule (08:00)")
	assert.Contains(t, text, "01 March 2026, 08:00 UTC")
	assert.Contains(t, html, "ana@example.com")
}

func TestRenderEscapesHTML(t *testing.T) {
	_, _, html, err := Render(Notification, NotificationData{AppName: "x", Title: "<b>bold</b>"})
	require.NoError(t, err)
	assert.NotContains(t, html, "<b>bold</b>")
	assert.Contains(t, html, "&lt;b&gt;bold&lt;/b&gt;")
}
