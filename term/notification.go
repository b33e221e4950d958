package term

import "github.com/danielgatis/go-ansicode"

// NotificationPayload is one assembled OSC 9 / OSC 99 desktop notification.
// OSC 99 notifications can arrive in several chunks (title then body, or a
// long body split across writes); the decoder accumulates them and calls
// DesktopNotification once per logical notification, with Done set on the
// final chunk.
type NotificationPayload = ansicode.NotificationPayload

// DesktopNotification is the ansicode.Handler entry point for OSC 9 and
// OSC 99; the name is fixed by that interface, not chosen here.
func (t *Terminal) DesktopNotification(payload *NotificationPayload) {
	if t.middleware != nil && t.middleware.DesktopNotification != nil {
		t.middleware.DesktopNotification(payload, t.desktopNotificationInternal)
		return
	}
	t.desktopNotificationInternal(payload)
}

func (t *Terminal) desktopNotificationInternal(payload *NotificationPayload) {
	t.mu.RLock()
	provider := t.notificationProvider
	t.mu.RUnlock()

	if provider == nil {
		return
	}

	if response := provider.Notify(payload); response != "" {
		t.writeResponseString(response)
	}
}

// SetNotificationProvider replaces the notification provider at runtime.
func (t *Terminal) SetNotificationProvider(p NotificationProvider) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.notificationProvider = p
}

// NotificationProvider returns the current notification provider.
func (t *Terminal) NotificationProvider() NotificationProvider {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.notificationProvider
}
