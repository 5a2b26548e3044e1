package application

import "expvar"

// metrics is published under /api/debug/vars.
var metrics = expvar.NewMap("medicine_tracker")

const (
	metricRegistrations  = "registrations"
	metricLogins         = "logins"
	metricLoginFailures  = "login_failures"
	metricPasswordResets = "password_resets"
	metricTokensRevoked  = "tokens_revoked"
	metricDosesTaken     = "doses_taken"
	metricOwnershipDeny  = "ownership_denials"
	metricReminders      = "reminders_sent"
	metricExpiryAlerts   = "expiry_alerts_sent"
	metricPushFailures   = "push_failures"
)

func incr(name string) { metrics.Add(name, 1) }
