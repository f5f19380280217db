package services

import (
	"fmt"
	"log"
	"sync"
	"time"
)

const (
	rejectionWindow    = 10 * time.Minute
	rejectionThreshold = 5
	alertCooldown      = 1 * time.Hour
	maxAlerts          = 100
)

// SecurityMonitor counts verification rejections per IP and raises an alert
// when one address keeps failing. Alerts for the same IP are limited to one
// per hour.
type SecurityMonitor struct {
	mu         sync.Mutex
	rejections map[string][]time.Time // IP -> rejection timestamps
	alertedIPs map[string]time.Time   // IP -> last alert time
	alerts     []SecurityAlert        // newest first
	now        func() time.Time
}

// SecurityAlert represents a triggered security alert
type SecurityAlert struct {
	Timestamp time.Time
	IP        string
	Reason    string
	Level     string // "WARNING", "CRITICAL"
}

// NewSecurityMonitor returns an empty monitor
func NewSecurityMonitor() *SecurityMonitor {
	return &SecurityMonitor{
		rejections: make(map[string][]time.Time),
		alertedIPs: make(map[string]time.Time),
		now:        time.Now,
	}
}

// TrackRejection records a policy rejection for ip
func (m *SecurityMonitor) TrackRejection(ip, reason string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	windowStart := now.Add(-rejectionWindow)

	recent := []time.Time{}
	for _, t := range m.rejections[ip] {
		if t.After(windowStart) {
			recent = append(recent, t)
		}
	}
	recent = append(recent, now)
	m.rejections[ip] = recent

	if len(recent) >= rejectionThreshold {
		m.triggerAlertLocked(ip, fmt.Sprintf("Repeated verification rejections (last: %s)", reason))
	}
}

// triggerAlertLocked must be called with m.mu held
func (m *SecurityMonitor) triggerAlertLocked(ip, reason string) {
	now := m.now()
	if last, alerted := m.alertedIPs[ip]; alerted && now.Sub(last) < alertCooldown {
		return
	}
	m.alertedIPs[ip] = now

	alert := SecurityAlert{Timestamp: now, IP: ip, Reason: reason, Level: "CRITICAL"}
	m.alerts = append([]SecurityAlert{alert}, m.alerts...)
	if len(m.alerts) > maxAlerts {
		m.alerts = m.alerts[:maxAlerts]
	}

	log.Printf("[SECURITY ALERT] %s from IP: %s", reason, ip)
}

// RecentAlerts returns a copy of recent alerts, newest first
func (m *SecurityMonitor) RecentAlerts() []SecurityAlert {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	alertsCopy := make([]SecurityAlert, len(m.alerts))
	copy(alertsCopy, m.alerts)
	return alertsCopy
}

// Prune drops rejection history and alert cooldowns that have expired
func (m *SecurityMonitor) Prune() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for ip, times := range m.rejections {
		if len(times) == 0 || now.Sub(times[len(times)-1]) > rejectionWindow {
			delete(m.rejections, ip)
		}
	}
	for ip, last := range m.alertedIPs {
		if now.Sub(last) > alertCooldown {
			delete(m.alertedIPs, ip)
		}
	}
}
