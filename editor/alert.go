package editor

import "time"

type (
	// Alert is a transient message to the user: import errors, encode
	// failures, playback trouble. Alerts with the same name replace each
	// other, so a repeating source (e.g. progress) shows only its latest
	// message.
	Alert struct {
		Name     string
		Priority AlertPriority
		Message  string
		Duration time.Duration
	}

	AlertPriority int

	// Alerts is a Model view for adding and iterating alerts.
	Alerts Model

	AlertYieldFunc func(index int, alert Alert) bool
)

const (
	None AlertPriority = iota
	Info
	Warning
	Error
)

const defaultAlertDuration = 3 * time.Second

func (m *Model) Alerts() *Alerts { return (*Alerts)(m) }

func (m *Alerts) Add(message string, priority AlertPriority) {
	m.AddNamed("", message, priority)
}

func (m *Alerts) AddAlert(a Alert) {
	if a.Duration == 0 {
		a.Duration = defaultAlertDuration
	}
	if a.Name != "" {
		for i := range m.alerts {
			if m.alerts[i].Name == a.Name {
				m.alerts[i] = a
				return
			}
		}
	}
	m.alerts = append(m.alerts, a)
}

func (m *Alerts) AddNamed(name, message string, priority AlertPriority) {
	m.AddAlert(Alert{
		Name:     name,
		Priority: priority,
		Message:  message,
		Duration: defaultAlertDuration,
	})
}

func (m *Alerts) Count() int { return len(m.alerts) }

func (m *Alerts) Iterate(yield AlertYieldFunc) {
	for i, a := range m.alerts {
		if !yield(i, a) {
			break
		}
	}
}

// TickAlerts advances the alert timers by d, dropping the alerts whose time is
// up. The event loop calls this once per frame.
func (m *Alerts) TickAlerts(d time.Duration) {
	for i := len(m.alerts) - 1; i >= 0; i-- {
		m.alerts[i].Duration -= d
		if m.alerts[i].Duration <= 0 {
			m.alerts = append(m.alerts[:i], m.alerts[i+1:]...)
		}
	}
}
