package domain

import (
	"sort"
	"strings"
	"time"
)

// AppointmentStatus mirrors the remote scheduling states.
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "SCHEDULED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
)

// Appointment is one agenda entry: a customer booked onto a service at
// a point in time.
type Appointment struct {
	ID           string            `json:"id"`
	Customer     string            `json:"customer"`
	ScheduleDate time.Time         `json:"schedule_date"`
	Status       AppointmentStatus `json:"status,omitempty"`
	Haircut      *Haircut          `json:"haircut"`
}

// PastDue reports whether the appointment's time has already passed.
func (a Appointment) PastDue(now time.Time) bool {
	return a.ScheduleDate.Before(now)
}

// AgendaWindow selects the period the agenda screen is filtered to.
type AgendaWindow string

const (
	AgendaWindowAll   AgendaWindow = "all"
	AgendaWindowToday AgendaWindow = "today"
	AgendaWindowWeek  AgendaWindow = "week"
)

// FilterAgenda narrows an appointment list to the given window and an
// optional case-insensitive search over customer and service names, then
// sorts chronologically. The input slice is not modified.
func FilterAgenda(list []Appointment, window AgendaWindow, search string, now time.Time) []Appointment {
	search = strings.ToLower(strings.TrimSpace(search))

	out := make([]Appointment, 0, len(list))
	for _, item := range list {
		if search != "" &&
			!strings.Contains(strings.ToLower(item.Customer), search) &&
			(item.Haircut == nil || !strings.Contains(strings.ToLower(item.Haircut.Name), search)) {
			continue
		}
		if !inWindow(item.ScheduleDate, window, now) {
			continue
		}
		out = append(out, item)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduleDate.Before(out[j].ScheduleDate)
	})
	return out
}

func inWindow(date time.Time, window AgendaWindow, now time.Time) bool {
	switch window {
	case AgendaWindowToday:
		y1, m1, d1 := date.In(now.Location()).Date()
		y2, m2, d2 := now.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	case AgendaWindowWeek:
		start := now.Truncate(24 * time.Hour)
		end := start.AddDate(0, 0, 7)
		return !date.Before(start) && date.Before(end)
	default:
		return true
	}
}
