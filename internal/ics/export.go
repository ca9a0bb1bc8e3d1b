// Package ics renders calendars as RFC 5545 documents.
package ics

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/agenda-app/server/internal/domain/calendars"
	"github.com/agenda-app/server/internal/domain/events"
)

const (
	ContentType = "text/calendar; charset=utf-8"
	productID   = "-//agenda-app//agenda server//EN"
)

// Export builds a VCALENDAR holding one VEVENT per event. UIDs are stable
// across exports so subscribing clients update rather than duplicate.
func Export(calendar calendars.Calendar, items []events.Event, host string, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(calendar.Title)
	cal.SetXWRTimezone("UTC")

	for _, item := range items {
		ev := cal.AddEvent(eventUID(item.ID, host))
		ev.SetDtStampTime(now.UTC())
		ev.SetCreatedTime(item.CreatedAt.UTC())
		ev.SetModifiedAt(item.UpdatedAt.UTC())
		ev.SetStartAt(item.StartDate.UTC())
		ev.SetEndAt(item.EndDate.UTC())
		ev.SetSummary(item.Title)
		if item.Description != "" {
			ev.SetDescription(item.Description)
		}
		if color := item.Color; color != "" {
			ev.SetColor(color)
		} else if calendar.Color != "" {
			ev.SetColor(calendar.Color)
		}
	}
	return cal.Serialize()
}

func eventUID(id int64, host string) string {
	if host == "" {
		host = "agenda.local"
	}
	return fmt.Sprintf("event-%d@%s", id, host)
}

// Filename is the attachment name offered for a calendar download.
func Filename(calendar calendars.Calendar) string {
	return fmt.Sprintf("calendar-%d.ics", calendar.ID)
}
