package medications

import (
	"bytes"
	"context"
	"fmt"

	"github.com/emersion/go-ical"
	"github.com/teambition/rrule-go"

	"medication-reminders/internal/recurrence"
)

// ICalendar exporta el plan de tomas como VCALENDAR, para suscribirse desde
// cualquier cliente de calendario. Con rango de fechas se emite un VEVENT
// recurrente (RRULE FREQ=DAILY;UNTIL=...) por cada hora del día; con lista
// explícita de fechas, un VEVENT suelto por ocurrencia.
func (s *Service) ICalendar(ctx context.Context, id int64) ([]byte, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//medication-reminders//ES")

	now := s.now().UTC()
	summary := "Tomar " + m.Name
	desc := fmt.Sprintf("%s - %s", m.Kind, m.Dose)

	if m.SelectedDaysCSV != "" {
		for _, day := range m.Days() {
			for _, t := range m.Times() {
				ev := ical.NewEvent()
				ev.Props.SetText(ical.PropUID, fmt.Sprintf("med-%d-%d-%04d@medication-reminders", m.ID, day, int(t)))
				ev.Props.SetDateTime(ical.PropDateTimeStamp, now)
				ev.Props.SetDateTime(ical.PropDateTimeStart, recurrence.At(day, t, s.loc).UTC())
				ev.Props.SetText(ical.PropSummary, summary)
				ev.Props.SetText(ical.PropDescription, desc)
				cal.Children = append(cal.Children, ev.Component)
			}
		}
	} else {
		for _, t := range m.Times() {
			opt := rrule.ROption{
				Freq:  rrule.DAILY,
				Until: recurrence.At(m.EndDay, t, s.loc).UTC(),
			}

			ev := ical.NewEvent()
			ev.Props.SetText(ical.PropUID, fmt.Sprintf("med-%d-%04d@medication-reminders", m.ID, int(t)))
			ev.Props.SetDateTime(ical.PropDateTimeStamp, now)
			ev.Props.SetDateTime(ical.PropDateTimeStart, recurrence.At(m.StartDay, t, s.loc).UTC())
			ev.Props.SetText(ical.PropSummary, summary)
			ev.Props.SetText(ical.PropDescription, desc)
			ev.Props.Set(&ical.Prop{Name: ical.PropRecurrenceRule, Value: opt.RRuleString()})
			cal.Children = append(cal.Children, ev.Component)
		}
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
