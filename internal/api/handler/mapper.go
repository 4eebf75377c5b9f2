package handler

import (
	"github.com/K17UN3/shift-manage/internal/core/aggregate"
	"github.com/K17UN3/shift-manage/internal/core/domain"
	"github.com/K17UN3/shift-manage/internal/core/ports"
)

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		Admin:     u.Admin,
		CreatedAt: u.CreatedAt,
	}
}

func toShiftResponse(s domain.Shift) shiftResponse {
	return shiftResponse{
		ID:        s.ID,
		UserID:    s.UserID,
		Date:      domain.FormatDate(s.Date),
		Start:     s.Start.String(),
		End:       s.End.String(),
		Overnight: s.IsOvernight(),
		Hours:     s.DurationHours(),
	}
}

func toEntryResponse(e domain.ShiftEntry) shiftResponse {
	r := toShiftResponse(e.Shift)
	r.Username = e.Username
	r.Role = e.Role
	return r
}

func toEntryResponses(entries []domain.ShiftEntry) []shiftResponse {
	out := make([]shiftResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e))
	}
	return out
}

func toRosterEntries(entries []aggregate.RosterEntry) []rosterEntryResponse {
	out := make([]rosterEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, rosterEntryResponse{
			shiftResponse:   toEntryResponse(e.ShiftEntry),
			FromPreviousDay: e.FromPreviousDay,
		})
	}
	return out
}

func toHomeResponse(h *ports.HomeSummary) homeResponse {
	return homeResponse{
		Today:              domain.FormatDate(h.Today),
		PreviousMonthHours: h.PreviousMonthHours,
		CurrentMonthHours:  h.CurrentMonthHours,
		SubmissionDeadline: domain.FormatDate(h.SubmissionDeadline),
	}
}

func toRegisterFormResponse(f *ports.RegisterForm) registerFormResponse {
	return registerFormResponse{
		UserID:     f.UserID,
		Year:       f.Year,
		Month:      int(f.Month),
		TotalHours: f.TotalHours,
		Shifts:     toEntryResponses(f.Shifts),
	}
}

func toMonthResponse(m *ports.MonthView) monthResponse {
	weeks := make([][]calendarDayResponse, 0, len(m.Weeks))
	for _, week := range m.Weeks {
		row := make([]calendarDayResponse, 0, len(week))
		for _, d := range week {
			row = append(row, calendarDayResponse{
				Date:    domain.FormatDate(d.Date),
				InMonth: d.InMonth,
				Today:   d.Today,
				Entries: toEntryResponses(d.Entries),
			})
		}
		weeks = append(weeks, row)
	}

	totals := make([]userTotalResponse, 0, len(m.Totals))
	for _, t := range m.Totals {
		totals = append(totals, userTotalResponse(t))
	}

	return monthResponse{
		Year:         m.Year,
		Month:        int(m.Month),
		DisplayStart: domain.FormatDate(m.DisplayStart),
		DisplayEnd:   domain.FormatDate(m.DisplayEnd),
		Weeks:        weeks,
		Totals:       totals,
	}
}

func toDayResponse(d *ports.DayView) dayResponse {
	roster := make([]rosterRowResponse, 0, len(d.Roster))
	for _, row := range d.Roster {
		roster = append(roster, rosterRowResponse{
			User:    toUserResponse(row.User),
			Entries: toRosterEntries(row.Entries),
		})
	}
	return dayResponse{
		Date:    domain.FormatDate(d.Date),
		Entries: toRosterEntries(d.Entries),
		Roster:  roster,
	}
}

func toYearResponse(y *ports.YearView) yearResponse {
	months := make([]monthSummaryResponse, 0, len(y.Months))
	for _, m := range y.Months {
		months = append(months, monthSummaryResponse{
			Month:      int(m.Month),
			DaysWorked: m.DaysWorked,
			TotalHours: m.TotalHours,
		})
	}
	return yearResponse{
		UserID:     y.UserID,
		Year:       y.Year,
		Months:     months,
		TotalHours: y.TotalHours,
		DaysWorked: y.DaysWorked,
	}
}
