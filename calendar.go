package trilium

import (
	"context"
	"net/http"
	"time"
)

// GetInboxNote returns the inbox note for the given date: either the note
// labeled #inbox, or that date's day note when no inbox label exists.
func (c *Client) GetInboxNote(ctx context.Context, date time.Time) (*Note, error) {
	return c.getCalendarNote(ctx, "/inbox/"+date.Format("2006-01-02"))
}

// GetDayNote returns the day note for the given date, creating it if
// missing.
func (c *Client) GetDayNote(ctx context.Context, date time.Time) (*Note, error) {
	return c.getCalendarNote(ctx, "/calendar/days/"+date.Format("2006-01-02"))
}

// GetWeekNote returns the week note containing the given date, creating it
// if missing. The server must have week notes enabled.
func (c *Client) GetWeekNote(ctx context.Context, date time.Time) (*Note, error) {
	return c.getCalendarNote(ctx, "/calendar/weeks/"+date.Format("2006-01-02"))
}

// GetMonthNote returns the month note for the given month, creating it if
// missing.
func (c *Client) GetMonthNote(ctx context.Context, month time.Time) (*Note, error) {
	return c.getCalendarNote(ctx, "/calendar/months/"+month.Format("2006-01"))
}

// GetYearNote returns the year note for the given year, creating it if
// missing.
func (c *Client) GetYearNote(ctx context.Context, year time.Time) (*Note, error) {
	return c.getCalendarNote(ctx, "/calendar/years/"+year.Format("2006"))
}

func (c *Client) getCalendarNote(ctx context.Context, path string) (*Note, error) {
	var result Note
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &result); err != nil {
		return nil, err
	}

	return &result, nil
}
