package chart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"ledger_dashboard/internal/app"

	"github.com/rs/zerolog/log"
)

const (
	DefaultMonth = 4
	// SupportedYear is the only year the backend keeps server balance history for
	SupportedYear = 2022
)

var (
	ErrInvalidMonth    = errors.New("month must be between 1 and 12")
	ErrUnsupportedYear = fmt.Errorf("only %d is supported", SupportedYear)
)

// BalanceSource fetches the flat server balance series for a month
type BalanceSource interface {
	GetServerBalance(ctx context.Context, month int) ([]float64, error)
}

// Status of the most recent chart search
type Status int

const (
	StatusIdle Status = iota
	StatusLoaded
	StatusEmpty
	StatusFailed
)

// Controller holds the month/year selection for the server balance chart.
// A changed selection takes effect on the next Search.
type Controller struct {
	mu      sync.Mutex
	source  BalanceSource
	month   int
	year    int
	status  Status
	samples []app.ServerSample
}

// NewController requires the server-chart capability
func NewController(session app.Session, source BalanceSource) (*Controller, error) {
	if !session.CanViewServerChart() {
		return nil, fmt.Errorf("server chart: %w", app.ErrUnauthorized)
	}
	return &Controller{
		source: source,
		month:  DefaultMonth,
		year:   SupportedYear,
	}, nil
}

// SetMonth selects the month (1-12)
func (c *Controller) SetMonth(month int) error {
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	c.mu.Lock()
	c.month = month
	c.mu.Unlock()
	return nil
}

// SetYear selects the year; only SupportedYear is accepted
func (c *Controller) SetYear(year int) error {
	if year != SupportedYear {
		return ErrUnsupportedYear
	}
	c.mu.Lock()
	c.year = year
	c.mu.Unlock()
	return nil
}

// Month returns the selected month
func (c *Controller) Month() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.month
}

// Status returns the outcome of the last search
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Samples returns the samples of the last successful search
func (c *Controller) Samples() []app.ServerSample {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]app.ServerSample(nil), c.samples...)
}

// Search fetches and decimates the selected month
func (c *Controller) Search(ctx context.Context) ([]app.ServerSample, error) {
	month := c.Month()

	raw, err := c.source.GetServerBalance(ctx, month)
	if err != nil {
		c.mu.Lock()
		c.status = StatusFailed
		c.mu.Unlock()
		return nil, fmt.Errorf("failed to fetch server balance for month %d: %w", month, err)
	}

	samples := Decimate(raw)

	c.mu.Lock()
	c.samples = samples
	c.status = StatusLoaded
	if len(samples) == 0 {
		c.status = StatusEmpty
	}
	c.mu.Unlock()

	log.Info().
		Int("month", month).
		Int("raw_values", len(raw)).
		Int("samples", len(samples)).
		Msg("Loaded server balance chart")

	return append([]app.ServerSample(nil), samples...), nil
}
