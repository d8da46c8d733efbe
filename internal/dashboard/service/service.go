// Package service derives dashboard metrics from raw counters, including
// trailing-window growth against the preceding window.
package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"moveops_backend/internal/dashboard/repository"
	"moveops_backend/platform/logger"
)

type Service struct {
	repo repository.Repository
	log  *logger.Logger
	now  func() time.Time
}

func NewService(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

// Metrics is the dashboard payload: totals plus growth of the trailing
// 30 days against the 30 days before.
type Metrics struct {
	TotalLeads        int64   `json:"totalLeads"`
	ConfirmedBookings int64   `json:"confirmedBookings"`
	Revenue           int64   `json:"revenue"`
	ConversionRate    float64 `json:"conversionRate"`

	LeadsChangePct      float64 `json:"leadsChangePct"`
	BookingsChangePct   float64 `json:"bookingsChangePct"`
	RevenueChangePct    float64 `json:"revenueChangePct"`
	ConversionChangePts float64 `json:"conversionChangePts"`
}

// Snapshot computes the merchant's dashboard metrics.
func (s *Service) Snapshot(ctx context.Context, merchantID uuid.UUID) (Metrics, error) {
	stats, err := s.repo.Snapshot(ctx, merchantID, s.now())
	if err != nil {
		return Metrics{}, err
	}
	return computeMetrics(stats), nil
}

func computeMetrics(stats repository.Stats) Metrics {
	m := Metrics{
		TotalLeads:        stats.TotalLeads,
		ConfirmedBookings: stats.ConfirmedBookings,
		Revenue:           stats.Revenue,
		ConversionRate:    conversionRate(stats.ConfirmedBookings, stats.TotalLeads),

		LeadsChangePct:    pctChange(stats.LeadsPrev, stats.LeadsCurr),
		BookingsChangePct: pctChange(stats.ConfirmedPrev, stats.ConfirmedCurr),
		RevenueChangePct:  pctChange(stats.RevenuePrev, stats.RevenueCurr),
	}

	// Conversion moves in points, not percent of percent. The delta uses
	// the unrounded rates so a small shift is not lost to the headline
	// rounding.
	currRate := rawConversionRate(stats.ConfirmedCurr, stats.LeadsCurr)
	prevRate := rawConversionRate(stats.ConfirmedPrev, stats.LeadsPrev)
	m.ConversionChangePts = round1(currRate - prevRate)

	return m
}

// conversionRate is confirmed bookings as a percentage of leads, rounded to
// a whole percent for the headline figure.
func conversionRate(confirmed, leads int64) float64 {
	return math.Round(rawConversionRate(confirmed, leads))
}

func rawConversionRate(confirmed, leads int64) float64 {
	if leads == 0 {
		return 0
	}
	return float64(confirmed) / float64(leads) * 100
}

// pctChange is period-over-period growth. A period starting from nothing is
// reported as +100% rather than infinity; two empty periods are flat.
func pctChange(prev, curr int64) float64 {
	if prev == 0 {
		if curr > 0 {
			return 100
		}
		return 0
	}
	return round1(float64(curr-prev) / float64(prev) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
