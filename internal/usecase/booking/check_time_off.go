package booking

import (
	"context"
	"strings"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/booking-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/booking-marketplace/internal/domain/timeoff"
	"github.com/BruksfildServices01/booking-marketplace/internal/httperr"
	"github.com/BruksfildServices01/booking-marketplace/internal/logging"
	"github.com/BruksfildServices01/booking-marketplace/internal/metrics"
	"github.com/BruksfildServices01/booking-marketplace/internal/timeutil"
)

// FailMode decides the answer when neither lookup path works.
type FailMode string

const (
	// FailOpen lets the request through.
	FailOpen FailMode = "open"
	// FailClosed treats the request as conflicting.
	FailClosed FailMode = "closed"
)

func ParseFailMode(s string) FailMode {
	if strings.EqualFold(strings.TrimSpace(s), string(FailClosed)) {
		return FailClosed
	}
	return FailOpen
}

type CheckTimeOff struct {
	store    domain.TimeOffStore
	failMode FailMode
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

func NewCheckTimeOff(
	store domain.TimeOffStore,
	failMode FailMode,
	m *metrics.Metrics,
	logger *zap.Logger,
) *CheckTimeOff {
	if failMode != FailClosed {
		failMode = FailOpen
	}
	if m == nil {
		m = metrics.Nop()
	}
	return &CheckTimeOff{
		store:    store,
		failMode: failMode,
		metrics:  m,
		logger:   logging.OrNop(logger),
	}
}

// Execute reports whether [start, start+duration) on date touches any
// blackout period. start is 24-hour "HH:MM".
func (uc *CheckTimeOff) Execute(
	ctx context.Context,
	date string,
	start string,
	durationMinutes int,
) (bool, error) {

	// ---- 1️⃣ input ----
	date, err := ParseDate(date)
	if err != nil {
		return false, err
	}

	startMin, err := timeutil.ParseClock(start)
	if err != nil || startMin >= timeutil.MinutesPerDay {
		return false, httperr.ErrBusiness("invalid_time")
	}
	if durationMinutes <= 0 {
		return false, httperr.ErrBusiness("invalid_duration")
	}

	endMin := startMin + durationMinutes
	if endMin > timeutil.MinutesPerDay {
		endMin = timeutil.MinutesPerDay
	}

	startClock := timeutil.FormatClock(startMin)
	endClock := timeutil.FormatClock(endMin)

	// ---- 2️⃣ server-side predicate ----
	conflict, err := uc.store.CheckTimeOffConflict(ctx, date, startClock, endClock)
	if err == nil {
		uc.record("preferred", conflict)
		return conflict, nil
	}

	uc.logger.Warn("time off predicate failed, scanning periods",
		zap.String("date", date),
		zap.String("start", startClock),
		zap.String("end", endClock),
		zap.Error(err),
	)

	// ---- 3️⃣ fallback scan ----
	periods, err := uc.store.TimeOffOverlapping(ctx, date)
	if err != nil {
		return uc.fail(date, err), nil
	}

	conflict, err = timeoff.Conflicts(periods, date, startMin, endMin)
	if err != nil {
		return uc.fail(date, err), nil
	}

	uc.record("fallback", conflict)
	return conflict, nil
}

func (uc *CheckTimeOff) fail(date string, err error) bool {
	blocked := uc.failMode == FailClosed

	uc.logger.Error("time off lookup failed, applying fail mode",
		zap.String("date", date),
		zap.String("fail_mode", string(uc.failMode)),
		zap.Bool("blocked", blocked),
		zap.Error(err),
	)
	uc.record("policy", blocked)
	return blocked
}

func (uc *CheckTimeOff) record(path string, conflict bool) {
	result := "clear"
	if conflict {
		result = "conflict"
	}
	uc.metrics.TimeOffChecks.WithLabelValues(path, result).Inc()
}
