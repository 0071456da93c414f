package analytics

import (
	"context"
	"time"

	"github.com/buddyike18/project-dine-backend/internal/caching"
	"github.com/buddyike18/project-dine-backend/internal/common"
	"github.com/buddyike18/project-dine-backend/internal/repositories"
	"github.com/buddyike18/project-dine-backend/pkg/database"

	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
)

const maxReportRange = 366 * 24 * time.Hour

// SalesSummary aggregates the orders of a restaurant placed in [From, To).
type SalesSummary struct {
	RestaurantID int64            `json:"restaurant_id"`
	From         time.Time        `json:"from"`
	To           time.Time        `json:"to"`
	OrderCount   int64            `json:"order_count"`
	Revenue      float64          `json:"revenue"`
	ByStatus     map[string]int64 `json:"by_status"`
	GeneratedAt  time.Time        `json:"generated_at"`
}

// MethodBreakdown is one row of the payments report.
type MethodBreakdown struct {
	Method   string  `json:"method"`
	Payments int64   `json:"payments"`
	Amount   float64 `json:"amount"`
}

// PaymentsReport aggregates the payments of a restaurant made in [From, To).
type PaymentsReport struct {
	RestaurantID int64             `json:"restaurant_id"`
	From         time.Time         `json:"from"`
	To           time.Time         `json:"to"`
	Total        float64           `json:"total"`
	Methods      []MethodBreakdown `json:"methods"`
	GeneratedAt  time.Time         `json:"generated_at"`
}

// AnalyticsService computes restaurant reports and caches them until the next mutation.
type AnalyticsService struct {
	reports repositories.ReportRepository
	cache   caching.ReportCache
	ttl     time.Duration
	now     func() time.Time
}

func NewAnalyticsService(db database.DBTX, cache caching.ReportCache, ttl time.Duration) *AnalyticsService {
	if cache == nil {
		cache = caching.NoopReportCache{}
	}
	return &AnalyticsService{
		reports: repositories.NewReportRepo(db),
		cache:   cache,
		ttl:     ttl,
		now:     time.Now,
	}
}

func validateRange(restaurantID int64, from, to time.Time) error {
	if err := common.ValidatePositiveID(restaurantID, "restaurant_id"); err != nil {
		return err
	}
	if !from.Before(to) {
		return common.Validation("from", "from must be before to")
	}
	if to.Sub(from) > maxReportRange {
		return common.Validation("to", "report range cannot exceed 366 days")
	}
	return nil
}

func rangeParams(from, to time.Time) []string {
	return []string{from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339)}
}

// cached serves key from the cache, or computes it and stores the result.
// Cache failures only cost a recomputation.
func cached[T any](ctx context.Context, a *AnalyticsService, key string, compute func() (*T, error)) (*T, error) {
	var hit T
	ok, err := a.cache.Get(ctx, key, &hit)
	if err != nil {
		log.Warnf("report cache read %s: %v", key, err)
	} else if ok {
		return &hit, nil
	}

	result, err := compute()
	if err != nil {
		return nil, err
	}
	if err := a.cache.Set(ctx, key, result, a.ttl); err != nil {
		log.Warnf("report cache write %s: %v", key, err)
	}
	return result, nil
}

func (a *AnalyticsService) SalesSummary(ctx context.Context, restaurantID int64, from, to time.Time) (*SalesSummary, error) {
	if err := validateRange(restaurantID, from, to); err != nil {
		return nil, err
	}
	key := caching.ReportKey(restaurantID, "sales", rangeParams(from, to)...)
	return cached(ctx, a, key, func() (*SalesSummary, error) {
		totals, err := a.reports.OrderTotalsByStatus(ctx, restaurantID, from, to)
		if err != nil {
			return nil, common.Classify("sales_summary", "report", err)
		}
		summary := &SalesSummary{
			RestaurantID: restaurantID,
			From:         from,
			To:           to,
			ByStatus:     make(map[string]int64, len(totals)),
			GeneratedAt:  a.now().UTC(),
		}
		revenue := decimal.Zero
		for _, t := range totals {
			summary.OrderCount += t.Orders
			summary.ByStatus[t.Status] = t.Orders
			revenue = revenue.Add(decimal.NewFromFloat(t.Revenue))
		}
		summary.Revenue = revenue.Round(2).InexactFloat64()
		return summary, nil
	})
}

func (a *AnalyticsService) PaymentsByMethod(ctx context.Context, restaurantID int64, from, to time.Time) (*PaymentsReport, error) {
	if err := validateRange(restaurantID, from, to); err != nil {
		return nil, err
	}
	key := caching.ReportKey(restaurantID, "payments", rangeParams(from, to)...)
	return cached(ctx, a, key, func() (*PaymentsReport, error) {
		totals, err := a.reports.PaymentTotalsByMethod(ctx, restaurantID, from, to)
		if err != nil {
			return nil, common.Classify("payments_report", "report", err)
		}
		report := &PaymentsReport{
			RestaurantID: restaurantID,
			From:         from,
			To:           to,
			Methods:      make([]MethodBreakdown, 0, len(totals)),
			GeneratedAt:  a.now().UTC(),
		}
		total := decimal.Zero
		for _, t := range totals {
			report.Methods = append(report.Methods, MethodBreakdown{Method: t.Method, Payments: t.Payments, Amount: t.Amount})
			total = total.Add(decimal.NewFromFloat(t.Amount))
		}
		report.Total = total.Round(2).InexactFloat64()
		return report, nil
	})
}
