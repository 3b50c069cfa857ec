package dashboard

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ridi/hms/internal/domain/appointment"
	"github.com/ridi/hms/internal/domain/billing"
	"github.com/ridi/hms/internal/platform/auth"
)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Summarize gathers the dashboard figures concurrently. Month-to-date
// revenue is queried only when the principal may view revenue.
func (s *Service) Summarize(ctx context.Context, p auth.Principal, now time.Time) (*Summary, error) {
	if err := p.Can(auth.ActionRead).Err(); err != nil {
		return nil, err
	}
	showRevenue := p.Can(auth.ActionViewRevenue).Allowed

	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	monthStart := time.Date(y, m, 1, 0, 0, 0, 0, now.Location())

	var (
		sum      Summary
		revenue  float64
		appts    []*appointment.Appointment
		payments []*billing.Payment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		sum.TotalPatients, err = s.store.CountPatients(gctx)
		return err
	})
	g.Go(func() (err error) {
		sum.TotalDoctors, err = s.store.CountDoctors(gctx)
		return err
	})
	g.Go(func() (err error) {
		sum.TodayAppointments, err = s.store.CountAppointmentsOn(gctx, today)
		return err
	})
	if showRevenue {
		g.Go(func() (err error) {
			revenue, err = s.store.CompletedRevenueSince(gctx, monthStart)
			return err
		})
	}
	g.Go(func() (err error) {
		appts, err = s.store.RecentAppointments(gctx, FeedSize)
		return err
	})
	g.Go(func() (err error) {
		payments, err = s.store.RecentPayments(gctx, FeedSize)
		return err
	})
	g.Go(func() (err error) {
		sum.Upcoming, err = s.store.UpcomingAppointments(gctx, today, FeedSize)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if showRevenue {
		sum.Revenue = &revenue
	} else {
		sum.RevenueLocked = true
	}
	sum.RecentActivity = MergeActivity(appts, payments, FeedSize)
	if sum.Upcoming == nil {
		sum.Upcoming = []*appointment.Appointment{}
	}
	sum.GeneratedAt = now
	return &sum, nil
}

// MergeActivity tags appointments and payments, concatenates them with
// appointments first, sorts by date descending and keeps the first limit.
// Equal dates keep concatenation order.
func MergeActivity(appts []*appointment.Appointment, payments []*billing.Payment, limit int) []Activity {
	feed := make([]Activity, 0, len(appts)+len(payments))
	for _, a := range appts {
		feed = append(feed, Activity{Kind: KindAppointment, Date: a.Date.Time, Appointment: a})
	}
	for _, p := range payments {
		feed = append(feed, Activity{Kind: KindPayment, Date: p.PaymentDate.Time, Payment: p})
	}
	sort.SliceStable(feed, func(i, j int) bool { return feed[i].Date.After(feed[j].Date) })
	if len(feed) > limit {
		feed = feed[:limit]
	}
	return feed
}
