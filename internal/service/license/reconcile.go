package license

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/torqsight/maintenance-backend-go/internal/domain/company"
	"github.com/torqsight/maintenance-backend-go/internal/pkg/billing"
	"github.com/torqsight/maintenance-backend-go/internal/pkg/cron"
)

const reconcileConcurrency = 8

// Reconciler folds provider-side subscription changes back into the companies
// table on a schedule. Seat enforcement stays real-time against the stored
// numbers; only the stored numbers themselves move in batch.
type Reconciler struct {
	companyRepo company.CompanyRepository
	provider    billing.StatusProvider
}

func NewReconciler(companyRepo company.CompanyRepository, provider billing.StatusProvider) *Reconciler {
	return &Reconciler{
		companyRepo: companyRepo,
		provider:    provider,
	}
}

// RegisterJobs attaches the reconciliation job to the scheduler.
func (r *Reconciler) RegisterJobs(scheduler *cron.Scheduler) {
	scheduler.AddJob("subscription-reconcile", 1*time.Hour, r.Run)
}

// Run reconciles every company with a provider subscription. One company's
// provider failure is logged and skipped rather than aborting the sweep.
func (r *Reconciler) Run(ctx context.Context) error {
	companies, err := r.companyRepo.ListBillable(ctx)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(reconcileConcurrency)

	for _, c := range companies {
		g.Go(func() error {
			if err := r.reconcileOne(ctx, c); err != nil {
				slog.Error("subscription reconcile failed",
					"company_id", c.ID,
					"error", err,
				)
			}
			return nil
		})
	}
	return g.Wait()
}

func (r *Reconciler) reconcileOne(ctx context.Context, c company.Company) error {
	st, err := r.provider.SubscriptionStatus(ctx, *c.BillingSubscriptionID)
	if err != nil {
		return err
	}

	managerSeats, techSeats := st.SeatsManager, st.SeatsTech
	switch st.Status {
	case company.StatusActive, company.StatusTrialing, company.StatusPastDue:
		// Provider-backed seats stand as reported.
	default:
		// Lapsed: zero the purchased seats so future admissions are refused.
		// Existing members keep their seats until explicitly released.
		managerSeats, techSeats = 0, 0
	}

	if st.Status == c.SubscriptionStatus &&
		managerSeats == c.PurchasedManagerSeats &&
		techSeats == c.PurchasedTechSeats {
		return nil
	}

	slog.Info("subscription changed",
		"company_id", c.ID,
		"status", st.Status,
		"manager_seats", managerSeats,
		"tech_seats", techSeats,
	)
	return r.companyRepo.SetSubscription(ctx, c.ID, st.Status, managerSeats, techSeats)
}
