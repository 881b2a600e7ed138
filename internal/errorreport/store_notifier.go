package errorreport

import (
	"context"

	"github.com/stanstork/timeline-notify/internal/models"
	"github.com/stanstork/timeline-notify/internal/repository"
)

// StoreNotifier persists reports so they can be listed later.
type StoreNotifier struct {
	repo repository.ErrorReportRepository
}

func NewStoreNotifier(repo repository.ErrorReportRepository) *StoreNotifier {
	return &StoreNotifier{repo: repo}
}

func (n *StoreNotifier) Notify(ctx context.Context, report models.ErrorReport) error {
	_, err := n.repo.Create(ctx, repository.CreateErrorReportParams{
		ID:          report.ID,
		Plugin:      report.Plugin,
		Message:     report.Message,
		Destination: report.Destination,
	})
	return err
}

func (n *StoreNotifier) String() string {
	return "StoreNotifier"
}
