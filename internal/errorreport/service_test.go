package errorreport

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stanstork/timeline-notify/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu      sync.Mutex
	reports []models.ErrorReport
	err     error
}

func (n *recordingNotifier) Notify(_ context.Context, report models.ErrorReport) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reports = append(n.reports, report)
	return n.err
}

func (n *recordingNotifier) received() []models.ErrorReport {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.ErrorReport(nil), n.reports...)
}

type panickingNotifier struct{}

func (panickingNotifier) Notify(context.Context, models.ErrorReport) error {
	panic("boom")
}

func TestServiceReportFansOut(t *testing.T) {
	first := &recordingNotifier{}
	second := &recordingNotifier{}
	svc := NewService(zerolog.Nop(), 0, first, nil, second)

	kind := models.PluginNotification
	svc.Report(errors.New("insert failed"), &kind, "https://errors.example.com/hook")
	svc.Wait()

	for _, n := range []*recordingNotifier{first, second} {
		got := n.received()
		require.Len(t, got, 1)
		assert.Equal(t, "insert failed", got[0].Message)
		assert.Equal(t, "https://errors.example.com/hook", got[0].Destination)
		require.NotNil(t, got[0].Plugin)
		assert.Equal(t, models.PluginNotification, *got[0].Plugin)
		assert.NotEmpty(t, got[0].ID)
	}
	assert.Equal(t, first.received()[0].ID, second.received()[0].ID)
}

func TestServiceReportIgnoresNilError(t *testing.T) {
	n := &recordingNotifier{}
	svc := NewService(zerolog.Nop(), 0, n)

	svc.Report(nil, nil, "")
	svc.Wait()

	assert.Empty(t, n.received())
}

func TestServiceNotifierFailuresAreContained(t *testing.T) {
	var buf bytes.Buffer
	failing := &recordingNotifier{err: errors.New("smtp down")}
	after := &recordingNotifier{}
	svc := NewService(zerolog.New(&buf), 0, panickingNotifier{}, failing, after)

	assert.NotPanics(t, func() {
		svc.Report(errors.New("insert failed"), nil, "")
		svc.Wait()
	})

	assert.Contains(t, buf.String(), "error reporter panicked")
	assert.Empty(t, after.received(), "a panic stops the remaining notifiers for that report")

	buf.Reset()
	svc = NewService(zerolog.New(&buf), 0, failing, after)
	svc.Report(errors.New("insert failed"), nil, "")
	svc.Wait()

	assert.Contains(t, buf.String(), "failed to deliver error report")
	assert.Len(t, after.received(), 1)
}
