package services

import (
	"context"
	"errors"
	"testing"

	"skyviewsurveys/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmailService struct {
	sent []*domain.AcknowledgementEmailData
	err  error
}

func (f *fakeEmailService) SendClientAcknowledgement(ctx context.Context, data *domain.AcknowledgementEmailData) error {
	f.sent = append(f.sent, data)
	return f.err
}

type fakeEmailLogRepo struct {
	sentIDs    []string
	failedIDs  []string
	lastReason string
	markErr    error
}

func (f *fakeEmailLogRepo) MarkSent(ctx context.Context, id string) error {
	f.sentIDs = append(f.sentIDs, id)
	return f.markErr
}

func (f *fakeEmailLogRepo) MarkFailed(ctx context.Context, id, reason string) error {
	f.failedIDs = append(f.failedIDs, id)
	f.lastReason = reason
	return f.markErr
}

func (f *fakeEmailLogRepo) ListByEnquiryID(ctx context.Context, enquiryID string) ([]*domain.EmailLogEntry, error) {
	return nil, nil
}

func ackDispatch() *domain.EmailDispatch {
	return &domain.EmailDispatch{
		EmailLogID:  "email-log-uuid-1",
		EnquiryID:   "enquiry-uuid-1",
		Recipient:   "j@example.com",
		Name:        "J. Doe",
		ServiceSlug: "drone-road-survey",
	}
}

func TestDispatcher_Dispatch_success(t *testing.T) {
	emails := &fakeEmailService{}
	logRepo := &fakeEmailLogRepo{}
	d := NewDispatcher(testLogger(), emails, logRepo)

	err := d.Dispatch(context.Background(), ackDispatch())
	require.NoError(t, err)

	require.Len(t, emails.sent, 1)
	assert.Equal(t, "j@example.com", emails.sent[0].Email)
	assert.Equal(t, "J. Doe", emails.sent[0].Name)
	assert.Equal(t, "drone road survey", emails.sent[0].ServiceName)
	assert.Equal(t, []string{"email-log-uuid-1"}, logRepo.sentIDs)
	assert.Empty(t, logRepo.failedIDs)
}

func TestDispatcher_Dispatch_send_failure_marks_failed(t *testing.T) {
	emails := &fakeEmailService{err: errors.New("ses refused connection")}
	logRepo := &fakeEmailLogRepo{}
	d := NewDispatcher(testLogger(), emails, logRepo)

	err := d.Dispatch(context.Background(), ackDispatch())
	require.Error(t, err)

	assert.Empty(t, logRepo.sentIDs)
	assert.Equal(t, []string{"email-log-uuid-1"}, logRepo.failedIDs)
	assert.Contains(t, logRepo.lastReason, "ses refused connection")
}

func TestDispatcher_Dispatch_mark_sent_failure_is_swallowed(t *testing.T) {
	// The email already went out; a bookkeeping failure must not surface as
	// a dispatch error.
	emails := &fakeEmailService{}
	logRepo := &fakeEmailLogRepo{markErr: errors.New("connection reset")}
	d := NewDispatcher(testLogger(), emails, logRepo)

	err := d.Dispatch(context.Background(), ackDispatch())
	require.NoError(t, err)
	require.Len(t, emails.sent, 1)
}
