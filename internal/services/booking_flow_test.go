package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"travellink/internal/domain"
	"travellink/internal/domain/models"
	"travellink/internal/repositories"

	"github.com/stretchr/testify/require"
)

var confirmationPattern = regexp.MustCompile(`^TL[0-9]{4}[0-9]{6}$`)

func sampleRequest() models.BookingRequest {
	return models.BookingRequest{
		PackageID:      "pkg_manali",
		PackageTitle:   "Manali Adventure",
		AgencyName:     "Mountain Explorers",
		PricePerPerson: 15999,
		Travelers:      1,
		TravelDate:     "2026-05-01",
		CustomerName:   "Asha Rao",
		CustomerEmail:  "asha@example.com",
		CustomerPhone:  "+91 9000000000",
	}
}

// blockingGateway holds every charge until release is closed.
type blockingGateway struct {
	entered chan struct{}
	release chan struct{}
}

func (g *blockingGateway) Charge(ctx context.Context, req ChargeRequest) (models.PaymentResult, error) {
	g.entered <- struct{}{}
	<-g.release
	return NewPaymentResult(req, time.Now()), nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (n *recordingNotifier) SendConfirmation(_ context.Context, rec models.BookingRecord) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, rec.ConfirmationNumber)
	return nil
}

func waitNotified(t *testing.T, f *BookingFlow) {
	t.Helper()
	select {
	case <-f.Notified():
	case <-time.After(2 * time.Second):
		t.Fatalf("confirmation notification did not finish")
	}
}

func TestBookingFlowEndToEnd(t *testing.T) {
	store := repositories.NewMemoryBookingStore()
	notifier := &recordingNotifier{}
	flow := NewBookingFlow("flow_1", sampleRequest(), FlowDeps{
		Gateway:  &countingGateway{},
		Store:    store,
		Notifier: notifier,
	})
	require.Equal(t, StatePayment, flow.Snapshot().State)

	rec, err := flow.SubmitPayment(context.Background(), "req-1", validCard())
	require.NoError(t, err)

	require.Equal(t, 15999.0, rec.Payment.Amount)
	require.Regexp(t, confirmationPattern, rec.ConfirmationNumber)
	require.True(t, len(rec.ConfirmationNumber) > 6 && rec.ConfirmationNumber[:6] == "TL"+strconv.Itoa(time.Now().Year()))
	require.Equal(t, models.BookingStatusConfirmed, rec.Status)
	require.Len(t, rec.Itinerary, 5)

	snap := flow.Snapshot()
	require.Equal(t, StateConfirmation, snap.State)
	require.NotNil(t, snap.Record)

	stored, err := store.GetBooking(context.Background(), rec.ID)
	require.NoError(t, err)
	require.Equal(t, rec.ConfirmationNumber, stored.ConfirmationNumber)

	waitNotified(t, flow)
	require.Equal(t, NotificationSent, flow.Snapshot().Notification)
	require.Equal(t, []string{rec.ConfirmationNumber}, notifier.sent)
}

func TestBookingFlowRetryAfterGatewayFailure(t *testing.T) {
	gw := &countingGateway{fail: true}
	flow := NewBookingFlow("flow_2", sampleRequest(), FlowDeps{Gateway: gw})

	_, err := flow.SubmitPayment(context.Background(), "", validCard())
	require.True(t, domain.IsGateway(err))
	snap := flow.Snapshot()
	require.Equal(t, StatePayment, snap.State)
	require.Nil(t, snap.Record)
	require.NotEmpty(t, snap.LastError)

	gw.fail = false
	rec, err := flow.SubmitPayment(context.Background(), "", validCard())
	require.NoError(t, err)
	require.NotEmpty(t, rec.ConfirmationNumber)
	require.Equal(t, 2, flow.Snapshot().Attempts)
	require.Empty(t, flow.Snapshot().LastError)
}

func TestBookingFlowInvalidCardStaysInPayment(t *testing.T) {
	gw := &countingGateway{}
	flow := NewBookingFlow("flow_3", sampleRequest(), FlowDeps{Gateway: gw})

	_, err := flow.SubmitPayment(context.Background(), "", models.CardDetails{Name: "A", Number: "123"})
	require.True(t, domain.IsValidation(err))
	require.Equal(t, StatePayment, flow.Snapshot().State)
	require.Zero(t, gw.calls.Load())
}

func TestBookingFlowRejectsConcurrentAttempt(t *testing.T) {
	gw := &blockingGateway{entered: make(chan struct{}), release: make(chan struct{})}
	flow := NewBookingFlow("flow_4", sampleRequest(), FlowDeps{Gateway: gw})

	done := make(chan error, 1)
	go func() {
		_, err := flow.SubmitPayment(context.Background(), "", validCard())
		done <- err
	}()
	<-gw.entered
	require.True(t, flow.Snapshot().InFlight)

	_, err := flow.SubmitPayment(context.Background(), "", validCard())
	require.True(t, domain.IsConflict(err), "second attempt must not race the first: %v", err)

	close(gw.release)
	require.NoError(t, <-done)

	_, err = flow.SubmitPayment(context.Background(), "", validCard())
	require.True(t, domain.IsConflict(err), "confirmed flow must not charge again")
}

func TestBookingFlowNotificationFailureKeepsConfirmation(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("smtp unreachable")}
	flow := NewBookingFlow("flow_5", sampleRequest(), FlowDeps{Gateway: &countingGateway{}, Notifier: notifier})

	rec, err := flow.SubmitPayment(context.Background(), "", validCard())
	require.NoError(t, err)
	waitNotified(t, flow)

	snap := flow.Snapshot()
	require.Equal(t, StateConfirmation, snap.State)
	require.Equal(t, NotificationFailed, snap.Notification)
	require.Contains(t, snap.NotificationError, "asha@example.com")
	got, ok := flow.Record()
	require.True(t, ok)
	require.Equal(t, rec, got)
}

type failingStore struct{}

func (failingStore) SaveBooking(context.Context, models.BookingRecord) error {
	return fmt.Errorf("disk full")
}

func (failingStore) GetBooking(context.Context, string) (models.BookingRecord, error) {
	return models.BookingRecord{}, domain.NotFoundError{Resource: "booking"}
}

func (failingStore) ListBookings(context.Context, models.BookingFilter) ([]models.BookingRecord, error) {
	return nil, nil
}

func (failingStore) UpdateBookingStatus(context.Context, string, string) (models.BookingRecord, error) {
	return models.BookingRecord{}, fmt.Errorf("disk full")
}

func TestBookingFlowStoreFailureKeepsConfirmation(t *testing.T) {
	flow := NewBookingFlow("flow_6", sampleRequest(), FlowDeps{Gateway: &countingGateway{}, Store: failingStore{}})
	_, err := flow.SubmitPayment(context.Background(), "", validCard())
	require.NoError(t, err)
	require.Equal(t, StateConfirmation, flow.Snapshot().State)
	waitNotified(t, flow)
	require.Equal(t, NotificationSkipped, flow.Snapshot().Notification)
}

func TestBuildConfirmationIsPure(t *testing.T) {
	req := sampleRequest()
	ts := time.Date(2026, 7, 14, 8, 30, 0, 123_000_000, time.UTC)
	payment := NewPaymentResult(ChargeRequest{Amount: req.BaseAmount()}, ts)

	a := BuildConfirmation(req, payment)
	time.Sleep(2 * time.Millisecond)
	b := BuildConfirmation(req, payment)
	require.Equal(t, a, b)

	millis := strconv.FormatInt(ts.UnixMilli(), 10)
	require.Equal(t, "TL2026"+millis[len(millis)-6:], a.ConfirmationNumber)
	require.Equal(t, "booking_"+strings.TrimPrefix(payment.PaymentID, "pi_"), a.ID)
	require.Equal(t, "5 Days / 4 Nights", a.Travel.Duration)
	require.Equal(t, ComputeCharges(15999), a.Charges)
}

// fixedClockGateway stamps every charge at the same instant.
type fixedClockGateway struct{ at time.Time }

func (g fixedClockGateway) Charge(_ context.Context, req ChargeRequest) (models.PaymentResult, error) {
	return NewPaymentResult(req, g.at), nil
}

func TestSameInstantPaymentsKeepSeparateBookings(t *testing.T) {
	store := repositories.NewMemoryBookingStore()
	deps := FlowDeps{
		Gateway: fixedClockGateway{at: time.Date(2026, 7, 14, 8, 30, 0, 123_000_000, time.UTC)},
		Store:   store,
	}

	first := sampleRequest()
	second := sampleRequest()
	second.CustomerName = "Ravi Kumar"
	second.CustomerEmail = "ravi@example.com"

	recA, err := NewBookingFlow("flow_a", first, deps).SubmitPayment(context.Background(), "", validCard())
	require.NoError(t, err)
	recB, err := NewBookingFlow("flow_b", second, deps).SubmitPayment(context.Background(), "", validCard())
	require.NoError(t, err)

	require.Equal(t, recA.ConfirmationNumber, recB.ConfirmationNumber)
	require.NotEqual(t, recA.ID, recB.ID)

	all, err := store.ListBookings(context.Background(), models.BookingFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	gotA, err := store.GetBooking(context.Background(), recA.ID)
	require.NoError(t, err)
	require.Equal(t, "asha@example.com", gotA.Customer.Email)
	gotB, err := store.GetBooking(context.Background(), recB.ID)
	require.NoError(t, err)
	require.Equal(t, "ravi@example.com", gotB.Customer.Email)
}

func TestBuildConfirmationUsesRequestItinerary(t *testing.T) {
	req := sampleRequest()
	req.Itinerary = []models.ItineraryDay{{Day: 1, Title: "Beach", Description: "Relax"}}
	rec := BuildConfirmation(req, NewPaymentResult(ChargeRequest{Amount: 1}, time.Now()))
	require.Equal(t, req.Itinerary, rec.Itinerary)

	rec.Itinerary[0].Title = "changed"
	require.Equal(t, "Beach", req.Itinerary[0].Title)

	def := BuildConfirmation(sampleRequest(), NewPaymentResult(ChargeRequest{Amount: 1}, time.Now()))
	def.Itinerary[0].Title = "changed"
	require.Equal(t, "Arrival in Manali", defaultItinerary[0].Title)
}

func TestFlowRegistry(t *testing.T) {
	reg := NewFlowRegistry(FlowDeps{Gateway: &countingGateway{}})

	f, err := reg.Start(models.BookingRequest{CustomerName: "Asha", CustomerEmail: "asha@example.com"})
	require.NoError(t, err)
	snap := f.Snapshot()
	require.Equal(t, DefaultPackageTitle, snap.Request.PackageTitle)
	require.Equal(t, DefaultAgencyName, snap.Request.AgencyName)
	require.Equal(t, 15999.0, snap.Request.PricePerPerson)
	require.Equal(t, 2, snap.Request.Travelers)
	require.Equal(t, ComputeCharges(31998), snap.Charges)

	got, err := reg.Get(f.ID())
	require.NoError(t, err)
	require.Same(t, f, got)

	_, err = reg.Get("flow_missing")
	require.True(t, domain.IsNotFound(err))

	_, err = reg.Start(models.BookingRequest{CustomerName: "Asha", CustomerEmail: "not-an-email"})
	var verr domain.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "customerEmail", verr.Field)
	require.Equal(t, 1, reg.Len())
}

func TestFlowRegistrySweepDropsSettledConfirmations(t *testing.T) {
	store := repositories.NewMemoryBookingStore()
	reg := NewFlowRegistry(FlowDeps{Gateway: &countingGateway{}, Store: store, Notifier: &recordingNotifier{}})

	paid, err := reg.Start(sampleRequest())
	require.NoError(t, err)
	unpaid, err := reg.Start(sampleRequest())
	require.NoError(t, err)

	rec, err := paid.SubmitPayment(context.Background(), "", validCard())
	require.NoError(t, err)
	waitNotified(t, paid)

	require.Equal(t, 1, reg.Sweep(time.Now()))
	require.Equal(t, 1, reg.Len())
	_, err = reg.Get(paid.ID())
	require.True(t, domain.IsNotFound(err))
	_, err = reg.Get(unpaid.ID())
	require.NoError(t, err)

	// the booking itself outlives the flow
	_, err = store.GetBooking(context.Background(), rec.ID)
	require.NoError(t, err)

	require.Equal(t, 1, reg.Sweep(time.Now().Add(DefaultFlowTTL)))
	require.Zero(t, reg.Len())
}

func TestFlowRegistrySweepKeepsUnstoredConfirmationUntilTTL(t *testing.T) {
	reg := NewFlowRegistry(FlowDeps{Gateway: &countingGateway{}, Store: failingStore{}})
	reg.TTL = time.Minute

	f, err := reg.Start(sampleRequest())
	require.NoError(t, err)
	_, err = f.SubmitPayment(context.Background(), "", validCard())
	require.NoError(t, err)
	waitNotified(t, f)

	require.Zero(t, reg.Sweep(time.Now()))
	require.Equal(t, 1, reg.Len())
	require.Equal(t, 1, reg.Sweep(time.Now().Add(2*time.Minute)))
	require.Zero(t, reg.Len())
}

func TestFlowRegistrySweepNeverDropsAttemptInFlight(t *testing.T) {
	gw := &blockingGateway{entered: make(chan struct{}), release: make(chan struct{})}
	reg := NewFlowRegistry(FlowDeps{Gateway: gw})
	reg.TTL = time.Minute

	f, err := reg.Start(sampleRequest())
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := f.SubmitPayment(context.Background(), "", validCard())
		done <- err
	}()
	<-gw.entered

	require.Zero(t, reg.Sweep(time.Now().Add(time.Hour)))
	require.Equal(t, 1, reg.Len())

	close(gw.release)
	require.NoError(t, <-done)
}

func TestFlowRegistryZeroTTLKeepsUnpaidFlows(t *testing.T) {
	reg := NewFlowRegistry(FlowDeps{Gateway: &countingGateway{}})
	reg.TTL = 0

	_, err := reg.Start(sampleRequest())
	require.NoError(t, err)
	require.Zero(t, reg.Sweep(time.Now().Add(24*time.Hour)))
	require.Equal(t, 1, reg.Len())
}

func TestFlowRegistryRunStopsWithContext(t *testing.T) {
	reg := NewFlowRegistry(FlowDeps{Gateway: &countingGateway{}})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		reg.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}
