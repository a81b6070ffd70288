package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"travellink/internal/domain"
	"travellink/internal/domain/models"
	"travellink/internal/utils"
)

type FlowState string

const (
	StatePayment      FlowState = "payment"
	StateConfirmation FlowState = "confirmation"
)

type NotificationStatus string

const (
	NotificationPending NotificationStatus = "pending"
	NotificationSent    NotificationStatus = "sent"
	NotificationFailed  NotificationStatus = "failed"
	NotificationSkipped NotificationStatus = "skipped"
)

const defaultDuration = "5 Days / 4 Nights"

var defaultAgencyContact = models.ContactInfo{
	Phone:   "+91 8438327763",
	Email:   "info@mountainexplorers.com",
	Address: "123 Mall Road, Manali, Himachal Pradesh",
}

var defaultItinerary = []models.ItineraryDay{
	{Day: 1, Title: "Arrival in Manali", Description: "Arrive in Manali, check into hotel. Evening visit to Mall Road and local markets."},
	{Day: 2, Title: "Adventure Activities", Description: "Morning river rafting in Beas River. Afternoon paragliding session."},
	{Day: 3, Title: "Solang Valley Excursion", Description: "Full day trip to Solang Valley. Cable car ride and snow activities."},
	{Day: 4, Title: "Cultural Experience", Description: "Visit to Hadimba Temple and local villages. Cultural show in the evening."},
	{Day: 5, Title: "Departure", Description: "Morning at leisure for shopping. Check out and departure."},
}

// BuildConfirmation folds a request and its succeeded payment into a booking record.
// Every time-derived field comes from payment.Timestamp, so equal inputs give equal records.
// The booking id also carries the payment id's random tail: two payments stamped in the same
// millisecond share a confirmation number but never an id.
func BuildConfirmation(req models.BookingRequest, payment models.PaymentResult) models.BookingRecord {
	ts := payment.Timestamp
	millis := ts.UnixMilli()
	suffix := millis % 1_000_000
	if suffix < 0 {
		suffix = -suffix
	}
	id := "booking_" + strconv.FormatInt(millis, 10)
	if tail := paymentTail(payment.PaymentID); tail != "" {
		id += "_" + tail
	}

	days := req.Itinerary
	if len(days) == 0 {
		days = defaultItinerary
	}
	itinerary := make([]models.ItineraryDay, len(days))
	copy(itinerary, days)

	return models.BookingRecord{
		ID:                 id,
		ConfirmationNumber: fmt.Sprintf("TL%04d%06d", ts.Year(), suffix),
		PackageID:          req.PackageID,
		PackageTitle:       req.PackageTitle,
		AgencyName:         req.AgencyName,
		AgencyContact:      defaultAgencyContact,
		Customer: models.CustomerDetails{
			Name:  req.CustomerName,
			Email: req.CustomerEmail,
			Phone: req.CustomerPhone,
		},
		Travel: models.TravelDetails{
			Date:      req.TravelDate,
			Travelers: req.Travelers,
			Duration:  utils.Safe(req.DurationText, defaultDuration),
		},
		Payment: models.PaymentDetails{
			Amount:        payment.Amount,
			Currency:      payment.Currency,
			PaymentID:     payment.PaymentID,
			TransactionID: payment.TransactionID,
			Method:        payment.Method,
			Timestamp:     ts,
		},
		Charges:   ComputeCharges(req.BaseAmount()),
		Status:    models.BookingStatusConfirmed,
		Itinerary: itinerary,
	}
}

// paymentTail is the random part of pi_<millis>_<tail>, or "" for other formats.
func paymentTail(paymentID string) string {
	rest, ok := strings.CutPrefix(paymentID, "pi_")
	if !ok {
		return ""
	}
	_, tail, ok := strings.Cut(rest, "_")
	if !ok {
		return ""
	}
	return tail
}

// FlowDeps are the collaborators shared by every flow.
type FlowDeps struct {
	Gateway  PaymentGateway
	Store    BookingStore
	Notifier Notifier
	// NotifyTimeout bounds the background confirmation send. Zero means no bound.
	NotifyTimeout time.Duration
}

// BookingFlow drives one BookingRequest from Payment to Confirmation.
// At most one payment attempt runs at a time; once confirmed the flow is frozen.
type BookingFlow struct {
	id   string
	req  models.BookingRequest
	deps FlowDeps

	mu        sync.Mutex
	state     FlowState
	inFlight  bool
	attempts  int
	lastError string
	record    *models.BookingRecord
	notify    NotificationStatus
	notifyErr string
	notified  chan struct{}
	createdAt time.Time

	confirmedAt time.Time
	stored      bool
}

func NewBookingFlow(id string, req models.BookingRequest, deps FlowDeps) *BookingFlow {
	return &BookingFlow{
		id:        id,
		req:       req,
		deps:      deps,
		state:     StatePayment,
		notified:  make(chan struct{}),
		createdAt: time.Now().UTC(),
	}
}

func (f *BookingFlow) ID() string { return f.id }

// FlowSnapshot is a consistent read of a flow.
type FlowSnapshot struct {
	ID                string                `json:"id"`
	State             FlowState             `json:"state"`
	Request           models.BookingRequest `json:"request"`
	Charges           models.Charges        `json:"charges"`
	Attempts          int                   `json:"attempts"`
	InFlight          bool                  `json:"inFlight"`
	LastError         string                `json:"lastError,omitempty"`
	Record            *models.BookingRecord `json:"booking,omitempty"`
	Notification      NotificationStatus    `json:"notification,omitempty"`
	NotificationError string                `json:"notificationError,omitempty"`
	CreatedAt         time.Time             `json:"createdAt"`
}

func (f *BookingFlow) Snapshot() FlowSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := FlowSnapshot{
		ID:                f.id,
		State:             f.state,
		Request:           f.req,
		Charges:           ComputeCharges(f.req.BaseAmount()),
		Attempts:          f.attempts,
		InFlight:          f.inFlight,
		LastError:         f.lastError,
		Notification:      f.notify,
		NotificationError: f.notifyErr,
		CreatedAt:         f.createdAt,
	}
	if f.record != nil {
		rec := *f.record
		snap.Record = &rec
	}
	return snap
}

// Record returns the confirmed booking, or false while the flow is still in Payment.
func (f *BookingFlow) Record() (models.BookingRecord, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.record == nil {
		return models.BookingRecord{}, false
	}
	return *f.record, true
}

// Notified is closed once the confirmation send has finished, either way.
func (f *BookingFlow) Notified() <-chan struct{} { return f.notified }

// SubmitPayment runs one payment attempt for the flow's request.
// Validation and gateway failures leave the flow in Payment so the caller can retry.
func (f *BookingFlow) SubmitPayment(ctx context.Context, requestID string, card models.CardDetails) (models.BookingRecord, error) {
	f.mu.Lock()
	switch {
	case f.state == StateConfirmation:
		f.mu.Unlock()
		return models.BookingRecord{}, domain.ConflictError{Resource: "booking flow", Msg: "booking is already confirmed"}
	case f.inFlight:
		f.mu.Unlock()
		return models.BookingRecord{}, domain.ConflictError{Resource: "booking flow", Msg: "a payment attempt is already in progress"}
	}
	f.inFlight = true
	f.attempts++
	req := f.req
	f.mu.Unlock()

	payments := PaymentService{Gateway: f.deps.Gateway, RequestID: requestID}
	payment, err := payments.SubmitPayment(ctx, req.BaseAmount(), card)
	if err != nil {
		f.mu.Lock()
		f.inFlight = false
		f.lastError = err.Error()
		f.mu.Unlock()
		return models.BookingRecord{}, err
	}

	rec := BuildConfirmation(req, payment)
	stored := false
	if f.deps.Store != nil {
		// The charge already went through; a store failure must not lose the confirmation.
		if err := f.deps.Store.SaveBooking(ctx, rec); err != nil {
			utils.LogWarn(requestID, "booking", "confirm", "store booking "+rec.ID+": "+err.Error())
		} else {
			stored = true
		}
	}

	f.mu.Lock()
	f.stored = stored
	f.confirmedAt = time.Now().UTC()
	f.inFlight = false
	f.lastError = ""
	f.state = StateConfirmation
	f.record = &rec
	f.notify = NotificationPending
	f.mu.Unlock()

	utils.LogEvent(requestID, "booking", "confirm", "flow="+f.id+" confirmation="+rec.ConfirmationNumber)
	go f.sendConfirmation(requestID, rec)
	return rec, nil
}

// expired reports whether the flow can be dropped from memory at now.
// An attempt in flight or a pending notification always keeps the flow. A confirmed flow
// whose booking reached the store goes as soon as its notification settles; otherwise the
// flow lives for ttl after its last state change.
func (f *BookingFlow) expired(now time.Time, ttl time.Duration) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inFlight {
		return false
	}
	if f.state == StatePayment {
		return ttl > 0 && now.Sub(f.createdAt) >= ttl
	}
	select {
	case <-f.notified:
	default:
		return false
	}
	if f.stored {
		return true
	}
	return ttl > 0 && now.Sub(f.confirmedAt) >= ttl
}

func (f *BookingFlow) sendConfirmation(requestID string, rec models.BookingRecord) {
	defer close(f.notified)

	if f.deps.Notifier == nil {
		f.mu.Lock()
		f.notify = NotificationSkipped
		f.mu.Unlock()
		return
	}

	ctx := context.Background()
	if f.deps.NotifyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.deps.NotifyTimeout)
		defer cancel()
	}
	err := f.deps.Notifier.SendConfirmation(ctx, rec)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		if !domain.IsNotification(err) {
			err = domain.NotificationError{Recipient: rec.Customer.Email, Err: err}
		}
		f.notify = NotificationFailed
		f.notifyErr = err.Error()
		utils.LogWarn(requestID, "booking", "notify", "flow="+f.id+" "+err.Error())
		return
	}
	f.notify = NotificationSent
}
