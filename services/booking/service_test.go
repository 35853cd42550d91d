package booking

import (
	"context"
	"errors"
	"sync"
	"testing"

	bookingRepo "fixly/database/repository/booking"
	providerRepo "fixly/database/repository/provider"
	userRepo "fixly/database/repository/user"
	"fixly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// ---- in-memory fakes ----

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
	setDocs  []bson.M

	// beforeUpdate, when set, runs once before the next write lands. Lets a
	// test interleave a competing update between check and write.
	beforeUpdate func()
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (r *fakeBookingRepo) GetByID(id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookingRepo) Create(b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *b
	r.bookings[b.ID] = &copied
	return nil
}

func (r *fakeBookingRepo) UpdateSetDocument(id string, setDoc bson.M, guard bson.M) error {
	if hook := r.takeHook(); hook != nil {
		hook()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return bookingRepo.ErrNotFound
	}
	if want, ok := guard["status"]; ok && b.Status != want.(models.BookingStatus) {
		return bookingRepo.ErrStale
	}
	if want, ok := guard["paymentStatus"]; ok && b.PaymentStatus != want.(models.PaymentStatus) {
		return bookingRepo.ErrStale
	}
	r.setDocs = append(r.setDocs, setDoc)
	if s, ok := setDoc["status"]; ok {
		b.Status = s.(models.BookingStatus)
	}
	if s, ok := setDoc["paymentStatus"]; ok {
		b.PaymentStatus = s.(models.PaymentStatus)
	}
	if n, ok := setDoc["notes"]; ok {
		b.Notes = n.(string)
	}
	return nil
}

func (r *fakeBookingRepo) takeHook() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	hook := r.beforeUpdate
	r.beforeUpdate = nil
	return hook
}

func (r *fakeBookingRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[id]; !ok {
		return bookingRepo.ErrNotFound
	}
	delete(r.bookings, id)
	return nil
}

func (r *fakeBookingRepo) ListByUser(userID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ListByProvider(providerID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ProviderID == providerID {
			out = append(out, *b)
		}
	}
	return out, nil
}

type fakeProviderRepo struct {
	mu        sync.Mutex
	providers map[string]*models.Provider
}

func newFakeProviderRepo(ps ...*models.Provider) *fakeProviderRepo {
	r := &fakeProviderRepo{providers: make(map[string]*models.Provider)}
	for _, p := range ps {
		r.providers[p.ID] = p
	}
	return r
}

func (r *fakeProviderRepo) GetByID(id string) (*models.Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.providers[id]
	if !ok {
		return nil, providerRepo.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProviderRepo) GetByEmail(email string) (*models.Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.providers {
		if p.Profile.Email == email {
			copied := *p
			return &copied, nil
		}
	}
	return nil, providerRepo.ErrNotFound
}

func (r *fakeProviderRepo) Create(p *models.Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *p
	r.providers[p.ID] = &copied
	return nil
}

func (r *fakeProviderRepo) UpdateSetDocument(id string, setDoc bson.M) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[id]; !ok {
		return providerRepo.ErrNotFound
	}
	return nil
}

func (r *fakeProviderRepo) UpdateRating(id string, averageRating float64, totalReviews int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.providers[id]
	if !ok {
		return providerRepo.ErrNotFound
	}
	p.AverageRating = averageRating
	p.TotalReviews = totalReviews
	return nil
}

func (r *fakeProviderRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[id]; !ok {
		return providerRepo.ErrNotFound
	}
	delete(r.providers, id)
	return nil
}

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo(us ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range us {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) GetByID(id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, userRepo.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, userRepo.ErrNotFound
}

func (r *fakeUserRepo) Create(u *models.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) UpdateSetDocument(id string, setDoc bson.M) error {
	if _, ok := r.users[id]; !ok {
		return userRepo.ErrNotFound
	}
	return nil
}

func (r *fakeUserRepo) Delete(id string) error {
	delete(r.users, id)
	return nil
}

// fakeReviewChecker only answers ExistsForBooking, the one review query the
// booking service makes.
type fakeReviewChecker struct {
	reviewed map[string]bool
}

func (r *fakeReviewChecker) GetByID(id string) (*models.Review, error)   { return nil, nil }
func (r *fakeReviewChecker) Create(rev *models.Review) error             { return nil }
func (r *fakeReviewChecker) Update(id string, _ *int, _ *string) error   { return nil }
func (r *fakeReviewChecker) Delete(id string) error                      { return nil }
func (r *fakeReviewChecker) ListByProvider(_ string, _, _ int64) ([]models.Review, error) {
	return nil, nil
}
func (r *fakeReviewChecker) ExistsForBooking(bookingID string) (bool, error) {
	return r.reviewed[bookingID], nil
}
func (r *fakeReviewChecker) AggregateForProvider(_ string) (int, float64, error) {
	return 0, 0, nil
}

// ---- fixtures ----

func testService(t *testing.T) (*DefaultBookingService, *fakeBookingRepo, *fakeReviewChecker) {
	t.Helper()
	bookings := newFakeBookingRepo()
	providers := newFakeProviderRepo(catalogueProvider())
	users := newFakeUserRepo(&models.User{ID: "cust-1", Name: "Ada", PhoneNumber: "0700"})
	reviews := &fakeReviewChecker{reviewed: make(map[string]bool)}
	svc := NewDefaultBookingService(bookings, providers, users, reviews, nil, zap.NewNop())
	return svc, bookings, reviews
}

func seedBooking(t *testing.T, repo *fakeBookingRepo, b *models.Booking) {
	t.Helper()
	if err := repo.Create(b); err != nil {
		t.Fatalf("seed booking: %v", err)
	}
}

func codeOf(t *testing.T, err error) string {
	t.Helper()
	var svcErr *Error
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected a service error, got %v", err)
	}
	return svcErr.Code
}

// ---- CreateBooking ----

func TestCreateBookingHappyPath(t *testing.T) {
	svc, _, _ := testService(t)
	actor := models.Actor{Kind: models.ActorCustomer, ID: "cust-1"}

	b, err := svc.CreateBooking(context.Background(), actor, models.BookingCreateRequest{
		ProviderID:    "prov-1",
		CategoryID:    "plumbing",
		SubcategoryID: "leak-repair",
		Date:          "2026-09-01",
		Start:         9 * 60,
		Hours:         2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Status != models.BookingPending {
		t.Fatalf("new bookings start pending, got %s", b.Status)
	}
	if b.PaymentStatus != models.PaymentPending {
		t.Fatalf("new bookings start with payment pending, got %s", b.PaymentStatus)
	}
	if b.UserID != "cust-1" {
		t.Fatalf("customer bookings belong to the customer, got %s", b.UserID)
	}
	if b.TotalPrice != 80 { // 40/h * 2h
		t.Fatalf("expected price derived from the offering rate, got %v", b.TotalPrice)
	}
	if b.UserDetails.Name != "Ada" {
		t.Fatalf("expected a snapshot of the customer details")
	}
}

func TestCreateBookingCapabilityMismatch(t *testing.T) {
	svc, _, _ := testService(t)
	actor := models.Actor{Kind: models.ActorCustomer, ID: "cust-1"}

	_, err := svc.CreateBooking(context.Background(), actor, models.BookingCreateRequest{
		ProviderID:    "prov-1",
		CategoryID:    "plumbing",
		SubcategoryID: "drain-cleaning",
		Date:          "2026-09-01",
		Hours:         1,
	})
	if codeOf(t, err) != CodeCapabilityMismatch {
		t.Fatalf("expected capabilityMismatch, got %v", err)
	}
}

func TestCreateBookingUnknownProvider(t *testing.T) {
	svc, _, _ := testService(t)
	actor := models.Actor{Kind: models.ActorCustomer, ID: "cust-1"}

	_, err := svc.CreateBooking(context.Background(), actor, models.BookingCreateRequest{
		ProviderID: "nope",
		CategoryID: "plumbing",
		Date:       "2026-09-01",
		Hours:      1,
	})
	if codeOf(t, err) != CodeNotFound {
		t.Fatalf("expected notFound, got %v", err)
	}
}

func TestCreateBookingDerivesHoursFromEnd(t *testing.T) {
	svc, _, _ := testService(t)
	actor := models.Actor{Kind: models.ActorCustomer, ID: "cust-1"}

	b, err := svc.CreateBooking(context.Background(), actor, models.BookingCreateRequest{
		ProviderID: "prov-1",
		CategoryID: "cleaning",
		Date:       "2026-09-01",
		Start:      10 * 60,
		End:        13 * 60,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Hours != 3 {
		t.Fatalf("expected hours derived from end-start, got %v", b.Hours)
	}
}

func TestCreateBookingProviderOnBehalf(t *testing.T) {
	svc, _, _ := testService(t)
	actor := models.Actor{Kind: models.ActorProvider, ID: "prov-1"}

	b, err := svc.CreateBooking(context.Background(), actor, models.BookingCreateRequest{
		UserID:     "cust-1",
		ProviderID: "prov-1",
		CategoryID: "cleaning",
		Date:       "2026-09-01",
		Hours:      1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.UserID != "cust-1" {
		t.Fatalf("expected the booking to belong to the named customer")
	}
}

func TestCreateBookingProviderForOtherProviderRejected(t *testing.T) {
	svc, _, _ := testService(t)
	actor := models.Actor{Kind: models.ActorProvider, ID: "prov-2"}

	_, err := svc.CreateBooking(context.Background(), actor, models.BookingCreateRequest{
		UserID:     "cust-1",
		ProviderID: "prov-1",
		CategoryID: "cleaning",
		Date:       "2026-09-01",
		Hours:      1,
	})
	if codeOf(t, err) != CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestCreateBookingBadDate(t *testing.T) {
	svc, _, _ := testService(t)
	actor := models.Actor{Kind: models.ActorCustomer, ID: "cust-1"}

	_, err := svc.CreateBooking(context.Background(), actor, models.BookingCreateRequest{
		ProviderID: "prov-1",
		CategoryID: "cleaning",
		Date:       "01-09-2026",
		Hours:      1,
	})
	if codeOf(t, err) != CodeValidation {
		t.Fatalf("expected validationFailed, got %v", err)
	}
}

// ---- UpdateBooking ----

func TestUpdateBookingSingleSetDocument(t *testing.T) {
	svc, bookings, _ := testService(t)
	seedBooking(t, bookings, pendingBooking())
	actor := models.Actor{Kind: models.ActorProvider, ID: "prov-1"}

	_, err := svc.UpdateBooking(context.Background(), actor, "bk-1", models.BookingUpdateRequest{
		Status:        statusPtr(models.BookingConfirmed),
		PaymentStatus: paymentPtr(models.PaymentPaid),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bookings.setDocs) != 1 {
		t.Fatalf("expected exactly one atomic $set write, got %d", len(bookings.setDocs))
	}
	doc := bookings.setDocs[0]
	if doc["status"] != models.BookingConfirmed || doc["paymentStatus"] != models.PaymentPaid {
		t.Fatalf("both surviving fields must land in the same write: %v", doc)
	}
}

func TestUpdateBookingInvalidTransitionWritesNothing(t *testing.T) {
	svc, bookings, _ := testService(t)
	seedBooking(t, bookings, pendingBooking())
	actor := models.Actor{Kind: models.ActorProvider, ID: "prov-1"}

	_, err := svc.UpdateBooking(context.Background(), actor, "bk-1", models.BookingUpdateRequest{
		Status:        statusPtr(models.BookingConfirmed),
		PaymentStatus: paymentPtr(models.PaymentRefunded), // unreachable from pending
	})
	if codeOf(t, err) != CodeInvalidTransition {
		t.Fatalf("expected invalidTransition, got %v", err)
	}
	if len(bookings.setDocs) != 0 {
		t.Fatalf("a rejected update must not write anything, got %d writes", len(bookings.setDocs))
	}
	stored, _ := bookings.GetByID("bk-1")
	if stored.Status != models.BookingPending {
		t.Fatalf("booking must be untouched after a rejected update, got %s", stored.Status)
	}
}

func TestUpdateBookingFullyFilteredIsNoOp(t *testing.T) {
	svc, bookings, _ := testService(t)
	seedBooking(t, bookings, pendingBooking())
	actor := models.Actor{Kind: models.ActorCustomer, ID: "cust-1"}

	b, err := svc.UpdateBooking(context.Background(), actor, "bk-1", models.BookingUpdateRequest{
		PaymentStatus: paymentPtr(models.PaymentPaid),
	})
	if err != nil {
		t.Fatalf("a fully filtered update is a no-op, not an error: %v", err)
	}
	if len(bookings.setDocs) != 0 {
		t.Fatalf("a no-op must not write")
	}
	if b.PaymentStatus != models.PaymentPending {
		t.Fatalf("paymentStatus must be unchanged")
	}
}

func TestUpdateBookingUnknownStatusValue(t *testing.T) {
	svc, bookings, _ := testService(t)
	seedBooking(t, bookings, pendingBooking())
	actor := models.Actor{Kind: models.ActorAdmin, ID: "admin-1"}

	bogus := models.BookingStatus("archived")
	_, err := svc.UpdateBooking(context.Background(), actor, "bk-1", models.BookingUpdateRequest{
		Status: &bogus,
	})
	if codeOf(t, err) != CodeValidation {
		t.Fatalf("expected validationFailed for unknown enum value, got %v", err)
	}
}

func TestUpdateBookingRacingTransitionsKeepTerminalState(t *testing.T) {
	svc, bookings, _ := testService(t)
	seedBooking(t, bookings, pendingBooking())
	customer := models.Actor{Kind: models.ActorCustomer, ID: "cust-1"}
	provider := models.Actor{Kind: models.ActorProvider, ID: "prov-1"}

	// The provider's confirm passes the graph check against the pending
	// snapshot; before its write lands, the customer's cancel gets in first.
	bookings.beforeUpdate = func() {
		if _, err := svc.UpdateBooking(context.Background(), customer, "bk-1", models.BookingUpdateRequest{
			Status: statusPtr(models.BookingCancelled),
		}); err != nil {
			t.Errorf("the cancel should win the race: %v", err)
		}
	}

	_, err := svc.UpdateBooking(context.Background(), provider, "bk-1", models.BookingUpdateRequest{
		Status: statusPtr(models.BookingConfirmed),
	})
	if codeOf(t, err) != CodeInvalidTransition {
		t.Fatalf("a write racing into a terminal state must be rejected, got %v", err)
	}

	stored, _ := bookings.GetByID("bk-1")
	if stored.Status != models.BookingCancelled {
		t.Fatalf("terminal state resurrected: booking was cancelled, final status is %q", stored.Status)
	}
}

func TestUpdateBookingDoubleSubmitPaymentAppliesOnce(t *testing.T) {
	svc, bookings, _ := testService(t)
	seedBooking(t, bookings, pendingBooking())
	provider := models.Actor{Kind: models.ActorProvider, ID: "prov-1"}
	markPaid := models.BookingUpdateRequest{PaymentStatus: paymentPtr(models.PaymentPaid)}

	// Two identical paid flips race off the same pending snapshot. The
	// second write goes stale and the re-check against paid rejects it.
	bookings.beforeUpdate = func() {
		if _, err := svc.UpdateBooking(context.Background(), provider, "bk-1", markPaid); err != nil {
			t.Errorf("the first submit should win the race: %v", err)
		}
	}

	_, err := svc.UpdateBooking(context.Background(), provider, "bk-1", markPaid)
	if codeOf(t, err) != CodeInvalidTransition {
		t.Fatalf("the second submit must be rejected, got %v", err)
	}

	stored, _ := bookings.GetByID("bk-1")
	if stored.PaymentStatus != models.PaymentPaid {
		t.Fatalf("expected exactly one applied flip, got %q", stored.PaymentStatus)
	}
	if len(bookings.setDocs) != 1 {
		t.Fatalf("expected a single write, got %d", len(bookings.setDocs))
	}
}

func TestUpdateBookingNotFound(t *testing.T) {
	svc, _, _ := testService(t)
	actor := models.Actor{Kind: models.ActorAdmin, ID: "admin-1"}

	_, err := svc.UpdateBooking(context.Background(), actor, "missing", models.BookingUpdateRequest{
		Notes: strPtr("x"),
	})
	if codeOf(t, err) != CodeNotFound {
		t.Fatalf("expected notFound, got %v", err)
	}
}

// ---- DeleteBooking / GetBooking ----

func TestDeleteBookingWithReviewConflicts(t *testing.T) {
	svc, bookings, reviews := testService(t)
	seedBooking(t, bookings, pendingBooking())
	reviews.reviewed["bk-1"] = true
	actor := models.Actor{Kind: models.ActorCustomer, ID: "cust-1"}

	err := svc.DeleteBooking(context.Background(), actor, "bk-1")
	if codeOf(t, err) != CodeConflict {
		t.Fatalf("expected conflict for a reviewed booking, got %v", err)
	}
}

func TestDeleteBookingByProviderRejected(t *testing.T) {
	svc, bookings, _ := testService(t)
	seedBooking(t, bookings, pendingBooking())
	actor := models.Actor{Kind: models.ActorProvider, ID: "prov-1"}

	err := svc.DeleteBooking(context.Background(), actor, "bk-1")
	if codeOf(t, err) != CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestDeleteBookingByOwner(t *testing.T) {
	svc, bookings, _ := testService(t)
	seedBooking(t, bookings, pendingBooking())
	actor := models.Actor{Kind: models.ActorCustomer, ID: "cust-1"}

	if err := svc.DeleteBooking(context.Background(), actor, "bk-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := bookings.GetByID("bk-1"); err != bookingRepo.ErrNotFound {
		t.Fatalf("booking should be gone")
	}
}

func TestGetBookingPartyScoped(t *testing.T) {
	svc, bookings, _ := testService(t)
	seedBooking(t, bookings, pendingBooking())

	for _, actor := range []models.Actor{
		{Kind: models.ActorCustomer, ID: "cust-1"},
		{Kind: models.ActorProvider, ID: "prov-1"},
		{Kind: models.ActorAdmin, ID: "admin-1"},
	} {
		if _, err := svc.GetBooking(context.Background(), actor, "bk-1"); err != nil {
			t.Fatalf("actor %v should read the booking: %v", actor, err)
		}
	}

	stranger := models.Actor{Kind: models.ActorCustomer, ID: "cust-2"}
	_, err := svc.GetBooking(context.Background(), stranger, "bk-1")
	if codeOf(t, err) != CodeUnauthorized {
		t.Fatalf("expected unauthorized for a non-party, got %v", err)
	}
}
