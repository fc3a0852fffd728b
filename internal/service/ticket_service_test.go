package service

import (
	"context"
	"testing"

	"github.com/suporte-ti/helpdesk/internal/domain"
	"github.com/suporte-ti/helpdesk/internal/events"
	"github.com/suporte-ti/helpdesk/internal/repository"
	"github.com/suporte-ti/helpdesk/internal/store"
	"github.com/suporte-ti/helpdesk/pkg/util"
)

type ticketFixture struct {
	svc        *TicketService
	user       *domain.Profile
	otherUser  *domain.Profile
	technician *domain.Profile
	admin      *domain.Profile
	events     *[]events.Event
}

func newTicketFixture(t *testing.T) *ticketFixture {
	t.Helper()
	ctx := context.Background()
	kv := store.NewMemory()
	if err := store.Initialize(ctx, kv); err != nil {
		t.Fatalf("store init: %v", err)
	}

	profiles := repository.NewProfileRepository(kv)
	seed := []*domain.Profile{
		{ID: "u1", Name: "Ana Lima", Email: "ana@example.com", Role: domain.RoleUser, Sector: "Financeiro"},
		{ID: "u2", Name: "Bruno Dias", Email: "bruno@example.com", Role: domain.RoleUser, Sector: "RH"},
		{ID: "t1", Name: "Carla Nunes", Email: "carla@example.com", Role: domain.RoleTechnician},
		{ID: "a1", Name: "Davi Rocha", Email: "davi@example.com", Role: domain.RoleAdmin},
	}
	for _, p := range seed {
		if err := profiles.Create(ctx, p); err != nil {
			t.Fatalf("seed profile %s: %v", p.ID, err)
		}
	}

	published := []events.Event{}
	dispatcher := events.NewInMemoryDispatcher()
	for _, eventType := range []events.EventType{events.EventTicketCreated, events.EventTicketStatusChanged} {
		dispatcher.Subscribe(eventType, func(_ context.Context, event events.Event) error {
			published = append(published, event)
			return nil
		})
	}

	svc := NewTicketService(TicketDependencies{
		TicketRepo:      repository.NewTicketRepository(kv),
		ProfileRepo:     profiles,
		ProblemTypeRepo: repository.NewProblemTypeRepository(kv),
		HistoryRepo:     repository.NewTicketHistoryRepository(kv),
		Dispatcher:      dispatcher,
	})
	return &ticketFixture{
		svc:        svc,
		user:       seed[0],
		otherUser:  seed[1],
		technician: seed[2],
		admin:      seed[3],
		events:     &published,
	}
}

func (f *ticketFixture) create(t *testing.T, actor *domain.Profile) *domain.TicketWithDetails {
	t.Helper()
	detailed, err := f.svc.Create(context.Background(), actor, CreateTicketInput{
		Title:         "Impressora com defeito",
		Description:   "Não imprime desde ontem",
		Sector:        actor.Sector,
		ProblemTypeID: "2",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	return detailed
}

func TestTicketCreateJoinsDetails(t *testing.T) {
	f := newTicketFixture(t)

	detailed := f.create(t, f.user)
	if detailed.Status != domain.TicketStatusOpen {
		t.Fatalf("status = %q, want open", detailed.Status)
	}
	if detailed.Profile.Name != "Ana Lima" {
		t.Fatalf("joined creator = %q", detailed.Profile.Name)
	}
	if detailed.ProblemType.Name != "Impressora com Defeito" {
		t.Fatalf("joined problem type = %q", detailed.ProblemType.Name)
	}
	if detailed.Technician != nil {
		t.Fatal("open ticket should have no technician")
	}
	if len(*f.events) != 1 || (*f.events)[0].Type != events.EventTicketCreated {
		t.Fatalf("published events = %+v", *f.events)
	}
}

func TestTicketCreateGuards(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	// Only end users open tickets.
	_, err := f.svc.Create(ctx, f.technician, CreateTicketInput{Title: "a", Description: "b", Sector: "TI", ProblemTypeID: "1"})
	if !util.HasCode(err, util.CodeForbidden) {
		t.Fatalf("technician create error = %v, want FORBIDDEN", err)
	}

	// Blank fields fail validation, including whitespace-only values.
	_, err = f.svc.Create(ctx, f.user, CreateTicketInput{Title: "   ", Description: "b", Sector: "TI", ProblemTypeID: "1"})
	if !util.HasCode(err, util.CodeValidation) {
		t.Fatalf("blank title error = %v, want VALIDATION_FAILED", err)
	}

	// Unknown problem type.
	_, err = f.svc.Create(ctx, f.user, CreateTicketInput{Title: "a", Description: "b", Sector: "TI", ProblemTypeID: "999"})
	if !util.HasCode(err, util.CodeNotFound) {
		t.Fatalf("unknown problem type error = %v, want NOT_FOUND", err)
	}
}

func TestTicketCreateDuplicatePolicy(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	f.create(t, f.user)

	_, err := f.svc.Create(ctx, f.user, CreateTicketInput{
		Title:         "Outro título",
		Description:   "Mesmo problema",
		Sector:        f.user.Sector,
		ProblemTypeID: "2",
	})
	if !util.HasCode(err, util.CodeDuplicateTicket) {
		t.Fatalf("duplicate create error = %v, want DUPLICATE_TICKET", err)
	}

	// Another user may open the same sector and problem type.
	if _, err := f.svc.Create(ctx, f.otherUser, CreateTicketInput{
		Title:         "Impressora",
		Description:   "Parou",
		Sector:        f.user.Sector,
		ProblemTypeID: "2",
	}); err != nil {
		t.Fatalf("create by other user returned error: %v", err)
	}
}

func TestTicketAcceptCompleteFlow(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	ticket := f.create(t, f.user)

	accepted, err := f.svc.Accept(ctx, f.technician, ticket.ID)
	if err != nil {
		t.Fatalf("Accept returned error: %v", err)
	}
	if accepted.Status != domain.TicketStatusInProgress {
		t.Fatalf("status after accept = %q", accepted.Status)
	}
	if accepted.Technician == nil || accepted.Technician.ID != f.technician.ID {
		t.Fatalf("technician not assigned: %+v", accepted.Technician)
	}

	completed, err := f.svc.Complete(ctx, f.technician, ticket.ID, "Cabo substituído")
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if completed.Status != domain.TicketStatusCompleted {
		t.Fatalf("status after complete = %q", completed.Status)
	}
	if completed.Diagnosis == nil || *completed.Diagnosis != "Cabo substituído" {
		t.Fatalf("diagnosis = %v", completed.Diagnosis)
	}
	if completed.CompletedAt == nil {
		t.Fatal("CompletedAt not set")
	}

	history, err := f.svc.History(ctx, f.user, ticket.ID)
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history has %d entries, want 2", len(history))
	}
	if history[0].OldStatus != domain.TicketStatusOpen || history[0].NewStatus != domain.TicketStatusInProgress {
		t.Fatalf("first transition = %+v", history[0])
	}
	if history[1].OldStatus != domain.TicketStatusInProgress || history[1].NewStatus != domain.TicketStatusCompleted {
		t.Fatalf("second transition = %+v", history[1])
	}
}

func TestTicketCompleteGuards(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	ticket := f.create(t, f.user)

	// Completing an open ticket skips a lifecycle step.
	_, err := f.svc.Complete(ctx, f.technician, ticket.ID, "diag")
	if !util.HasCode(err, util.CodeValidation) {
		t.Fatalf("complete open ticket error = %v, want VALIDATION_FAILED", err)
	}

	if _, err := f.svc.Accept(ctx, f.technician, ticket.ID); err != nil {
		t.Fatalf("Accept returned error: %v", err)
	}

	// Only the assigned technician completes.
	_, err = f.svc.Complete(ctx, f.admin, ticket.ID, "diag")
	if !util.HasCode(err, util.CodeForbidden) {
		t.Fatalf("complete by other technician error = %v, want FORBIDDEN", err)
	}

	// Diagnosis is mandatory.
	_, err = f.svc.Complete(ctx, f.technician, ticket.ID, "   ")
	if !util.HasCode(err, util.CodeValidation) {
		t.Fatalf("blank diagnosis error = %v, want VALIDATION_FAILED", err)
	}
}

func TestTicketRejectFromOpenAssignsTechnician(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	ticket := f.create(t, f.user)

	rejected, err := f.svc.Reject(ctx, f.technician, ticket.ID, "Fora do escopo do suporte")
	if err != nil {
		t.Fatalf("Reject returned error: %v", err)
	}
	if rejected.Status != domain.TicketStatusRejected {
		t.Fatalf("status = %q, want rejected", rejected.Status)
	}
	if rejected.RejectionReason == nil || *rejected.RejectionReason != "Fora do escopo do suporte" {
		t.Fatalf("rejection reason = %v", rejected.RejectionReason)
	}
	if rejected.Technician == nil || rejected.Technician.ID != f.technician.ID {
		t.Fatalf("rejecting technician not assigned: %+v", rejected.Technician)
	}

	// Terminal state: nothing else is allowed.
	if _, err := f.svc.Accept(ctx, f.technician, ticket.ID); !util.HasCode(err, util.CodeValidation) {
		t.Fatalf("accept after reject error = %v, want VALIDATION_FAILED", err)
	}
}

func TestTicketRejectKeepsAssignedTechnician(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	ticket := f.create(t, f.user)
	if _, err := f.svc.Accept(ctx, f.technician, ticket.ID); err != nil {
		t.Fatalf("Accept returned error: %v", err)
	}

	// A different elevated profile rejects; assignment is not rewritten.
	rejected, err := f.svc.Reject(ctx, f.admin, ticket.ID, "Equipamento será substituído")
	if err != nil {
		t.Fatalf("Reject returned error: %v", err)
	}
	if rejected.Technician == nil || rejected.Technician.ID != f.technician.ID {
		t.Fatalf("technician reassigned on reject: %+v", rejected.Technician)
	}
}

func TestTicketRejectGuards(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	ticket := f.create(t, f.user)

	if _, err := f.svc.Reject(ctx, f.user, ticket.ID, "motivo"); !util.HasCode(err, util.CodeForbidden) {
		t.Fatalf("reject by plain user error = %v, want FORBIDDEN", err)
	}
	if _, err := f.svc.Reject(ctx, f.technician, ticket.ID, " "); !util.HasCode(err, util.CodeValidation) {
		t.Fatalf("blank reason error = %v, want VALIDATION_FAILED", err)
	}
}

func TestTicketAcceptGuards(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	ticket := f.create(t, f.user)

	if _, err := f.svc.Accept(ctx, f.user, ticket.ID); !util.HasCode(err, util.CodeForbidden) {
		t.Fatalf("accept by plain user error = %v, want FORBIDDEN", err)
	}
	if _, err := f.svc.Accept(ctx, f.technician, "nope"); !util.HasCode(err, util.CodeNotFound) {
		t.Fatalf("accept unknown ticket error = %v, want NOT_FOUND", err)
	}
}

func TestTicketVisibility(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	mine := f.create(t, f.user)
	theirs := f.create(t, f.otherUser)

	// Owners read their own tickets; other plain users do not.
	if _, err := f.svc.Get(ctx, f.user, mine.ID); err != nil {
		t.Fatalf("owner Get returned error: %v", err)
	}
	if _, err := f.svc.Get(ctx, f.user, theirs.ID); !util.HasCode(err, util.CodeForbidden) {
		t.Fatalf("cross-user Get error = %v, want FORBIDDEN", err)
	}
	if _, err := f.svc.Get(ctx, f.technician, theirs.ID); err != nil {
		t.Fatalf("technician Get returned error: %v", err)
	}

	// Listing applies the same scoping.
	ownListing, err := f.svc.List(ctx, f.user, ListFilter{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(ownListing) != 1 || ownListing[0].ID != mine.ID {
		t.Fatalf("user listing = %d tickets", len(ownListing))
	}

	techListing, err := f.svc.List(ctx, f.technician, ListFilter{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(techListing) != 2 {
		t.Fatalf("technician listing = %d tickets, want 2", len(techListing))
	}

	// History follows Get's rule.
	if _, err := f.svc.History(ctx, f.user, theirs.ID); !util.HasCode(err, util.CodeForbidden) {
		t.Fatalf("cross-user History error = %v, want FORBIDDEN", err)
	}
}

func TestTicketRecreateAfterCompletion(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	ticket := f.create(t, f.user)
	if _, err := f.svc.Accept(ctx, f.technician, ticket.ID); err != nil {
		t.Fatalf("Accept returned error: %v", err)
	}
	if _, err := f.svc.Complete(ctx, f.technician, ticket.ID, "Resolvido"); err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}

	// The triple is free again once the first ticket is terminal.
	f.create(t, f.user)
}

func TestCheckDuplicates(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	active, err := f.svc.CheckDuplicates(ctx, f.user.ID, f.user.Sector, "2")
	if err != nil {
		t.Fatalf("CheckDuplicates returned error: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("expected no duplicates, got %d", len(active))
	}

	ticket := f.create(t, f.user)

	active, err = f.svc.CheckDuplicates(ctx, f.user.ID, f.user.Sector, "2")
	if err != nil {
		t.Fatalf("CheckDuplicates returned error: %v", err)
	}
	if len(active) != 1 || active[0].ID != ticket.ID {
		t.Fatalf("duplicates = %+v", active)
	}
}

func TestListProblemTypes(t *testing.T) {
	f := newTicketFixture(t)

	types, err := f.svc.ListProblemTypes(context.Background())
	if err != nil {
		t.Fatalf("ListProblemTypes returned error: %v", err)
	}
	if len(types) != 9 {
		t.Fatalf("got %d problem types, want 9", len(types))
	}
}

func TestStatusChangePublishesEvents(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	ticket := f.create(t, f.user)
	if _, err := f.svc.Accept(ctx, f.technician, ticket.ID); err != nil {
		t.Fatalf("Accept returned error: %v", err)
	}

	if len(*f.events) != 2 {
		t.Fatalf("published %d events, want 2", len(*f.events))
	}
	last := (*f.events)[1]
	if last.Type != events.EventTicketStatusChanged {
		t.Fatalf("last event type = %q", last.Type)
	}
	payload, ok := last.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		t.Fatalf("unexpected payload type %T", last.Payload)
	}
	if payload.OldStatus != domain.TicketStatusOpen || payload.NewStatus != domain.TicketStatusInProgress {
		t.Fatalf("payload transition = %+v", payload)
	}
}
