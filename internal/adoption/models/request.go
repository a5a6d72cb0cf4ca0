package models

import (
	"time"

	id "shelterhub/pkg/domain"
	dErrors "shelterhub/pkg/domain-errors"
)

// Status is the adoption request's workflow state.
//
// Transitions:
//
//	Requested → InterviewScheduled → Approved | Denied
//	Requested | InterviewScheduled → Cancelled
//
// Approved, Denied, and Cancelled are terminal; no transition leaves them.
type Status string

const (
	StatusRequested          Status = "Requested"
	StatusInterviewScheduled Status = "InterviewScheduled"
	StatusApproved           Status = "Approved"
	StatusDenied             Status = "Denied"
	StatusCancelled          Status = "Cancelled"
)

var transitions = map[Status][]Status{
	StatusRequested:          {StatusInterviewScheduled, StatusCancelled},
	StatusInterviewScheduled: {StatusApproved, StatusDenied, StatusCancelled},
	StatusApproved:           {},
	StatusDenied:             {},
	StatusCancelled:          {},
}

// CanTransitionTo reports whether the state machine defines an edge from s to
// target.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Terminal reports whether s has no outgoing transitions.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Interview is the one-to-one sub-record created when scheduling. It is
// cascade-deleted with its request, never shared between requests, and
// immutable except for its date.
type Interview struct {
	ID            id.InterviewID
	RequestID     id.RequestID
	AdopterID     id.UserID
	AnimalID      id.AnimalID
	InterviewDate *time.Time
}

// AdoptionRequest is the workflow aggregate. It references its adopter,
// animal, and shelter by id; all three must exist at creation time. Version
// backs the optimistic single-writer check: concurrent transitions on the
// same request serialize through it.
type AdoptionRequest struct {
	ID          id.RequestID
	AdopterID   id.UserID
	AnimalID    id.AnimalID
	ShelterID   id.ShelterID
	Status      Status
	RequestDate time.Time
	ApprovedAt  *time.Time
	Interview   *Interview
	Version     int
}

// NewRequest constructs a request in the initial state. Existence of the
// referenced entities is the workflow engine's concern.
func NewRequest(requestID id.RequestID, adopterID id.UserID, animalID id.AnimalID, shelterID id.ShelterID, now time.Time) (*AdoptionRequest, error) {
	if adopterID.IsNil() || animalID.IsNil() || shelterID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "request requires an adopter, an animal, and a shelter")
	}
	return &AdoptionRequest{
		ID:          requestID,
		AdopterID:   adopterID,
		AnimalID:    animalID,
		ShelterID:   shelterID,
		Status:      StatusRequested,
		RequestDate: now,
		Version:     1,
	}, nil
}

// Active reports whether the request is still in flight.
func (r *AdoptionRequest) Active() bool {
	return !r.Status.Terminal()
}

// ScheduleInterview applies Requested → InterviewScheduled and attaches the
// interview. A request that already carries one conflicts: no double
// scheduling.
func (r *AdoptionRequest) ScheduleInterview(interviewID id.InterviewID, date *time.Time) error {
	if r.Interview != nil {
		return dErrors.New(dErrors.CodeConflict, "interview already scheduled for this request")
	}
	if err := r.transition(StatusInterviewScheduled); err != nil {
		return err
	}
	r.Interview = &Interview{
		ID:            interviewID,
		RequestID:     r.ID,
		AdopterID:     r.AdopterID,
		AnimalID:      r.AnimalID,
		InterviewDate: date,
	}
	return nil
}

// RecordOutcome applies InterviewScheduled → Approved or Denied. ApprovedAt is
// set only on approval.
func (r *AdoptionRequest) RecordOutcome(approved bool, now time.Time) error {
	target := StatusDenied
	if approved {
		target = StatusApproved
	}
	if err := r.transition(target); err != nil {
		return err
	}
	if approved {
		r.ApprovedAt = &now
	}
	return nil
}

// Cancel applies Requested|InterviewScheduled → Cancelled.
func (r *AdoptionRequest) Cancel() error {
	return r.transition(StatusCancelled)
}

func (r *AdoptionRequest) transition(target Status) error {
	if !r.Status.CanTransitionTo(target) {
		return dErrors.Newf(dErrors.CodeConflict, "cannot transition request from %s to %s", r.Status, target)
	}
	r.Status = target
	return nil
}

// Clone returns a deep copy. Stores hand out clones so callers cannot mutate
// persisted state behind the store's back.
func (r *AdoptionRequest) Clone() *AdoptionRequest {
	if r == nil {
		return nil
	}
	out := *r
	if r.ApprovedAt != nil {
		t := *r.ApprovedAt
		out.ApprovedAt = &t
	}
	if r.Interview != nil {
		iv := *r.Interview
		if r.Interview.InterviewDate != nil {
			d := *r.Interview.InterviewDate
			iv.InterviewDate = &d
		}
		out.Interview = &iv
	}
	return &out
}

// Projection is the wire shape of a request. interview is present only once
// scheduled.
type Projection struct {
	RequestID   id.RequestID         `json:"requestId"`
	Shelter     string               `json:"shelter"`
	Animal      string               `json:"animal"`
	Adopter     string               `json:"adopter"`
	Status      string               `json:"status"`
	RequestDate time.Time            `json:"requestDate"`
	ApprovedAt  *time.Time           `json:"approvedAt,omitempty"`
	Interview   *InterviewProjection `json:"interview,omitempty"`
}

// InterviewProjection is the interview's wire shape.
type InterviewProjection struct {
	ID            id.InterviewID `json:"id"`
	InterviewDate *time.Time     `json:"interviewDate,omitempty"`
}

// Project builds the wire shape, resolving referenced names supplied by the
// caller.
func (r *AdoptionRequest) Project(shelterName, animalName, adopterName string) Projection {
	p := Projection{
		RequestID:   r.ID,
		Shelter:     shelterName,
		Animal:      animalName,
		Adopter:     adopterName,
		Status:      string(r.Status),
		RequestDate: r.RequestDate,
		ApprovedAt:  r.ApprovedAt,
	}
	if r.Interview != nil {
		p.Interview = &InterviewProjection{
			ID:            r.Interview.ID,
			InterviewDate: r.Interview.InterviewDate,
		}
	}
	return p
}
