// Package wizard drives the two-step company creation flow: company identity
// first, administrator account second.
package wizard

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"sync"
	"time"

	"matrixadmin.app/panel/common"
	"matrixadmin.app/panel/internal/http/dto"
)

type Step int

const (
	StepClosed Step = iota
	StepCompany
	StepAdmin
	StepSubmitting
)

// ErrNotEligible means the user belongs to no organization and may not open
// the wizard at all.
var ErrNotEligible = errors.New("not eligible to create companies")

// Backend is what the wizard needs from the server. The HTTP API client
// satisfies it.
type Backend interface {
	Prober
	Membership(ctx context.Context) (*dto.MembershipResponse, error)
	CreateCompany(ctx context.Context, req dto.CreateCompanyRequest) (*dto.CreateCompanyResponse, error)
}

// Wizard owns all dialog state. A failed submit keeps every field so the
// user can correct and retry; only success or an explicit close discards
// them.
type Wizard struct {
	backend   Backend
	checker   *SlugChecker
	onCreated func(dto.CompanyResponse)

	step          Step
	eligible      *bool
	name          string
	slug          string
	adminName     string
	adminEmail    string
	submitError   string
	slugAvailable *bool
	slugCheckErr  error
	slugEdited    bool
	mu            sync.Mutex
}

func New(backend Backend, checkDelay time.Duration, onCreated func(dto.CompanyResponse)) *Wizard {
	w := &Wizard{
		backend:   backend,
		onCreated: onCreated,
		step:      StepClosed,
	}
	w.checker = NewSlugChecker(backend, checkDelay, w.applyCheckResult)
	return w
}

// Open gates on membership and resets the dialog to step one. Any user who
// belongs to at least one organization may open it; panel-wide access was
// already settled by the route guard. The membership answer is fetched once
// and held for the wizard's lifetime.
func (w *Wizard) Open(ctx context.Context) error {
	w.mu.Lock()
	eligible := w.eligible
	w.mu.Unlock()

	if eligible == nil {
		membership, err := w.backend.Membership(ctx)
		if err != nil {
			return err
		}
		v := membership.MemberOfAny
		eligible = &v
		w.mu.Lock()
		w.eligible = eligible
		w.mu.Unlock()
	}
	if !*eligible {
		return ErrNotEligible
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.resetLocked()
	w.step = StepCompany
	return nil
}

// SetName updates the company name and, until the slug is edited by hand,
// keeps deriving the slug from it.
func (w *Wizard) SetName(ctx context.Context, name string) {
	w.mu.Lock()
	if w.step != StepCompany {
		w.mu.Unlock()
		return
	}
	w.name = name
	if w.slugEdited {
		w.mu.Unlock()
		return
	}
	slug := common.NormalizeSlug(name)
	changed := slug != w.slug
	w.slug = slug
	w.slugAvailable = nil
	w.slugCheckErr = nil
	w.mu.Unlock()

	if changed && common.ValidSlug(slug) {
		w.checker.Check(ctx, slug)
	}
}

// SetSlug records a hand-edited slug, normalized on the way in, and
// schedules an availability check.
func (w *Wizard) SetSlug(ctx context.Context, slug string) {
	normalized := common.NormalizeSlug(slug)

	w.mu.Lock()
	if w.step != StepCompany {
		w.mu.Unlock()
		return
	}
	w.slugEdited = true
	w.slug = normalized
	w.slugAvailable = nil
	w.slugCheckErr = nil
	w.mu.Unlock()

	if common.ValidSlug(normalized) {
		w.checker.Check(ctx, normalized)
	}
}

func (w *Wizard) SetAdmin(name, email string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepAdmin {
		return
	}
	w.adminName = name
	w.adminEmail = email
}

// CanAdvance reports whether step one is complete: a name, a valid slug
// confirmed available, and no check still pending.
func (w *Wizard) CanAdvance() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.canAdvanceLocked()
}

func (w *Wizard) canAdvanceLocked() bool {
	if w.step != StepCompany {
		return false
	}
	if strings.TrimSpace(w.name) == "" || !common.ValidSlug(w.slug) {
		return false
	}
	if w.checker.InFlight() {
		return false
	}
	return w.slugAvailable != nil && *w.slugAvailable && w.slugCheckErr == nil
}

// Next moves to the administrator step when step one is complete.
func (w *Wizard) Next() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.canAdvanceLocked() {
		return false
	}
	w.step = StepAdmin
	return true
}

// Back returns to step one, keeping everything entered so far.
func (w *Wizard) Back() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step == StepAdmin {
		w.step = StepCompany
	}
}

// Submit sends the creation request. A response with Success false is a
// failure like any other: the dialog stays open on the admin step with the
// server's message, and nothing is discarded.
func (w *Wizard) Submit(ctx context.Context) bool {
	w.mu.Lock()
	if w.step != StepAdmin {
		w.mu.Unlock()
		return false
	}
	if strings.TrimSpace(w.adminName) == "" || !validEmail(w.adminEmail) {
		w.submitError = "administrator name and a valid email are required"
		w.mu.Unlock()
		return false
	}
	w.step = StepSubmitting
	w.submitError = ""
	req := dto.CreateCompanyRequest{
		Name:       w.name,
		Slug:       w.slug,
		AdminName:  w.adminName,
		AdminEmail: w.adminEmail,
	}
	w.mu.Unlock()

	resp, err := w.backend.CreateCompany(ctx, req)

	w.mu.Lock()
	// The dialog may have been closed while the request was in flight; a
	// late response must not resurrect it.
	if w.step != StepSubmitting {
		w.mu.Unlock()
		return false
	}
	if err != nil {
		w.step = StepAdmin
		w.submitError = err.Error()
		w.mu.Unlock()
		return false
	}
	if !resp.Success {
		w.step = StepAdmin
		w.submitError = resp.Error
		if w.submitError == "" {
			w.submitError = "company creation failed"
		}
		w.mu.Unlock()
		return false
	}

	created := resp.Company
	w.resetLocked()
	w.mu.Unlock()

	if w.onCreated != nil && created != nil {
		w.onCreated(*created)
	}
	return true
}

// Close discards the dialog and everything typed into it.
func (w *Wizard) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resetLocked()
}

func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

func (w *Wizard) Name() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.name
}

func (w *Wizard) Slug() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.slug
}

func (w *Wizard) AdminName() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.adminName
}

func (w *Wizard) AdminEmail() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.adminEmail
}

// SlugAvailable returns nil while no answer is known.
func (w *Wizard) SlugAvailable() *bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.slugAvailable
}

func (w *Wizard) SlugCheckErr() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.slugCheckErr
}

func (w *Wizard) SubmitError() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitError
}

func (w *Wizard) applyCheckResult(result CheckResult) {
	w.mu.Lock()
	defer w.mu.Unlock()

	// The answer is only meaningful for the slug currently in the field.
	if result.Slug != w.slug || w.step == StepClosed {
		return
	}
	if result.Err != nil {
		w.slugCheckErr = result.Err
		w.slugAvailable = nil
		return
	}
	w.slugCheckErr = nil
	available := result.Available
	w.slugAvailable = &available
}

// validEmail accepts bare addresses only, no display names.
func validEmail(addr string) bool {
	parsed, err := mail.ParseAddress(addr)
	return err == nil && parsed.Address == addr
}

func (w *Wizard) resetLocked() {
	w.checker.Cancel()
	w.step = StepClosed
	w.name = ""
	w.slug = ""
	w.adminName = ""
	w.adminEmail = ""
	w.submitError = ""
	w.slugAvailable = nil
	w.slugCheckErr = nil
	w.slugEdited = false
}
