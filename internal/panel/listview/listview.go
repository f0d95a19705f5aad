// Package listview drives the paginated company table.
package listview

import (
	"context"
	"sync"

	"matrixadmin.app/panel/internal/http/dto"
)

type State int

const (
	StateLoading State = iota
	StateLoaded
	StateErrored
)

// Fetcher supplies one page of companies. The HTTP API client satisfies it.
type Fetcher interface {
	FetchCompanies(ctx context.Context, page, pageSize int32) (*dto.CompanyListResponse, error)
}

// View is the list's state machine. Every load, retry and page move runs
// through it; the UI renders whatever the view currently holds.
type View struct {
	fetcher    Fetcher
	err        error
	companies  []dto.CompanyResponse
	totalCount int64
	page       int32
	pageSize   int32
	state      State
	mu         sync.Mutex
}

func NewView(fetcher Fetcher, pageSize int32) *View {
	return &View{
		fetcher:  fetcher,
		pageSize: pageSize,
		state:    StateLoading,
	}
}

// Load fetches the current page. It always passes through the loading state,
// so a retry after an error shows a spinner and not the stale error.
func (v *View) Load(ctx context.Context) {
	v.mu.Lock()
	v.state = StateLoading
	v.err = nil
	page, pageSize := v.page, v.pageSize
	v.mu.Unlock()

	resp, err := v.fetcher.FetchCompanies(ctx, page, pageSize)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.state = StateErrored
		v.err = err
		return
	}
	v.state = StateLoaded
	v.companies = resp.Companies
	v.totalCount = resp.TotalCount
}

// Retry re-runs the failed load without moving pages.
func (v *View) Retry(ctx context.Context) {
	v.Load(ctx)
}

// Next advances one page when a further page exists.
func (v *View) Next(ctx context.Context) {
	v.mu.Lock()
	if !v.canNextLocked() {
		v.mu.Unlock()
		return
	}
	v.page++
	v.mu.Unlock()
	v.Load(ctx)
}

// Prev steps back one page unless already on the first.
func (v *View) Prev(ctx context.Context) {
	v.mu.Lock()
	if v.page == 0 {
		v.mu.Unlock()
		return
	}
	v.page--
	v.mu.Unlock()
	v.Load(ctx)
}

func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

func (v *View) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

func (v *View) Companies() []dto.CompanyResponse {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.companies
}

func (v *View) Page() int32 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page
}

func (v *View) TotalCount() int64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.totalCount
}

// CanPrev is false on the first page.
func (v *View) CanPrev() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page > 0
}

// CanNext is false once the loaded window reaches the total count.
func (v *View) CanNext() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.canNextLocked()
}

func (v *View) canNextLocked() bool {
	if v.state != StateLoaded {
		return false
	}
	return int64(v.page+1)*int64(v.pageSize) < v.totalCount
}

// Empty reports a loaded list with nothing in it, which renders the
// empty-state panel instead of the table.
func (v *View) Empty() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state == StateLoaded && len(v.companies) == 0
}
