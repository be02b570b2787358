package api

import (
	"github.com/planloom/minutes/internal/meetings"
	"github.com/planloom/minutes/internal/reconcile"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Meetings meetings.System
	Sessions *reconcile.Manager
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	meetingsSystem := meetings.New(
		runtime.Backend,
		runtime.Cache,
		&runtime.Config.Meetings,
		runtime.Logger,
		meetings.SystemClock,
	)

	sessions := reconcile.NewManager(
		meetingsSystem,
		runtime.Backend,
		&runtime.Config.Sessions,
		runtime.Pagination,
		runtime.Logger,
	)

	return &Domain{
		Meetings: meetingsSystem,
		Sessions: sessions,
	}
}
