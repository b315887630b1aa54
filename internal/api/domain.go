package api

import (
	"github.com/JaimeStill/dossier/internal/cases"
	"github.com/JaimeStill/dossier/internal/collections"
	"github.com/JaimeStill/dossier/internal/evidence"
	"github.com/JaimeStill/dossier/internal/groups"
	"github.com/JaimeStill/dossier/internal/users"
	"github.com/JaimeStill/dossier/pkg/queue"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Users       users.System
	Cases       cases.System
	Collections collections.System
	Groups      groups.System
	Evidence    evidence.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	db := runtime.Database.Connection()

	return &Domain{
		Users:       users.New(db, runtime.Passwords, runtime.Logger),
		Cases:       cases.New(db, runtime.Logger),
		Collections: collections.New(db, runtime.Logger),
		Groups:      groups.New(db, runtime.Logger),
		Evidence: evidence.New(
			db,
			runtime.Storage,
			runtime.Queue,
			runtime.Logger,
			runtime.Pagination,
		),
	}
}

// Jobs returns a registry with every background job handler bound.
func (d *Domain) Jobs() *queue.Registry {
	registry := queue.NewRegistry()
	d.Evidence.RegisterJobs(registry)
	return registry
}
