package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/groszeck/taxena-netlify/internal/auth"
	"github.com/groszeck/taxena-netlify/internal/models"
	"github.com/groszeck/taxena-netlify/internal/store"
	"github.com/groszeck/taxena-netlify/internal/validate"
)

func (h *Handler) tasksResource() resource[models.Task, store.TaskInput, store.TaskPatch] {
	return resource[models.Task, store.TaskInput, store.TaskPatch]{
		name: "task",
		id:   func(t models.Task) string { return t.ID },
		list: func(r *http.Request, s auth.Session) ([]models.Task, error) {
			filter := store.TaskFilter{Status: strings.TrimSpace(r.URL.Query().Get("status"))}
			if err := validate.Struct(filter); err != nil {
				return nil, err
			}
			return h.store.ListTasks(r.Context(), s.CompanyID, filter)
		},
		get: h.store.GetTask,
		create: func(r *http.Request, s auth.Session, in store.TaskInput) (models.Task, error) {
			return h.store.CreateTask(r.Context(), s.CompanyID, s.UserID, in)
		},
		update: func(ctx context.Context, s auth.Session, id string, p store.TaskPatch) (models.Task, error) {
			return h.store.UpdateTask(ctx, s.CompanyID, id, p)
		},
		delete: h.store.DeleteTask,
	}
}

func (h *Handler) projectsResource() resource[models.Project, store.ProjectInput, store.ProjectPatch] {
	return resource[models.Project, store.ProjectInput, store.ProjectPatch]{
		name: "project",
		id:   func(p models.Project) string { return p.ID },
		list: func(r *http.Request, s auth.Session) ([]models.Project, error) {
			return h.store.ListProjects(r.Context(), s.CompanyID)
		},
		get: h.store.GetProject,
		create: func(r *http.Request, s auth.Session, in store.ProjectInput) (models.Project, error) {
			return h.store.CreateProject(r.Context(), s.CompanyID, s.UserID, in)
		},
		update: func(ctx context.Context, s auth.Session, id string, p store.ProjectPatch) (models.Project, error) {
			return h.store.UpdateProject(ctx, s.CompanyID, id, p)
		},
		delete: h.store.DeleteProject,
	}
}

func (h *Handler) timeEntriesResource() resource[models.TimeEntry, store.TimeEntryInput, store.TimeEntryPatch] {
	return resource[models.TimeEntry, store.TimeEntryInput, store.TimeEntryPatch]{
		name: "time_entry",
		id:   func(e models.TimeEntry) string { return e.ID },
		list: func(r *http.Request, s auth.Session) ([]models.TimeEntry, error) {
			query := r.URL.Query()
			filter := store.TimeEntryFilter{
				ProjectID: strings.TrimSpace(firstNonEmpty(query.Get("project_id"), query.Get("projectId"))),
			}
			if err := validate.Struct(filter); err != nil {
				return nil, err
			}
			return h.store.ListTimeEntries(r.Context(), s.CompanyID, filter)
		},
		get: h.store.GetTimeEntry,
		create: func(r *http.Request, s auth.Session, in store.TimeEntryInput) (models.TimeEntry, error) {
			return h.store.CreateTimeEntry(r.Context(), s.CompanyID, s.UserID, in)
		},
		update: func(ctx context.Context, s auth.Session, id string, p store.TimeEntryPatch) (models.TimeEntry, error) {
			return h.store.UpdateTimeEntry(ctx, s.CompanyID, id, p)
		},
		delete: h.store.DeleteTimeEntry,
	}
}

func (h *Handler) eventsResource() resource[models.Event, store.EventInput, store.EventPatch] {
	return resource[models.Event, store.EventInput, store.EventPatch]{
		name: "event",
		id:   func(e models.Event) string { return e.ID },
		list: func(r *http.Request, s auth.Session) ([]models.Event, error) {
			return h.store.ListEvents(r.Context(), s.CompanyID)
		},
		get: h.store.GetEvent,
		create: func(r *http.Request, s auth.Session, in store.EventInput) (models.Event, error) {
			return h.store.CreateEvent(r.Context(), s.CompanyID, s.UserID, in)
		},
		update: func(ctx context.Context, s auth.Session, id string, p store.EventPatch) (models.Event, error) {
			return h.store.UpdateEvent(ctx, s.CompanyID, id, p)
		},
		delete: h.store.DeleteEvent,
	}
}
