package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"scobro-sync/internal/export"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type createEntryRequest struct {
	Timestamp string              `json:"timestamp"`
	Items     []createItemRequest `json:"items"`
}

type createItemRequest struct {
	ItemType string   `json:"itemType"`
	Content  string   `json:"content"`
	Project  string   `json:"project,omitempty"`
	Tags     []string `json:"tags"`
	Jira     []string `json:"jira"`
	People   []string `json:"people"`
}

type updateItemRequest struct {
	Content *string   `json:"content,omitempty"`
	Project *string   `json:"project,omitempty"`
	Tags    *[]string `json:"tags,omitempty"`
	Jira    *[]string `json:"jira,omitempty"`
	People  *[]string `json:"people,omitempty"`
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	timestamp, err := time.Parse(time.RFC3339, req.Timestamp)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid timestamp: "+err.Error())
		return
	}

	ctx := r.Context()
	entry, err := s.store.CreateEntry(ctx, timestamp)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	for _, itemReq := range req.Items {
		item, err := s.store.CreateEntryItem(ctx, entry.ID, itemReq.ItemType, itemReq.Content, itemReq.Project)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		for _, name := range itemReq.Tags {
			tag, err := s.store.GetOrCreateTag(ctx, name)
			if err == nil {
				err = s.store.LinkItemTag(ctx, item.ID, tag.ID)
			}
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
		}
		for _, name := range itemReq.People {
			person, err := s.store.GetOrCreatePerson(ctx, name)
			if err == nil {
				err = s.store.LinkItemPerson(ctx, item.ID, person.ID)
			}
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
		}
		for _, key := range itemReq.Jira {
			if _, err := s.store.CreateIssueRef(ctx, item.ID, key); err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
		}
	}

	entries, err := s.store.GetAllEntriesWithItems(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	for _, e := range entries {
		if e.Entry.ID == entry.ID {
			writeJSON(w, http.StatusCreated, e)
			return
		}
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.GetAllEntriesWithItems(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteEntry(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")
	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	ctx := r.Context()

	if req.Content != nil {
		if err := s.store.UpdateEntryItemContent(ctx, itemID, *req.Content); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	if req.Project != nil {
		if err := s.store.UpdateEntryItemProject(ctx, itemID, *req.Project); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	if req.Tags != nil {
		if err := s.store.RemoveItemTags(ctx, itemID); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		for _, name := range *req.Tags {
			tag, err := s.store.GetOrCreateTag(ctx, name)
			if err == nil {
				err = s.store.LinkItemTag(ctx, itemID, tag.ID)
			}
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
		}
	}
	if req.People != nil {
		if err := s.store.RemoveItemPeople(ctx, itemID); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		for _, name := range *req.People {
			person, err := s.store.GetOrCreatePerson(ctx, name)
			if err == nil {
				err = s.store.LinkItemPerson(ctx, itemID, person.ID)
			}
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
		}
	}
	if req.Jira != nil {
		if err := s.store.RemoveItemIssueRefs(ctx, itemID); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		for _, key := range *req.Jira {
			if _, err := s.store.CreateIssueRef(ctx, itemID, key); err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteEntryItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.GetAllEntriesWithItems(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Write([]byte(export.CSV(entries)))
}

func (s *Server) handleExportMarkdown(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.GetAllEntriesWithItems(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(export.Markdown(entries)))
}

type projectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.store.GetAllProjects(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "project name is required")
		return
	}
	project, err := s.store.CreateProject(r.Context(), req.Name, req.Description, req.Color)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	project, err := s.store.UpdateProject(r.Context(), chi.URLParam(r, "id"), req.Name, req.Description, req.Color)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteProject(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type meetingRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	StartTime   string `json:"startTime,omitempty"`
	EndTime     string `json:"endTime,omitempty"`
	Location    string `json:"location,omitempty"`
	MeetingType string `json:"meetingType,omitempty"`
}

func (s *Server) handleListMeetings(w http.ResponseWriter, r *http.Request) {
	meetings, err := s.store.GetAllMeetings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, meetings)
}

func (s *Server) handleCreateMeeting(w http.ResponseWriter, r *http.Request) {
	var req meetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		writeError(w, http.StatusBadRequest, "meeting title is required")
		return
	}
	meeting, err := s.store.CreateMeeting(r.Context(), req.Title, req.Description,
		parseOptionalTime(req.StartTime), parseOptionalTime(req.EndTime),
		req.Location, req.MeetingType)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, meeting)
}

func (s *Server) handleDeleteMeeting(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteMeeting(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSearchIssues(w http.ResponseWriter, r *http.Request) {
	if s.tracker == nil {
		writeError(w, http.StatusServiceUnavailable, "issue tracker not configured")
		return
	}
	jql := r.URL.Query().Get("jql")
	if jql == "" {
		writeError(w, http.StatusBadRequest, "jql query parameter is required")
		return
	}
	maxResults := 50
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 {
		maxResults = n
	}

	issues, err := s.tracker.SearchIssues(r.Context(), jql, maxResults)
	if err != nil {
		log.Warn().Err(err).Msg("Issue search failed")
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, issues)
}

func (s *Server) handleGetIssue(w http.ResponseWriter, r *http.Request) {
	if s.tracker == nil {
		writeError(w, http.StatusServiceUnavailable, "issue tracker not configured")
		return
	}
	issue, err := s.tracker.GetIssue(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		log.Warn().Err(err).Msg("Issue lookup failed")
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, issue)
}

// parseOptionalTime tolerates absent or malformed timestamps the way the UI
// sends them: a bad value simply means "unset".
func parseOptionalTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}
