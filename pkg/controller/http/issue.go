package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/issueboard/pkg/domain/interfaces"
	"github.com/secmon-lab/issueboard/pkg/domain/model"
	"github.com/secmon-lab/issueboard/pkg/domain/types"
	"github.com/secmon-lab/issueboard/pkg/usecase"
)

type issueResponse struct {
	ID          types.IssueID     `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Priority    types.Priority    `json:"priority"`
	Status      types.IssueStatus `json:"status"`
	AssignedTo  string            `json:"assigned_to,omitempty"`
	CreatedBy   string            `json:"created_by"`
	CreatedTime time.Time         `json:"created_time"`
}

func toIssueResponse(issue *model.Issue) issueResponse {
	return issueResponse{
		ID:          issue.ID,
		Title:       issue.Title,
		Description: issue.Description,
		Priority:    issue.Priority,
		Status:      issue.Status,
		AssignedTo:  issue.AssignedTo,
		CreatedBy:   issue.CreatedBy,
		CreatedTime: issue.CreatedTime,
	}
}

type issueListResponse struct {
	Issues []issueResponse `json:"issues"`
}

type createIssueRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	AssignedTo  string `json:"assigned_to"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type similarRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// similarWarning is one "possible duplicate" line shown under the form
type similarWarning struct {
	ID         types.IssueID     `json:"id"`
	Title      string            `json:"title"`
	Status     types.IssueStatus `json:"status"`
	Score      float64           `json:"score"`
	Percent    int               `json:"percent"`
	Reason     types.MatchReason `json:"reason"`
	ReasonText string            `json:"reason_text"`
}

type similarResponse struct {
	Warnings []similarWarning `json:"warnings"`
	Total    int              `json:"total"`
}

func createIssueHandler(uc *usecase.IssueUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createIssueRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(r.Context(), w, err)
			return
		}

		issue, err := uc.CreateIssue(r.Context(), usecase.CreateIssueInput{
			Title:       req.Title,
			Description: req.Description,
			Priority:    types.Priority(req.Priority),
			Status:      types.IssueStatus(req.Status),
			AssignedTo:  req.AssignedTo,
		})
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusCreated, toIssueResponse(issue))
	}
}

func listIssuesHandler(uc *usecase.IssueUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var opts []interfaces.ListIssueOption

		query := r.URL.Query()
		if v := query.Get("status"); v != "" {
			status, err := types.ParseIssueStatus(v)
			if err != nil {
				writeError(r.Context(), w, goerr.Wrap(errBadRequest, err.Error()))
				return
			}
			opts = append(opts, interfaces.WithStatus(status))
		}
		if v := query.Get("priority"); v != "" {
			priority, err := types.ParsePriority(v)
			if err != nil {
				writeError(r.Context(), w, goerr.Wrap(errBadRequest, err.Error()))
				return
			}
			opts = append(opts, interfaces.WithPriority(priority))
		}

		issues, err := uc.ListIssues(r.Context(), opts...)
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}

		resp := issueListResponse{Issues: make([]issueResponse, len(issues))}
		for i, issue := range issues {
			resp.Issues[i] = toIssueResponse(issue)
		}
		writeJSON(r.Context(), w, http.StatusOK, resp)
	}
}

func getIssueHandler(uc *usecase.IssueUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := types.IssueID(chi.URLParam(r, "id"))

		issue, err := uc.GetIssue(r.Context(), id)
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, toIssueResponse(issue))
	}
}

func updateIssueStatusHandler(uc *usecase.IssueUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := types.IssueID(chi.URLParam(r, "id"))

		var req updateStatusRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(r.Context(), w, err)
			return
		}

		issue, err := uc.UpdateIssueStatus(r.Context(), id, types.IssueStatus(req.Status))
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, toIssueResponse(issue))
	}
}

func similarIssuesHandler(uc *usecase.DuplicateUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req similarRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(r.Context(), w, err)
			return
		}

		report, err := uc.CheckDuplicates(r.Context(), model.IssueDraft{
			Title:       req.Title,
			Description: req.Description,
		})
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}

		resp := similarResponse{
			Warnings: make([]similarWarning, len(report.Displayed)),
			Total:    report.Total(),
		}
		for i, m := range report.Displayed {
			resp.Warnings[i] = similarWarning{
				ID:         m.Issue.ID,
				Title:      m.Issue.Title,
				Status:     m.Issue.Status,
				Score:      m.Score,
				Percent:    m.Percent(),
				Reason:     m.Reason,
				ReasonText: m.Reason.Text(),
			}
		}
		writeJSON(r.Context(), w, http.StatusOK, resp)
	}
}
