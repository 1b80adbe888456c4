package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/daru-studio/daru-engine/pkg/apperrors"
	"github.com/daru-studio/daru-engine/pkg/auth"
	"github.com/daru-studio/daru-engine/pkg/models"
)

func newProjectTestServer(t *testing.T, svc *mockProjectService, comments *mockCommentService, tokens map[string]*auth.Claims) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	middleware := auth.NewMiddleware(&stubAuthService{Tokens: tokens}, nil, zap.NewNop())
	NewProjectHandler(svc, comments, zap.NewNop()).RegisterRoutes(mux, middleware)
	return mux
}

func managerTokens(userID uuid.UUID) map[string]*auth.Claims {
	return map[string]*auth.Claims{
		"pm": claimsFor(userID, models.RoleProjectManager, models.PermissionsForRole(models.RoleProjectManager)),
	}
}

func TestUpdateProjectStatus_IllegalTransitionReturns422(t *testing.T) {
	projectID := uuid.New()
	svc := &mockProjectService{
		UpdateStatusFunc: func(context.Context, uuid.UUID, string, uuid.UUID, string) (*models.Project, error) {
			return nil, fmt.Errorf("%w: in_progress -> inquiry", apperrors.ErrTransitionNotAllowed)
		},
	}
	mux := newProjectTestServer(t, svc, nil, managerTokens(uuid.New()))

	body, _ := json.Marshal(UpdateStatusRequest{Status: models.StatusInquiry})
	req := httptest.NewRequest(http.MethodPatch, "/api/projects/"+projectID.String()+"/status", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer pm")
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "transition_not_allowed", resp["error"])
}

func TestUpdateProjectStatus_ConcurrentTransitionReturns409(t *testing.T) {
	svc := &mockProjectService{
		UpdateStatusFunc: func(context.Context, uuid.UUID, string, uuid.UUID, string) (*models.Project, error) {
			return nil, apperrors.ErrConflict
		},
	}
	mux := newProjectTestServer(t, svc, nil, managerTokens(uuid.New()))

	body, _ := json.Marshal(UpdateStatusRequest{Status: models.StatusApproved})
	req := httptest.NewRequest(http.MethodPatch, "/api/projects/"+uuid.New().String()+"/status", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer pm")
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUpdateProjectStatus_PassesActorAndComment(t *testing.T) {
	actorID := uuid.New()
	projectID := uuid.New()

	var gotStatus, gotComment string
	var gotActor uuid.UUID
	svc := &mockProjectService{
		UpdateStatusFunc: func(_ context.Context, id uuid.UUID, newStatus string, updatedBy uuid.UUID, comment string) (*models.Project, error) {
			gotStatus = newStatus
			gotActor = updatedBy
			gotComment = comment
			return &models.Project{ID: id, Status: newStatus}, nil
		},
	}
	mux := newProjectTestServer(t, svc, nil, managerTokens(actorID))

	body, _ := json.Marshal(UpdateStatusRequest{Status: models.StatusApproved, Comment: "sign-off received"})
	req := httptest.NewRequest(http.MethodPatch, "/api/projects/"+projectID.String()+"/status", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer pm")
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StatusApproved, gotStatus)
	assert.Equal(t, actorID, gotActor)
	assert.Equal(t, "sign-off received", gotComment)
}

func TestUpdateProjectStatus_DesignerLacksManagePermission(t *testing.T) {
	called := false
	svc := &mockProjectService{
		UpdateStatusFunc: func(context.Context, uuid.UUID, string, uuid.UUID, string) (*models.Project, error) {
			called = true
			return nil, nil
		},
	}
	mux := newProjectTestServer(t, svc, nil, map[string]*auth.Claims{
		"designer": claimsFor(uuid.New(), models.RoleDesigner, models.PermissionsForRole(models.RoleDesigner)),
	})

	body, _ := json.Marshal(UpdateStatusRequest{Status: models.StatusApproved})
	req := httptest.NewRequest(http.MethodPatch, "/api/projects/"+uuid.New().String()+"/status", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer designer")
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
}

func TestListProjects_ClientOnlySeesOwn(t *testing.T) {
	clientID := uuid.New()
	listCalled := false

	svc := &mockProjectService{
		ListFunc: func(context.Context) ([]*models.Project, error) {
			listCalled = true
			return nil, nil
		},
		ListByClientFunc: func(_ context.Context, gotClientID uuid.UUID) ([]*models.Project, error) {
			assert.Equal(t, clientID, gotClientID)
			return []*models.Project{{ID: uuid.New(), ClientID: gotClientID}}, nil
		},
	}
	mux := newProjectTestServer(t, svc, nil, map[string]*auth.Claims{
		"client": claimsFor(clientID, models.RoleClient, models.PermissionsForRole(models.RoleClient)),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.Header.Set("Authorization", "Bearer client")
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, listCalled, "a client must not see the full project list")

	var projects []*models.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &projects))
	assert.Len(t, projects, 1)
}

func TestGetTransitions(t *testing.T) {
	projectID := uuid.New()
	svc := &mockProjectService{
		GetFunc: func(_ context.Context, id uuid.UUID) (*models.Project, error) {
			return &models.Project{ID: id, Status: models.StatusReview}, nil
		},
	}
	mux := newProjectTestServer(t, svc, nil, managerTokens(uuid.New()))

	req := httptest.NewRequest(http.MethodGet, "/api/projects/"+projectID.String()+"/transitions", nil)
	req.Header.Set("Authorization", "Bearer pm")
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status      string   `json:"status"`
		Transitions []string `json:"transitions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusReview, resp.Status)
	assert.ElementsMatch(t, models.NextStatuses(models.StatusReview), resp.Transitions)
}

func TestPostComment_AttributesAuthor(t *testing.T) {
	authorID := uuid.New()
	projectID := uuid.New()

	comments := &mockCommentService{
		PostFunc: func(_ context.Context, gotProjectID, gotAuthorID uuid.UUID, body string) (*models.Comment, error) {
			assert.Equal(t, projectID, gotProjectID)
			assert.Equal(t, authorID, gotAuthorID)
			assert.Equal(t, "looks great", body)
			return &models.Comment{ID: uuid.New(), ProjectID: gotProjectID, AuthorID: gotAuthorID, Body: body}, nil
		},
	}
	mux := newProjectTestServer(t, &mockProjectService{}, comments, managerTokens(authorID))

	body, _ := json.Marshal(PostCommentRequest{Body: "looks great"})
	req := httptest.NewRequest(http.MethodPost, "/api/projects/"+projectID.String()+"/comments", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer pm")
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestDeleteProject_RequiresAdminRole(t *testing.T) {
	called := false
	svc := &mockProjectService{
		DeleteFunc: func(context.Context, uuid.UUID) error {
			called = true
			return nil
		},
	}
	mux := newProjectTestServer(t, svc, nil, managerTokens(uuid.New()))

	req := httptest.NewRequest(http.MethodDelete, "/api/projects/"+uuid.New().String(), nil)
	req.Header.Set("Authorization", "Bearer pm")
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
}
