package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/angelmondragon/vtps-backend/api/middleware"
	"github.com/angelmondragon/vtps-backend/api/responses"
	"github.com/angelmondragon/vtps-backend/internal/access"
	"github.com/angelmondragon/vtps-backend/internal/bulk"
	"github.com/angelmondragon/vtps-backend/internal/people"
	"github.com/angelmondragon/vtps-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/vtps-backend/pkg/errors"
	"github.com/angelmondragon/vtps-backend/pkg/pagination"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type stubPeopleService struct {
	filter  people.ListFilter
	actor   access.Principal
	created people.CreateRequest
	updated people.UpdateRequest
	deleted uuid.UUID
}

func (s *stubPeopleService) List(ctx context.Context, filter people.ListFilter, params pagination.Params) (pagination.Page[people.ListItemDTO], error) {
	s.filter = filter
	return pagination.NewPage([]people.ListItemDTO{{FirstName: "Ada"}}, 1, params), nil
}

func (s *stubPeopleService) Get(ctx context.Context, id uuid.UUID) (*people.DetailDTO, error) {
	return nil, pkgerrors.NotFound("person")
}

func (s *stubPeopleService) Create(ctx context.Context, actor access.Principal, req people.CreateRequest) (*people.DetailDTO, error) {
	s.actor = actor
	s.created = req
	return &people.DetailDTO{ID: uuid.New(), FirstName: req.FirstName}, nil
}

func (s *stubPeopleService) Update(ctx context.Context, actor access.Principal, id uuid.UUID, req people.UpdateRequest) (*people.DetailDTO, error) {
	s.actor = actor
	s.updated = req
	return &people.DetailDTO{ID: id}, nil
}

func (s *stubPeopleService) Delete(ctx context.Context, actor access.Principal, id uuid.UUID) error {
	s.deleted = id
	return nil
}

type stubBulkService struct {
	alerts bulk.AlertUpdateRequest
}

func (s *stubBulkService) UpdateAlerts(ctx context.Context, req bulk.AlertUpdateRequest) (*bulk.Result, error) {
	s.alerts = req
	return &bulk.Result{Updated: len(req.AlertIDs)}, nil
}

func (s *stubBulkService) UpdatePeople(ctx context.Context, req bulk.PersonUpdateRequest) (*bulk.Result, error) {
	return &bulk.Result{}, nil
}

func peopleRouter(svc people.Service) http.Handler {
	r := chi.NewRouter()
	r.Get("/people/", PersonList(svc, nil))
	r.Post("/people/", PersonCreate(svc, nil))
	r.Get("/people/{id}/", PersonDetail(svc, nil))
	r.Put("/people/{id}/", PersonUpdate(svc, nil))
	r.Patch("/people/{id}/", PersonUpdate(svc, nil))
	r.Delete("/people/{id}/", PersonDelete(svc, nil))
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string, p *access.Principal) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if p != nil {
		req = req.WithContext(middleware.WithPrincipal(req.Context(), *p))
	}
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return resp
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) responses.ErrorBody {
	t.Helper()
	var envelope responses.ErrorEnvelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Error
}

func caregiver() *access.Principal {
	return &access.Principal{UserID: uuid.New(), Role: enums.UserRoleCaregiver}
}

func TestPersonCreateRequiresPrincipal(t *testing.T) {
	svc := &stubPeopleService{}
	resp := do(t, peopleRouter(svc), http.MethodPost, "/people/", `{"first_name":"Ada","last_name":"Lovelace","age":36}`, nil)
	require.Equal(t, http.StatusUnauthorized, resp.Code)
	require.Equal(t, string(pkgerrors.CodeUnauthorized), decodeError(t, resp).Code)
}

func TestPersonCreateReturnsCreated(t *testing.T) {
	svc := &stubPeopleService{}
	actor := caregiver()
	resp := do(t, peopleRouter(svc), http.MethodPost, "/people/", `{"first_name":"Ada","last_name":"Lovelace","age":36}`, actor)
	require.Equal(t, http.StatusCreated, resp.Code)
	require.Equal(t, actor.UserID, svc.actor.UserID)
	require.Equal(t, "Ada", svc.created.FirstName)

	var envelope struct {
		Data people.DetailDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Equal(t, "Ada", envelope.Data.FirstName)
}

func TestPersonCreateRejectsInvalidBody(t *testing.T) {
	resp := do(t, peopleRouter(&stubPeopleService{}), http.MethodPost, "/people/", `{"first_name":"Ada"}`, caregiver())
	require.Equal(t, http.StatusBadRequest, resp.Code)
	apiErr := decodeError(t, resp)
	require.Equal(t, string(pkgerrors.CodeValidation), apiErr.Code)
	require.NotNil(t, apiErr.Details)
}

func TestPersonListParsesFilters(t *testing.T) {
	svc := &stubPeopleService{}
	resp := do(t, peopleRouter(svc), http.MethodGet, "/people/?risk_level=high&is_being_monitored=false&search=%20ada%20", "", caregiver())
	require.Equal(t, http.StatusOK, resp.Code)
	require.NotNil(t, svc.filter.RiskLevel)
	require.Equal(t, enums.RiskLevelHigh, *svc.filter.RiskLevel)
	require.NotNil(t, svc.filter.IsBeingMonitored)
	require.False(t, *svc.filter.IsBeingMonitored)
	require.Equal(t, "ada", svc.filter.Search)

	var envelope struct {
		Data pagination.Page[people.ListItemDTO] `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.EqualValues(t, 1, envelope.Data.Count)

	resp = do(t, peopleRouter(svc), http.MethodGet, "/people/?risk_level=extreme", "", caregiver())
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestPersonDetailMalformedIDIsNotFound(t *testing.T) {
	resp := do(t, peopleRouter(&stubPeopleService{}), http.MethodGet, "/people/not-a-uuid/", "", caregiver())
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestPersonUpdatePutRequiresMandatoryFields(t *testing.T) {
	svc := &stubPeopleService{}
	path := "/people/" + uuid.NewString() + "/"

	resp := do(t, peopleRouter(svc), http.MethodPut, path, `{"first_name":"Grace"}`, caregiver())
	require.Equal(t, http.StatusBadRequest, resp.Code)
	details := decodeError(t, resp).Details
	require.NotNil(t, details)

	resp = do(t, peopleRouter(svc), http.MethodPatch, path, `{"first_name":"Grace"}`, caregiver())
	require.Equal(t, http.StatusOK, resp.Code)
	require.NotNil(t, svc.updated.FirstName)
	require.Equal(t, "Grace", *svc.updated.FirstName)

	resp = do(t, peopleRouter(svc), http.MethodPut, path, `{"first_name":"Grace","last_name":"Hopper","age":85}`, caregiver())
	require.Equal(t, http.StatusOK, resp.Code)
}

func TestPersonDeleteReturnsNoContent(t *testing.T) {
	svc := &stubPeopleService{}
	id := uuid.New()
	resp := do(t, peopleRouter(svc), http.MethodDelete, "/people/"+id.String()+"/", "", caregiver())
	require.Equal(t, http.StatusNoContent, resp.Code)
	require.Empty(t, resp.Body.Bytes())
	require.Equal(t, id, svc.deleted)
}

func TestNilServiceIsInternalError(t *testing.T) {
	resp := do(t, peopleRouter(nil), http.MethodGet, "/people/", "", caregiver())
	require.Equal(t, http.StatusInternalServerError, resp.Code)
}

func TestBulkAlertUpdateDecodesRequest(t *testing.T) {
	svc := &stubBulkService{}
	h := BulkAlertUpdate(svc, nil)
	ids := []string{uuid.NewString(), uuid.NewString()}
	body := `{"alert_ids":["` + strings.Join(ids, `","`) + `"],"status":"resolved"}`

	resp := do(t, h, http.MethodPost, "/bulk-alert-update/", body, caregiver())
	require.Equal(t, http.StatusOK, resp.Code)
	require.Len(t, svc.alerts.AlertIDs, 2)
	require.Equal(t, enums.AlertStatusResolved, svc.alerts.Status)

	var envelope struct {
		Data bulk.Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Equal(t, 2, envelope.Data.Updated)

	resp = do(t, h, http.MethodPost, "/bulk-alert-update/", `{"alert_ids":[],"status":"resolved"}`, caregiver())
	require.Equal(t, http.StatusBadRequest, resp.Code)
}
