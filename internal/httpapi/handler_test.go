package httpapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/groszeck/taxena-netlify/internal/auth"
	"github.com/groszeck/taxena-netlify/internal/authz"
	"github.com/groszeck/taxena-netlify/internal/models"
	"github.com/groszeck/taxena-netlify/internal/store"
)

const (
	companyT1 = "11111111-1111-4111-8111-111111111111"
	companyT2 = "22222222-2222-4222-8222-222222222222"
	userU1    = "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"
	userU2    = "bbbbbbbb-bbbb-4bbb-8bbb-bbbbbbbbbbbb"
	recordR1  = "cccccccc-cccc-4ccc-8ccc-cccccccccccc"
)

const testSecret = "test-secret"

// fakeStore embeds a nil store.Store: any method without an override
// panics, which the router reports as a 500.
type fakeStore struct {
	store.Store

	mu     sync.Mutex
	audits []models.AuditLog

	getUserByEmailFn  func(ctx context.Context, email string) (models.User, error)
	signupFn          func(ctx context.Context, params store.SignupParams) (models.User, models.Company, error)
	getCompanyFn      func(ctx context.Context, companyID string) (models.Company, error)
	listContactsFn    func(ctx context.Context, companyID string, filter store.ContactFilter) ([]models.Contact, error)
	createContactFn   func(ctx context.Context, companyID, userID string, input store.ContactInput) (models.Contact, error)
	updateContactFn   func(ctx context.Context, companyID, id string, patch store.ContactPatch) (models.Contact, error)
	deleteContactFn   func(ctx context.Context, companyID, id string) error
	updateProposalFn  func(ctx context.Context, companyID, id string, patch store.ProposalPatch) (models.Proposal, error)
	createFileFn      func(ctx context.Context, companyID, userID string, upload store.FileUpload) (models.File, error)
	listMessagesFn    func(ctx context.Context, companyID, chatID, userID string) ([]models.Message, error)
	listTaxBracketsFn func(ctx context.Context, companyID string) ([]models.TaxBracket, error)
	dashboardFn       func(ctx context.Context, companyID string, allCompanies bool, year int) (models.Dashboard, error)
}

func (f *fakeStore) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return f.getUserByEmailFn(ctx, email)
}

func (f *fakeStore) Signup(ctx context.Context, params store.SignupParams) (models.User, models.Company, error) {
	return f.signupFn(ctx, params)
}

func (f *fakeStore) GetCompany(ctx context.Context, companyID string) (models.Company, error) {
	return f.getCompanyFn(ctx, companyID)
}

func (f *fakeStore) ListContacts(ctx context.Context, companyID string, filter store.ContactFilter) ([]models.Contact, error) {
	return f.listContactsFn(ctx, companyID, filter)
}

func (f *fakeStore) CreateContact(ctx context.Context, companyID, userID string, input store.ContactInput) (models.Contact, error) {
	return f.createContactFn(ctx, companyID, userID, input)
}

func (f *fakeStore) UpdateContact(ctx context.Context, companyID, id string, patch store.ContactPatch) (models.Contact, error) {
	return f.updateContactFn(ctx, companyID, id, patch)
}

func (f *fakeStore) DeleteContact(ctx context.Context, companyID, id string) error {
	return f.deleteContactFn(ctx, companyID, id)
}

func (f *fakeStore) UpdateProposal(ctx context.Context, companyID, id string, patch store.ProposalPatch) (models.Proposal, error) {
	return f.updateProposalFn(ctx, companyID, id, patch)
}

func (f *fakeStore) CreateFile(ctx context.Context, companyID, userID string, upload store.FileUpload) (models.File, error) {
	return f.createFileFn(ctx, companyID, userID, upload)
}

func (f *fakeStore) ListMessages(ctx context.Context, companyID, chatID, userID string) ([]models.Message, error) {
	return f.listMessagesFn(ctx, companyID, chatID, userID)
}

func (f *fakeStore) ListTaxBrackets(ctx context.Context, companyID string) ([]models.TaxBracket, error) {
	return f.listTaxBracketsFn(ctx, companyID)
}

func (f *fakeStore) Dashboard(ctx context.Context, companyID string, allCompanies bool, year int) (models.Dashboard, error) {
	return f.dashboardFn(ctx, companyID, allCompanies, year)
}

func (f *fakeStore) InsertAudit(_ context.Context, entry models.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.audits = append(f.audits, entry)
	return nil
}

func (f *fakeStore) auditActions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	actions := make([]string, 0, len(f.audits))
	for _, a := range f.audits {
		actions = append(actions, a.ActionType)
	}
	return actions
}

type testServer struct {
	handler http.Handler
	tokens  *auth.Tokens
}

func newTestServer(t *testing.T, st *fakeStore, configure ...func(*Deps)) testServer {
	t.Helper()
	authorizer, err := authz.New()
	require.NoError(t, err)
	tokens := auth.NewTokens(testSecret, time.Hour)
	deps := Deps{
		Store:     st,
		Tokens:    tokens,
		Passwords: auth.NewPasswords(4),
		Authz:     authorizer,
		Log:       zaptest.NewLogger(t),
	}
	for _, fn := range configure {
		fn(&deps)
	}
	return testServer{handler: NewHandler(deps).Routes(), tokens: tokens}
}

func (s testServer) token(t *testing.T, companyID, userID, role string) string {
	t.Helper()
	token, _, err := s.tokens.Issue(userID, companyID, role, "user@example.com")
	require.NoError(t, err)
	return "Bearer " + token
}

func (s testServer) do(t *testing.T, method, path, authorization string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	switch b := body.(type) {
	case nil:
	case string:
		payload = []byte(b)
	default:
		var err error
		payload, err = json.Marshal(b)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body.Error
}

func TestMissingOrMalformedAuthorizationSkipsStore(t *testing.T) {
	srv := newTestServer(t, &fakeStore{})

	cases := []struct {
		name   string
		method string
		path   string
		header string
	}{
		{"no header", http.MethodGet, "/api/contacts", ""},
		{"wrong scheme", http.MethodGet, "/api/invoices", "Token abc"},
		{"scheme only", http.MethodPost, "/api/tasks", "Bearer"},
		{"extra segment", http.MethodDelete, "/api/contacts/" + recordR1, "Bearer a b"},
		{"me", http.MethodGet, "/api/me", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := srv.do(t, tc.method, tc.path, tc.header, nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "missing or malformed authorization header", errorMessage(t, rec))
		})
	}
}

func TestExpiredTokenIsDistinguishedFromInvalid(t *testing.T) {
	srv := newTestServer(t, &fakeStore{})

	stale := srv.tokens.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })
	expired, _, err := stale.Issue(userU1, companyT1, authz.RoleMember, "")
	require.NoError(t, err)

	rec := srv.do(t, http.MethodGet, "/api/contacts", "Bearer "+expired, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "token expired", errorMessage(t, rec))

	forged, _, err := auth.NewTokens("other-secret", time.Hour).Issue(userU1, companyT1, authz.RoleMember, "")
	require.NoError(t, err)
	rec = srv.do(t, http.MethodGet, "/api/contacts", "Bearer "+forged, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid token", errorMessage(t, rec))
}

func TestContactCreatedForOneTenantIsInvisibleToAnother(t *testing.T) {
	var (
		mu       sync.Mutex
		contacts []models.Contact
	)
	st := &fakeStore{
		createContactFn: func(_ context.Context, companyID, userID string, in store.ContactInput) (models.Contact, error) {
			mu.Lock()
			defer mu.Unlock()
			c := models.Contact{ID: recordR1, CompanyID: companyID, Name: in.Name, Email: in.Email, CreatedBy: userID}
			contacts = append(contacts, c)
			return c, nil
		},
		listContactsFn: func(_ context.Context, companyID string, _ store.ContactFilter) ([]models.Contact, error) {
			mu.Lock()
			defer mu.Unlock()
			out := []models.Contact{}
			for _, c := range contacts {
				if c.CompanyID == companyID {
					out = append(out, c)
				}
			}
			return out, nil
		},
	}
	srv := newTestServer(t, st)

	body := map[string]string{"name": "A", "email": "a@x.com", "company_id": companyT2, "companyId": companyT2}
	rec := srv.do(t, http.MethodPost, "/api/contacts", srv.token(t, companyT1, userU1, authz.RoleMember), body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created models.Contact
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, companyT1, created.CompanyID)
	assert.Equal(t, userU1, created.CreatedBy)
	assert.Equal(t, []string{"contact.create"}, st.auditActions())

	rec = srv.do(t, http.MethodGet, "/api/contacts", srv.token(t, companyT2, userU2, authz.RoleMember), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = srv.do(t, http.MethodGet, "/api/contacts", srv.token(t, companyT1, userU1, authz.RoleMember), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []models.Contact
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Len(t, listed, 1)
}

func TestForeignRecordUpdateIsNotFound(t *testing.T) {
	st := &fakeStore{
		updateContactFn: func(_ context.Context, companyID, id string, _ store.ContactPatch) (models.Contact, error) {
			assert.Equal(t, companyT2, companyID)
			assert.Equal(t, recordR1, id)
			return models.Contact{}, fmt.Errorf("update contact: %w", store.ErrNotFound)
		},
	}
	srv := newTestServer(t, st)

	rec := srv.do(t, http.MethodPatch, "/api/contacts/"+recordR1,
		srv.token(t, companyT2, userU2, authz.RoleAdmin), map[string]string{"name": "Mallory"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", errorMessage(t, rec))
	assert.Empty(t, st.auditActions())
}

func TestPatchByQueryID(t *testing.T) {
	st := &fakeStore{
		updateContactFn: func(_ context.Context, companyID, id string, patch store.ContactPatch) (models.Contact, error) {
			require.NotNil(t, patch.Name)
			return models.Contact{ID: id, CompanyID: companyID, Name: *patch.Name}, nil
		},
	}
	srv := newTestServer(t, st)

	rec := srv.do(t, http.MethodPut, "/api/contacts?id="+recordR1,
		srv.token(t, companyT1, userU1, authz.RoleMember), map[string]string{"name": "Grace"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"name":"Grace"`)
	assert.Equal(t, []string{"contact.update"}, st.auditActions())

	rec = srv.do(t, http.MethodPatch, "/api/contacts",
		srv.token(t, companyT1, userU1, authz.RoleMember), map[string]string{"name": "Grace"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "id is required", errorMessage(t, rec))
}

func TestRepeatDeleteIsNotFound(t *testing.T) {
	deleted := false
	st := &fakeStore{
		deleteContactFn: func(_ context.Context, companyID, id string) error {
			if deleted {
				return fmt.Errorf("delete contact: %w", store.ErrNotFound)
			}
			deleted = true
			return nil
		},
	}
	srv := newTestServer(t, st)
	token := srv.token(t, companyT1, userU1, authz.RoleMember)

	rec := srv.do(t, http.MethodDelete, "/api/contacts/"+recordR1, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = srv.do(t, http.MethodDelete, "/api/contacts/"+recordR1, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInvalidRecordID(t *testing.T) {
	srv := newTestServer(t, &fakeStore{})
	rec := srv.do(t, http.MethodGet, "/api/contacts/not-a-uuid", srv.token(t, companyT1, userU1, authz.RoleMember), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "id must be a valid UUID", errorMessage(t, rec))
}

func TestValidationListsEveryViolation(t *testing.T) {
	srv := newTestServer(t, &fakeStore{})
	token := srv.token(t, companyT1, userU1, authz.RoleMember)

	rec := srv.do(t, http.MethodPost, "/api/contacts", token, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	msg := errorMessage(t, rec)
	assert.Contains(t, msg, "name is required")
	assert.Contains(t, msg, "email is required")

	rec = srv.do(t, http.MethodPost, "/api/contacts", token, `{"name": "A",`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid JSON body", errorMessage(t, rec))

	rec = srv.do(t, http.MethodPost, "/api/contracts", token, map[string]any{
		"name": "MSA", "start_date": "2024-05-01", "end_date": "2024-04-01",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "end_date must be on or after start_date", errorMessage(t, rec))
}

func TestNoFieldsToUpdate(t *testing.T) {
	st := &fakeStore{
		updateContactFn: func(context.Context, string, string, store.ContactPatch) (models.Contact, error) {
			return models.Contact{}, store.ErrNoChanges
		},
	}
	srv := newTestServer(t, st)
	rec := srv.do(t, http.MethodPatch, "/api/contacts/"+recordR1, srv.token(t, companyT1, userU1, authz.RoleMember), `{"unknown": 1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "no fields to update", errorMessage(t, rec))
}

func TestInternalErrorsAreHidden(t *testing.T) {
	st := &fakeStore{
		listContactsFn: func(context.Context, string, store.ContactFilter) ([]models.Contact, error) {
			return nil, errors.New("dial tcp 10.0.0.5:5432: connection refused")
		},
	}
	srv := newTestServer(t, st)
	rec := srv.do(t, http.MethodGet, "/api/contacts", srv.token(t, companyT1, userU1, authz.RoleMember), nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", errorMessage(t, rec))
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}

func TestSignup(t *testing.T) {
	t.Run("duplicate email", func(t *testing.T) {
		st := &fakeStore{
			signupFn: func(_ context.Context, p store.SignupParams) (models.User, models.Company, error) {
				assert.Equal(t, "taken@example.com", p.Email)
				return models.User{}, models.Company{}, fmt.Errorf("signup: %w", store.ErrEmailTaken)
			},
		}
		srv := newTestServer(t, st)
		rec := srv.do(t, http.MethodPost, "/api/signup", "", map[string]string{
			"name": "Ann", "email": " Taken@Example.com ", "company_name": "Acme", "password": "long-enough",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "email already in use", errorMessage(t, rec))
		assert.Empty(t, st.auditActions())
	})

	t.Run("short password", func(t *testing.T) {
		srv := newTestServer(t, &fakeStore{})
		rec := srv.do(t, http.MethodPost, "/api/signup", "", map[string]string{
			"name": "Ann", "email": "ann@example.com", "company_name": "Acme", "password": "short",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "password must be at least 8 characters", errorMessage(t, rec))
	})

	t.Run("creates session", func(t *testing.T) {
		st := &fakeStore{
			signupFn: func(_ context.Context, p store.SignupParams) (models.User, models.Company, error) {
				assert.NotEqual(t, "long-enough", p.PasswordHash)
				return models.User{ID: userU1, CompanyID: companyT1, Name: p.Name, Email: p.Email, Role: authz.RoleAdmin},
					models.Company{ID: companyT1, Name: p.CompanyName}, nil
			},
		}
		srv := newTestServer(t, st)
		rec := srv.do(t, http.MethodPost, "/api/signup", "", map[string]string{
			"name": "Ann", "email": "ann@example.com", "company_name": "Acme", "password": "long-enough",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var resp sessionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, companyT1, resp.User.CompanyID)
		assert.Equal(t, authz.RoleAdmin, resp.User.Role)

		session, err := srv.tokens.Authenticate("Bearer " + resp.Token)
		require.NoError(t, err)
		assert.Equal(t, userU1, session.UserID)
		assert.Equal(t, []string{"user.signup"}, st.auditActions())
	})
}

func TestLogin(t *testing.T) {
	hash, err := auth.NewPasswords(4).Hash("correct horse")
	require.NoError(t, err)
	st := &fakeStore{
		getUserByEmailFn: func(_ context.Context, email string) (models.User, error) {
			if email != "ann@example.com" {
				return models.User{}, store.ErrNotFound
			}
			return models.User{ID: userU1, CompanyID: companyT1, Email: email, Role: "sysadmin", PasswordHash: hash, Active: true}, nil
		},
	}
	srv := newTestServer(t, st)

	rec := srv.do(t, http.MethodPost, "/api/login", "", map[string]string{"email": "ANN@example.com", "password": "correct horse"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, authz.RoleSuperadmin, resp.User.Role)
	assert.NotEmpty(t, resp.Token)

	for _, body := range []map[string]string{
		{"email": "ann@example.com", "password": "wrong"},
		{"email": "nobody@example.com", "password": "correct horse"},
	} {
		rec = srv.do(t, http.MethodPost, "/api/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "invalid credentials", errorMessage(t, rec))
	}
}

func TestRolePermissions(t *testing.T) {
	st := &fakeStore{
		getCompanyFn: func(_ context.Context, companyID string) (models.Company, error) {
			return models.Company{ID: companyID, Name: "Co"}, nil
		},
	}
	srv := newTestServer(t, st)

	rec := srv.do(t, http.MethodGet, "/api/audit", srv.token(t, companyT1, userU1, authz.RoleMember), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "insufficient permissions", errorMessage(t, rec))

	rec = srv.do(t, http.MethodGet, "/api/companies", srv.token(t, companyT1, userU1, authz.RoleMember), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/companies", srv.token(t, companyT1, userU1, authz.RoleAdmin), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), companyT1)

	rec = srv.do(t, http.MethodGet, "/api/companies/"+companyT2, srv.token(t, companyT1, userU1, authz.RoleAdmin), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/companies/"+companyT2, srv.token(t, companyT1, userU1, "sysadmin"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), companyT2)

	rec = srv.do(t, http.MethodPost, "/api/companies", srv.token(t, companyT1, userU1, authz.RoleAdmin), map[string]string{"name": "New"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestProposalTransitionConflict(t *testing.T) {
	st := &fakeStore{
		updateProposalFn: func(context.Context, string, string, store.ProposalPatch) (models.Proposal, error) {
			return models.Proposal{}, fmt.Errorf("accepted to draft: %w", store.ErrInvalidTransition)
		},
	}
	srv := newTestServer(t, st)
	rec := srv.do(t, http.MethodPatch, "/api/proposals/"+recordR1,
		srv.token(t, companyT1, userU1, authz.RoleMember), map[string]string{"status": "draft"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "invalid status transition", errorMessage(t, rec))
}

func TestCalculateTax(t *testing.T) {
	capA, capB := 10000.0, 40000.0
	st := &fakeStore{
		listTaxBracketsFn: func(_ context.Context, companyID string) ([]models.TaxBracket, error) {
			assert.Equal(t, companyT1, companyID)
			return []models.TaxBracket{
				{BracketCap: &capA, Rate: 0.10},
				{BracketCap: &capB, Rate: 0.20},
				{Rate: 0.30},
			}, nil
		},
	}
	srv := newTestServer(t, st)
	token := srv.token(t, companyT1, userU1, authz.RoleMember)

	for income, want := range map[float64]float64{25000: 4000, 0: 0, 50000: 10000} {
		rec := srv.do(t, http.MethodPost, "/api/accounting/calculate", token, map[string]float64{"taxable_income": income})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var got models.TaxCalculation
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.InDelta(t, want, got.TaxOwed, 0.001, "income %v", income)
	}

	rec := srv.do(t, http.MethodPost, "/api/accounting/calculate", token, map[string]float64{"taxable_income": -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFileUploadLimits(t *testing.T) {
	st := &fakeStore{
		createFileFn: func(_ context.Context, companyID, userID string, upload store.FileUpload) (models.File, error) {
			return models.File{ID: recordR1, CompanyID: companyID, FileName: upload.FileName, FileSize: int64(len(upload.Data))}, nil
		},
	}
	srv := newTestServer(t, st, func(d *Deps) { d.MaxUploadBytes = 8 })
	token := srv.token(t, companyT1, userU1, authz.RoleMember)

	envelope := func(n int) map[string]string {
		return map[string]string{
			"file_name": "notes.txt",
			"file_type": "text/plain",
			"file_data": base64.StdEncoding.EncodeToString(bytes.Repeat([]byte("x"), n)),
		}
	}

	rec := srv.do(t, http.MethodPost, "/api/files", token, envelope(16))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "file too large", errorMessage(t, rec))

	rec = srv.do(t, http.MethodPost, "/api/files", token, envelope(8))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"file_size":8`)

	bad := envelope(4)
	bad["file_type"] = "application/x-msdownload"
	rec = srv.do(t, http.MethodPost, "/api/files", token, bad)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	huge := envelope(1)
	huge["file_name"] = strings.Repeat("a", 128<<10)
	rec = srv.do(t, http.MethodPost, "/api/files", token, huge)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestChatNonParticipantIsForbidden(t *testing.T) {
	st := &fakeStore{
		listMessagesFn: func(context.Context, string, string, string) ([]models.Message, error) {
			return nil, fmt.Errorf("chat: %w", store.ErrNotParticipant)
		},
	}
	srv := newTestServer(t, st)
	rec := srv.do(t, http.MethodGet, "/api/chats/"+recordR1+"/messages", srv.token(t, companyT1, userU1, authz.RoleMember), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "not a chat participant", errorMessage(t, rec))
}

func TestDashboardDefaultsToCurrentYear(t *testing.T) {
	st := &fakeStore{
		dashboardFn: func(_ context.Context, companyID string, all bool, year int) (models.Dashboard, error) {
			assert.Equal(t, companyT1, companyID)
			assert.False(t, all)
			assert.Equal(t, 2024, year)
			return models.Dashboard{TotalCompanies: 1}, nil
		},
	}
	srv := newTestServer(t, st, func(d *Deps) {
		d.Now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	})
	rec := srv.do(t, http.MethodGet, "/api/dashboard", srv.token(t, companyT1, userU1, authz.RoleMember), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"monthly_revenue":[0,0,0,0,0,0,0,0,0,0,0,0]`)

	rec = srv.do(t, http.MethodGet, "/api/dashboard?year=abc", srv.token(t, companyT1, userU1, authz.RoleMember), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORSPreflightSkipsAuth(t *testing.T) {
	srv := newTestServer(t, &fakeStore{}, func(d *Deps) { d.CORSOrigins = []string{"https://app.example.com"} })

	req := httptest.NewRequest(http.MethodOptions, "/api/contacts", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")

	req = httptest.NewRequest(http.MethodOptions, "/api/contacts", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMethodNotAllowedAndUnknownRoute(t *testing.T) {
	srv := newTestServer(t, &fakeStore{})

	rec := srv.do(t, http.MethodDelete, "/api/login", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "POST", rec.Header().Get("Allow"))
	assert.Equal(t, "method not allowed", errorMessage(t, rec))

	rec = srv.do(t, http.MethodPatch, "/api/files/"+recordR1, srv.token(t, companyT1, userU1, authz.RoleMember), nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "DELETE, GET", rec.Header().Get("Allow"))

	rec = srv.do(t, http.MethodGet, "/api/nowhere", srv.token(t, companyT1, userU1, authz.RoleMember), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", errorMessage(t, rec))
}

func TestOperationalEndpoints(t *testing.T) {
	srv := newTestServer(t, &fakeStore{})

	rec := srv.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = srv.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `crm_http_requests_total{method="GET",route="/healthz",status="200"} 1`)
}
