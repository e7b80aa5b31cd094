package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/akarpov/portfolio-api/internal/apperrors"
	"github.com/akarpov/portfolio-api/internal/logger"
	"github.com/akarpov/portfolio-api/internal/models"
	"github.com/akarpov/portfolio-api/internal/repository"
	"github.com/akarpov/portfolio-api/internal/service/auth"
)

// Stub services with overridable function fields. Methods without an
// override fail loudly so a test never silently hits the wrong route.

type stubAuth struct {
	register      func(ctx context.Context, arg auth.RegisterParams) (models.User, models.TokenPair, error)
	login         func(ctx context.Context, email, password string) (models.User, models.TokenPair, error)
	refresh       func(ctx context.Context, token string) (models.IssuedToken, error)
	forgot        func(ctx context.Context, email string) error
	reset         func(ctx context.Context, token, password string) (models.User, error)
	change        func(ctx context.Context, id uuid.UUID, current, new string) error
	userFromToken func(ctx context.Context, token string) (models.User, error)
	updateProfile func(ctx context.Context, id uuid.UUID, arg auth.UpdateProfileParams) (models.User, error)
}

func (s *stubAuth) Register(ctx context.Context, arg auth.RegisterParams) (models.User, models.TokenPair, error) {
	return s.register(ctx, arg)
}
func (s *stubAuth) Login(ctx context.Context, email, password string) (models.User, models.TokenPair, error) {
	return s.login(ctx, email, password)
}
func (s *stubAuth) Refresh(ctx context.Context, token string) (models.IssuedToken, error) {
	return s.refresh(ctx, token)
}
func (s *stubAuth) ForgotPassword(ctx context.Context, email string) error {
	return s.forgot(ctx, email)
}
func (s *stubAuth) ResetPassword(ctx context.Context, token, password string) (models.User, error) {
	return s.reset(ctx, token, password)
}
func (s *stubAuth) ChangePassword(ctx context.Context, id uuid.UUID, current, new string) error {
	return s.change(ctx, id, current, new)
}
func (s *stubAuth) UserFromToken(ctx context.Context, token string) (models.User, error) {
	return s.userFromToken(ctx, token)
}
func (s *stubAuth) UpdateProfile(ctx context.Context, id uuid.UUID, arg auth.UpdateProfileParams) (models.User, error) {
	return s.updateProfile(ctx, id, arg)
}

type stubProjects struct {
	create func(ctx context.Context, p models.Project) (models.Project, error)
	list   func(ctx context.Context, f repository.ProjectFilter) ([]models.Project, int64, error)
	get    func(ctx context.Context, key string) (models.Project, error)
}

func (s *stubProjects) Create(ctx context.Context, p models.Project) (models.Project, error) {
	return s.create(ctx, p)
}
func (s *stubProjects) List(ctx context.Context, f repository.ProjectFilter) ([]models.Project, int64, error) {
	return s.list(ctx, f)
}
func (s *stubProjects) Categories(ctx context.Context) ([]string, error) {
	return []string{"web"}, nil
}
func (s *stubProjects) Get(ctx context.Context, key string) (models.Project, error) {
	return s.get(ctx, key)
}
func (s *stubProjects) Update(ctx context.Context, id uuid.UUID, arg repository.UpdateProjectParams) (models.Project, error) {
	return models.Project{}, apperrors.ErrProjectNotFound
}
func (s *stubProjects) Delete(ctx context.Context, id uuid.UUID) error {
	return apperrors.ErrProjectNotFound
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

type testEnv struct {
	srv  *httptest.Server
	auth *stubAuth
}

func newTestEnv(t *testing.T, projects *stubProjects) testEnv {
	t.Helper()

	stub := &stubAuth{}
	if projects == nil {
		projects = &stubProjects{}
	}

	router := NewRouter(RouterConfig{
		AuthService:    stub,
		ProjectService: projects,
		DB:             okPinger{},
		Logger:         logger.NewNoOpLogger(),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return testEnv{srv: srv, auth: stub}
}

func (e testEnv) do(t *testing.T, method, path, bearer string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, e.srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	defer resp.Body.Close() // nolint:errcheck

	return resp, respBody
}

func TestAuthRoutes(t *testing.T) {
	userID := uuid.New()
	registered := models.User{ID: userID, Email: "alex@example.com", Role: models.RoleClient}
	pair := models.TokenPair{
		Access:  models.IssuedToken{Value: "access-jwt", ExpiresAt: time.Now().Add(time.Hour)},
		Refresh: models.IssuedToken{Value: "refresh-jwt", ExpiresAt: time.Now().Add(2 * time.Hour)},
	}

	t.Run("register ok", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.auth.register = func(ctx context.Context, arg auth.RegisterParams) (models.User, models.TokenPair, error) {
			require.Equal(t, "alex@example.com", arg.Email)
			return registered, pair, nil
		}

		resp, body := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
			"email":     "alex@example.com",
			"password":  "hunter22hunter",
			"firstName": "Alex",
			"lastName":  "Karpov",
		})

		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

		var got authResponse
		require.NoError(t, json.Unmarshal(body, &got))
		require.Equal(t, "alex@example.com", got.User.Email)
		require.Equal(t, "access-jwt", got.AccessToken.Value)
		require.Equal(t, "refresh-jwt", got.RefreshToken.Value)
	})

	t.Run("register validation failed", func(t *testing.T) {
		env := newTestEnv(t, nil)

		resp, body := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
			"email":    "not-an-email",
			"password": "short",
		})

		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var got map[string]any
		require.NoError(t, json.Unmarshal(body, &got))
		require.Equal(t, "validation_failed", got["error"])

		fields := got["fields"].(map[string]any)
		require.Contains(t, fields, "email")
		require.Contains(t, fields, "password")
		require.Contains(t, fields, "firstName")
	})

	t.Run("register duplicate", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.auth.register = func(ctx context.Context, arg auth.RegisterParams) (models.User, models.TokenPair, error) {
			return models.User{}, models.TokenPair{}, apperrors.ErrUserAlreadyExists
		}

		resp, _ := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
			"email":     "alex@example.com",
			"password":  "hunter22hunter",
			"firstName": "Alex",
			"lastName":  "Karpov",
		})
		require.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("login invalid credentials", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.auth.login = func(ctx context.Context, email, password string) (models.User, models.TokenPair, error) {
			return models.User{}, models.TokenPair{}, apperrors.ErrInvalidCredentials
		}

		resp, body := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "alex@example.com",
			"password": "wrong",
		})

		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.JSONEq(t,
			`{
				"error": "service_error",
				"message": "invalid credentials"
			}`,
			string(body),
		)
	})

	t.Run("refresh invalid token", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.auth.refresh = func(ctx context.Context, token string) (models.IssuedToken, error) {
			return models.IssuedToken{}, apperrors.ErrInvalidToken
		}

		resp, _ := env.do(t, http.MethodPost, "/api/auth/refresh-token", "", map[string]string{
			"refreshToken": "garbage",
		})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("refresh missing token", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.auth.refresh = func(ctx context.Context, token string) (models.IssuedToken, error) {
			require.Empty(t, token)
			return models.IssuedToken{}, apperrors.ErrInvalidRequest
		}

		resp, _ := env.do(t, http.MethodPost, "/api/auth/refresh-token", "", map[string]string{})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("forgot password unknown email", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.auth.forgot = func(ctx context.Context, email string) error {
			return apperrors.ErrUserNotFound
		}

		resp, _ := env.do(t, http.MethodPost, "/api/auth/forgot-password", "", map[string]string{
			"email": "nobody@example.com",
		})
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("forgot password delivery failed", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.auth.forgot = func(ctx context.Context, email string) error {
			return apperrors.ErrEmailDeliveryFailed
		}

		resp, _ := env.do(t, http.MethodPost, "/api/auth/forgot-password", "", map[string]string{
			"email": "alex@example.com",
		})
		require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	})

	t.Run("reset password bad token", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.auth.reset = func(ctx context.Context, token, password string) (models.User, error) {
			return models.User{}, apperrors.ErrResetTokenInvalid
		}

		resp, _ := env.do(t, http.MethodPost, "/api/auth/reset-password", "", map[string]string{
			"token":    "spent-or-bogus",
			"password": "new-password",
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("me requires token", func(t *testing.T) {
		env := newTestEnv(t, nil)

		resp, _ := env.do(t, http.MethodGet, "/api/auth/me", "", nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("me ok", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.auth.userFromToken = func(ctx context.Context, token string) (models.User, error) {
			require.Equal(t, "valid-token", token)
			return registered, nil
		}

		resp, body := env.do(t, http.MethodGet, "/api/auth/me", "valid-token", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got models.User
		require.NoError(t, json.Unmarshal(body, &got))
		require.Equal(t, userID, got.ID)
	})

	t.Run("change password wrong current", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.auth.userFromToken = func(ctx context.Context, token string) (models.User, error) {
			return registered, nil
		}
		env.auth.change = func(ctx context.Context, id uuid.UUID, current, new string) error {
			require.Equal(t, userID, id)
			return apperrors.ErrInvalidCredentials
		}

		resp, _ := env.do(t, http.MethodPut, "/api/auth/change-password", "valid-token", map[string]string{
			"currentPassword": "wrong",
			"newPassword":     "new-password",
		})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestRoleGating(t *testing.T) {
	asRole := func(role models.Role) testEnv {
		projects := &stubProjects{
			create: func(ctx context.Context, p models.Project) (models.Project, error) {
				p.ID = uuid.New()
				return p, nil
			},
		}
		env := newTestEnv(t, projects)
		env.auth.userFromToken = func(ctx context.Context, token string) (models.User, error) {
			return models.User{ID: uuid.New(), Role: role}, nil
		}
		return env
	}

	payload := map[string]any{
		"title":       "New Project",
		"category":    "web",
		"description": "something",
	}

	t.Run("editor may create project", func(t *testing.T) {
		env := asRole(models.RoleEditor)

		resp, body := env.do(t, http.MethodPost, "/api/projects", "token", payload)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	})

	t.Run("client may not", func(t *testing.T) {
		env := asRole(models.RoleClient)

		resp, _ := env.do(t, http.MethodPost, "/api/projects", "token", payload)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("anonymous may not", func(t *testing.T) {
		env := newTestEnv(t, nil)

		resp, _ := env.do(t, http.MethodPost, "/api/projects", "", payload)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestProjectRoutes(t *testing.T) {
	t.Run("list with pagination envelope", func(t *testing.T) {
		projects := &stubProjects{
			list: func(ctx context.Context, f repository.ProjectFilter) ([]models.Project, int64, error) {
				require.Equal(t, 2, f.Page)
				require.Equal(t, 5, f.Limit)
				require.Equal(t, "web", f.Category)
				require.True(t, f.Featured)
				return []models.Project{{Title: "One"}}, 11, nil
			},
		}
		env := newTestEnv(t, projects)

		resp, body := env.do(t, http.MethodGet, "/api/projects?page=2&limit=5&category=web&featured=true", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got struct {
			Data       []models.Project `json:"data"`
			Pagination pagination       `json:"pagination"`
		}
		require.NoError(t, json.Unmarshal(body, &got))
		require.Len(t, got.Data, 1)
		require.Equal(t, pagination{Page: 2, Limit: 5, Total: 11, Pages: 3}, got.Pagination)
	})

	t.Run("get by slug", func(t *testing.T) {
		projects := &stubProjects{
			get: func(ctx context.Context, key string) (models.Project, error) {
				require.Equal(t, "my-project", key)
				return models.Project{Slug: "my-project"}, nil
			},
		}
		env := newTestEnv(t, projects)

		resp, _ := env.do(t, http.MethodGet, "/api/projects/my-project", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("get not found", func(t *testing.T) {
		projects := &stubProjects{
			get: func(ctx context.Context, key string) (models.Project, error) {
				return models.Project{}, apperrors.ErrProjectNotFound
			},
		}
		env := newTestEnv(t, projects)

		resp, _ := env.do(t, http.MethodGet, "/api/projects/missing", "", nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestHealthRoute(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, body := env.do(t, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"status": "ok"}`, string(body))
}
