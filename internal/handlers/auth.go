package handlers

import (
	"net/http"

	"github.com/akarpov/portfolio-api/internal/handlers/render"
	"github.com/akarpov/portfolio-api/internal/handlers/userctx"
	"github.com/akarpov/portfolio-api/internal/logger"
	"github.com/akarpov/portfolio-api/internal/models"
	"github.com/akarpov/portfolio-api/internal/service/auth"
)

type authResponse struct {
	User         models.User        `json:"user"`
	AccessToken  models.IssuedToken `json:"accessToken"`
	RefreshToken models.IssuedToken `json:"refreshToken"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func handleRegister(s authService, log logger.Logger) http.Handler {
	type request struct {
		Email     string `json:"email" validate:"required,email"`
		Password  string `json:"password" validate:"required,min=8"`
		FirstName string `json:"firstName" validate:"required,max=100"`
		LastName  string `json:"lastName" validate:"required,max=100"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		user, pair, err := s.Register(r.Context(), auth.RegisterParams{
			Email:     req.Email,
			Password:  req.Password,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		})
		if err != nil {
			respondError(w, log, err)
			return
		}

		render.JSONStatus(w, authResponse{
			User:         user,
			AccessToken:  pair.Access,
			RefreshToken: pair.Refresh,
		}, http.StatusCreated)
	})
}

func handleLogin(s authService, log logger.Logger) http.Handler {
	type request struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		user, pair, err := s.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			respondError(w, log, err)
			return
		}

		render.JSON(w, authResponse{
			User:         user,
			AccessToken:  pair.Access,
			RefreshToken: pair.Refresh,
		})
	})
}

func handleRefreshToken(s authService, log logger.Logger) http.Handler {
	type request struct {
		RefreshToken string `json:"refreshToken"`
	}
	type response struct {
		AccessToken models.IssuedToken `json:"accessToken"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		access, err := s.Refresh(r.Context(), req.RefreshToken)
		if err != nil {
			respondError(w, log, err)
			return
		}

		render.JSON(w, response{AccessToken: access})
	})
}

func handleForgotPassword(s authService, log logger.Logger) http.Handler {
	type request struct {
		Email string `json:"email" validate:"required,email"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		if err := s.ForgotPassword(r.Context(), req.Email); err != nil {
			respondError(w, log, err)
			return
		}

		render.JSON(w, messageResponse{Message: "Password reset email sent"})
	})
}

func handleResetPassword(s authService, log logger.Logger) http.Handler {
	type request struct {
		Token    string `json:"token" validate:"required"`
		Password string `json:"password" validate:"required,min=8"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		if _, err := s.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
			respondError(w, log, err)
			return
		}

		render.JSON(w, messageResponse{Message: "Password has been reset"})
	})
}

func handleChangePassword(s authService, log logger.Logger) http.Handler {
	type request struct {
		CurrentPassword string `json:"currentPassword" validate:"required"`
		NewPassword     string `json:"newPassword" validate:"required,min=8"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		if err := s.ChangePassword(r.Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
			respondError(w, log, err)
			return
		}

		render.JSON(w, messageResponse{Message: "Password changed"})
	})
}

func handleMe() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		render.JSON(w, user)
	})
}

func handleUpdateProfile(s authService, log logger.Logger) http.Handler {
	type request struct {
		Email     *string `json:"email" validate:"omitempty,email"`
		FirstName *string `json:"firstName" validate:"omitempty,max=100"`
		LastName  *string `json:"lastName" validate:"omitempty,max=100"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		updated, err := s.UpdateProfile(r.Context(), user.ID, auth.UpdateProfileParams{
			Email:     req.Email,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		})
		if err != nil {
			respondError(w, log, err)
			return
		}

		render.JSON(w, updated)
	})
}
