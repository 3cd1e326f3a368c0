package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/loglens/loglens/internal/api/response"
	"github.com/loglens/loglens/internal/store"
	"github.com/loglens/loglens/internal/token"
	"github.com/loglens/loglens/pkg/models"
	"golang.org/x/crypto/bcrypt"
)

// NewAuthHandler returns the handler for POST /api/auth. One endpoint serves
// both signup and login, discriminated by isNewAccount.
func NewAuthHandler(s store.Store, tokens *token.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PackageName  string `json:"packageName"`
			Password     string `json:"password"`
			IsNewAccount bool   `json:"isNewAccount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		if req.PackageName == "" || req.Password == "" {
			response.Error(w, http.StatusBadRequest, "Package name and password required")
			return
		}

		if req.IsNewAccount {
			if err := signup(r, s, req.PackageName, req.Password); err != nil {
				writeAuthError(w, err)
				return
			}
		} else {
			if err := login(r, s, req.PackageName, req.Password); err != nil {
				writeAuthError(w, err)
				return
			}
		}

		signed, err := tokens.Issue(req.PackageName)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}

		response.JSON(w, http.StatusOK, map[string]string{
			"token":       signed,
			"packageName": req.PackageName,
		})
	}
}

var errPackageExists = errors.New("package already exists")
var errInvalidCredentials = errors.New("invalid credentials")

func signup(r *http.Request, s store.Store, name, password string) error {
	// Advisory existence check; the insert's uniqueness constraint is the
	// real guard against a concurrent signup for the same name.
	_, err := s.GetPackage(r.Context(), name)
	if err == nil {
		return errPackageExists
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	err = s.CreatePackage(r.Context(), &models.Package{
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	})
	if errors.Is(err, store.ErrDuplicate) {
		return errPackageExists
	}
	return err
}

func login(r *http.Request, s store.Store, name, password string) error {
	pkg, err := s.GetPackage(r.Context(), name)
	if errors.Is(err, store.ErrNotFound) {
		// Same error as a wrong password so responses don't reveal whether
		// the name is registered.
		return errInvalidCredentials
	}
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(pkg.PasswordHash), []byte(password)) != nil {
		return errInvalidCredentials
	}
	return nil
}

func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errPackageExists):
		response.Error(w, http.StatusConflict, "Package already exists")
	case errors.Is(err, errInvalidCredentials):
		response.Error(w, http.StatusUnauthorized, "Invalid credentials")
	default:
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
	}
}
