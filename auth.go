package main

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// devUserID is the single user served when running on the memory store.
const devUserID = 1

// dummyHash stands in for a missing user's password hash so that a login for
// an unknown username still pays for one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy"), bcrypt.DefaultCost)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// login exchanges username/password for the user's bearer token.
// POST /api/login (public).
func (h *Handler) login(c *gin.Context) {
	if h.db == nil {
		apiError(c, http.StatusNotImplemented, "login requires the postgres store")
		return
	}

	var body loginRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	u, lookupErr := queryOne[user](h.db, c,
		"SELECT id, username, email, auth_token, password, created_at FROM users WHERE username = @username",
		pgx.NamedArgs{"username": body.Username})

	hash := dummyHash
	if lookupErr == nil {
		hash = []byte(u.Password)
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(body.Password)) != nil || lookupErr != nil {
		apiError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": u.AuthToken, "user_id": u.ID})
}

// userForToken resolves a bearer token to a user id.
func (h *Handler) userForToken(ctx context.Context, token string) (int, error) {
	var id int
	err := h.db.QueryRow(ctx, "SELECT id FROM users WHERE auth_token = $1", token).Scan(&id)
	return id, err
}

// authMiddleware sets user_id on the context from the Bearer token. Without
// a database every request acts as devUserID.
func (h *Handler) authMiddleware() gin.HandlerFunc {
	if h.db == nil {
		return func(c *gin.Context) {
			c.Set("user_id", devUserID)
			c.Next()
		}
	}
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || token == "" {
			apiError(c, http.StatusUnauthorized, "missing or invalid authorization header")
			c.Abort()
			return
		}
		userID, err := h.userForToken(c, token)
		if err != nil {
			apiError(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}
		c.Set("user_id", userID)
		c.Next()
	}
}
