package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Handler holds shared dependencies (store, ledger, clock, config) for all
// route handlers.
type Handler struct {
	db     *pgxpool.Pool // nil in memory mode; used by login and auth
	store  Store
	ledger *Ledger
	clock  Clock
	cfg    config
	agent  *agentClient
}

func newHandler(cfg config, pool *pgxpool.Pool, store Store, clock Clock) *Handler {
	return &Handler{
		db:     pool,
		store:  store,
		ledger: newLedger(store),
		clock:  clock,
		cfg:    cfg,
		agent:  newAgentClient(cfg.OpenAIBaseURL, cfg.OpenAIKey),
	}
}

/* ─── Database helpers ────────────────────────────────────────────────── */

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// queryOne scans the first row into T by column name. ErrNoRows is returned
// unlogged; anything else is logged, since it usually means a struct/column
// mismatch.
func queryOne[T any](q querier, ctx context.Context, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := q.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryOne] Query error: %v", err)
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil && err != pgx.ErrNoRows {
		log.Printf("[queryOne] Scan error: %v", err)
	}
	return result, err
}

// queryMany scans every row into T by column name.
func queryMany[T any](q querier, ctx context.Context, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := q.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryMany] Query error: %v", err)
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		log.Printf("[queryMany] Scan error: %v", err)
	}
	return results, err
}

// apiError writes {"error": message}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// apiFail maps err onto a status and writes it. Internal errors are logged
// and replaced with fallback so storage details never reach the client.
func apiFail(c *gin.Context, err error, fallback string) {
	status := statusFor(err)
	if status >= 500 {
		log.Printf("[%s] %v", c.FullPath(), err)
		apiError(c, status, fallback)
		return
	}
	apiError(c, status, err.Error())
}

/* ─── Per-request user context ───────────────────────────────────────── */

// userDay is the profile snapshot and local "today" for the calling user.
type userDay struct {
	profile Profile
	today   LocalDate
}

func (h *Handler) loadUser(c *gin.Context) (userDay, error) {
	p, err := h.store.GetProfile(c, c.GetInt("user_id"))
	if err != nil {
		return userDay{}, err
	}
	return userDay{profile: p, today: todayFor(h.clock, p, h.cfg.DefaultLocation)}, nil
}

// dateParam reads ?date= (or the given body value) in the user's calendar,
// defaulting to their today.
func (u userDay) dateParam(raw string) (LocalDate, error) {
	if raw == "" {
		return u.today, nil
	}
	d, err := parseLocalDate(raw)
	if err != nil {
		return LocalDate{}, invalidField("date", err.Error())
	}
	return d, nil
}

/* ─── Server setup ────────────────────────────────────────────────────── */

// getDBPool opens the shared pool. Idle connections may be closed by the
// server at any time, so nothing holds a single conn open.
func getDBPool(dbURL string) *pgxpool.Pool {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to parse DB URL: %v\n", err)
		os.Exit(1)
	}
	// Simple protocol: no server-side prepared statements to go stale after a
	// migration changes a result type.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("DB pool ready!")
	return pool
}

// corsMiddleware lets the listed browser origins call the API with a bearer
// token.
func corsMiddleware(origins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	})
}

// registerRoutes mounts login publicly and everything else behind auth.
func (h *Handler) registerRoutes(router *gin.Engine) {
	if len(h.cfg.CORSOrigins) > 0 {
		router.Use(corsMiddleware(h.cfg.CORSOrigins))
	}

	// Public routes
	router.POST("/api/login", h.login)

	// Authenticated routes
	api := router.Group("/api", h.authMiddleware())
	h.registerUserRoutes(api)
}

// registerUserRoutes registers the routes that expect user_id on the context.
func (h *Handler) registerUserRoutes(api gin.IRoutes) {
	api.GET("/profile", h.getProfile)
	api.PATCH("/profile", h.patchProfile)
	api.GET("/daily", h.getDailySummary)
	api.POST("/entries", h.createEntry)
	api.PUT("/entries/:id", h.updateEntry)
	api.DELETE("/entries/:id", h.deleteEntry)
	api.POST("/daily/reconcile", h.reconcileDay)
	api.POST("/agent/commands", h.applyCommand)
	api.POST("/agent/parse", h.parseAndApply)
	api.GET("/weight-log", h.getWeightLog)
	api.POST("/weight-log", h.upsertWeightEntry)
	api.GET("/progress/summary", h.getProgressSummary)
	api.GET("/progress/gamification", h.getGamification)
	api.GET("/progress/calendar", h.getCalendar)
}
