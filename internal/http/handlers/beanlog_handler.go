// Bean log HTTP handlers.
//
// This file exposes REST endpoints for the signed-in user's bean logs:
//   - GET    /logs        (whole list, weak ETag support)
//   - GET    /logs/{id}   (one record)
//   - POST   /logs        (create, Idempotency-Key replay)
//   - PUT    /logs/{id}   (edit; absent fields keep their stored value)
//   - DELETE /logs/{id}   (requires ?confirm=true)
//
// Handlers are transport-thin: they decode input into form events, call the
// log service, and translate results into HTTP responses. The owner of every
// record is the session user; owner or id values in request bodies are ignored.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tbourn/go-beanlog-backend/internal/beanlog"
	"github.com/tbourn/go-beanlog-backend/internal/domain"
	"github.com/tbourn/go-beanlog-backend/internal/http/middleware"
	"github.com/tbourn/go-beanlog-backend/internal/repo"
	"github.com/tbourn/go-beanlog-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// LogService defines bean log operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type LogService interface {
	// List returns every bean log of owner with the stats it was read at.
	List(ctx context.Context, owner string) (services.ListSnapshot, error)
	// Get returns one bean log of owner.
	Get(ctx context.Context, owner, id string) (beanlog.Record, error)
	// Create submits a new form for owner with edits applied.
	Create(ctx context.Context, owner string, edits []beanlog.Event) (beanlog.Record, error)
	// Edit submits edits on top of the stored bean log id.
	Edit(ctx context.Context, owner, id string, edits []beanlog.Event) (beanlog.Record, error)
	// Delete removes one bean log of owner.
	Delete(ctx context.Context, owner, id string) error
}

// AuthService defines identity operations consumed by HTTP handlers.
type AuthService interface {
	Register(ctx context.Context, email, password string) (services.Session, error)
	Login(ctx context.Context, email, password string) (services.Session, error)
	GuestLogin(ctx context.Context) (services.Session, error)
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
	DeleteAccount(ctx context.Context, userID, password string) (services.AccountDeletion, error)
}

//
// Handler wiring
//

// Settings carries transport options that come from configuration.
type Settings struct {
	// CookieSecure marks the session cookie Secure (HTTPS only).
	CookieSecure bool

	// IdempotencyTTL is how long a create can be replayed with the same key.
	// Zero means defaultIdempotencyTTL.
	IdempotencyTTL time.Duration
}

// Handlers groups HTTP endpoints for bean logs, identity, and option lists.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	logSvc  LogService
	authSvc AuthService
	options beanlog.Options
	cfg     Settings
}

// New constructs and returns a Handlers instance bound to the given services.
func New(logSvc LogService, authSvc AuthService, options beanlog.Options, cfg Settings) *Handlers {
	if cfg.IdempotencyTTL <= 0 {
		cfg.IdempotencyTTL = defaultIdempotencyTTL
	}
	return &Handlers{logSvc: logSvc, authSvc: authSvc, options: options, cfg: cfg}
}

const defaultIdempotencyTTL = 24 * time.Hour

//
// DTOs
//

// LogRequest is the JSON payload for creating or editing a bean log.
//
// Every field is optional on the wire. On create, absent fields take the form
// defaults; on edit, absent fields keep their stored value. price and volume
// accept a number or a string; strings are reduced to their digits.
type LogRequest struct {
	ShopName     *string         `json:"shop_name"     example:"Blue Bottle"`
	CountryName  *string         `json:"country_name"  example:"Ethiopia"`
	RegionName   *string         `json:"region_name"   example:"Yirgacheffe"`
	DistrictName *string         `json:"district_name" example:"Kochere"`
	Farm         *string         `json:"farm"          example:"Konga"`
	ProductName  *string         `json:"product_name"  example:"Ethiopia Konga"`
	Flavor       *string         `json:"flavor"        example:"jasmine, lemon"`
	Generation   *string         `json:"generation"    example:"Washed"`
	RoastLevel   *string         `json:"roast_level"   example:"Light"`
	IsBlend      *bool           `json:"is_blend"      example:"false"`
	Price        *beanlog.Digits `json:"price"         swaggertype:"integer" example:"1600"`
	Volume       *beanlog.Digits `json:"volume"        swaggertype:"integer" example:"200"`
	Comment      *string         `json:"comment"       example:"bright and floral"`
	PurchaseDate *string         `json:"purchase_date" example:"2024-03-01"`
	RoastDate    *string         `json:"roast_date"    example:"2024-02-27"`
	ExpDate      *string         `json:"exp_date"      example:"2024-05-01"`
}

// events turns the supplied fields into form edits, in schema order.
func (r LogRequest) events() []beanlog.Event {
	var out []beanlog.Event
	texts := []struct {
		field string
		v     *string
	}{
		{beanlog.FieldShopName, r.ShopName},
		{beanlog.FieldCountryName, r.CountryName},
		{beanlog.FieldRegionName, r.RegionName},
		{beanlog.FieldDistrictName, r.DistrictName},
		{beanlog.FieldFarm, r.Farm},
		{beanlog.FieldProductName, r.ProductName},
		{beanlog.FieldFlavor, r.Flavor},
		{beanlog.FieldGeneration, r.Generation},
		{beanlog.FieldRoastLevel, r.RoastLevel},
		{beanlog.FieldComment, r.Comment},
		{beanlog.FieldPurchaseDate, r.PurchaseDate},
		{beanlog.FieldRoastDate, r.RoastDate},
		{beanlog.FieldExpDate, r.ExpDate},
	}
	for _, t := range texts {
		if t.v != nil {
			out = append(out, beanlog.SetText{Field: t.field, Value: *t.v})
		}
	}
	if r.IsBlend != nil {
		out = append(out, beanlog.SetBlend{Value: *r.IsBlend})
	}
	if r.Price != nil {
		out = append(out, beanlog.SetNumber{Field: beanlog.FieldPrice, Raw: strconv.Itoa(int(*r.Price))})
	}
	if r.Volume != nil {
		out = append(out, beanlog.SetNumber{Field: beanlog.FieldVolume, Raw: strconv.Itoa(int(*r.Volume))})
	}
	return out
}

// ListLogsResponse wraps the user's bean logs. Order is unspecified.
type ListLogsResponse struct {
	Logs  []beanlog.Record `json:"logs"`
	Count int64            `json:"count"`
}

//
// Helpers
//

// logID validates the {id} path parameter.
func logID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "log id must be a UUID")
		return "", false
	}
	return id, true
}

// logsETag derives a weak validator from the list's count and latest update.
func logsETag(owner string, snap services.ListSnapshot) string {
	var ts int64
	if snap.MaxUpdatedAt != nil {
		ts = snap.MaxUpdatedAt.UnixMilli()
	}
	return fmt.Sprintf(`W/"logs:%s:%d:%d"`, owner, snap.Count, ts)
}

// failLog maps a log service error to the HTTP error envelope. code is used
// for write failures that are neither validation nor availability problems.
func failLog(c *gin.Context, err error, code, msg string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		failFields(c, http.StatusUnprocessableEntity, ErrCodeValidation, "required fields are missing or invalid", verr.Fields)
	case errors.Is(err, services.ErrLogNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "log not found")
	case errors.Is(err, services.ErrNoOwner):
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "sign in required")
	case errors.Is(err, services.ErrSaveInProgress):
		fail(c, http.StatusConflict, ErrCodeConflict, "save already in progress")
	case services.IsUnavailable(err):
		fail(c, http.StatusServiceUnavailable, ErrCodeStoreUnavailable, "store unavailable, please try again later")
	default:
		lg := middleware.LoggerFrom(c)
		lg.Error().Err(err).Str("code", code).Msg("bean log operation failed")
		fail(c, http.StatusInternalServerError, code, msg)
	}
}

//
// Handlers
//

// ListLogs godoc
// @ID          listLogs
// @Summary     List bean logs
// @Description Returns every bean log of the current user. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Logs
// @Produce     json
// @Security    BearerAuth
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"logs:u1:3:1709251200000\")
//
// @Success     200  {object} handlers.ListLogsResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     401  {object} handlers.ErrorResponse "Sign in required"
// @Failure     503  {object} handlers.ErrorResponse "Store unavailable"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /logs [get]
func (h *Handlers) ListLogs(c *gin.Context) {
	uid := middleware.UserID(c)
	snap, err := h.logSvc.List(c.Request.Context(), uid)
	if err != nil {
		failLog(c, err, ErrCodeListFailed, "failed to load logs")
		return
	}

	etag := logsETag(uid, snap)
	c.Header("ETag", etag)
	if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
		c.Status(http.StatusNotModified)
		return
	}
	ok(c, http.StatusOK, ListLogsResponse{Logs: snap.Records, Count: int64(len(snap.Records))})
}

// GetLog godoc
// @ID          getLog
// @Summary     Get a bean log
// @Tags        Logs
// @Produce     json
// @Security    BearerAuth
//
// @Param       id  path  string  true  "Log ID (UUID)"  format(uuid)
//
// @Success     200  {object} beanlog.Record
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Log not found"
// @Failure     503  {object} handlers.ErrorResponse "Store unavailable"
// @Router      /logs/{id} [get]
func (h *Handlers) GetLog(c *gin.Context) {
	id, valid := logID(c)
	if !valid {
		return
	}
	rec, err := h.logSvc.Get(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		failLog(c, err, ErrCodeListFailed, "failed to load log")
		return
	}
	ok(c, http.StatusOK, rec)
}

// CreateLog godoc
// @ID          createLog
// @Summary     Create a bean log
// @Description Validates the form and stores a new bean log for the current user.
// @Description Supports idempotency via the Idempotency-Key header (same key → same record).
// @Tags        Logs
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       body             body    handlers.LogRequest  true  "Bean log fields"
//
// @Success     201  {object} beanlog.Record
// @Success     200  {object} beanlog.Record "Replayed result"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     422  {object} handlers.ErrorResponse "Validation failed"
// @Failure     503  {object} handlers.ErrorResponse "Store unavailable"
// @Failure     500  {object} handlers.ErrorResponse "Save failed"
// @Router      /logs [post]
func (h *Handlers) CreateLog(c *gin.Context) {
	ctx := c.Request.Context()
	uid := middleware.UserID(c)

	var req LogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	// Idempotency (replay path).
	idemKey, _ := middleware.GetIdempotencyKey(c)
	scope := middleware.IdempotencyScope(c)
	svc, hasDB := h.logSvc.(*services.LogService)
	hasDB = hasDB && svc.DB != nil
	if idemKey != "" && hasDB {
		if rec, err := repo.GetIdempotency(ctx, svc.DB, uid, scope, idemKey, time.Now().UTC()); err == nil && rec != nil {
			if prev, err2 := h.logSvc.Get(ctx, uid, rec.LogID); err2 == nil {
				c.Header("Idempotency-Replayed", "true")
				ok(c, http.StatusOK, prev)
				return
			}
		}
	}

	rec, err := h.logSvc.Create(ctx, uid, req.events())
	if err != nil {
		failLog(c, err, ErrCodeSaveFailed, beanlog.SaveFailedMessage)
		return
	}

	// Idempotency (store path) – best effort.
	if idemKey != "" && hasDB {
		_, err := repo.CreateIdempotency(context.WithoutCancel(ctx), svc.DB, uid, scope, idemKey, rec.ID, http.StatusCreated, h.cfg.IdempotencyTTL)
		switch {
		case errors.Is(err, repo.ErrDuplicate):
			// A concurrent request with the same key stored its record first.
			if winner, found := h.settleDuplicate(c, svc, uid, scope, idemKey, rec.ID); found {
				c.Header("Idempotency-Replayed", "true")
				ok(c, http.StatusOK, winner)
				return
			}
		case err != nil:
			lg := middleware.LoggerFrom(c)
			lg.Warn().Err(err).Msg("idempotency record not stored")
		}
	}

	ok(c, http.StatusCreated, rec)
}

// settleDuplicate removes the bean log this request created when another
// request already claimed the same Idempotency-Key, and returns that
// request's record. It reports false when the winner cannot be loaded; the
// caller then keeps its own record.
func (h *Handlers) settleDuplicate(c *gin.Context, svc *services.LogService, uid, scope, key, ownID string) (beanlog.Record, bool) {
	ctx := context.WithoutCancel(c.Request.Context())
	lg := middleware.LoggerFrom(c)

	claim, err := repo.GetIdempotency(ctx, svc.DB, uid, scope, key, time.Now().UTC())
	if err != nil || claim == nil || claim.LogID == ownID {
		return beanlog.Record{}, false
	}
	winner, err := h.logSvc.Get(ctx, uid, claim.LogID)
	if err != nil {
		lg.Warn().Err(err).Str("log_id", claim.LogID).Msg("idempotency winner not loadable")
		return beanlog.Record{}, false
	}
	if err := h.logSvc.Delete(ctx, uid, ownID); err != nil {
		lg.Warn().Err(err).Str("log_id", ownID).Msg("duplicate bean log not removed")
	}
	return winner, true
}

// UpdateLog godoc
// @ID          updateLog
// @Summary     Edit a bean log
// @Description Applies the supplied fields on top of the stored bean log, validates, and saves. Absent fields keep their stored value.
// @Tags        Logs
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       id    path  string  true  "Log ID (UUID)"  format(uuid)
// @Param       body  body  handlers.LogRequest  true  "Changed fields"
//
// @Success     200  {object} beanlog.Record
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Log not found"
// @Failure     422  {object} handlers.ErrorResponse "Validation failed"
// @Failure     503  {object} handlers.ErrorResponse "Store unavailable"
// @Failure     500  {object} handlers.ErrorResponse "Save failed"
// @Router      /logs/{id} [put]
func (h *Handlers) UpdateLog(c *gin.Context) {
	id, valid := logID(c)
	if !valid {
		return
	}
	var req LogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	rec, err := h.logSvc.Edit(c.Request.Context(), middleware.UserID(c), id, req.events())
	if err != nil {
		failLog(c, err, ErrCodeSaveFailed, beanlog.SaveFailedMessage)
		return
	}
	ok(c, http.StatusOK, rec)
}

// DeleteLog godoc
// @ID          deleteLog
// @Summary     Delete a bean log
// @Description Deletes one bean log. The client must confirm explicitly with confirm=true.
// @Tags        Logs
// @Produce     json
// @Security    BearerAuth
//
// @Param       id       path   string  true  "Log ID (UUID)"  format(uuid)
// @Param       confirm  query  bool    true  "Must be true"
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Log not found"
// @Failure     428  {object} handlers.ErrorResponse "Confirmation required"
// @Failure     503  {object} handlers.ErrorResponse "Store unavailable"
// @Failure     500  {object} handlers.ErrorResponse "Delete failed"
// @Router      /logs/{id} [delete]
func (h *Handlers) DeleteLog(c *gin.Context) {
	id, valid := logID(c)
	if !valid {
		return
	}
	if confirmed, _ := strconv.ParseBool(c.Query("confirm")); !confirmed {
		fail(c, http.StatusPreconditionRequired, ErrCodeConfirmationRequired, "deleting a log must be confirmed with confirm=true")
		return
	}

	if err := h.logSvc.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		failLog(c, err, ErrCodeDeleteFailed, "failed to delete, please try again")
		return
	}
	noContent(c)
}

// ListOptions godoc
// @ID          listOptions
// @Summary     Form option lists
// @Description Returns the countries, roast levels and processing methods offered by the bean log form.
// @Tags        Options
// @Produce     json
// @Success     200  {object} beanlog.Options
// @Router      /options [get]
func (h *Handlers) ListOptions(c *gin.Context) {
	ok(c, http.StatusOK, h.options)
}
