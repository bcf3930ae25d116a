package handler

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"

	"memoapi/internal/dto"
	"memoapi/internal/service"
)

// Pinger is the subset of *sql.DB the health check needs.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RegisterRoutes attaches the health probes, the JSON API and the HTML front end to app.
func RegisterRoutes(app *fiber.App, db Pinger, memoSvc service.MemoService, log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api/v1/memos")
	api.Get("/", ListMemos(memoSvc, log))
	api.Post("/", CreateMemo(memoSvc, log))
	api.Get("/:id", GetMemo(memoSvc, log))
	api.Put("/:id", UpdateMemo(memoSvc, log))
	api.Patch("/:id", PatchMemo(memoSvc, log))
	api.Delete("/:id", DeleteMemo(memoSvc, log))
	api.Patch("/:id/complete", ToggleMemo(memoSvc, log))

	registerWebRoutes(app, memoSvc, log)
}

// HealthCheck reports whether the database answers a ping within two seconds.
//
//	@Summary	Readiness probe
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Failure	503	{object}	errorPayload
//	@Router		/health [get]
func HealthCheck(db Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe answers 200 as long as the process serves requests.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// ListMemos godoc
//
//	@Summary	List memos
//	@Tags		memos
//	@Produce	json
//	@Param		limit		query		int		false	"Items per page (1-100, default 10)"
//	@Param		offset		query		int		false	"Items to skip (default 0)"
//	@Param		completed	query		bool	false	"Filter by completion status"
//	@Param		sort_by		query		string	false	"created_at, title, date_to, completed or updated_at"
//	@Param		order		query		string	false	"asc or desc (default desc)"
//	@Success	200			{object}	dto.PaginatedResponse[dto.MemoResponse]
//	@Failure	400			{object}	errorPayload
//	@Failure	500			{object}	errorPayload
//	@Router		/api/v1/memos [get]
func ListMemos(svc service.MemoService, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		params, ok, err := parsePagination(c)
		if !ok {
			return err
		}

		res, err := svc.GetAll(c.UserContext(), params)
		if err != nil {
			return handleServiceError(c, log, err)
		}
		return c.JSON(res)
	}
}

// CreateMemo godoc
//
//	@Summary	Create a memo
//	@Tags		memos
//	@Accept		json
//	@Produce	json
//	@Param		memo	body		dto.CreateMemoRequest	true	"New memo"
//	@Success	201		{object}	dto.MemoResponse
//	@Failure	400		{object}	errorPayload
//	@Failure	500		{object}	errorPayload
//	@Router		/api/v1/memos [post]
func CreateMemo(svc service.MemoService, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.CreateMemoRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		memo, err := svc.Create(c.UserContext(), req)
		if err != nil {
			return handleServiceError(c, log, err)
		}
		return c.Status(fiber.StatusCreated).JSON(memo)
	}
}

// GetMemo godoc
//
//	@Summary	Get a memo
//	@Tags		memos
//	@Produce	json
//	@Param		id	path		string	true	"Memo ID"	format(uuid)
//	@Success	200	{object}	dto.MemoResponse
//	@Failure	400	{object}	errorPayload
//	@Failure	404	{object}	errorPayload
//	@Router		/api/v1/memos/{id} [get]
func GetMemo(svc service.MemoService, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeInvalidID(c)
		}

		memo, err := svc.GetByID(c.UserContext(), id)
		if err != nil {
			return handleServiceError(c, log, err)
		}
		return c.JSON(memo)
	}
}

// UpdateMemo godoc
//
//	@Summary	Replace a memo
//	@Tags		memos
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"Memo ID"	format(uuid)
//	@Param		memo	body		dto.UpdateMemoRequest	true	"Every mutable field"
//	@Success	200		{object}	dto.MemoResponse
//	@Failure	400		{object}	errorPayload
//	@Failure	404		{object}	errorPayload
//	@Router		/api/v1/memos/{id} [put]
func UpdateMemo(svc service.MemoService, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeInvalidID(c)
		}
		var req dto.UpdateMemoRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		memo, err := svc.Update(c.UserContext(), id, req)
		if err != nil {
			return handleServiceError(c, log, err)
		}
		return c.JSON(memo)
	}
}

// PatchMemo godoc
//
//	@Summary		Partially update a memo
//	@Description	Absent fields keep their stored value. An empty description clears it.
//	@Tags			memos
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Memo ID"	format(uuid)
//	@Param			memo	body		dto.PatchMemoRequest	true	"Fields to change"
//	@Success		200		{object}	dto.MemoResponse
//	@Failure		400		{object}	errorPayload
//	@Failure		404		{object}	errorPayload
//	@Router			/api/v1/memos/{id} [patch]
func PatchMemo(svc service.MemoService, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeInvalidID(c)
		}
		var req dto.PatchMemoRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		memo, err := svc.Patch(c.UserContext(), id, req)
		if err != nil {
			return handleServiceError(c, log, err)
		}
		return c.JSON(memo)
	}
}

// DeleteMemo godoc
//
//	@Summary	Delete a memo
//	@Tags		memos
//	@Param		id	path	string	true	"Memo ID"	format(uuid)
//	@Success	204
//	@Failure	400	{object}	errorPayload
//	@Failure	404	{object}	errorPayload
//	@Router		/api/v1/memos/{id} [delete]
func DeleteMemo(svc service.MemoService, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeInvalidID(c)
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return handleServiceError(c, log, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ToggleMemo godoc
//
//	@Summary	Flip the completed flag
//	@Tags		memos
//	@Produce	json
//	@Param		id	path		string	true	"Memo ID"	format(uuid)
//	@Success	200	{object}	dto.MemoResponse
//	@Failure	400	{object}	errorPayload
//	@Failure	404	{object}	errorPayload
//	@Router		/api/v1/memos/{id}/complete [patch]
func ToggleMemo(svc service.MemoService, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeInvalidID(c)
		}

		memo, err := svc.ToggleComplete(c.UserContext(), id)
		if err != nil {
			return handleServiceError(c, log, err)
		}
		return c.JSON(memo)
	}
}

func parseID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	return id, err == nil
}

func writeInvalidID(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
}

// parsePagination reads the list query string. Absent parameters stay nil so the
// service applies its defaults. When ok is false the error response is already written
// and err is what the handler must return.
func parsePagination(c *fiber.Ctx) (params dto.PaginationParams, ok bool, err error) {
	if s := c.Query("limit"); s != "" {
		n, convErr := strconv.Atoi(s)
		if convErr != nil {
			return params, false, writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		params.Limit = &n
	}
	if s := c.Query("offset"); s != "" {
		n, convErr := strconv.Atoi(s)
		if convErr != nil {
			return params, false, writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}
		params.Offset = &n
	}
	if s := c.Query("completed"); s != "" {
		b, convErr := strconv.ParseBool(s)
		if convErr != nil {
			return params, false, writeError(c, fiber.StatusBadRequest, "INVALID_COMPLETED", "invalid completed flag")
		}
		params.Completed = &b
	}
	// Query values alias fasthttp buffers that are reused after the handler returns.
	if s := c.Query("sort_by"); s != "" {
		v := utils.CopyString(s)
		params.SortBy = &v
	}
	if s := c.Query("order"); s != "" {
		v := utils.CopyString(s)
		params.Order = &v
	}
	return params, true, nil
}
