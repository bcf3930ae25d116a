package handler

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"memoapi/internal/dto"
	"memoapi/internal/service"
)

// formDateLayout is what <input type="datetime-local"> submits. Values are read as UTC.
const formDateLayout = "2006-01-02T15:04"

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"formDate": func(t time.Time) string { return t.UTC().Format(formDateLayout) },
	"showDate": func(t time.Time) string { return t.UTC().Format("2006-01-02 15:04") },
}).ParseFS(templateFS, "templates/*.html"))

type listView struct {
	Memos []dto.MemoResponse
}

type formView struct {
	Memo *dto.MemoResponse
}

func registerWebRoutes(app *fiber.App, svc service.MemoService, log *slog.Logger) {
	app.Get("/", WebIndex(svc, log))

	web := app.Group("/web/memos")
	web.Get("/", WebList(svc, log))
	web.Get("/new", WebNewForm(log))
	web.Post("/", WebCreate(svc, log))
	web.Get("/:id/edit", WebEditForm(svc, log))
	web.Put("/:id", WebUpdate(svc, log))
	web.Delete("/:id", WebDelete(svc, log))
	web.Patch("/:id/toggle", WebToggle(svc, log))
}

// WebIndex renders the full page with the first page of memos.
func WebIndex(svc service.MemoService, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.GetAll(c.UserContext(), dto.DefaultPagination())
		if err != nil {
			return handleServiceError(c, log, err)
		}
		return render(c, log, "index", listView{Memos: res.Data})
	}
}

// WebList renders the list fragment. It accepts the same query parameters as the API.
func WebList(svc service.MemoService, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		params, ok, err := parsePagination(c)
		if !ok {
			return err
		}
		res, err := svc.GetAll(c.UserContext(), params)
		if err != nil {
			return handleServiceError(c, log, err)
		}
		return render(c, log, "memo_list", listView{Memos: res.Data})
	}
}

// WebNewForm renders an empty memo form.
func WebNewForm(log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return render(c, log, "memo_form", formView{})
	}
}

// WebEditForm renders the form pre-filled with a stored memo.
func WebEditForm(svc service.MemoService, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeInvalidID(c)
		}
		memo, err := svc.GetByID(c.UserContext(), id)
		if err != nil {
			return handleServiceError(c, log, err)
		}
		return render(c, log, "memo_form", formView{Memo: memo})
	}
}

// WebCreate stores a memo from the form and answers with the refreshed list.
func WebCreate(svc service.MemoService, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form, dateTo, err := readMemoForm(c)
		if err != nil {
			return handleServiceError(c, log, err)
		}

		_, err = svc.Create(c.UserContext(), dto.CreateMemoRequest{
			Title:       form.Title,
			Description: &form.Description,
			DateTo:      dateTo,
		})
		if err != nil {
			return handleServiceError(c, log, err)
		}

		res, err := svc.GetAll(c.UserContext(), dto.DefaultPagination())
		if err != nil {
			return handleServiceError(c, log, err)
		}
		return render(c, log, "memo_list", listView{Memos: res.Data})
	}
}

// WebUpdate replaces a memo from the form. An unchecked completed box means false.
func WebUpdate(svc service.MemoService, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeInvalidID(c)
		}
		form, dateTo, err := readMemoForm(c)
		if err != nil {
			return handleServiceError(c, log, err)
		}

		memo, err := svc.Update(c.UserContext(), id, dto.UpdateMemoRequest{
			Title:       form.Title,
			Description: &form.Description,
			DateTo:      dateTo,
			Completed:   &form.Completed,
		})
		if err != nil {
			return handleServiceError(c, log, err)
		}
		return render(c, log, "memo_item", memo)
	}
}

// WebDelete removes a memo. The empty body lets the client drop the row.
func WebDelete(svc service.MemoService, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeInvalidID(c)
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return handleServiceError(c, log, err)
		}
		return c.Status(fiber.StatusOK).SendString("")
	}
}

// WebToggle flips the completed flag and re-renders the row.
func WebToggle(svc service.MemoService, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeInvalidID(c)
		}
		memo, err := svc.ToggleComplete(c.UserContext(), id)
		if err != nil {
			return handleServiceError(c, log, err)
		}
		return render(c, log, "memo_item", memo)
	}
}

// readMemoForm validates the text fields first and only then parses the date,
// so a bad title is reported even when the date is also malformed.
func readMemoForm(c *fiber.Ctx) (dto.MemoForm, time.Time, error) {
	form := dto.MemoForm{
		Title:       utils.CopyString(c.FormValue("title")),
		Description: utils.CopyString(c.FormValue("description")),
		DateTo:      utils.CopyString(c.FormValue("date_to")),
		Completed:   c.FormValue("completed") != "",
	}
	if err := service.ValidateForm(form); err != nil {
		return form, time.Time{}, err
	}
	dateTo, err := parseFormDate(form.DateTo)
	return form, dateTo, err
}

func parseFormDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(formDateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, service.NewValidationError("Invalid date format. Expected YYYY-MM-DDTHH:MM")
	}
	return t, nil
}

// render executes a named template into a buffer so a template failure never sends a partial page.
func render(c *fiber.Ctx, log *slog.Logger, name string, data any) error {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.ErrorContext(c.UserContext(), "template_render_failed",
			slog.String("template", name),
			slog.String("request_id", requestIDFromCtx(c)),
			slog.Any("error", err),
		)
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
	c.Type("html", "utf-8")
	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}
