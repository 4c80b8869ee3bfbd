package controller

import (
	"listening-notes-be/internal/pkg/serverutils"
	"listening-notes-be/internal/service"
	"listening-notes-be/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// NoteIdHeader carries the target note of a delete request.
const NoteIdHeader = "id"

type INoteController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type noteController struct {
	noteService service.INoteService
	jwtSecret   string
}

func NewNoteController(noteService service.INoteService, jwtSecret string) INoteController {
	return &noteController{
		noteService: noteService,
		jwtSecret:   jwtSecret,
	}
}

// RegisterRoutes mounts the note endpoints. Every handler returns the error of
// the first stage that failed and ErrorHandlerMiddleware picks the status:
// authentication and ownership failures are 401, everything else is 400.
func (c *noteController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/note")
	h.Use(serverutils.JwtMiddleware(c.jwtSecret))
	h.Get("", c.List)
	h.Put("", c.Create)
	h.Patch("", c.Update)
	h.Delete("", c.Delete)
}

func (c *noteController) List(ctx *fiber.Ctx) error {
	uid, err := serverutils.CurrentUID(ctx)
	if err != nil {
		return err
	}

	notes, err := c.noteService.List(ctx.UserContext(), uid)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusOK).JSON(notes)
}

func (c *noteController) Create(ctx *fiber.Ctx) error {
	uid, err := serverutils.CurrentUID(ctx)
	if err != nil {
		return err
	}

	req, err := validation.ParseNote(ctx.Body())
	if err != nil {
		return err
	}

	note, err := c.noteService.Create(ctx.UserContext(), uid, req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusOK).JSON(note)
}

func (c *noteController) Update(ctx *fiber.Ctx) error {
	uid, err := serverutils.CurrentUID(ctx)
	if err != nil {
		return err
	}

	req, err := validation.ParseNoteWithId(ctx.Body())
	if err != nil {
		return err
	}

	note, err := c.noteService.Update(ctx.UserContext(), uid, req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusOK).JSON(note)
}

func (c *noteController) Delete(ctx *fiber.Ctx) error {
	uid, err := serverutils.CurrentUID(ctx)
	if err != nil {
		return err
	}

	id, err := validation.ParseNoteID(ctx.Get(NoteIdHeader))
	if err != nil {
		return err
	}

	res, err := c.noteService.Delete(ctx.UserContext(), uid, id)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusOK).JSON(res)
}
