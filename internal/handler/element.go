package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dfquintero/recreo/internal/model"
	"github.com/dfquintero/recreo/internal/repository"
)

// ElementHandler exposes the recreative element catalog. Reads are
// public; writes are restricted to ADMIN and FUNCTIONARY by the
// router.
type ElementHandler struct {
	Elements *repository.ElementRepo
}

func NewElementHandler(elements *repository.ElementRepo) *ElementHandler {
	if elements == nil {
		panic("nil repository passed to NewElementHandler")
	}
	return &ElementHandler{Elements: elements}
}

type elementReq struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
}

// Create handles POST /v1/elements.
func (h *ElementHandler) Create(c echo.Context) error {
	var req elementReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	el := &model.Element{Name: strings.TrimSpace(req.Name), Quantity: req.Quantity}
	if err := el.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Elements.Create(c.Request().Context(), el); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create element failed"})
	}
	return c.JSON(http.StatusCreated, el)
}

// List handles GET /v1/elements.
func (h *ElementHandler) List(c echo.Context) error {
	elements, err := h.Elements.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list elements failed"})
	}
	return c.JSON(http.StatusOK, elements)
}

// Get handles GET /v1/elements/:id.
func (h *ElementHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid element id"})
	}
	el, err := h.Elements.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "element not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load element failed"})
	}
	return c.JSON(http.StatusOK, el)
}

// Update handles PUT /v1/elements/:id.
func (h *ElementHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid element id"})
	}
	var req elementReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	el := &model.Element{ID: id, Name: strings.TrimSpace(req.Name), Quantity: req.Quantity}
	if err := el.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Elements.Update(c.Request().Context(), el); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "element not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update element failed"})
	}
	return c.JSON(http.StatusOK, el)
}

// Delete handles DELETE /v1/elements/:id. Elements referenced by a
// room inventory or an open loan cannot be removed.
func (h *ElementHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid element id"})
	}
	err := h.Elements.Delete(c.Request().Context(), id)
	switch {
	case err == nil:
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, sql.ErrNoRows):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "element not found"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "element is still in use"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete element failed"})
	}
}
