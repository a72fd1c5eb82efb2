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

// RoomHandler exposes room administration and the public availability
// views. The availability grid itself only moves through the booking
// flows; admins manage location, capacity, description and inventory.
type RoomHandler struct {
	Rooms    *repository.RoomRepo
	Elements *repository.ElementRepo
}

func NewRoomHandler(rooms *repository.RoomRepo, elements *repository.ElementRepo) *RoomHandler {
	if rooms == nil || elements == nil {
		panic("nil repository passed to NewRoomHandler")
	}
	return &RoomHandler{Rooms: rooms, Elements: elements}
}

type roomReq struct {
	Location    string           `json:"location"`
	Capacity    int              `json:"capacity"`
	Description string           `json:"description"`
	Inventory   map[uint64]int64 `json:"inventory"`
}

// Create handles POST /v1/rooms. New rooms always start with a fully
// free grid; initial inventory rows are optional and must reference
// existing catalog elements with non-negative amounts.
func (h *RoomHandler) Create(c echo.Context) error {
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Location = strings.TrimSpace(req.Location)
	if req.Location == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "location required"})
	}
	if req.Capacity < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be non-negative"})
	}
	for id, amount := range req.Inventory {
		if amount < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "inventory amounts must be non-negative"})
		}
		if _, err := h.Elements.GetByID(c.Request().Context(), id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown element in inventory"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load element failed"})
		}
	}

	room := &model.Room{
		Location:     req.Location,
		Capacity:     req.Capacity,
		Description:  req.Description,
		Availability: model.NewGrid(),
		Inventory:    req.Inventory,
	}
	if room.Inventory == nil {
		room.Inventory = make(map[uint64]int64)
	}
	if err := h.Rooms.Create(c.Request().Context(), room); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create room failed"})
	}
	return c.JSON(http.StatusCreated, room)
}

// List handles GET /v1/rooms.
func (h *RoomHandler) List(c echo.Context) error {
	rooms, err := h.Rooms.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list rooms failed"})
	}
	return c.JSON(http.StatusOK, rooms)
}

// Get handles GET /v1/rooms/:id.
func (h *RoomHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	room, err := h.Rooms.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load room failed"})
	}
	return c.JSON(http.StatusOK, room)
}

// Availability handles GET /v1/rooms/:id/availability. It returns the
// grid together with the axis labels so clients can render the weekly
// schedule without hardcoding the row/column order.
func (h *RoomHandler) Availability(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	room, err := h.Rooms.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load room failed"})
	}

	hourBlocks := make([]string, model.GridRows)
	for hb, row := range model.HourBlocks {
		hourBlocks[row] = hb
	}
	days := make([]string, model.GridCols)
	for d, col := range model.Days {
		days[col] = d
	}
	return c.JSON(http.StatusOK, echo.Map{
		"room_id":      room.ID,
		"location":     room.Location,
		"hour_blocks":  hourBlocks,
		"days":         days,
		"availability": room.Availability,
		"fully_booked": room.Availability.IsFullyBooked(),
	})
}

// Update handles PUT /v1/rooms/:id. Only the descriptive fields move
// here.
func (h *RoomHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Location = strings.TrimSpace(req.Location)
	if req.Location == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "location required"})
	}
	if req.Capacity < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be non-negative"})
	}
	room, err := h.Rooms.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load room failed"})
	}
	room.Location = req.Location
	room.Capacity = req.Capacity
	room.Description = req.Description
	if err := h.Rooms.Update(c.Request().Context(), room); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update room failed"})
	}
	return c.JSON(http.StatusOK, room)
}

type stockReq struct {
	ElementID uint64 `json:"element_id"`
	Amount    int64  `json:"amount"`
}

// Stock handles PUT /v1/rooms/:id/elements. It sets the absolute
// amount of one element held by the room, creating the row when
// needed.
func (h *RoomHandler) Stock(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var req stockReq
	if err := c.Bind(&req); err != nil || req.ElementID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "element_id required"})
	}
	if req.Amount < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must be non-negative"})
	}
	ctx := c.Request().Context()
	if _, err := h.Rooms.GetByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load room failed"})
	}
	if _, err := h.Elements.GetByID(ctx, req.ElementID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown element"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load element failed"})
	}
	if err := h.Rooms.UpsertElement(ctx, id, req.ElementID, req.Amount); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "stock room failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"room_id": id, "element_id": req.ElementID, "amount": req.Amount})
}

// Delete handles DELETE /v1/rooms/:id. Rooms referenced by any
// reservation cannot be removed.
func (h *RoomHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	err := h.Rooms.Delete(c.Request().Context(), id)
	switch {
	case err == nil:
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, sql.ErrNoRows):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "room has reservations"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete room failed"})
	}
}
