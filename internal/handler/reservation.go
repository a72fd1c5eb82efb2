package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dfquintero/recreo/internal/model"
	"github.com/dfquintero/recreo/internal/repository"
)

// ReservationHandler implements the booking lifecycle. Every mutating
// flow runs inside one transaction: the room row and its inventory are
// locked with SELECT ... FOR UPDATE, the aggregates are mutated in
// memory through the model package, and the results are persisted
// before commit. A failure anywhere rolls the whole flow back, so the
// grid cell, the inventory and the reservation row never diverge.
type ReservationHandler struct {
	Rooms        *repository.RoomRepo
	Reservations *repository.ReservationRepo
	Registers    *repository.RegisterRepo
}

func NewReservationHandler(rooms *repository.RoomRepo, reservations *repository.ReservationRepo, registers *repository.RegisterRepo) *ReservationHandler {
	if rooms == nil || reservations == nil || registers == nil {
		panic("nil repository passed to NewReservationHandler")
	}
	return &ReservationHandler{Rooms: rooms, Reservations: reservations, Registers: registers}
}

type reservationReq struct {
	RoomID            *uint64            `json:"room_id"`
	ReservedDay       string             `json:"reserved_day"`
	ReservedHourBlock string             `json:"reserved_hour_block"`
	State             string             `json:"state"`
	Lines             []model.BorrowLine `json:"borrowed_elements"`
}

// validateReservationReq normalizes and checks a create/update body.
// A reservation without a room can hold neither a slot nor borrowed
// elements.
func validateReservationReq(req *reservationReq) error {
	req.ReservedDay = strings.TrimSpace(req.ReservedDay)
	req.ReservedHourBlock = strings.TrimSpace(req.ReservedHourBlock)
	req.State = strings.TrimSpace(req.State)
	if req.RoomID == nil {
		if req.ReservedDay != "" || req.ReservedHourBlock != "" {
			return model.ErrInvalidSlot
		}
		if len(req.Lines) > 0 {
			return model.ErrElementNotInRoom
		}
		return nil
	}
	if err := model.ValidateSlotKeys(req.ReservedDay, req.ReservedHourBlock); err != nil {
		return err
	}
	for _, line := range req.Lines {
		if line.ElementID == 0 || line.Amount <= 0 {
			return model.ErrInvalidElement
		}
	}
	return nil
}

// bookingError maps model and repository errors to HTTP responses.
func bookingError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return c.JSON(http.StatusNotFound, echo.Map{"error": model.ErrReservationNotFound.Error()})
	case errors.Is(err, model.ErrAlreadyReserved):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, model.ErrAlreadyFinalized),
		errors.Is(err, model.ErrReservationRegistered):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, model.ErrInvalidSlot),
		errors.Is(err, model.ErrInvalidElement),
		errors.Is(err, model.ErrElementNotInRoom),
		errors.Is(err, model.ErrInsufficientInventory),
		errors.Is(err, model.ErrDuplicateElement),
		errors.Is(err, model.ErrMissingElement),
		errors.Is(err, model.ErrAmountMismatch),
		errors.Is(err, model.ErrInvalidReturnStatus):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}

// Create handles POST /v1/reservations. With a room assigned it takes
// the grid cell and debits the borrowed elements atomically; a slot
// conflict always fails, there is no queueing or overbooking.
func (h *ReservationHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validateReservationReq(&req); err != nil {
		return bookingError(c, err)
	}
	if req.State == model.StateFinalized {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot create a finalized reservation"})
	}
	state := req.State
	if state == "" {
		state = model.StateActive
	}

	ctx := c.Request().Context()
	tx, err := h.Rooms.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res := &model.Reservation{
		UserID:            userID,
		RoomID:            req.RoomID,
		ReservedDay:       req.ReservedDay,
		ReservedHourBlock: req.ReservedHourBlock,
		State:             state,
		Lines:             req.Lines,
	}

	if req.RoomID != nil {
		room, err := h.Rooms.GetForUpdateTx(ctx, tx, *req.RoomID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": model.ErrRoomNotFound.Error()})
			}
			return bookingError(c, err)
		}
		if err := room.Availability.Reserve(req.ReservedDay, req.ReservedHourBlock); err != nil {
			return bookingError(c, err)
		}
		if err := room.ApplyBorrow(req.Lines); err != nil {
			return bookingError(c, err)
		}
		if err := h.Rooms.SaveAvailabilityTx(ctx, tx, room); err != nil {
			return bookingError(c, err)
		}
		if err := h.Rooms.SaveInventoryTx(ctx, tx, room); err != nil {
			return bookingError(c, err)
		}
		res.Location = room.Location
	}

	if err := h.Reservations.CreateTx(ctx, tx, res); err != nil {
		return bookingError(c, err)
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true
	return c.JSON(http.StatusCreated, res)
}

// lockRooms loads the given room ids FOR UPDATE in ascending id order,
// so two concurrent updates that touch the same pair of rooms cannot
// deadlock. Duplicate ids resolve to one shared *Room.
func (h *ReservationHandler) lockRooms(ctx context.Context, tx *sql.Tx, ids []uint64) (map[uint64]*model.Room, error) {
	unique := make([]uint64, 0, len(ids))
	seen := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			unique = append(unique, id)
		}
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i] < unique[j] })
	rooms := make(map[uint64]*model.Room, len(unique))
	for _, id := range unique {
		room, err := h.Rooms.GetForUpdateTx(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		rooms[id] = room
	}
	return rooms, nil
}

// Update handles PUT /v1/reservations/:id. The reservation's previous
// slot and loan are undone against its old room and the requested ones
// applied against the new room, all in one transaction. Moving to the
// same slot therefore never conflicts with itself.
func (h *ReservationHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validateReservationReq(&req); err != nil {
		return bookingError(c, err)
	}
	if req.State == model.StateFinalized {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "finalize has its own endpoint"})
	}

	ctx := c.Request().Context()
	tx, err := h.Rooms.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := h.Reservations.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		return bookingError(c, err)
	}
	if res.UserID != userID && !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": repository.ErrForbidden.Error()})
	}
	if res.Finalized() {
		return bookingError(c, model.ErrAlreadyFinalized)
	}

	ids := make([]uint64, 0, 2)
	if res.RoomID != nil {
		ids = append(ids, *res.RoomID)
	}
	if req.RoomID != nil {
		ids = append(ids, *req.RoomID)
	}
	rooms, err := h.lockRooms(ctx, tx, ids)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": model.ErrRoomNotFound.Error()})
		}
		return bookingError(c, err)
	}

	// An unchanged slot keeps its own cell: the release/reserve cycle
	// is skipped so the reservation never conflicts with itself.
	sameSlot := req.RoomID != nil && res.SameSlot(*req.RoomID, req.ReservedDay, req.ReservedHourBlock)

	if res.RoomID != nil {
		old := rooms[*res.RoomID]
		if res.HasSlot() && !sameSlot {
			if err := old.Availability.Release(res.ReservedDay, res.ReservedHourBlock); err != nil {
				return bookingError(c, err)
			}
		}
		old.RevertBorrow(res.Lines)
	}
	if req.RoomID != nil {
		next := rooms[*req.RoomID]
		if !sameSlot {
			if err := next.Availability.Reserve(req.ReservedDay, req.ReservedHourBlock); err != nil {
				return bookingError(c, err)
			}
		}
		if err := next.ApplyBorrow(req.Lines); err != nil {
			return bookingError(c, err)
		}
		res.Location = next.Location
	} else {
		res.Location = ""
	}

	for _, room := range rooms {
		if err := h.Rooms.SaveAvailabilityTx(ctx, tx, room); err != nil {
			return bookingError(c, err)
		}
		if err := h.Rooms.SaveInventoryTx(ctx, tx, room); err != nil {
			return bookingError(c, err)
		}
	}

	res.RoomID = req.RoomID
	res.ReservedDay = req.ReservedDay
	res.ReservedHourBlock = req.ReservedHourBlock
	if req.State != "" {
		res.State = req.State
	}
	res.Lines = req.Lines
	if err := h.Reservations.SaveSlotTx(ctx, tx, res); err != nil {
		return bookingError(c, err)
	}
	if err := h.Reservations.ReplaceLinesTx(ctx, tx, res.ID, res.Lines); err != nil {
		return bookingError(c, err)
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true
	return c.JSON(http.StatusOK, res)
}

// Destroy handles DELETE /v1/reservations/:id. The slot is released,
// the loan credited back and the reservation removed. A reservation
// referenced by a register is protected and cannot be destroyed.
func (h *ReservationHandler) Destroy(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}

	ctx := c.Request().Context()
	tx, err := h.Rooms.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := h.Reservations.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		return bookingError(c, err)
	}
	if res.UserID != userID && !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": repository.ErrForbidden.Error()})
	}
	if res.RegisterID != nil {
		return bookingError(c, model.ErrReservationRegistered)
	}
	registered, err := h.Registers.ExistsForReservationTx(ctx, tx, res.ID)
	if err != nil {
		return bookingError(c, err)
	}
	if registered {
		return bookingError(c, model.ErrReservationRegistered)
	}

	if res.RoomID != nil {
		room, err := h.Rooms.GetForUpdateTx(ctx, tx, *res.RoomID)
		if err != nil {
			return bookingError(c, err)
		}
		if res.HasSlot() {
			if err := room.Availability.Release(res.ReservedDay, res.ReservedHourBlock); err != nil {
				return bookingError(c, err)
			}
		}
		room.RevertBorrow(res.Lines)
		if err := h.Rooms.SaveAvailabilityTx(ctx, tx, room); err != nil {
			return bookingError(c, err)
		}
		if err := h.Rooms.SaveInventoryTx(ctx, tx, room); err != nil {
			return bookingError(c, err)
		}
	}

	if err := h.Reservations.DeleteLinesTx(ctx, tx, res.ID); err != nil {
		return bookingError(c, err)
	}
	if err := h.Reservations.DeleteTx(ctx, tx, res.ID); err != nil {
		return bookingError(c, err)
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true
	return c.NoContent(http.StatusNoContent)
}

// ListMine handles GET /v1/reservations for the calling user.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	out, err := h.Reservations.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list reservations failed"})
	}
	return c.JSON(http.StatusOK, out)
}

// ListAll handles GET /v1/admin/reservations.
func (h *ReservationHandler) ListAll(c echo.Context) error {
	out, err := h.Reservations.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list reservations failed"})
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/reservations/:id. Owners see their own;
// admins see everything.
func (h *ReservationHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Reservations.GetByID(c.Request().Context(), id)
	if err != nil {
		return bookingError(c, err)
	}
	if res.UserID != userID && !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": repository.ErrForbidden.Error()})
	}
	return c.JSON(http.StatusOK, res)
}
