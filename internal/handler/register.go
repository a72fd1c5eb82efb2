package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dfquintero/recreo/internal/model"
	"github.com/dfquintero/recreo/internal/queue"
	"github.com/dfquintero/recreo/internal/repository"
	queue_publisher "github.com/dfquintero/recreo/internal/service"
)

// RegisterHandler finalizes reservations and exposes the resulting
// registers read-only. There is no update or delete: the register is
// the audit trail and only grows.
type RegisterHandler struct {
	Rooms        *repository.RoomRepo
	Reservations *repository.ReservationRepo
	Registers    *repository.RegisterRepo
	Elements     *repository.ElementRepo
}

func NewRegisterHandler(rooms *repository.RoomRepo, reservations *repository.ReservationRepo, registers *repository.RegisterRepo, elements *repository.ElementRepo) *RegisterHandler {
	if rooms == nil || reservations == nil || registers == nil || elements == nil {
		panic("nil repository passed to NewRegisterHandler")
	}
	return &RegisterHandler{Rooms: rooms, Reservations: reservations, Registers: registers, Elements: elements}
}

type finalizeReq struct {
	Entries      []model.ReturnEntry `json:"elements"`
	AdminComment string              `json:"admin_comment"`
}

// Finalize handles POST /v1/reservations/:id/finalize. It validates
// the return list against the open loan, credits the returned amounts
// back to the room, releases the grid cell, writes the register and
// marks the reservation FINALIZADA, all in one transaction. After the
// commit a ReservationFinalizedEvent goes to the broker.
func (h *RegisterHandler) Finalize(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req finalizeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
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
	if res.Finalized() {
		return bookingError(c, model.ErrAlreadyFinalized)
	}

	ids := make([]uint64, 0, len(res.Lines)+len(req.Entries))
	for _, line := range res.Lines {
		ids = append(ids, line.ElementID)
	}
	for _, entry := range req.Entries {
		ids = append(ids, entry.ElementID)
	}
	elements, err := h.Elements.GetByIDsTx(ctx, tx, ids)
	if err != nil {
		return bookingError(c, err)
	}

	plan, err := model.PlanFinalize(res.Lines, elements, req.Entries)
	if err != nil {
		return bookingError(c, err)
	}

	if res.RoomID != nil {
		room, err := h.Rooms.GetForUpdateTx(ctx, tx, *res.RoomID)
		if err != nil {
			return bookingError(c, err)
		}
		for _, credit := range plan.Credits {
			room.CreditElement(credit.ElementID, credit.Amount)
		}
		if res.HasSlot() {
			if err := room.Availability.Release(res.ReservedDay, res.ReservedHourBlock); err != nil {
				return bookingError(c, err)
			}
		}
		if err := h.Rooms.SaveAvailabilityTx(ctx, tx, room); err != nil {
			return bookingError(c, err)
		}
		if err := h.Rooms.SaveInventoryTx(ctx, tx, room); err != nil {
			return bookingError(c, err)
		}
	}

	reg := &model.Register{
		ReservationID: res.ID,
		Returned:      plan.Returned,
		Remaining:     plan.Remaining,
		AdminComment:  req.AdminComment,
	}
	if err := h.Registers.CreateTx(ctx, tx, reg); err != nil {
		return bookingError(c, err)
	}
	if err := h.Reservations.FinalizeTx(ctx, tx, res.ID, reg.ID); err != nil {
		return bookingError(c, err)
	}
	if err := h.Reservations.DeleteLinesTx(ctx, tx, res.ID); err != nil {
		return bookingError(c, err)
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	res.State = model.StateFinalized
	res.RegisterID = &reg.ID

	// Fire-and-forget: the register is already committed, losing the
	// event only costs the audit log line.
	ev := finalizedEvent(res, reg)
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue_publisher.PublishReservationFinalized(pubCtx, ev)
	}()

	return c.JSON(http.StatusCreated, reg)
}

func finalizedEvent(res *model.Reservation, reg *model.Register) queue.ReservationFinalizedEvent {
	var roomID uint64
	if res.RoomID != nil {
		roomID = *res.RoomID
	}
	return queue.ReservationFinalizedEvent{
		RegisterID:    reg.ID,
		ReservationID: res.ID,
		UserID:        res.UserID,
		RoomID:        roomID,
		Location:      res.Location,
		Day:           res.ReservedDay,
		HourBlock:     res.ReservedHourBlock,
		Returned:      eventLines(reg.Returned),
		Remaining:     eventLines(reg.Remaining),
		AdminComment:  reg.AdminComment,
		FinalizedAt:   time.Now().UTC().Format(time.RFC3339),
	}
}

func eventLines(lines []model.RegisterLine) []queue.RegisterLine {
	out := make([]queue.RegisterLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, queue.RegisterLine{Code: l.Code, Name: l.Name, Status: l.Status, Amount: l.Amount})
	}
	return out
}

// List handles GET /v1/admin/registers, newest first.
func (h *RegisterHandler) List(c echo.Context) error {
	out, err := h.Registers.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list registers failed"})
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/admin/registers/:id.
func (h *RegisterHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid register id"})
	}
	reg, err := h.Registers.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "register not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load register failed"})
	}
	return c.JSON(http.StatusOK, reg)
}
