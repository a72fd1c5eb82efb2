// Package model contains the domain types and pure operations of the
// recreation room booking core: the per-room availability grid, room
// inventory arithmetic, the reservation lifecycle and finalize
// validation. Nothing in this package touches the database; handlers
// load aggregates, call these operations and persist the result inside
// a single transaction.
package model

import "errors"

// Sentinel errors returned by domain operations. Handlers compare with
// errors.Is and translate them into HTTP responses; none of them is a
// crash condition.
var (
	// ErrInvalidSlot signals an unrecognized day or hour-block key.
	// Unknown keys are a hard validation error, never "unavailable".
	ErrInvalidSlot = errors.New("el día u horario no son válidos")

	// ErrAlreadyReserved is returned by Grid.Reserve when the cell is
	// already occupied. A repeated reserve is always an error, never a
	// silent no-op.
	ErrAlreadyReserved = errors.New("la sala ya está reservada en este horario")

	// ErrInvalidAvailability signals a grid payload that is not exactly
	// 8 rows of 6 cells with values in {0,1}.
	ErrInvalidAvailability = errors.New("formato de disponibilidad inválido: deben ser 8 filas de 6 celdas")

	// ErrElementNotInRoom signals a debit against an element the room
	// holds no inventory row for.
	ErrElementNotInRoom = errors.New("el elemento no pertenece al inventario de la sala")

	// ErrInsufficientInventory signals a debit larger than the amount
	// the room currently holds.
	ErrInsufficientInventory = errors.New("inventario insuficiente en la sala")

	// ErrInvalidElement signals a catalog element with an empty name or
	// a negative quantity.
	ErrInvalidElement = errors.New("elemento recreativo inválido")

	// ErrAlreadyFinalized is returned when finalizing a reservation that
	// is already in the terminal state.
	ErrAlreadyFinalized = errors.New("la reserva ya fue finalizada")

	// ErrDuplicateElement signals the same element appearing twice,
	// either in borrow lines or in a finalize return list.
	ErrDuplicateElement = errors.New("elemento duplicado en la solicitud")

	// ErrMissingElement signals a finalize call whose return list omits
	// an element that was borrowed.
	ErrMissingElement = errors.New("falta un elemento prestado en la devolución")

	// ErrAmountMismatch signals a finalize call whose returned total for
	// some element differs from the borrowed amount.
	ErrAmountMismatch = errors.New("la cantidad devuelta no coincide con la prestada")

	// ErrInvalidReturnStatus signals a return entry whose status is not
	// one of the three accepted values.
	ErrInvalidReturnStatus = errors.New("estado de devolución inválido")

	// ErrRoomNotFound and ErrReservationNotFound are raised by lookups
	// for identifiers that do not exist.
	ErrRoomNotFound        = errors.New("la sala no existe")
	ErrReservationNotFound = errors.New("la reserva no existe")

	// ErrReservationRegistered protects a reservation that already has a
	// register from deletion.
	ErrReservationRegistered = errors.New("la reserva ya tiene un registro asociado")
)
