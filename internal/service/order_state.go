package service

import (
	"strings"

	"bclick/internal/model"

	"github.com/google/uuid"
)

// Actor is the authenticated caller as resolved by the auth middleware.
type Actor struct {
	ID   uuid.UUID
	Role model.Role
}

type orderAction int

const (
	actionView orderAction = iota
	actionAdvance
	actionEdit
	actionDelete
)

// authorizeOrder is the single ownership gate for orders. The returned error
// never says which check failed.
func authorizeOrder(actor Actor, o *model.Order, action orderAction) error {
	var allowed bool
	switch actor.Role {
	case model.RoleAdmin:
		allowed = action == actionView
	case model.RoleClient:
		owns := o.ClientID == actor.ID
		allowed = owns && (action == actionView || action == actionEdit || action == actionDelete)
	case model.RoleSupplier:
		owns := o.SupplierID == actor.ID
		allowed = owns && (action == actionView || action == actionEdit || action == actionAdvance)
	default:
		allowed = false
	}
	if !allowed {
		return ErrForbidden
	}
	return nil
}

// checkTransition validates a status change against the lifecycle table.
func checkTransition(from, to model.OrderStatus, note string) error {
	if from.IsFinal() {
		return ErrOrderIsFinal
	}
	if !from.CanTransitionTo(to) {
		return ErrInvalidTransition
	}
	if to == model.OrderRejected && strings.TrimSpace(note) == "" {
		return ErrNoteRequired
	}
	return nil
}

func transitionNote(orderID, userID uuid.UUID, from, to model.OrderStatus, note string) *model.OrderNote {
	msg := strings.TrimSpace(note)
	if msg == "" {
		msg = "status changed to " + string(to)
	}
	return &model.OrderNote{
		OrderID:    orderID,
		Message:    msg,
		UserID:     userID,
		StatusFrom: &from,
		StatusTo:   &to,
	}
}
