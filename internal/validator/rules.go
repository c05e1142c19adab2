package validator

import (
	"log"

	"chatline_backend/internal/models/chat"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules installs the chat domain validation tags. A failed
// registration is a startup error.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-room-type", validateRoomType)
	mustRegister("is-delivery-status", validateDeliveryStatus)
	mustRegister("is-request-status", validateRequestStatus)
}

func validateRoomType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // empty is 'required's job
	}
	switch chat.RoomType(value) {
	case chat.RoomTypeDirect, chat.RoomTypeGroup:
		return true
	default:
		return false
	}
}

func validateDeliveryStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch chat.DeliveryStatus(value) {
	case chat.StatusSent, chat.StatusRead:
		return true
	default:
		return false
	}
}

func validateRequestStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch chat.RequestStatus(value) {
	case chat.RequestPending, chat.RequestAccepted, chat.RequestRejected:
		return true
	default:
		return false
	}
}
