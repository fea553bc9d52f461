package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-marketplace/internal/httperr"
	"github.com/BruksfildServices01/booking-marketplace/internal/middleware"
	ucBooking "github.com/BruksfildServices01/booking-marketplace/internal/usecase/booking"
)

func actorFrom(c *gin.Context) ucBooking.Actor {
	return ucBooking.Actor{
		UserID: c.GetString(middleware.ContextUserID),
		Admin:  c.GetString(middleware.ContextUserRole) == middleware.RoleAdmin,
	}
}

// uuidParam reads :id. On failure it writes a 404 with notFound and
// returns false.
func uuidParam(c *gin.Context, notFound string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		spec := businessErrors[notFound]
		httperr.Write(c, spec.status, notFound, spec.message)
		return uuid.Nil, false
	}
	return id, true
}
