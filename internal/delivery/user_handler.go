package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"catalog_service/internal/dto"
	"catalog_service/internal/usecase"
)

type UserHandler struct {
	useCase usecase.UserUseCase
	log     *logrus.Logger
}

func NewUserHandler(uc usecase.UserUseCase, logger *logrus.Logger) *UserHandler {
	return &UserHandler{
		useCase: uc,
		log:     logger,
	}
}

// RegisterRoutes wires the user routes. Signup stays open; everything else
// requires a bearer token.
func (h *UserHandler) RegisterRoutes(router gin.IRouter, authRequired gin.HandlerFunc) {
	users := router.Group("/users")
	{
		users.POST("", h.CreateUser)
		users.GET("", authRequired, h.ListUsers)
		users.GET("/:id", authRequired, h.GetUserByID)
		users.PUT("/:id", authRequired, h.UpdateUser)
		users.DELETE("/:id", authRequired, h.DeleteUser)
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	spec, err := parsePageSpec(c)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.useCase.FindAllPaged(c.Request.Context(), spec)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve users: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Users retrieved successfully", newPagePayload(page))
}

func (h *UserHandler) GetUserByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	user, err := h.useCase.FindByID(c.Request.Context(), id)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve user: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "User retrieved successfully", user)
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var body dto.UserInsertDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		h.log.Errorf("Handler: Failed to bind JSON for create user: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	created, err := h.useCase.Insert(c.Request.Context(), body)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), "Failed to create user: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusCreated, "User created successfully", created)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	var body dto.UserDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		h.log.Errorf("Handler: Failed to bind JSON for update user ID %d: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	updated, err := h.useCase.Update(c.Request.Context(), id, body)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), "Failed to update user: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "User updated successfully", updated)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	if err := h.useCase.Delete(c.Request.Context(), id); err != nil {
		ErrorResponse(c, mapErrorToStatus(err), "Failed to delete user: "+err.Error())
		return
	}

	c.Status(http.StatusNoContent)
}
