package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lexibridge/lexibridge-backend/internal/http/response"
	"github.com/lexibridge/lexibridge-backend/internal/services"
)

type UserRoleHandler struct {
	roleService services.RoleService
}

func NewUserRoleHandler(roleService services.RoleService) *UserRoleHandler {
	return &UserRoleHandler{roleService: roleService}
}

func (rh *UserRoleHandler) List(c *gin.Context) {
	roles, err := rh.roleService.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"roles": roles})
}

func (rh *UserRoleHandler) Set(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req struct {
		Role string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := rh.roleService.SetRole(c.Request.Context(), userID, req.Role); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
