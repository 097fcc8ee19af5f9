package handler

import (
	"net/http"
	"strconv"

	"entrybase/internal/contract"
	"entrybase/internal/service"
	"entrybase/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type AdminService interface {
	GetAllEntries(opts service.ListOptions) (*contract.EntryPageResponse, apierror.ErrorResponse)
	DeleteEntry(entryID int64) apierror.ErrorResponse
	GetUsers() ([]*contract.UserResponse, apierror.ErrorResponse)
	UpdateRole(userID int64, role string) (*contract.UpdateRoleResponse, apierror.ErrorResponse)
	GetStats() (*contract.StatsResponse, apierror.ErrorResponse)
}

type DefaultAdminRoute struct {
	AdminService AdminService
}

func NewAdminDefault(adminService AdminService) *DefaultAdminRoute {
	return &DefaultAdminRoute{AdminService: adminService}
}

func (h *DefaultAdminRoute) GetAllEntries(c echo.Context) error {
	page, apierr := h.AdminService.GetAllEntries(parseListOptions(c))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *DefaultAdminRoute) DeleteEntry(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("id", "int64"))
	}

	apierr := h.AdminService.DeleteEntry(id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, &contract.MessageResponse{Message: "Entry deleted successfully by admin"})
}

func (h *DefaultAdminRoute) GetUsers(c echo.Context) error {
	users, apierr := h.AdminService.GetUsers()
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *DefaultAdminRoute) UpdateRole(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("id", "int64"))
	}

	var req contract.UpdateRoleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedJSONError)
	}

	resp, apierr := h.AdminService.UpdateRole(id, req.Role)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *DefaultAdminRoute) GetStats(c echo.Context) error {
	stats, apierr := h.AdminService.GetStats()
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, stats)
}
