package handler

import (
	"net/http"
	"strconv"

	"entrybase/internal/contract"
	"entrybase/internal/domain/entity"
	"entrybase/internal/service"
	"entrybase/internal/utils"
	"entrybase/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type EntryService interface {
	GetEntries(actor *entity.User, opts service.ListOptions) (*contract.EntryPageResponse, apierror.ErrorResponse)
	SearchEntries(actor *entity.User, term, rawTags string) (*contract.EntrySearchResponse, apierror.ErrorResponse)
	GetEntryByID(actor *entity.User, entryID int64) (*contract.EntryResponse, apierror.ErrorResponse)
	CreateEntry(actor *entity.User, req *contract.CreateEntryRequest) (*contract.EntryResponse, apierror.ErrorResponse)
	UpdateEntry(actor *entity.User, entryID int64, req *contract.UpdateEntryRequest) (*contract.EntryResponse, apierror.ErrorResponse)
	DeleteEntry(actor *entity.User, entryID int64) apierror.ErrorResponse
}

type DefaultEntryRoute struct {
	EntryService EntryService
}

func NewEntryDefault(entryService EntryService) *DefaultEntryRoute {
	return &DefaultEntryRoute{EntryService: entryService}
}

func (h *DefaultEntryRoute) GetEntries(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	page, apierr := h.EntryService.GetEntries(user, parseListOptions(c))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *DefaultEntryRoute) SearchEntries(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	result, apierr := h.EntryService.SearchEntries(user, c.QueryParam("q"), c.QueryParam("tags"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *DefaultEntryRoute) GetEntry(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("id", "int64"))
	}

	entry, apierr := h.EntryService.GetEntryByID(user, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, entry)
}

func (h *DefaultEntryRoute) CreateEntry(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.CreateEntryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedJSONError)
	}

	entry, apierr := h.EntryService.CreateEntry(user, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	return c.JSON(http.StatusCreated, &contract.EntryMessageResponse{
		Message: "Entry created successfully",
		Entry:   entry,
	})
}

func (h *DefaultEntryRoute) UpdateEntry(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("id", "int64"))
	}

	var req contract.UpdateEntryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedJSONError)
	}

	entry, apierr := h.EntryService.UpdateEntry(user, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	return c.JSON(http.StatusOK, &contract.EntryMessageResponse{
		Message: "Entry updated successfully",
		Entry:   entry,
	})
}

func (h *DefaultEntryRoute) DeleteEntry(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("id", "int64"))
	}

	apierr := h.EntryService.DeleteEntry(user, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, &contract.MessageResponse{Message: "Entry deleted successfully"})
}

// parseListOptions reads page/limit/sort leniently: anything non-numeric
// falls back to defaults downstream rather than erroring.
func parseListOptions(c echo.Context) service.ListOptions {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return service.ListOptions{
		Page:  page,
		Limit: limit,
		Sort:  c.QueryParam("sort"),
	}
}
