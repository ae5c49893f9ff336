package controller

import (
	"errors"
	"net/http"

	"learnhub_portal/internal/repository"
	"learnhub_portal/internal/service"
	"learnhub_portal/internal/util"
	"learnhub_portal/internal/view"

	"github.com/gin-gonic/gin"
)

type AppController struct {
	AppService    *service.AppService
	ScreenService *service.ScreenService
}

func NewAppController(appService *service.AppService, screenService *service.ScreenService) *AppController {
	return &AppController{AppService: appService, ScreenService: screenService}
}

// NavigateRequest selects the current view.
// swagger:model NavigateRequest
type NavigateRequest struct {
	View string `json:"view" binding:"required"`
}

// GetState godoc
// @Summary Current application state of the client
// @Tags app
// @Produce  json
// @Success 200 {object} util.Response{data=state.AppState}
// @Router /api/state [get]
func (c *AppController) GetState(ctx *gin.Context) {
	st, err := c.AppService.State(ctx.Request.Context(), util.GetClientID(ctx))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, st)
}

// Navigate godoc
// @Summary Switch the current view
// @Description Views outside the client's view set resolve to the set's default view.
// @Tags app
// @Accept  json
// @Produce  json
// @Param   body body NavigateRequest true "Target view"
// @Success 200 {object} util.Response{data=state.AppState}
// @Failure 401 {object} util.Response "Not signed in"
// @Router /api/navigate [post]
func (c *AppController) Navigate(ctx *gin.Context) {
	var req NavigateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	st, err := c.AppService.Navigate(ctx.Request.Context(), util.GetClientID(ctx), view.ID(req.View))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, st)
}

// ToggleLanguage godoc
// @Summary Switch between English and Bengali
// @Tags app
// @Produce  json
// @Success 200 {object} util.Response{data=state.AppState}
// @Router /api/language [post]
func (c *AppController) ToggleLanguage(ctx *gin.Context) {
	clientID := util.GetClientID(ctx)
	if _, err := c.AppService.State(ctx.Request.Context(), clientID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	st, err := c.AppService.ToggleLanguage(ctx.Request.Context(), clientID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, st)
}

// GetScreen godoc
// @Summary Render the current view
// @Tags app
// @Produce  json
// @Success 200 {object} util.Response{data=service.Screen}
// @Success 202 {object} util.Response "Session still resolving"
// @Failure 401 {object} util.Response "Not signed in"
// @Failure 409 {object} util.Response "View changed while rendering"
// @Router /api/screen [get]
func (c *AppController) GetScreen(ctx *gin.Context) {
	screen, err := c.ScreenService.Render(ctx.Request.Context(), util.GetClientID(ctx))
	if err != nil {
		screenError(ctx, err)
		return
	}
	util.Success(ctx, screen)
}

// GetCourse godoc
// @Summary Course detail with lessons and the client's progress
// @Tags app
// @Produce  json
// @Param   id path string true "Course id"
// @Success 200 {object} util.Response{data=service.CourseDetail}
// @Failure 403 {object} util.Response "Course not visible"
// @Failure 404 {object} util.Response "Unknown course"
// @Router /api/courses/{id} [get]
func (c *AppController) GetCourse(ctx *gin.Context) {
	detail, err := c.ScreenService.CourseDetail(ctx.Request.Context(), util.GetClientID(ctx), ctx.Param("id"))
	if err != nil {
		screenError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

func screenError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrSessionPending):
		util.Accepted(ctx, gin.H{"phase": "loading"})
	case errors.Is(err, util.ErrSignedOut):
		util.Unauthorized(ctx)
	case errors.Is(err, util.ErrStaleView):
		util.ErrorWithData(ctx, http.StatusConflict, err.Error(), gin.H{"code": "stale_view"})
	case errors.Is(err, util.ErrCourseNotVisible):
		util.Forbidden(ctx)
	case errors.Is(err, repository.ErrCourseNotFound):
		util.NotFound(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
