package controller

import (
	"errors"
	"net/http"

	"learnhub_portal/internal/i18n"
	"learnhub_portal/internal/identity"
	"learnhub_portal/internal/service"
	"learnhub_portal/internal/state"
	"learnhub_portal/internal/util"
	"learnhub_portal/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
)

const oauthStateKey = "state"

type AuthController struct {
	AuthService *service.AuthService
	AppService  *service.AppService
	Sessions    sessions.Store
	// where the browser lands after a federated sign-in
	AfterSignIn string
}

func NewAuthController(authService *service.AuthService, appService *service.AppService, store sessions.Store) *AuthController {
	return &AuthController{
		AuthService: authService,
		AppService:  appService,
		Sessions:    store,
		AfterSignIn: "/",
	}
}

// AuthViewRequest switches between the login and register forms.
// swagger:model AuthViewRequest
type AuthViewRequest struct {
	View string `json:"view" binding:"required,oneof=login register"`
}

// Login godoc
// @Summary Sign in with email and password
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body validation.LoginForm true "Credentials"
// @Success 200 {object} util.Response{data=object} "Signed in"
// @Failure 401 {object} util.Response "Invalid credentials"
// @Failure 422 {object} util.Response "Form errors"
// @Failure 429 {object} util.Response "Too many attempts"
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var form validation.LoginForm
	if err := ctx.ShouldBindJSON(&form); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	clientID := util.GetClientID(ctx)
	lang, ok := c.language(ctx, clientID)
	if !ok {
		return
	}

	id, err := c.AuthService.Login(ctx.Request.Context(), clientID, lang, &form)
	if err != nil {
		c.authError(ctx, err)
		return
	}
	c.respondWithState(ctx, http.StatusOK, gin.H{"identity": id})
}

// Register godoc
// @Summary Create a password account and sign in
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body validation.RegisterForm true "Registration form"
// @Success 201 {object} util.Response{data=object} "Created"
// @Failure 409 {object} util.Response "Email already in use"
// @Failure 422 {object} util.Response "Form errors"
// @Router /api/auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var form validation.RegisterForm
	if err := ctx.ShouldBindJSON(&form); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	clientID := util.GetClientID(ctx)
	lang, ok := c.language(ctx, clientID)
	if !ok {
		return
	}

	id, message, err := c.AuthService.Register(ctx.Request.Context(), clientID, lang, &form)
	if err != nil {
		c.authError(ctx, err)
		return
	}
	c.respondWithState(ctx, http.StatusCreated, gin.H{"identity": id, "message": message})
}

// GoogleLogin godoc
// @Summary Start a Google sign-in
// @Tags auth
// @Success 302 {string} string "Redirect to Google"
// @Failure 403 {object} util.Response "Google sign-in is not configured"
// @Router /api/auth/google [get]
func (c *AuthController) GoogleLogin(ctx *gin.Context) {
	clientID := util.GetClientID(ctx)
	lang, ok := c.language(ctx, clientID)
	if !ok {
		return
	}

	url, state, err := c.AuthService.GoogleAuthURL(clientID, lang)
	if err != nil {
		c.authError(ctx, err)
		return
	}

	session, _ := c.Sessions.Get(ctx.Request, util.OAuthSessionName)
	session.Values[oauthStateKey] = state
	session.Options.MaxAge = 600
	session.Options.HttpOnly = true
	if err := session.Save(ctx.Request, ctx.Writer); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	ctx.Redirect(http.StatusFound, url)
}

// GoogleCallback godoc
// @Summary Complete a Google sign-in
// @Tags auth
// @Param   state query string true "OAuth state"
// @Param   code query string true "Authorization code"
// @Success 302 {string} string "Redirect to the application"
// @Failure 401 {object} util.Response "Sign-in failed"
// @Router /api/auth/google/callback [get]
func (c *AuthController) GoogleCallback(ctx *gin.Context) {
	clientID := util.GetClientID(ctx)
	lang, ok := c.language(ctx, clientID)
	if !ok {
		return
	}

	state := ctx.Query("state")
	session, _ := c.Sessions.Get(ctx.Request, util.OAuthSessionName)
	expected, _ := session.Values[oauthStateKey].(string)
	delete(session.Values, oauthStateKey)
	session.Options.MaxAge = -1
	_ = session.Save(ctx.Request, ctx.Writer)

	if expected == "" || expected != state {
		// let the provider report the mismatch in the client's language
		state = ""
	}

	if _, err := c.AuthService.GoogleCallback(ctx.Request.Context(), clientID, lang, state, ctx.Query("code")); err != nil {
		c.authError(ctx, err)
		return
	}
	ctx.Redirect(http.StatusFound, c.AfterSignIn)
}

// Logout godoc
// @Summary Sign the client out
// @Tags auth
// @Produce  json
// @Success 200 {object} util.Response{data=state.AppState} "Signed out"
// @Router /api/auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	clientID := util.GetClientID(ctx)
	lang, ok := c.language(ctx, clientID)
	if !ok {
		return
	}
	if err := c.AuthService.Logout(ctx.Request.Context(), clientID, lang); err != nil {
		c.authError(ctx, err)
		return
	}
	c.respondWithState(ctx, http.StatusOK, nil)
}

// ShowAuthView godoc
// @Summary Switch between the login and register forms
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body AuthViewRequest true "Form to show"
// @Success 200 {object} util.Response{data=state.AppState}
// @Router /api/auth/view [post]
func (c *AuthController) ShowAuthView(ctx *gin.Context) {
	var req AuthViewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	st, err := c.AppService.ShowAuthView(ctx.Request.Context(), util.GetClientID(ctx), state.AuthView(req.View))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, st)
}

// language attaches the client and returns its language.
func (c *AuthController) language(ctx *gin.Context, clientID string) (i18n.Language, bool) {
	st, err := c.AppService.State(ctx.Request.Context(), clientID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return "", false
	}
	return st.Language, true
}

func (c *AuthController) respondWithState(ctx *gin.Context, status int, data gin.H) {
	st, err := c.AppService.State(ctx.Request.Context(), util.GetClientID(ctx))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if data == nil {
		data = gin.H{}
	}
	data["state"] = st
	ctx.JSON(status, util.Response{Code: status, Message: "success", Data: data})
}

func (c *AuthController) authError(ctx *gin.Context, err error) {
	var fields validation.FieldErrors
	if errors.As(err, &fields) {
		util.ValidationFailed(ctx, fields)
		return
	}

	var authErr *service.AuthError
	if !errors.As(err, &authErr) {
		util.LogInternalError(ctx, err)
		return
	}

	status := http.StatusUnauthorized
	switch authErr.Code {
	case identity.CodeEmailAlreadyInUse, identity.CodeAccountExists:
		status = http.StatusConflict
	case identity.CodeTooManyRequests:
		status = http.StatusTooManyRequests
	case identity.CodeOperationNotAllowed:
		status = http.StatusForbidden
	case identity.CodeInvalidEmail, identity.CodeWeakPassword:
		status = http.StatusUnprocessableEntity
	case identity.CodeInternal, i18n.UnknownErrorKey:
		status = http.StatusInternalServerError
	}
	util.ErrorWithData(ctx, status, authErr.Message, gin.H{"code": authErr.Code})
}
