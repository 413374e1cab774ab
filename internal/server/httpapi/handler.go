package httpapi

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/nuliana/getapet/internal/common"
	"github.com/nuliana/getapet/internal/logging"
	"github.com/nuliana/getapet/internal/server/models"
	"github.com/nuliana/getapet/internal/server/services"
)

type handler struct {
	log      logging.Logger
	identity *services.IdentityService
}

func (h *handler) routes(e *echo.Echo) {
	users := e.Group("/users")
	users.POST("/register", h.handleRegister)
	users.POST("/login", h.handleLogin)
	users.GET("/checkuser", h.handleCheckUser)
	users.GET("/:id", h.handleGetByID)
	users.PATCH("/edit/:id", h.handleEdit)
}

type registerRequest struct {
	Name            string `json:"name" form:"name"`
	Email           string `json:"email" form:"email"`
	Phone           string `json:"phone" form:"phone"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirmpassword" form:"confirmpassword"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type authResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	UserID  string `json:"userId"`
}

type profileResponse struct {
	User *models.Account `json:"user"`
}

// per-endpoint client messages for business-rule failures; validation
// failures carry their own message
var (
	registerMessages = map[error]string{
		common.ErrEmailTaken:       services.MsgEmailTaken,
		common.ErrPasswordMismatch: services.MsgPasswordMismatch,
	}
	loginMessages = map[error]string{
		common.ErrAccountNotFound:    services.MsgNoAccountWithEmail,
		common.ErrInvalidCredentials: services.MsgWrongPassword,
	}
	profileMessages = map[error]string{
		common.ErrAccountNotFound: services.MsgAccountNotFound,
	}
	editMessages = map[error]string{
		common.ErrEmailTaken:       services.MsgEmailAlreadyRegistered,
		common.ErrPasswordMismatch: services.MsgPasswordMismatch,
		common.ErrAccountNotFound:  services.MsgAccountNotFound,
	}
)

func (h *handler) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, messageResponse{Message: services.MsgInternalError})
	}

	res, err := h.identity.Register(c.Request().Context(), services.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return h.fail(c, err, registerMessages)
	}

	return c.JSON(http.StatusCreated, authResponse{
		Message: services.MsgAuthenticated,
		Token:   res.Token,
		UserID:  res.AccountID,
	})
}

func (h *handler) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, messageResponse{Message: services.MsgInternalError})
	}

	res, err := h.identity.Login(c.Request().Context(), services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return h.fail(c, err, loginMessages)
	}

	return c.JSON(http.StatusOK, authResponse{
		Message: services.MsgAuthenticated,
		Token:   res.Token,
		UserID:  res.AccountID,
	})
}

func (h *handler) handleCheckUser(c echo.Context) error {
	account, err := h.identity.CurrentAccount(
		c.Request().Context(),
		c.Request().Header.Get(echo.HeaderAuthorization),
	)
	if err != nil {
		return h.fail(c, err, profileMessages)
	}

	// account is nil for anonymous callers; the body is a JSON null
	return c.JSON(http.StatusOK, account)
}

func (h *handler) handleGetByID(c echo.Context) error {
	account, err := h.identity.PublicProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err, profileMessages)
	}

	return c.JSON(http.StatusOK, profileResponse{User: account})
}

func (h *handler) handleEdit(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, messageResponse{Message: services.MsgInternalError})
	}

	// only the filename of an uploaded image travels further; storing the
	// bytes is the upload pipeline's job
	imageRef := ""
	if file, err := c.FormFile("image"); err == nil && file != nil {
		imageRef = filepath.Base(file.Filename)
	}

	err := h.identity.UpdateProfile(
		c.Request().Context(),
		c.Request().Header.Get(echo.HeaderAuthorization),
		c.Param("id"),
		services.ProfileUpdateInput{
			Name:            req.Name,
			Email:           req.Email,
			Phone:           req.Phone,
			Password:        req.Password,
			ConfirmPassword: req.ConfirmPassword,
			ImageRef:        imageRef,
		},
	)
	if err != nil {
		return h.fail(c, err, editMessages)
	}

	return c.JSON(http.StatusOK, messageResponse{Message: services.MsgProfileUpdated})
}

// fail converts a service error into the endpoint's HTTP response.
// Validation errors carry their own message; business-rule errors use the
// endpoint's message table; invalid tokens are an auth failure; everything
// else is reported generically, cause logged but not exposed.
func (h *handler) fail(c echo.Context, err error, messages map[error]string) error {
	var ve *common.ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusUnprocessableEntity, messageResponse{Message: ve.Message})
	}

	if errors.Is(err, common.ErrInvalidToken) {
		return c.JSON(http.StatusUnauthorized, messageResponse{Message: services.MsgAccessDenied})
	}

	for sentinel, msg := range messages {
		if errors.Is(err, sentinel) {
			return c.JSON(http.StatusUnprocessableEntity, messageResponse{Message: msg})
		}
	}

	h.log.Error(c.Request().Context(), "request failed",
		"method", c.Request().Method, "uri", c.Request().RequestURI, "error", err)
	return c.JSON(http.StatusInternalServerError, messageResponse{Message: services.MsgInternalError})
}
