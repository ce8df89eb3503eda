package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/walletreg/accounts-api/internal/core/domain"
	"github.com/walletreg/accounts-api/internal/core/ports"
)

// AccountHandler handles HTTP requests for account registration.
type AccountHandler struct {
	service ports.AccountService
	log     zerolog.Logger
}

func NewAccountHandler(service ports.AccountService, log zerolog.Logger) *AccountHandler {
	return &AccountHandler{service: service, log: log}
}

// Register handles POST /accounts.
//
// @Summary      Register a wallet address
// @Description  Stores the address once. When user and signedData are sent, the signature over the
// @Description  challenge from POST /accounts/nonce must recover to the address; a token is issued.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      registerAccountRequest  true  "Account to register"
// @Success      200   {object}  signedRegisterResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      409   {object}  messageResponse
// @Failure      429   {object}  map[string]string
// @Failure      500   {object}  messageResponse
// @Router       /accounts [post]
func (h *AccountHandler) Register(c echo.Context) error {
	var req registerAccountRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: msgInvalidBody})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: err.Error()})
	}

	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	result, err := h.service.Register(c.Request().Context(), toRegisterInput(req, requestID))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			return c.JSON(http.StatusBadRequest, messageResponse{Message: err.Error()})
		case errors.Is(err, domain.ErrAccountExists):
			return c.JSON(http.StatusConflict, messageResponse{Message: msgExists})
		case errors.Is(err, domain.ErrNonceNotFound):
			return c.JSON(http.StatusUnauthorized, messageResponse{Message: msgNonceMissing})
		case errors.Is(err, domain.ErrAuth):
			return c.JSON(http.StatusUnauthorized, messageResponse{Message: msgAuthFailed})
		}
		h.log.Error().Err(err).Str("request_id", requestID).Msg("register account failed")
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: msgStoreFailed})
	}

	return c.JSON(http.StatusOK, toRegisterResponse(result))
}

// List handles GET /accounts.
//
// @Summary      List registered accounts
// @Tags         accounts
// @Produce      json
// @Success      200  {object}  listAccountsResponse
// @Failure      500  {object}  messageResponse
// @Router       /accounts [get]
func (h *AccountHandler) List(c echo.Context) error {
	summaries, err := h.service.ListAccounts(c.Request().Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list accounts failed")
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: msgListFailed})
	}
	return c.JSON(http.StatusOK, listAccountsResponse{Accounts: toAccountItems(summaries)})
}

// Nonce handles POST /accounts/nonce.
//
// @Summary      Issue a sign-in challenge
// @Description  Returns the exact message the wallet must sign with personal_sign. Single use.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      nonceRequest  true  "Wallet address"
// @Success      200   {object}  nonceResponse
// @Failure      400   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /accounts/nonce [post]
func (h *AccountHandler) Nonce(c echo.Context) error {
	var req nonceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: msgInvalidBody})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: err.Error()})
	}

	n, err := h.service.IssueNonce(c.Request().Context(), req.Address)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return c.JSON(http.StatusBadRequest, messageResponse{Message: err.Error()})
		}
		h.log.Error().Err(err).Msg("issue nonce failed")
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: msgNonceFailed})
	}
	return c.JSON(http.StatusOK, toNonceResponse(n))
}

// Me handles GET /accounts/me. Errors go to the central error handler.
//
// @Summary      Get the account bound to the bearer token
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  accountResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /accounts/me [get]
func (h *AccountHandler) Me(c echo.Context) error {
	address, err := ctxAddress(c)
	if err != nil {
		return err
	}
	account, err := h.service.GetAccount(c.Request().Context(), address)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}
