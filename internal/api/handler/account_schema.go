package handler

// registerAccountRequest is the body of POST /accounts. User and SignedData
// are sent together for a signed registration.
type registerAccountRequest struct {
	Address    string `json:"address" validate:"required,max=256"`
	User       string `json:"user,omitempty" validate:"max=256"`
	SignedData string `json:"signedData,omitempty" validate:"omitempty,max=1024"`
}

type registerAccountResponse struct {
	Message string `json:"message"`
	ID      string `json:"_id"`
}

type signedRegisterResponse struct {
	Message string `json:"message"`
	ID      string `json:"_id"`
	Token   string `json:"token"`
	Created bool   `json:"created"`
}

type accountItem struct {
	ID      string `json:"_id"`
	Address string `json:"address"`
}

type listAccountsResponse struct {
	Accounts []accountItem `json:"accounts"`
}

type nonceRequest struct {
	Address string `json:"address" validate:"required,max=256"`
}

type nonceResponse struct {
	Address   string `json:"address"`
	Nonce     string `json:"nonce"`
	Message   string `json:"message"`
	ExpiresAt string `json:"expires_at"`
}

type accountResponse struct {
	ID        string `json:"_id"`
	Address   string `json:"address"`
	User      string `json:"user,omitempty"`
	Verified  bool   `json:"verified"`
	CreatedAt string `json:"created_at"`
}

// messageResponse is the failure body of the account routes.
type messageResponse struct {
	Message string `json:"message"`
}
