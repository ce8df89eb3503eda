package handler

import (
	"time"

	"github.com/walletreg/accounts-api/internal/core/domain"
	"github.com/walletreg/accounts-api/internal/core/ports"
)

const (
	msgStored       = "Account stored successfully"
	msgSignedIn     = "Account verified successfully"
	msgExists       = "Account already exists"
	msgStoreFailed  = "Error storing account"
	msgListFailed   = "Error retrieving accounts"
	msgNonceFailed  = "Error issuing nonce"
	msgInvalidBody  = "Invalid request body"
	msgAuthFailed   = "Signature verification failed"
	msgNonceMissing = "Nonce expired or not issued"
)

func toRegisterInput(req registerAccountRequest, requestID string) ports.RegisterInput {
	return ports.RegisterInput{
		Address:    req.Address,
		User:       req.User,
		SignedData: req.SignedData,
		RequestID:  requestID,
	}
}

func toRegisterResponse(res *ports.RegisterResult) any {
	if res.Token == "" {
		return registerAccountResponse{Message: msgStored, ID: res.ID}
	}
	msg := msgStored
	if !res.Created {
		msg = msgSignedIn
	}
	return signedRegisterResponse{
		Message: msg,
		ID:      res.ID,
		Token:   res.Token,
		Created: res.Created,
	}
}

// toAccountItems never returns nil so the list always encodes as [].
func toAccountItems(summaries []ports.AccountSummary) []accountItem {
	items := make([]accountItem, len(summaries))
	for i, s := range summaries {
		items[i] = accountItem{ID: s.ID, Address: s.Address}
	}
	return items
}

func toNonceResponse(n *ports.NonceResult) nonceResponse {
	return nonceResponse{
		Address:   n.Address,
		Nonce:     n.Nonce,
		Message:   n.Message,
		ExpiresAt: n.ExpiresAt.UTC().Format(time.RFC3339),
	}
}

func toAccountResponse(a *domain.Account) accountResponse {
	return accountResponse{
		ID:        a.ID,
		Address:   a.Address,
		User:      a.User,
		Verified:  a.SignatureProof != nil,
		CreatedAt: a.CreatedAt.UTC().Format(time.RFC3339),
	}
}
