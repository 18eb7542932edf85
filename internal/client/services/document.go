package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/eclinic/internal/client/client"
	"github.com/dmitrijs2005/eclinic/internal/client/login"
	"github.com/dmitrijs2005/eclinic/internal/common"
)

// DocumentService reads authorization data from the users collection.
type DocumentService struct {
	client client.Client
}

func NewDocumentService(client client.Client) *DocumentService {
	return &DocumentService{client: client}
}

// GetAuthorizationRecord maps the user's document to an AuthorizationRecord.
// A missing document, a missing admin field or a non-bool admin field all
// read as a non-admin account.
func (s *DocumentService) GetAuthorizationRecord(ctx context.Context, userID string) (login.AuthorizationRecord, error) {
	doc, err := s.client.GetUserDocument(ctx, userID)
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			return login.AuthorizationRecord{UserID: userID}, nil
		}
		return login.AuthorizationRecord{}, err
	}

	isAdmin, _ := doc[common.AdminField].(bool)
	return login.AuthorizationRecord{UserID: userID, IsAdmin: isAdmin}, nil
}
