package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/eclinic/internal/common"
	"github.com/dmitrijs2005/eclinic/internal/server/repositories/documents"
)

type DocumentService struct {
	documents documents.Repository
}

func NewDocumentService(docs documents.Repository) *DocumentService {
	return &DocumentService{documents: docs}
}

// Get returns the document or common.ErrorNotFound.
func (s *DocumentService) Get(ctx context.Context, collection, id string) (map[string]any, error) {
	if collection == "" || id == "" {
		return nil, common.ErrorValidation
	}
	doc, err := s.documents.Get(ctx, collection, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error loading document: %w", err)
	}
	return doc, nil
}

// SetField writes one field, creating the document if needed.
func (s *DocumentService) SetField(ctx context.Context, collection, id, field string, value any) error {
	if collection == "" || id == "" || field == "" {
		return common.ErrorValidation
	}

	doc, err := s.documents.Get(ctx, collection, id)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("error loading document: %w", err)
		}
		doc = map[string]any{}
	}

	doc[field] = value
	if err := s.documents.Put(ctx, collection, id, doc); err != nil {
		return fmt.Errorf("error saving document: %w", err)
	}
	return nil
}

// SetAdmin marks or unmarks a user as administrator.
func (s *DocumentService) SetAdmin(ctx context.Context, userID string, admin bool) error {
	return s.SetField(ctx, common.UsersCollection, userID, common.AdminField, admin)
}
