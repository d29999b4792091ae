package services

import (
	"context"

	"mandi-backend/internal/models"
)

// AuctionItemStore is the item persistence surface the service needs.
type AuctionItemStore interface {
	Create(ctx context.Context, item *models.AuctionItem) error
	GetForCommissioner(ctx context.Context, id, commissionerID int) (*models.AuctionItem, error)
	Update(ctx context.Context, item *models.AuctionItem) error
	Complete(ctx context.Context, id, buyerID int, rate float64) error
	Delete(ctx context.Context, id, sessionID int) error
}

// EntityChecker verifies that referenced farmers, buyers and products belong
// to the commissioner before they are attached to an item.
type EntityChecker interface {
	CheckFarmer(ctx context.Context, id, commissionerID int) error
	CheckBuyer(ctx context.Context, id, commissionerID int) error
	CheckProduct(ctx context.Context, id, commissionerID int) error
}

// AuctionItemService handles item lifecycle inside a session: draft entry,
// sale completion, and removal. Every mutation passes the session validator
// first.
type AuctionItemService struct {
	items    AuctionItemStore
	sessions *SessionService
	entities EntityChecker
}

func NewAuctionItemService(items AuctionItemStore, sessions *SessionService, entities EntityChecker) *AuctionItemService {
	return &AuctionItemService{items: items, sessions: sessions, entities: entities}
}

func (s *AuctionItemService) checkReferences(ctx context.Context, commissionerID, farmerID, productID int, buyerID *int) error {
	if err := s.entities.CheckFarmer(ctx, farmerID, commissionerID); err != nil {
		return err
	}
	if err := s.entities.CheckProduct(ctx, productID, commissionerID); err != nil {
		return err
	}
	if buyerID != nil {
		if err := s.entities.CheckBuyer(ctx, *buyerID, commissionerID); err != nil {
			return err
		}
	}
	return nil
}

// Create adds an item to a session. buyer_id and rate may arrive together at
// entry time or later via Complete; a partial pair is rejected by the handler
// DTO validation.
func (s *AuctionItemService) Create(ctx context.Context, sessionID, commissionerID int, req *models.CreateAuctionItemRequest) (*models.AuctionItem, error) {
	if _, err := s.sessions.ValidateSessionForOperation(ctx, sessionID, commissionerID, OpCreate); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, commissionerID, req.FarmerID, req.ProductID, req.BuyerID); err != nil {
		return nil, err
	}

	item := &models.AuctionItem{
		SessionID: sessionID,
		FarmerID:  req.FarmerID,
		ProductID: req.ProductID,
		BuyerID:   req.BuyerID,
		Unit:      req.Unit,
		Quantity:  req.Quantity,
		Rate:      req.Rate,
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *AuctionItemService) Get(ctx context.Context, id, commissionerID int) (*models.AuctionItem, error) {
	return s.items.GetForCommissioner(ctx, id, commissionerID)
}

func (s *AuctionItemService) Update(ctx context.Context, id, commissionerID int, req *models.UpdateAuctionItemRequest) (*models.AuctionItem, error) {
	item, err := s.items.GetForCommissioner(ctx, id, commissionerID)
	if err != nil {
		return nil, err
	}
	if _, err := s.sessions.ValidateSessionForOperation(ctx, item.SessionID, commissionerID, OpUpdate); err != nil {
		return nil, err
	}
	if _, err := s.sessions.ValidateAuctionItemForOperation(ctx, id, item.SessionID, OpUpdate); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, commissionerID, req.FarmerID, req.ProductID, req.BuyerID); err != nil {
		return nil, err
	}

	item.FarmerID = req.FarmerID
	item.ProductID = req.ProductID
	item.BuyerID = req.BuyerID
	item.Unit = req.Unit
	item.Quantity = req.Quantity
	item.Rate = req.Rate
	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Complete attaches the winning buyer and rate, moving the item to COMPLETED.
func (s *AuctionItemService) Complete(ctx context.Context, id, commissionerID int, req *models.CompleteAuctionItemRequest) (*models.AuctionItem, error) {
	item, err := s.items.GetForCommissioner(ctx, id, commissionerID)
	if err != nil {
		return nil, err
	}
	if _, err := s.sessions.ValidateSessionForOperation(ctx, item.SessionID, commissionerID, OpUpdate); err != nil {
		return nil, err
	}
	if _, err := s.sessions.ValidateAuctionItemForOperation(ctx, id, item.SessionID, OpUpdate); err != nil {
		return nil, err
	}
	if err := s.entities.CheckBuyer(ctx, req.BuyerID, commissionerID); err != nil {
		return nil, err
	}

	if err := s.items.Complete(ctx, id, req.BuyerID, req.Rate); err != nil {
		return nil, err
	}
	return s.items.GetForCommissioner(ctx, id, commissionerID)
}

func (s *AuctionItemService) Delete(ctx context.Context, id, commissionerID int) error {
	item, err := s.items.GetForCommissioner(ctx, id, commissionerID)
	if err != nil {
		return err
	}
	// Removing an item modifies the session, so the gate is CanModify.
	if _, err := s.sessions.ValidateSessionForOperation(ctx, item.SessionID, commissionerID, OpUpdate); err != nil {
		return err
	}
	if _, err := s.sessions.ValidateAuctionItemForOperation(ctx, id, item.SessionID, OpDelete); err != nil {
		return err
	}
	return s.items.Delete(ctx, id, item.SessionID)
}
