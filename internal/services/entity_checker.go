package services

import (
	"context"

	"mandi-backend/internal/models"
)

// BuyerStore resolves buyers for reference checks.
type BuyerStore interface {
	Get(ctx context.Context, id, commissionerID int) (*models.Buyer, error)
}

// ProductStore resolves products for reference checks.
type ProductStore interface {
	Get(ctx context.Context, id, commissionerID int) (*models.Product, error)
}

// RepoEntityChecker implements EntityChecker over the entity repositories.
// A reference to another commissioner's record surfaces as NotFound, same as
// a nonexistent one.
type RepoEntityChecker struct {
	Farmers  FarmerStore
	Buyers   BuyerStore
	Products ProductStore
}

func (c *RepoEntityChecker) CheckFarmer(ctx context.Context, id, commissionerID int) error {
	_, err := c.Farmers.Get(ctx, id, commissionerID)
	return err
}

func (c *RepoEntityChecker) CheckBuyer(ctx context.Context, id, commissionerID int) error {
	_, err := c.Buyers.Get(ctx, id, commissionerID)
	return err
}

func (c *RepoEntityChecker) CheckProduct(ctx context.Context, id, commissionerID int) error {
	_, err := c.Products.Get(ctx, id, commissionerID)
	return err
}
