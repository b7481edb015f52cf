package favorites

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/lojinha-app/backend-lojinha/internal/db"
)

type Service struct {
	Q *db.Queries
}

// Toggle flips a favorite: removes it when present, adds it otherwise.
// Returns the resulting state.
func (s *Service) Toggle(ctx context.Context, userID, productID pgtype.UUID) (bool, error) {
	key := db.FavoriteKeyParams{UserID: userID, ProductID: productID}
	removed, err := s.Q.RemoveFavorite(ctx, key)
	if err != nil {
		return false, err
	}
	if removed > 0 {
		return false, nil
	}
	if err := s.Q.AddFavorite(ctx, key); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) List(ctx context.Context, userID pgtype.UUID) ([]db.FavoriteProduct, error) {
	return s.Q.ListFavorites(ctx, userID)
}

func (s *Service) Check(ctx context.Context, userID, productID pgtype.UUID) (bool, error) {
	return s.Q.CheckFavorite(ctx, db.FavoriteKeyParams{UserID: userID, ProductID: productID})
}
