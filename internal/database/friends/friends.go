package friends

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/database"
	"github.com/SergeyKozhin/lent-tracker-backend/internal/model"
	"github.com/jackc/pgx/v4"
)

type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

type friendshipDTO struct {
	RequesterID int64
	AddresseeID int64
	Status      string
	CreatedAt   time.Time
}

func (*Repository) CreateRequest(ctx context.Context, q database.Queryable, requesterID, addresseeID int64) error {
	qb := database.PSQL.
		Insert(database.FriendshipsTable).
		Columns("requester_id", "addressee_id", "status").
		Values(requesterID, addresseeID, string(model.FriendshipPending)).
		Suffix("on conflict do nothing")

	tag, err := q.Exec(ctx, qb)
	if err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrAlreadyExists
	}

	return nil
}

// GetFriendship returns the row between a and b in either direction.
func (*Repository) GetFriendship(ctx context.Context, q database.Queryable, a, b int64) (*model.Friendship, error) {
	qb := database.PSQL.
		Select("requester_id", "addressee_id", "status", "created_at").
		From(database.FriendshipsTable).
		Where(sq.Or{
			sq.Eq{"requester_id": a, "addressee_id": b},
			sq.Eq{"requester_id": b, "addressee_id": a},
		}).
		Limit(1)

	dto := &friendshipDTO{}
	if err := q.Get(ctx, dto, qb); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNoRecord
		}
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	return &model.Friendship{
		RequesterID: dto.RequesterID,
		AddresseeID: dto.AddresseeID,
		Status:      model.FriendshipStatus(dto.Status),
		CreatedAt:   dto.CreatedAt,
	}, nil
}

func (*Repository) Accept(ctx context.Context, q database.Queryable, requesterID, addresseeID int64) error {
	qb := database.PSQL.
		Update(database.FriendshipsTable).
		Set("status", string(model.FriendshipAccepted)).
		Where(sq.Eq{
			"requester_id": requesterID,
			"addressee_id": addresseeID,
			"status":       string(model.FriendshipPending),
		})

	tag, err := q.Exec(ctx, qb)
	if err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrNoRecord
	}

	return nil
}

// Delete removes the friendship or pending request between a and b.
func (*Repository) Delete(ctx context.Context, q database.Queryable, a, b int64) error {
	qb := database.PSQL.
		Delete(database.FriendshipsTable).
		Where(sq.Or{
			sq.Eq{"requester_id": a, "addressee_id": b},
			sq.Eq{"requester_id": b, "addressee_id": a},
		})

	tag, err := q.Exec(ctx, qb)
	if err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrNoRecord
	}

	return nil
}

// GetFriendIDs returns the users with an accepted friendship with userID.
func (*Repository) GetFriendIDs(ctx context.Context, q database.Queryable, userID int64) ([]int64, error) {
	qb := database.PSQL.
		Select().
		Column(sq.Expr("case when requester_id = ? then addressee_id else requester_id end friend_id", userID)).
		From(database.FriendshipsTable).
		Where(sq.Eq{"status": string(model.FriendshipAccepted)}).
		Where(sq.Or{sq.Eq{"requester_id": userID}, sq.Eq{"addressee_id": userID}}).
		OrderBy("friend_id")

	var ids []int64
	if err := q.Select(ctx, &ids, qb); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	return ids, nil
}
