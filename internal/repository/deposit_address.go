package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/forexpro/backend/internal/model"
)

var ErrDepositAddressNotFound = errors.New("deposit address not found")

func (r *Repository) GetDepositAddress(ctx context.Context, coin, network string) (*model.DepositAddress, error) {
	var addr model.DepositAddress
	err := r.db.GetContext(ctx, &addr,
		"SELECT * FROM deposit_addresses WHERE coin = $1 AND network = $2", coin, network)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDepositAddressNotFound
		}
		return nil, err
	}
	return &addr, nil
}

func (r *Repository) UpsertDepositAddress(ctx context.Context, addr *model.DepositAddress) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO deposit_addresses (coin, network, address, updated_at) VALUES ($1, $2, $3, NOW())
		ON CONFLICT (coin, network) DO UPDATE SET address = EXCLUDED.address, updated_at = NOW()
		RETURNING updated_at`,
		addr.Coin, addr.Network, addr.Address,
	).Scan(&addr.UpdatedAt)
}

func (r *Repository) ListDepositAddresses(ctx context.Context) ([]model.DepositAddress, error) {
	addrs := []model.DepositAddress{}
	err := r.db.SelectContext(ctx, &addrs, "SELECT * FROM deposit_addresses ORDER BY coin, network")
	return addrs, err
}
