package order_repo

import (
	"fmt"

	"PaymentIntake/internal/domain/order"

	"github.com/jackc/pgx/v5"
)

func parseOrderRows(rows pgx.Rows) ([]order.Order, error) {
	var orders []order.Order
	for rows.Next() {
		var o order.Order
		var raw []byte
		err := rows.Scan(
			&o.ID,
			&o.UserID,
			&o.ClientReferenceID,
			&o.SessionID,
			&o.PaymentIntentID,
			&o.Amount,
			&o.Currency,
			&o.Status,
			&raw,
			&o.CreatedAt,
			&o.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		o.Raw = raw

		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, nil
}
