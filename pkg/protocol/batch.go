package protocol

import (
	"io"
	"math"

	"github.com/duskpool/darkpool-go/internal/pool"
	"github.com/duskpool/darkpool-go/pkg/math/curve"
	"github.com/duskpool/darkpool-go/pkg/order"
)

// NewOrders builds a batch of orders in parallel on the given pool.
//
// The aggregate balance check runs first, before any commitment or proof
// work. The randomness source is wrapped in a locked reader since the
// workers sample salts, blindings and nonces concurrently.
func NewOrders(p *pool.Pool, rand io.Reader, trader string, secret *curve.Scalar, availableBalance uint64, paramsList []order.Params) ([]*order.Order, error) {
	var total uint64
	for _, params := range paramsList {
		if params.Amount > math.MaxUint64-total {
			return nil, order.ErrInsufficientBalance
		}
		total += params.Amount
	}
	if total > availableBalance {
		return nil, order.ErrInsufficientBalance
	}

	locked := pool.NewLockedReader(rand)
	results := p.Parallelize(len(paramsList), func(i int) interface{} {
		o, err := order.New(locked, paramsList[i], trader, secret, availableBalance)
		if err != nil {
			return err
		}
		return o
	})

	orders := make([]*order.Order, len(results))
	for i, r := range results {
		switch v := r.(type) {
		case error:
			return nil, v
		case *order.Order:
			orders[i] = v
		}
	}
	return orders, nil
}
