package port

import "context"

type QuantityAdjuster interface {
	// AdjustQuantity atomically adds delta to the quantity stored at key.
	// An absent key is created with delta when delta > 0 and ignored otherwise.
	// A result <= 0 deletes the document. Returns the resulting quantity,
	// 0 when the document is absent afterwards.
	AdjustQuantity(ctx context.Context, collection, key string, delta int) (int, error)
}
