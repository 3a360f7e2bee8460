package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/basket-backend/internal/domain"
	"github.com/DRSN-tech/basket-backend/pkg/e"
	"github.com/google/uuid"
)

// eventRecorder сериализует событие и пишет его в outbox в текущей транзакции.
type eventRecorder struct {
	outbox  OutboxRepository
	encoder EventEncoder
}

func (r *eventRecorder) record(ctx context.Context, typ OutboxEventType, aggregateID string, data map[string]any) error {
	const op = "eventRecorder.record"

	event := &DomainEvent{
		EventID:     uuid.NewString(),
		Type:        typ,
		AggregateID: aggregateID,
		OccurredAt:  time.Now().UTC(),
		Data:        data,
	}

	payload, err := r.encoder.Encode(event)
	if err != nil {
		return e.Wrap(op, err)
	}

	if _, err := r.outbox.Create(ctx, NewOutboxEvent(event, payload)); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

func pricesToEventData(prices domain.PriceMap) map[string]any {
	out := make(map[string]any, len(prices))
	for market, price := range prices {
		out[market] = price.String()
	}
	return out
}

func productEventData(p *domain.Product) map[string]any {
	return map[string]any{
		"id":           p.ID,
		"name":         p.Name,
		"category":     p.Category,
		"unit":         p.Unit,
		"prices":       pricesToEventData(p.Prices),
		"popularity":   p.Popularity,
		"rating":       p.Rating,
		"rating_count": p.RatingCount,
	}
}

func cartEventData(cart *domain.Cart) map[string]any {
	items := make([]any, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, map[string]any{
			"product_id": item.ProductID,
			"quantity":   int64(item.Quantity),
		})
	}

	return map[string]any{
		"cart_id": cart.ID,
		"user_id": cart.UserID,
		"name":    cart.Name,
		"items":   items,
		"totals":  pricesToEventData(cart.Totals()),
	}
}
