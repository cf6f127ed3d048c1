package services

import applog "novastock/internal/log"

// Topics published after a successful catalog mutation.
const (
	TopicProductCreated = "product.created"
	TopicProductUpdated = "product.updated"
	TopicProductDeleted = "product.deleted"
)

// Publisher is satisfied by EventBus.Bus.
type Publisher interface {
	Publish(topic string, args ...interface{})
}

type ProductEvent struct {
	Topic     string
	ProductID string
	Name      string
	Barcode   string
}

// Subscriber is satisfied by EventBus.Bus.
type Subscriber interface {
	Subscribe(topic string, fn interface{}) error
}

// SubscribeAudit writes an audit line for every catalog mutation.
func SubscribeAudit(bus Subscriber) error {
	for _, topic := range []string{TopicProductCreated, TopicProductUpdated, TopicProductDeleted} {
		if err := bus.Subscribe(topic, func(ev ProductEvent) {
			applog.Audit(nil, ev.Topic, map[string]any{"product": ev.ProductID, "name": ev.Name, "barcode": ev.Barcode})
		}); err != nil {
			return err
		}
	}
	return nil
}

func publish(p Publisher, topic string, id, name, barcode string) {
	if p == nil {
		return
	}
	p.Publish(topic, ProductEvent{Topic: topic, ProductID: id, Name: name, Barcode: barcode})
}
