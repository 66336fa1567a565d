// Package checkoutevents defines the events the checkout wizard emits on the
// "checkout" topic for analytics and downstream automation.
package checkoutevents

import "fmt"

const TopicName = "checkout"

type CheckoutStarted struct {
	CheckoutUID string
}

func (e CheckoutStarted) GetEventTypeName() string {
	return TopicName + ".started"
}

func (e CheckoutStarted) GetAggregateName() string {
	return e.CheckoutUID
}

type OrderPlaced struct {
	CheckoutUID string
	OrderID     int
	Provider    string
}

func (e OrderPlaced) GetEventTypeName() string {
	return TopicName + ".orderPlaced"
}

func (e OrderPlaced) GetAggregateName() string {
	return fmt.Sprintf("%s.%d", e.CheckoutUID, e.OrderID)
}
