package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHub_PublishReachesAllSubscribers(t *testing.T) {
	t.Parallel()

	hub := NewHub[int]()

	var a, b []int
	hub.Subscribe(func(v int) { a = append(a, v) })
	hub.Subscribe(func(v int) { b = append(b, v) })

	hub.Publish(1)
	hub.Publish(2)

	assert.Equal(t, []int{1, 2}, a)
	assert.Equal(t, []int{1, 2}, b)
}

func TestHub_CancelStopsDelivery(t *testing.T) {
	t.Parallel()

	hub := NewHub[string]()

	var got []string
	cancel := hub.Subscribe(func(v string) { got = append(got, v) })

	hub.Publish("one")
	cancel()
	cancel() // second cancel is a no-op
	hub.Publish("two")

	assert.Equal(t, []string{"one"}, got)
}

func TestHub_PublishWithoutSubscribers(t *testing.T) {
	t.Parallel()

	hub := NewHub[struct{}]()
	assert.NotPanics(t, func() { hub.Publish(struct{}{}) })
}
