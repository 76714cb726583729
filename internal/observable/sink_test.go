package observable

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSink_NoReplay(t *testing.T) {
	s := NewSink[error]()
	s.Publish(errors.New("before"))

	var seen []error
	s.Subscribe(func(err error) { seen = append(seen, err) })

	assert.Empty(t, seen)
}

func TestSink_DeliversInArrivalOrder(t *testing.T) {
	s := NewSink[int]()

	var seen []int
	s.Subscribe(func(n int) { seen = append(seen, n) })

	s.Publish(1)
	s.Publish(2)
	s.Publish(3)

	assert.Equal(t, []int{1, 2, 3}, seen)
}

func TestSink_PublishWithNoSubscribersIsDropped(t *testing.T) {
	s := NewSink[error]()

	// Must not panic or block.
	s.Publish(errors.New("dropped"))
}

func TestSink_Unsubscribe(t *testing.T) {
	s := NewSink[int]()

	count := 0
	stop := s.Subscribe(func(int) { count++ })

	s.Publish(1)
	stop()
	s.Publish(2)

	assert.Equal(t, 1, count)
}

func TestSink_MultipleSubscribersAllNotified(t *testing.T) {
	s := NewSink[int]()

	var a, b int
	s.Subscribe(func(n int) { a += n })
	s.Subscribe(func(n int) { b += n })

	s.Publish(5)

	assert.Equal(t, 5, a)
	assert.Equal(t, 5, b)
}
