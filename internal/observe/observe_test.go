package observe_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-session-client/internal/observe"
)

func TestSubscribeReceivesCurrentValue(t *testing.T) {
	value := observe.NewValue("initial")

	var seen []string
	cancel := value.Subscribe(func(v string) { seen = append(seen, v) })
	defer cancel()

	require.Equal(t, []string{"initial"}, seen)
}

func TestSetNotifiesSubscribers(t *testing.T) {
	value := observe.NewValue(0)

	var first, second []int
	cancelFirst := value.Subscribe(func(v int) { first = append(first, v) })
	defer cancelFirst()
	cancelSecond := value.Subscribe(func(v int) { second = append(second, v) })
	defer cancelSecond()

	value.Set(1)
	value.Set(2)

	require.Equal(t, []int{0, 1, 2}, first)
	require.Equal(t, []int{0, 1, 2}, second)
	require.Equal(t, 2, value.Get())
}

func TestCancelStopsDelivery(t *testing.T) {
	value := observe.NewValue(0)

	var seen []int
	cancel := value.Subscribe(func(v int) { seen = append(seen, v) })

	value.Set(1)
	cancel()
	cancel() // repeated cancel is a no-op
	value.Set(2)

	require.Equal(t, []int{0, 1}, seen)
}
