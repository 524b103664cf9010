package eventbus_test

import (
	"fmt"

	"github.com/plus3/skirmish/eventbus"
)

type KeyPressed struct {
	Key string
}

func Example() {
	bus := eventbus.New()

	eventbus.Subscribe(bus, func(ev *KeyPressed) {
		fmt.Println("pressed", ev.Key)
	})

	eventbus.Emit(bus, KeyPressed{Key: "space"})

	bus.Reset()
	eventbus.Emit(bus, KeyPressed{Key: "escape"})

	// Output:
	// pressed space
}
