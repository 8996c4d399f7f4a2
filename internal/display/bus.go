package display

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// DefaultSpeed is the bus clock used for the panel.
const DefaultSpeed = 400 * physic.KiloHertz

// OpenBus loads the host drivers and opens the named I2C bus. An empty name
// selects the first bus found. speed <= 0 keeps the bus default.
func OpenBus(name string, speed physic.Frequency) (i2c.BusCloser, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host drivers: %w", err)
	}

	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", name, err)
	}

	if speed > 0 {
		if err := bus.SetSpeed(speed); err != nil {
			bus.Close()
			return nil, fmt.Errorf("set i2c speed %s: %w", speed, err)
		}
	}

	return bus, nil
}

// Open opens the bus and resets the panel on it. The returned display owns
// the bus and closes it on Close.
func Open(busName string, speed physic.Frequency, addr uint16) (*SSD1308, error) {
	bus, err := OpenBus(busName, speed)
	if err != nil {
		return nil, err
	}

	d, err := New(bus, addr)
	if err != nil {
		bus.Close()
		return nil, err
	}
	d.closer = bus
	return d, nil
}
