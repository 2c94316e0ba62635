package afe4404

import (
	"testing"

	"periph.io/x/periph/conn/physic"
)

func TestOptions(t *testing.T) {
	o := &openOptions{bus: "1", addr: 0x58, clock: 4 * physic.MegaHertz}

	undo := []Option{
		OnBus("/dev/i2c-2")(o),
		OnAddr(0x59)(o),
		WithClock(24 * physic.MegaHertz)(o),
	}
	if o.bus != "/dev/i2c-2" || o.addr != 0x59 || o.clock != 24*physic.MegaHertz {
		t.Fatalf("options not applied: %+v", o)
	}

	for _, u := range undo {
		u(o)
	}
	if o.bus != "1" || o.addr != 0x58 || o.clock != 4*physic.MegaHertz {
		t.Errorf("options not reverted: %+v", o)
	}
}
