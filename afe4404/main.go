package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/cgxeiji/afe4404"
	"github.com/cgxeiji/afe4404/ppg"
)

func main() {
	path := flag.String("profile", "", "YAML profile (defaults to a three LEDs finger sensor)")
	bus := flag.String("bus", "", "I²C bus name, overrides the profile")
	flag.Parse()

	p := DefaultProfile()
	if *path != "" {
		var err error
		if p, err = Load(*path); err != nil {
			log.Fatal(err)
		}
	}
	if *bus != "" {
		p.Bus = *bus
	}

	mode, err := p.LEDMode()
	if err != nil {
		log.Fatal(err)
	}
	if p.Red < 1 || p.Red > mode.LEDs() || p.IR < 1 || p.IR > mode.LEDs() {
		log.Fatalf("red (%d) and ir (%d) must be LED channels of the %s mode", p.Red, p.IR, mode)
	}

	d, err := afe4404.Open(mode,
		afe4404.OnBus(p.Bus),
		afe4404.OnAddr(p.Address),
		afe4404.WithClock(p.Reference()),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer d.Close()

	if err := p.Apply(d); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("AFE4404 at %#x ready (%s)\n", d.Addr(), mode)

	w, err := d.Window()
	if err != nil {
		log.Fatal(err)
	}
	m := ppg.NewMonitor(0)
	every := max(1, int(time.Second/w.Period()))
	t := time.NewTicker(w.Period())
	defer t.Stop()

	var n int
	for now := range t.C {
		s, err := d.Read()
		if err != nil {
			log.Fatal(err)
		}
		m.Add(now, ppg.Normalize(s.LEDs[p.Red-1].Voltage), ppg.Normalize(s.LEDs[p.IR-1].Voltage))

		n++
		if n%every != 0 {
			continue
		}
		bpm, err := m.HeartRate()
		switch {
		case errors.Is(err, ppg.ErrNotDetected):
			fmt.Printf("\rplace a finger on the sensor      ")
			continue
		case err != nil:
			fmt.Printf("\rmeasuring...                      ")
			continue
		}
		spo2, err := m.SpO2()
		if err != nil {
			continue
		}
		fmt.Printf("\rhr = %3.0f bpm, SpO2 = %3.1f%%   ", bpm, spo2)
	}
}
