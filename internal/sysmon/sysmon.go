// Package sysmon implements the host metric providers consumed by the
// status elements: CPU and memory via gopsutil, battery charge via the
// cross-platform battery library.
package sysmon

import (
	"errors"

	"github.com/distatus/battery"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Monitor samples host CPU and memory. The zero value is ready to use.
type Monitor struct{}

// New returns a Monitor.
func New() *Monitor { return &Monitor{} }

// CPUPercent returns usage averaged across all cores since the previous
// call, 0-100.
func (*Monitor) CPUPercent() (float64, error) {
	pcts, err := cpu.Percent(0, false)
	if err != nil {
		return 0, err
	}
	if len(pcts) == 0 {
		return 0, errors.New("no cpu readings")
	}
	return pcts[0], nil
}

// MemoryPercent returns used memory relative to available memory. The
// ratio can exceed 100 under memory pressure.
func (*Monitor) MemoryPercent() (float64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	if vm.Available == 0 {
		return 0, errors.New("no available memory reading")
	}
	return float64(vm.Used) / float64(vm.Available) * 100, nil
}

// Battery reads the state of charge of one host battery.
type Battery struct {
	idx int
}

// FindBattery returns a gauge for the first battery, or an error when the
// host has none.
func FindBattery() (*Battery, error) {
	if _, err := battery.Get(0); err != nil {
		return nil, err
	}
	return &Battery{idx: 0}, nil
}

// Percent returns the state of charge, 0-100.
func (b *Battery) Percent() (float64, error) {
	bat, err := battery.Get(b.idx)
	if err != nil {
		return 0, err
	}
	if bat.Full == 0 {
		return 0, errors.New("battery reports zero capacity")
	}
	return bat.Current / bat.Full * 100, nil
}
