//go:build rp2040 || rp2350

package hal

import "machine"

// VsysBattery estimates pack voltage from the VSYS sense divider on ADC3.
// The divider is 1:3, reference 3.3 V, so full scale reads 9.9 V.
type VsysBattery struct {
	adc machine.ADC
}

func NewVsysBattery() *VsysBattery {
	adc := machine.ADC{Pin: machine.GP29}
	adc.Configure(machine.ADCConfig{})
	return &VsysBattery{adc: adc}
}

func (b *VsysBattery) ReadMilliVolts() uint16 {
	raw := uint32(b.adc.Get())
	return uint16(raw * 9900 / 65535)
}
