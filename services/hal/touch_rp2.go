//go:build rp2040 || rp2350

package hal

import "machine"

// TouchPad samples the capacitive pad through an ADC channel. The electrode
// pulls the reading low while touched; the classifier owns the threshold.
// machine.InitADC must have run before NewTouchPad.
type TouchPad struct {
	adc machine.ADC
}

func NewTouchPad(pin machine.Pin) *TouchPad {
	adc := machine.ADC{Pin: pin}
	adc.Configure(machine.ADCConfig{})
	return &TouchPad{adc: adc}
}

func (t *TouchPad) Read() uint16 {
	// Top 12 bits carry signal on RP2 parts; keep the full 16-bit scale,
	// thresholds in config are expressed against it.
	return t.adc.Get()
}
