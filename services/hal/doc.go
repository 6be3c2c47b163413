// Package hal holds the hardware adaptors behind the tracker loop's
// collaborator interfaces: NMEA ingest, the touch pad, the OLED renderer
// and the WiFi transports. Device implementations are build-tagged for
// rp2040/rp2350; the untagged fakes drive the same loop on a host.
package hal
