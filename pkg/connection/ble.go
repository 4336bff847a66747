package connection

import (
	"context"
	"fmt"
)

// BLEAdapter is a deliberately inert placeholder for the BLE protocol
// slot in Manager's type registry. BLE is described in terms of
// the Web Bluetooth API (navigator.bluetooth.requestDevice, GATT
// service/characteristic discovery, gattserverdisconnected), which is a
// browser capability with no server-side Go equivalent: this process has
// no attached Bluetooth radio and no page-visible device picker. Rather
// than fabricate a fake GATT client against nothing, BLEAdapter
// implements the Adapter interface so Manager's type registry stays
// uniform across all six protocols, transitions its state machine
// normally, and fails doConnect with ErrUnsupportedOnProto so callers get
// a clear, typed error instead of a silent no-op. A real deployment would
// register this protocol slot from a host-specific factory (a companion
// process with Bluetooth access, reached over the same connection-id
// abstraction) rather than from this package.
type BLEAdapter struct {
	*BaseAdapter
	deviceName string
}

// NewBLEAdapter creates the placeholder adapter for cfg. Params
// recognizes "deviceName" (string, cosmetic only).
func NewBLEAdapter(cfg Config) (*BLEAdapter, error) {
	name, _ := cfg.Params["deviceName"].(string)
	b := &BLEAdapter{deviceName: name}
	b.BaseAdapter = newBaseAdapter(cfg.ID, "ble", ReconnectPolicy{Enabled: false}, protocolHooks{
		doConnect:    b.doConnect,
		doDisconnect: b.doDisconnect,
		doSend:       b.doSend,
	})
	return b, nil
}

func (b *BLEAdapter) doConnect(ctx context.Context) error {
	return fmt.Errorf("%w: ble requires a host-specific adapter factory (device %q)", ErrUnsupportedOnProto, b.deviceName)
}

func (b *BLEAdapter) doDisconnect(ctx context.Context) error { return nil }

func (b *BLEAdapter) doSend(ctx context.Context, data any, opts SendOptions) error {
	return fmt.Errorf("%w: ble", ErrUnsupportedOnProto)
}
